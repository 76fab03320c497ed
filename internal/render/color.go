package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// DefaultColor is the stroke color used before any valid color was selected.
const DefaultColor = "#000000"

// ParseColor understands the color strings a 2D context accepts for its
// stroke style: #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba(), and the
// CSS color names.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return color.NRGBA{}, false
	case s == "transparent":
		return color.NRGBA{}, true
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseFunc(s)
	}

	c, ok := colornames.Map[s]
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
}

// Canonical renders c the way a 2D context reports its stroke style:
// #rrggbb when opaque, rgba(r, g, b, a) otherwise.
func Canonical(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, alphaString(c.A))
}

// alphaString prints a with the fewest decimals that still map back to
// the same 8-bit value, never more than three.
func alphaString(a uint8) string {
	v := float64(a) / 255
	for _, prec := range []float64{100, 1000} {
		r := math.Round(v*prec) / prec
		if uint8(r*255+0.5) == a || prec == 1000 {
			return strconv.FormatFloat(r, 'f', -1, 64)
		}
	}
	return ""
}

// Normalize parses s and returns its canonical form.
func Normalize(s string) (string, bool) {
	c, ok := ParseColor(s)
	if !ok {
		return "", false
	}
	return Canonical(c), true
}

func parseHex(h string) (color.NRGBA, bool) {
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return color.NRGBA{}, false
		}
	}

	nibble := func(i int) uint8 {
		v, _ := strconv.ParseUint(h[i:i+1], 16, 8)
		return uint8(v) * 17
	}
	byteAt := func(i int) uint8 {
		v, _ := strconv.ParseUint(h[i:i+2], 16, 8)
		return uint8(v)
	}

	switch len(h) {
	case 3:
		return color.NRGBA{R: nibble(0), G: nibble(1), B: nibble(2), A: 0xff}, true
	case 4:
		return color.NRGBA{R: nibble(0), G: nibble(1), B: nibble(2), A: nibble(3)}, true
	case 6:
		return color.NRGBA{R: byteAt(0), G: byteAt(2), B: byteAt(4), A: 0xff}, true
	case 8:
		return color.NRGBA{R: byteAt(0), G: byteAt(2), B: byteAt(4), A: byteAt(6)}, true
	}
	return color.NRGBA{}, false
}

func parseFunc(s string) (color.NRGBA, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end != len(s)-1 {
		return color.NRGBA{}, false
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, false
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		ch[i] = uint8(clamp(v, 0, 255) + 0.5)
	}

	alpha := uint8(0xff)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, false
		}
		alpha = uint8(clamp(a, 0, 1)*255 + 0.5)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, true
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
