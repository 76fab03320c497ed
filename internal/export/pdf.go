package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"StrokeBoard/internal/render"

	"github.com/jung-kurt/gofpdf"
)

const baseImageName = "base"

// WritePDF writes a single page the size of the surface (1 unit = 1pt)
// with base stretched over it and lines drawn on top. base may be nil.
func WritePDF(w io.Writer, base image.Image, lines []Line, width, height int, lineWidth float64) error {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	if base != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, base); err != nil {
			return fmt.Errorf("encode base image: %w", err)
		}
		p.RegisterImageOptionsReader(baseImageName, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)
		p.ImageOptions(baseImageName, 0, 0, float64(width), float64(height), false,
			gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	p.SetLineWidth(lineWidth)
	p.SetLineCapStyle("round")
	alpha := 1.0
	for _, l := range lines {
		c, ok := render.ParseColor(l.Color)
		if !ok {
			c, _ = render.ParseColor(render.DefaultColor)
		}
		// Graphics states are only emitted when the opacity changes.
		if a := float64(c.A) / 255; a != alpha {
			p.SetAlpha(a, "Normal")
			alpha = a
		}
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.Line(l.X0, l.Y0, l.X1, l.Y1)
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
