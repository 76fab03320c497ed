package export

import (
	"bufio"
	"fmt"
	"html"
	"io"

	"StrokeBoard/internal/render"
)

// WriteSVG writes lines as an SVG document of the given surface size,
// one <line> element per segment.
func WriteSVG(w io.Writer, lines []Line, width, height int, lineWidth float64) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(bw, `  <g fill="none" stroke-linecap="round" stroke-width="%g">`+"\n", lineWidth)
	for _, l := range lines {
		color := l.Color
		if c, ok := render.ParseColor(color); ok {
			color = render.Canonical(c)
		}
		fmt.Fprintf(bw, `    <line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s"/>`+"\n",
			l.X0, l.Y0, l.X1, l.Y1, html.EscapeString(color))
	}
	fmt.Fprintln(bw, "  </g>")
	fmt.Fprintln(bw, "</svg>")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}
