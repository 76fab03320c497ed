package export

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"StrokeBoard/internal/render"
	"StrokeBoard/internal/state"
)

// WritePNG rasterizes base and strokes and writes the result as PNG.
func WritePNG(w io.Writer, base image.Image, strokes []state.Stroke, opts render.Options) error {
	img := render.Render(base, strokes, opts)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
