// Package render rasterizes a base image and recorded strokes.
//
// There are two paths onto the same pixels: Rebuild replays the whole
// history over the base image and is used after undo and clear, while
// DrawSegment adds one segment during painting.
package render

import (
	"image"
	"image/draw"
	"log"

	"StrokeBoard/internal/state"

	"github.com/gogpu/gg"
)

type Options struct {
	Width     int
	Height    int
	LineWidth float64
}

func DefaultOptions() Options {
	return Options{Width: 684, Height: 684, LineWidth: 4}
}

// Raster is the visible drawing surface.
type Raster struct {
	opts    Options
	dc      *gg.Context
	base    image.Image
	baseBuf *gg.ImageBuf
}

func NewRaster(opts Options) *Raster {
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetLineWidth(opts.LineWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return &Raster{opts: opts, dc: dc}
}

func (r *Raster) Options() Options { return r.opts }

// Rebuild clears the surface, stretches base over it and replays every
// segment of strokes in order.
func (r *Raster) Rebuild(base image.Image, strokes []state.Stroke) {
	r.dc.Clear()
	r.drawBase(base)
	for _, s := range strokes {
		for _, seg := range s.Segments {
			r.DrawSegment(seg)
		}
	}
}

// DrawSegment strokes a single segment with its stored color.
func (r *Raster) DrawSegment(seg state.Segment) {
	c, ok := ParseColor(seg.Color)
	if !ok {
		c, _ = ParseColor(DefaultColor)
	}
	r.dc.SetColor(c)
	r.dc.MoveTo(seg.X0, seg.Y0)
	r.dc.LineTo(seg.X1, seg.Y1)
	if err := r.dc.Stroke(); err != nil {
		log.Printf("[RENDER] Stroke failed: %v", err)
	}
}

// Image returns a snapshot of the surface.
func (r *Raster) Image() *image.RGBA {
	img := r.dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

func (r *Raster) Close() error {
	return r.dc.Close()
}

func (r *Raster) drawBase(base image.Image) {
	if base == nil {
		return
	}
	if base != r.base || r.baseBuf == nil {
		r.base = base
		r.baseBuf = gg.ImageBufFromImage(base)
	}
	r.dc.DrawImageEx(r.baseBuf, gg.DrawImageOptions{
		DstWidth:      float64(r.opts.Width),
		DstHeight:     float64(r.opts.Height),
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})
}

// Render is the pure form of Rebuild: the same base and strokes always
// give the same pixels.
func Render(base image.Image, strokes []state.Stroke, opts Options) *image.RGBA {
	r := NewRaster(opts)
	defer r.Close()
	r.Rebuild(base, strokes)
	return r.Image()
}
