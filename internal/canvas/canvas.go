// Package canvas implements the stroke canvas: a painting surface that
// records strokes as segments, keeps an undo history, tracks drawing
// complexity and exports the recorded segments.
//
// A Canvas is owned by one event loop. Pointer events, commands and the
// image-load callbacks must all be delivered from that loop.
package canvas

import (
	"fmt"
	"image"
	"log"
	"time"

	"StrokeBoard/internal/export"
	"StrokeBoard/internal/render"
	"StrokeBoard/internal/state"
)

// Commands recognised by Apply. Any other selection is a color.
const (
	CommandClear  = "clear"
	CommandUndo   = "undo"
	CommandExport = "export"
)

// Surface is the draw context the canvas paints on.
type Surface interface {
	Rebuild(base image.Image, strokes []state.Stroke)
	DrawSegment(seg state.Segment)
}

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "loading"
}

type Options struct {
	ImageSrc        string
	Width           int
	Height          int
	SampleDistance  float64
	ComplexityLimit int
}

func DefaultOptions() Options {
	return Options{
		Width:           684,
		Height:          684,
		SampleDistance:  20,
		ComplexityLimit: 500,
	}
}

type Canvas struct {
	opts    Options
	surface Surface
	base    image.Image
	phase   Phase
	history *state.History

	selection string // active color or last command
	effective string // canonical color applied to new segments
	gate      state.ActionGate

	painting bool
	last     *state.Point
	current  []state.Segment

	complexity int

	OnDraw        func()
	OnUndo        func(restored string)
	OnImageExport func(lines []export.Line)
}

// New creates a canvas in the loading phase. selection and token are the
// values present at mount time.
func New(opts Options, selection string, token uint64) *Canvas {
	c := &Canvas{
		opts:      opts,
		phase:     PhaseLoading,
		history:   state.NewHistory(),
		effective: render.DefaultColor,
		gate:      state.NewActionGate(token),
	}
	c.selectColor(selection)
	return c
}

// Attach sets the draw context. Until a surface is attached the pointer
// handlers do nothing.
func (c *Canvas) Attach(s Surface) {
	c.surface = s
	if c.drawable() {
		c.surface.Rebuild(c.base, c.history.Strokes())
	}
}

// Mount starts loading the base image with loader. The outcome is handed
// to post, which must run it on the canvas's event loop.
func (c *Canvas) Mount(loader Loader, post func(func())) {
	src := c.opts.ImageSrc
	go func() {
		img, err := loader.Load(src)
		post(func() {
			if err != nil {
				c.ImageFailed(err)
				return
			}
			c.ImageLoaded(img)
		})
	}()
}

// ImageLoaded is the success callback of the base image load.
func (c *Canvas) ImageLoaded(img image.Image) {
	if c.phase == PhaseReady {
		return
	}
	c.base = img
	c.phase = PhaseReady
	log.Printf("[CANVAS] Base image ready (%s)", c.opts.ImageSrc)
	if c.drawable() {
		c.surface.Rebuild(c.base, c.history.Strokes())
	}
}

// ImageFailed is the failure callback. The canvas stays in the loading
// phase; there is no retry.
func (c *Canvas) ImageFailed(err error) {
	log.Printf("[CANVAS] Base image %q failed to load: %v", c.opts.ImageSrc, err)
}

// Unmount detaches the surface and drops the session.
func (c *Canvas) Unmount() {
	c.surface = nil
	c.base = nil
	c.history.Reset()
	c.current = nil
	c.painting = false
	c.last = nil
	c.complexity = 0
}

func (c *Canvas) drawable() bool {
	return c.surface != nil && c.phase == PhaseReady
}

// PointerDown starts a stroke at p.
func (c *Canvas) PointerDown(p state.Point) {
	if !c.drawable() {
		return
	}
	c.painting = true
	c.current = c.current[:0]
	c.last = &p
}

// PointerMove extends the stroke to p. buttons is the pressed-button mask;
// zero means the button was released outside the surface.
func (c *Canvas) PointerMove(p state.Point, buttons int) {
	if !c.painting || c.selection == "" {
		return
	}
	if buttons == 0 {
		c.PointerUp(p)
		return
	}
	if !c.drawable() || c.last == nil {
		return
	}
	if c.last.Manhattan(p) < c.opts.SampleDistance {
		return
	}
	c.addSegment(p)
}

// PointerUp closes the stroke at p and commits it.
func (c *Canvas) PointerUp(p state.Point) {
	if !c.drawable() {
		return
	}
	if c.painting && c.last != nil && c.selection != "" {
		c.addSegment(p)
	}

	c.painting = false
	c.last = nil

	if len(c.current) == 0 {
		return
	}

	stroke := state.NewStroke(c.current, time.Now())
	c.history.Push(stroke)
	c.current = c.current[:0]
	c.complexity = c.history.Complexity()

	if c.OnDraw != nil {
		c.OnDraw()
	}
}

func (c *Canvas) addSegment(p state.Point) {
	seg := state.NewSegment(*c.last, p, c.strokeColor())
	c.current = append(c.current, seg)
	c.surface.DrawSegment(seg)
	c.last = &p
}

// strokeColor resolves the active selection. An unparseable selection
// leaves the previous color in effect.
func (c *Canvas) strokeColor() string {
	if col, ok := render.Normalize(c.selection); ok {
		c.effective = col
	}
	return c.effective
}

// Apply runs selection when token differs from the last token seen.
func (c *Canvas) Apply(token uint64, selection string) {
	if !c.gate.Changed(token) {
		return
	}

	switch selection {
	case CommandClear:
		c.clear()
	case CommandUndo:
		c.undo()
	case CommandExport:
		c.export()
	default:
		c.selectColor(selection)
	}
}

func (c *Canvas) clear() {
	c.history.Reset()
	c.complexity = 0
	if c.drawable() {
		c.surface.Rebuild(c.base, nil)
	}
	log.Println("[CANVAS] Cleared")
}

func (c *Canvas) undo() {
	stroke, ok := c.history.Pop()
	if !ok {
		return
	}
	restored := stroke.FirstColor()

	if c.drawable() {
		c.surface.Rebuild(c.base, c.history.Strokes())
	}
	c.complexity = c.history.Complexity()
	c.selectColor(restored)

	if c.OnUndo != nil {
		c.OnUndo(restored)
	}
}

func (c *Canvas) export() {
	lines := c.Export()
	log.Printf("[CANVAS] Exporting %d lines", len(lines))
	if c.OnImageExport != nil {
		c.OnImageExport(lines)
	}
}

func (c *Canvas) selectColor(selection string) {
	c.selection = selection
}

// Export flattens the history without changing it.
func (c *Canvas) Export() []export.Line {
	return export.Flatten(c.history.Strokes())
}

// Warning returns the complexity warning text when the drawing is over
// the limit. The warning is advisory; input keeps working.
func (c *Canvas) Warning() (string, bool) {
	if c.complexity <= c.opts.ComplexityLimit {
		return "", false
	}
	return fmt.Sprintf("This drawing may be too complex to submit. (%d)", c.complexity), true
}

func (c *Canvas) Phase() Phase            { return c.phase }
func (c *Canvas) Painting() bool          { return c.painting }
func (c *Canvas) Complexity() int         { return c.complexity }
func (c *Canvas) Selection() string       { return c.selection }
func (c *Canvas) Strokes() []state.Stroke { return c.history.Strokes() }
func (c *Canvas) HistoryLen() int         { return c.history.Len() }
func (c *Canvas) Base() image.Image       { return c.base }
func (c *Canvas) Options() Options        { return c.opts }
func (c *Canvas) CurrentLen() int         { return len(c.current) }

// LastPoint returns the last recorded point of the stroke in progress.
func (c *Canvas) LastPoint() (state.Point, bool) {
	if c.last == nil {
		return state.Point{}, false
	}
	return *c.last, true
}
