package canvas

import (
	"errors"
	"image"
	"testing"

	"StrokeBoard/internal/export"
	"StrokeBoard/internal/render"
	"StrokeBoard/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	rebuilds []int // stroke count passed to each Rebuild
	drawn    []state.Segment
}

func (f *fakeSurface) Rebuild(_ image.Image, strokes []state.Stroke) {
	f.rebuilds = append(f.rebuilds, len(strokes))
}

func (f *fakeSurface) DrawSegment(seg state.Segment) {
	f.drawn = append(f.drawn, seg)
}

func baseImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 220, 240, 255
	}
	return img
}

// readyCanvas returns a mounted canvas with its image loaded.
func readyCanvas(t *testing.T, selection string) (*Canvas, *fakeSurface) {
	t.Helper()
	c := New(DefaultOptions(), selection, 0)
	s := &fakeSurface{}
	c.Attach(s)
	c.ImageLoaded(baseImage())
	require.Equal(t, PhaseReady, c.Phase())
	return c, s
}

func pt(x, y float64) state.Point { return state.Point{X: x, Y: y} }

// draw runs one stroke through down, moves with the button held, and up.
func draw(c *Canvas, points ...state.Point) {
	c.PointerDown(points[0])
	for _, p := range points[1 : len(points)-1] {
		c.PointerMove(p, 1)
	}
	c.PointerUp(points[len(points)-1])
}

func assertComplexityInvariant(t *testing.T, c *Canvas) {
	t.Helper()
	sum := 0
	for _, s := range c.Strokes() {
		sum += len(s.Segments)
	}
	assert.Equal(t, sum, c.Complexity())
}

func TestStrokeScenario(t *testing.T) {
	c, s := readyCanvas(t, "black")
	draws := 0
	c.OnDraw = func() { draws++ }

	draw(c, pt(10, 10), pt(40, 10), pt(40, 40))

	require.Equal(t, 1, c.HistoryLen())
	assert.Equal(t, 1, draws)
	assert.Equal(t, 2, c.Complexity())
	want := []state.Segment{
		{X0: 10, Y0: 10, X1: 40, Y1: 10, Color: "#000000"},
		{X0: 40, Y0: 10, X1: 40, Y1: 40, Color: "#000000"},
	}
	assert.Equal(t, want, c.Strokes()[0].Segments)
	assert.Equal(t, want, s.drawn, "each segment is drawn incrementally")
	assert.False(t, c.Painting())
	_, ok := c.LastPoint()
	assert.False(t, ok)
	assert.Equal(t, 0, c.CurrentLen())
}

func TestSamplingThrottle(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	c.PointerDown(pt(0, 0))

	c.PointerMove(pt(10, 9), 1)
	assert.Equal(t, 0, c.CurrentLen(), "distance 19 is discarded")

	c.PointerMove(pt(10, 10), 1)
	assert.Equal(t, 1, c.CurrentLen(), "distance 20 makes a segment")

	c.PointerMove(pt(15, 15), 1)
	assert.Equal(t, 1, c.CurrentLen())
	last, ok := c.LastPoint()
	require.True(t, ok)
	assert.Equal(t, pt(10, 10), last, "discarded samples do not move the last point")
}

func TestInvariantsDuringPainting(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	_, ok := c.LastPoint()
	assert.False(t, ok)

	c.PointerDown(pt(0, 0))
	assert.True(t, c.Painting())
	_, ok = c.LastPoint()
	assert.True(t, ok)

	c.PointerMove(pt(30, 0), 1)
	assert.Equal(t, 1, c.CurrentLen())
	assert.Equal(t, 0, c.HistoryLen(), "nothing is committed before release")

	c.PointerUp(pt(30, 30))
	assert.Equal(t, 0, c.CurrentLen())
	assert.False(t, c.Painting())
	assertComplexityInvariant(t, c)
}

func TestReleaseWithoutButtonsEndsStroke(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	c.PointerDown(pt(0, 0))
	c.PointerMove(pt(30, 0), 1)
	c.PointerMove(pt(30, 5), 0)

	assert.False(t, c.Painting())
	require.Equal(t, 1, c.HistoryLen())
	segs := c.Strokes()[0].Segments
	require.Len(t, segs, 2)
	assert.Equal(t, pt(30, 5), segs[1].To())
}

func TestUpWithoutDownCommitsNothing(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	draws := 0
	c.OnDraw = func() { draws++ }
	c.PointerUp(pt(5, 5))
	c.PointerMove(pt(50, 50), 1)
	assert.Equal(t, 0, c.HistoryLen())
	assert.Equal(t, 0, draws)
}

func TestClickMakesSingleSegmentStroke(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	c.PointerDown(pt(5, 5))
	c.PointerUp(pt(6, 5))
	require.Equal(t, 1, c.HistoryLen())
	assert.Equal(t, 1, c.Complexity())
}

func TestNoSelectionDrawsNothing(t *testing.T) {
	c, s := readyCanvas(t, "")
	draw(c, pt(0, 0), pt(50, 0), pt(50, 50))
	assert.Equal(t, 0, c.HistoryLen())
	assert.Empty(t, s.drawn)
	assert.False(t, c.Painting())
}

func TestPointerIgnoredWithoutSurface(t *testing.T) {
	c := New(DefaultOptions(), "red", 0)
	c.ImageLoaded(baseImage())
	draw(c, pt(0, 0), pt(50, 0), pt(50, 50))
	assert.False(t, c.Painting())
	assert.Equal(t, 0, c.HistoryLen())
}

func TestPointerIgnoredWhileLoading(t *testing.T) {
	c := New(DefaultOptions(), "red", 0)
	s := &fakeSurface{}
	c.Attach(s)
	assert.Equal(t, PhaseLoading, c.Phase())
	assert.Empty(t, s.rebuilds, "nothing is drawn before the image is loaded")

	draw(c, pt(0, 0), pt(50, 0), pt(50, 50))
	assert.Equal(t, 0, c.HistoryLen())
	assert.Empty(t, s.drawn)

	c.ImageFailed(errors.New("not cached"))
	assert.Equal(t, PhaseLoading, c.Phase())

	c.ImageLoaded(baseImage())
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, []int{0}, s.rebuilds, "the first draw shows the base image alone")
}

func TestMountDeliversThroughPost(t *testing.T) {
	opts := DefaultOptions()
	opts.ImageSrc = "memory://base"
	c := New(opts, "red", 0)
	c.Attach(&fakeSurface{})

	queue := make(chan func(), 1)
	var asked string
	c.Mount(LoaderFunc(func(src string) (image.Image, error) {
		asked = src
		return baseImage(), nil
	}), func(fn func()) { queue <- fn })

	fn := <-queue
	assert.Equal(t, PhaseLoading, c.Phase(), "the result waits for the event loop")
	fn()
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, "memory://base", asked)
}

func TestMountFailureStaysLoading(t *testing.T) {
	c := New(DefaultOptions(), "red", 0)
	c.Attach(&fakeSurface{})

	queue := make(chan func(), 1)
	c.Mount(LoaderFunc(func(string) (image.Image, error) {
		return nil, errors.New("boom")
	}), func(fn func()) { queue <- fn })
	(<-queue)()
	assert.Equal(t, PhaseLoading, c.Phase())
}

func TestClear(t *testing.T) {
	c, s := readyCanvas(t, "red")
	for i := 0; i < 3; i++ {
		draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	}
	require.Equal(t, 3, c.HistoryLen())

	c.Apply(1, CommandClear)
	assert.Equal(t, 0, c.HistoryLen())
	assert.Equal(t, 0, c.Complexity())
	assert.Equal(t, 0, s.rebuilds[len(s.rebuilds)-1], "clear rebuilds from the base image alone")
	assert.Empty(t, c.Export())
}

func TestUndoScenario(t *testing.T) {
	c, s := readyCanvas(t, "red")
	var restored []string
	c.OnUndo = func(col string) { restored = append(restored, col) }

	draw(c, pt(0, 0), pt(30, 0), pt(30, 30)) // A: 2 segments
	c.Apply(1, "blue")
	draw(c, pt(100, 100), pt(130, 100), pt(130, 130), pt(160, 130)) // B: 3 segments
	require.Equal(t, 5, c.Complexity())
	a := c.Strokes()[0]

	c.Apply(2, "green")
	c.Apply(3, CommandUndo)

	require.Equal(t, 1, c.HistoryLen())
	assert.Equal(t, a.ID, c.Strokes()[0].ID)
	assert.Equal(t, 2, c.Complexity())
	assert.Equal(t, []string{"#0000ff"}, restored)
	assert.Equal(t, "#0000ff", c.Selection(), "undo restores the popped stroke's color")
	assert.Equal(t, 1, s.rebuilds[len(s.rebuilds)-1])
	assertComplexityInvariant(t, c)
}

func TestUndoEmptyHistoryIsSilent(t *testing.T) {
	c, s := readyCanvas(t, "red")
	called := false
	c.OnUndo = func(string) { called = true }
	rebuilds := len(s.rebuilds)

	c.Apply(1, CommandUndo)
	assert.False(t, called)
	assert.Equal(t, rebuilds, len(s.rebuilds))
	assert.Equal(t, "red", c.Selection())
}

func TestUndoDecreasesHistoryByOne(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	for i := 0; i < 4; i++ {
		draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	}
	for want := 3; want >= 0; want-- {
		c.Apply(uint64(10+want), CommandUndo)
		assert.Equal(t, want, c.HistoryLen())
		assertComplexityInvariant(t, c)
	}
}

func TestExportScenario(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	var got [][]export.Line
	c.OnImageExport = func(lines []export.Line) { got = append(got, lines) }

	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	c.Apply(1, "blue")
	draw(c, pt(100, 100), pt(130, 100), pt(130, 130), pt(160, 130))

	c.Apply(2, CommandExport)
	c.Apply(3, CommandExport)

	require.Len(t, got, 2)
	assert.Equal(t, got[0], got[1], "export is idempotent")
	require.Len(t, got[0], 5)

	var want []export.Line
	for _, s := range c.Strokes() {
		want = append(want, s.Segments...)
	}
	assert.Equal(t, want, got[0])
	assert.Equal(t, "#ff0000", got[0][0].Color)
	assert.Equal(t, "#0000ff", got[0][4].Color)
	assert.Equal(t, 2, c.HistoryLen(), "export does not mutate history")
}

func TestApplyIsEdgeTriggered(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	undos := 0
	c.OnUndo = func(string) { undos++ }

	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))

	c.Apply(7, CommandUndo)
	c.Apply(7, CommandUndo) // same token: a re-render, not a new command
	assert.Equal(t, 1, undos)
	assert.Equal(t, 1, c.HistoryLen())

	c.Apply(0, "blue") // mount token was 0, but 7 was seen last
	assert.Equal(t, "blue", c.Selection())
}

func TestMountSelectionIsNotReplayed(t *testing.T) {
	c := New(DefaultOptions(), CommandExport, 5)
	exports := 0
	c.OnImageExport = func([]export.Line) { exports++ }
	c.Apply(5, CommandExport)
	assert.Equal(t, 0, exports)
}

func TestUnknownSelectionKeepsPreviousColor(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	c.Apply(1, "definitely-not-a-color")
	assert.Equal(t, "definitely-not-a-color", c.Selection())

	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	for _, seg := range c.Strokes()[0].Segments {
		assert.Equal(t, render.DefaultColor, seg.Color)
	}

	c.Apply(2, "rgb(0, 128, 0)")
	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	c.Apply(3, "bogus")
	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	assert.Equal(t, "#008000", c.Strokes()[1].FirstColor())
	assert.Equal(t, "#008000", c.Strokes()[2].FirstColor())
}

func TestComplexityWarning(t *testing.T) {
	opts := DefaultOptions()
	opts.ComplexityLimit = 3
	c := New(opts, "red", 0)
	c.Attach(&fakeSurface{})
	c.ImageLoaded(baseImage())

	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	_, over := c.Warning()
	assert.False(t, over)

	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	msg, over := c.Warning()
	assert.True(t, over)
	assert.Equal(t, "This drawing may be too complex to submit. (4)", msg)

	// Advisory only: drawing continues past the limit.
	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	assert.Equal(t, 6, c.Complexity())
}

func TestDefaultLimitIs500(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	c.PointerDown(pt(0, 0))
	for i := 1; i <= 500; i++ {
		c.PointerMove(pt(float64(i*20), 0), 1)
	}
	c.PointerUp(pt(10000, 0))
	assert.Equal(t, 501, c.Complexity())
	msg, over := c.Warning()
	assert.True(t, over)
	assert.Contains(t, msg, "(501)")
}

func TestUndoMatchesFullRender(t *testing.T) {
	opts := render.Options{Width: 96, Height: 96, LineWidth: 4}
	copts := DefaultOptions()
	copts.Width, copts.Height = opts.Width, opts.Height
	raster := render.NewRaster(opts)
	defer raster.Close()

	c := New(copts, "red", 0)
	c.Attach(raster)
	base := baseImage()
	c.ImageLoaded(base)

	c.Apply(1, "#ff0000")
	draw(c, pt(10, 10), pt(40, 10), pt(40, 40))
	c.Apply(2, "blue")
	draw(c, pt(60, 60), pt(90, 60), pt(90, 90))

	c.Apply(3, CommandUndo)
	want := render.Render(base, c.Strokes(), opts)
	assert.Equal(t, want.Pix, raster.Image().Pix)

	c.Apply(4, CommandClear)
	want = render.Render(base, nil, opts)
	assert.Equal(t, want.Pix, raster.Image().Pix)
}

func TestUnmountDropsSession(t *testing.T) {
	c, _ := readyCanvas(t, "red")
	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	c.Unmount()
	assert.Equal(t, 0, c.HistoryLen())
	assert.Equal(t, 0, c.Complexity())
	assert.Nil(t, c.Base())

	draw(c, pt(0, 0), pt(30, 0), pt(30, 30))
	assert.Equal(t, 0, c.HistoryLen(), "no surface after unmount")
}
