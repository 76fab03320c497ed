package ui

import (
	"image/color"

	"StrokeBoard/internal/canvas"
	"StrokeBoard/internal/render"
	"StrokeBoard/internal/state"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const loadingText = "Please wait a few minutes before attempting to access the canvas."

// BoardWidget shows a stroke canvas and feeds it mouse input.
type BoardWidget struct {
	widget.BaseWidget
	board  *canvas.Canvas
	raster *render.Raster
	clock  *state.ActionClock

	// OnChange runs after anything that may alter the drawing.
	OnChange func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

// NewBoardWidget attaches raster to board as its draw context.
func NewBoardWidget(board *canvas.Canvas, raster *render.Raster, clock *state.ActionClock) *BoardWidget {
	b := &BoardWidget{board: board, raster: raster, clock: clock}
	board.Attach(raster)
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) Board() *canvas.Canvas { return b.board }

// Select issues a command or color to the canvas under a fresh action token.
func (b *BoardWidget) Select(selection string) {
	b.board.Apply(b.clock.Tick(), selection)
	b.changed()
}

func (b *BoardWidget) changed() {
	if b.OnChange != nil {
		b.OnChange()
	}
	b.Refresh()
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.board.PointerDown(toPoint(e.Position))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	before := b.board.HistoryLen()
	b.board.PointerUp(toPoint(e.Position))
	if b.board.HistoryLen() != before {
		b.changed()
	}
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if !b.board.Painting() {
		return
	}
	before, strokes := b.board.CurrentLen(), b.board.HistoryLen()
	b.board.PointerMove(toPoint(e.Position), int(e.Button))
	if b.board.CurrentLen() != before || b.board.HistoryLen() != strokes {
		b.changed()
	}
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}
func (b *BoardWidget) MouseOut()                   {}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	opts := b.board.Options()
	size := fyne.NewSize(float32(opts.Width), float32(opts.Height))

	r := &boardWidgetRenderer{board: b, size: size}

	r.image = fynecanvas.NewImageFromImage(b.raster.Image())
	r.image.FillMode = fynecanvas.ImageFillOriginal
	r.image.ScaleMode = fynecanvas.ImageScalePixels
	r.image.SetMinSize(size)

	r.warningText = widget.NewLabel("")
	r.warningText.Wrapping = fyne.TextWrapWord
	warningIcon := widget.NewIcon(theme.WarningIcon())
	r.warning = container.NewVBox(
		container.NewCenter(warningIcon),
		r.warningText,
	)

	r.background = fynecanvas.NewRectangle(color.Transparent)
	r.background.SetMinSize(size)
	r.loading = container.NewStack(r.background, container.NewCenter(
		widget.NewLabelWithStyle(loadingText, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
	))

	r.Refresh()
	return r
}

type boardWidgetRenderer struct {
	board       *BoardWidget
	size        fyne.Size
	image       *fynecanvas.Image
	warning     *fyne.Container
	warningText *widget.Label
	loading     *fyne.Container
	background  *fynecanvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.loading, r.image, r.warning}
}

func (r *boardWidgetRenderer) Refresh() {
	board := r.board.board
	if board.Phase() != canvas.PhaseReady {
		r.loading.Show()
		r.image.Hide()
		r.warning.Hide()
		return
	}

	r.loading.Hide()
	r.image.Image = r.board.raster.Image()
	r.image.Show()
	r.image.Refresh()

	if text, ok := board.Warning(); ok {
		r.warningText.SetText(text)
		r.warning.Show()
	} else {
		r.warning.Hide()
	}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.loading.Resize(size)
	r.image.Resize(r.size)
	r.image.Move(fyne.NewPos(0, 0))

	w := r.size.Width / 2
	r.warning.Resize(fyne.NewSize(w, r.warning.MinSize().Height))
	r.warning.Move(fyne.NewPos((r.size.Width-w)/2, 140))
}

func (r *boardWidgetRenderer) MinSize() fyne.Size { return r.size }

func (r *boardWidgetRenderer) Destroy() {}
