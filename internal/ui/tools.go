package ui

import (
	"image/color"

	"StrokeBoard/internal/canvas"
	"StrokeBoard/internal/render"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Value    string
	Color    color.Color
	OnTapped func(string)
}

func newColorSwatch(value string, tapped func(string)) *colorSwatch {
	c, ok := render.ParseColor(value)
	if !ok {
		c, _ = render.ParseColor(render.DefaultColor)
	}
	s := &colorSwatch{Value: value, Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := fynecanvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := fynecanvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Value)
	}
}

// ToolbarActions are the outward actions that are not canvas commands.
type ToolbarActions struct {
	OnSave func()
}

// NewToolbar builds the palette and command bar for board.
func NewToolbar(board *BoardWidget, palette []string, actions ToolbarActions) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { board.Select(canvas.CommandUndo) }),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { board.Select(canvas.CommandClear) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.UploadIcon(), func() { board.Select(canvas.CommandExport) }),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			if actions.OnSave != nil {
				actions.OnSave()
			}
		}),
	)

	colorBox := container.NewHBox()
	for _, value := range palette {
		colorBox.Add(newColorSwatch(value, board.Select))
	}

	return container.NewHBox(
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		tb,
		layout.NewSpacer(),
	)
}
