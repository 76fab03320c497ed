package ui

import (
	"log"

	"StrokeBoard/internal/canvas"
	"StrokeBoard/internal/config"
	"StrokeBoard/internal/render"
	"StrokeBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// App is the drawing window: the board, its toolbar, a status bar and,
// when research data is available, the memories panel.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	board   *BoardWidget
	status  *widget.Label
}

// NewApp builds the window around board. The image load starts when
// the window is shown.
func NewApp(title string, cfg config.Config, board *canvas.Canvas, clock *state.ActionClock, memories *Memories) *App {
	a := &App{
		fyneApp: app.New(),
		status:  widget.NewLabel("Ready"),
	}
	a.window = a.fyneApp.NewWindow(title)
	a.window.Resize(fyne.NewSize(1100, 800))

	opts := cfg.RenderOptions()
	raster := render.NewRaster(opts)
	a.board = NewBoardWidget(board, raster, clock)

	toolbar := NewToolbar(a.board, cfg.Canvas.Palette, ToolbarActions{
		OnSave: func() { showSaveDialog(a.window, board, opts, a.SetStatus) },
	})

	var content fyne.CanvasObject = container.NewBorder(toolbar, a.status, nil, nil,
		container.NewCenter(a.board))
	if memories != nil {
		split := container.NewHSplit(content, NewMemoriesPanel(memories))
		split.Offset = 0.68
		content = split
	}
	a.window.SetContent(content)

	board.Mount(canvas.LoaderFor(cfg.Canvas.ImageSrc), func(fn func()) {
		fyne.Do(func() {
			fn()
			a.board.Refresh()
		})
	})
	return a
}

func (a *App) Board() *BoardWidget { return a.board }

// SetStatus updates the status bar. It is safe to call from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() {
		a.status.SetText(text)
	})
}

// Do runs fn on the UI goroutine, where the canvas lives.
func (a *App) Do(fn func()) {
	fyne.Do(fn)
}

func (a *App) Run() {
	a.window.ShowAndRun()
	a.board.Board().Unmount()
	if err := a.board.raster.Close(); err != nil {
		log.Printf("[RENDER] Closing raster: %v", err)
	}
}
