package ui

import (
	"fmt"
	"io"
	"log"
	"strings"

	"StrokeBoard/internal/canvas"
	"StrokeBoard/internal/export"
	"StrokeBoard/internal/render"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

// WriteDrawing writes the board's drawing in the format named by ext
// (".pdf", ".svg", ".png" or ".json").
func WriteDrawing(w io.Writer, ext string, board *canvas.Canvas, opts render.Options) error {
	lines := board.Export()
	switch strings.ToLower(ext) {
	case ".pdf":
		return export.WritePDF(w, board.Base(), lines, opts.Width, opts.Height, opts.LineWidth)
	case ".svg":
		return export.WriteSVG(w, lines, opts.Width, opts.Height, opts.LineWidth)
	case ".png":
		return export.WritePNG(w, board.Base(), board.Strokes(), opts)
	case ".json", "":
		return export.WriteJSON(w, lines)
	}
	return fmt.Errorf("unsupported export format %q", ext)
}

// showSaveDialog asks for a destination and saves the drawing there.
func showSaveDialog(win fyne.Window, board *canvas.Canvas, opts render.Options, status func(string)) {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[EXPORT] Error closing writer: %v", err)
			}
		}()

		ext := writer.URI().Extension()
		if err := WriteDrawing(writer, ext, board, opts); err != nil {
			log.Printf("[EXPORT] Save failed: %v", err)
			status("Error saving drawing")
			return
		}
		status(fmt.Sprintf("Saved %d lines to %s", len(board.Export()), writer.URI().Name()))
	}, win)
}
