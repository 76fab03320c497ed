// Package export turns recorded strokes into portable forms: the flat
// segment list sent with a submission, plus JSON, SVG, PDF and PNG files.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"StrokeBoard/internal/state"
)

// Line is one exported segment. It encodes as [x0, y0, x1, y1, "color"].
type Line = state.Segment

// Flatten concatenates the segments of strokes in commit order, keeping
// the order inside each stroke. It never modifies its input.
func Flatten(strokes []state.Stroke) []Line {
	n := 0
	for _, s := range strokes {
		n += len(s.Segments)
	}
	lines := make([]Line, 0, n)
	for _, s := range strokes {
		lines = append(lines, s.Segments...)
	}
	return lines
}

// WriteJSON writes lines as a JSON array of tuples.
func WriteJSON(w io.Writer, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lines); err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}
	return nil
}

// ReadJSON is the inverse of WriteJSON.
func ReadJSON(r io.Reader) ([]Line, error) {
	var lines []Line
	if err := json.NewDecoder(r).Decode(&lines); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	return lines, nil
}
