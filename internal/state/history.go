package state

// History is the stack of committed strokes. Only the most recent stroke
// is ever removed.
type History struct {
	strokes []Stroke
}

func NewHistory() *History {
	return &History{strokes: make([]Stroke, 0)}
}

// Push appends s. Empty strokes are refused and Push reports false.
func (h *History) Push(s Stroke) bool {
	if s.Empty() {
		return false
	}
	h.strokes = append(h.strokes, s)
	return true
}

// Pop removes and returns the most recent stroke.
func (h *History) Pop() (Stroke, bool) {
	if len(h.strokes) == 0 {
		return Stroke{}, false
	}
	last := h.strokes[len(h.strokes)-1]
	h.strokes[len(h.strokes)-1] = Stroke{}
	h.strokes = h.strokes[:len(h.strokes)-1]
	return last, true
}

func (h *History) Len() int { return len(h.strokes) }

// Strokes returns the committed strokes oldest first. The slice is a copy;
// the segments are shared and must be treated as read-only.
func (h *History) Strokes() []Stroke {
	out := make([]Stroke, len(h.strokes))
	copy(out, h.strokes)
	return out
}

func (h *History) Reset() {
	h.strokes = h.strokes[:0]
}

// Complexity is the total number of segments across all strokes.
func (h *History) Complexity() int {
	count := 0
	for _, s := range h.strokes {
		count += len(s.Segments)
	}
	return count
}
