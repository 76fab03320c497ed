package state

import (
	"time"

	"github.com/google/uuid"
)

type Point struct{ X, Y float64 }

// Manhattan returns |dx| + |dy| between p and q.
func (p Point) Manhattan(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Segment is one straight piece of a stroke. Color is the effective
// color at draw time, already in canonical form.
type Segment struct {
	X0, Y0 float64
	X1, Y1 float64
	Color  string
}

func NewSegment(from, to Point, color string) Segment {
	return Segment{X0: from.X, Y0: from.Y, X1: to.X, Y1: to.Y, Color: color}
}

func (s Segment) From() Point { return Point{s.X0, s.Y0} }
func (s Segment) To() Point   { return Point{s.X1, s.Y1} }

// Stroke is everything drawn between one pointer-down and pointer-up.
type Stroke struct {
	ID       string
	Segments []Segment
	Time     time.Time
}

// NewStroke copies segs into a fresh stroke with a unique ID.
func NewStroke(segs []Segment, at time.Time) Stroke {
	cp := make([]Segment, len(segs))
	copy(cp, segs)
	return Stroke{
		ID:       uuid.NewString(),
		Segments: cp,
		Time:     at,
	}
}

func (s Stroke) Empty() bool { return len(s.Segments) == 0 }

// FirstColor is the color of the first segment, or "" for an empty stroke.
func (s Stroke) FirstColor() string {
	if s.Empty() {
		return ""
	}
	return s.Segments[0].Color
}
