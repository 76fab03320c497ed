package state

import "fmt"

// DrawingArea is an axis-aligned rectangle on the surface.
type DrawingArea struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewDrawingArea(width, height float64) DrawingArea {
	return DrawingArea{Width: width, Height: height}
}

func (a DrawingArea) Empty() bool { return a.Width <= 0 || a.Height <= 0 }

func (a DrawingArea) Contains(p Point) bool {
	return p.X >= a.X && p.X <= a.X+a.Width &&
		p.Y >= a.Y && p.Y <= a.Y+a.Height
}

func (a DrawingArea) String() string {
	return fmt.Sprintf("%.0fx%.0f at (%.0f,%.0f)", a.Width, a.Height, a.X, a.Y)
}

// Bounds returns the bounding box of segs grown by padding on each side.
// It reports false when segs is empty.
func Bounds(segs []Segment, padding float64) (DrawingArea, bool) {
	if len(segs) == 0 {
		return DrawingArea{}, false
	}

	minX, minY := min(segs[0].X0, segs[0].X1), min(segs[0].Y0, segs[0].Y1)
	maxX, maxY := max(segs[0].X0, segs[0].X1), max(segs[0].Y0, segs[0].Y1)
	for _, s := range segs[1:] {
		minX = min(minX, s.X0, s.X1)
		minY = min(minY, s.Y0, s.Y1)
		maxX = max(maxX, s.X0, s.X1)
		maxY = max(maxY, s.Y0, s.Y1)
	}

	return DrawingArea{
		X:      minX - padding,
		Y:      minY - padding,
		Width:  maxX - minX + 2*padding,
		Height: maxY - minY + 2*padding,
	}, true
}

// Within reports whether every endpoint of segs lies inside area.
func Within(segs []Segment, area DrawingArea) bool {
	for _, s := range segs {
		if !area.Contains(s.From()) || !area.Contains(s.To()) {
			return false
		}
	}
	return true
}
