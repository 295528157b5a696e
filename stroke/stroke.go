// Implements the in-memory model of a freehand drawing:
// points, strokes and the store owning the committed strokes
// and the stroke being drawn.
package stroke

import (
	"fmt"
	"math"
)

// Point is a canvas position, in canvas units.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Sub returns p - q
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist2 returns the squared euclidean distance between p and q.
func (p Point) Dist2(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Sqrt(p.Dist2(q)) }

// lerp returns the point at parameter t on the segment [p, q]
func (p Point) lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Style tags a stroke. Only Ink exists for now: erasing
// removes geometry and never produces a styled segment.
type Style uint8

const (
	Ink Style = iota
)

func (s Style) String() string {
	switch s {
	case Ink:
		return "ink"
	default:
		return "<unknown Style>"
	}
}

// Stroke is one continuous pointer drag. The order of Points
// is the drawing order, which defines the direction used when
// re-sampling and writing path commands.
type Stroke struct {
	Points []Point
	Style  Style
}

// New returns an ink stroke holding a copy of points.
func New(points ...Point) Stroke {
	return Stroke{Points: append([]Point(nil), points...)}
}

// Empty returns true if the stroke has no point.
func (s Stroke) Empty() bool { return len(s.Points) == 0 }

// Clone returns a deep copy of s.
func (s Stroke) Clone() Stroke {
	return Stroke{Points: append([]Point(nil), s.Points...), Style: s.Style}
}

// Start returns the first point. The stroke must not be empty.
func (s Stroke) Start() Point { return s.Points[0] }

// End returns the last point. The stroke must not be empty.
func (s Stroke) End() Point { return s.Points[len(s.Points)-1] }

// Length returns the length of the polyline.
func (s Stroke) Length() float64 { return polylineLength(s.Points) }

// Resample returns a copy of the stroke re-sampled with the given step.
// See the package level Resample function.
func (s Stroke) Resample(step float64) Stroke {
	return Stroke{Points: Resample(s.Points, step), Style: s.Style}
}

// Bounds returns the bounding box of the stroke as its min and max corners.
func (s Stroke) Bounds() (min, max Point) {
	if len(s.Points) == 0 {
		return
	}
	min, max = s.Points[0], s.Points[0]
	for _, p := range s.Points[1:] {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}
	return min, max
}

func (s Stroke) String() string {
	if s.Empty() {
		return "Stroke{}"
	}
	return fmt.Sprintf("Stroke{%s, %d points, %v -> %v}", s.Style, len(s.Points), s.Start(), s.End())
}

// CloneAll deep copies a list of strokes.
func CloneAll(strokes []Stroke) []Stroke {
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s.Clone()
	}
	return out
}
