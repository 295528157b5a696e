// Implements an abstract representation of
// svg path data (the `d` attribute of a <path> element),
// which can then be flattened into strokes.
package svgpath

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/math/fixed"
)

type pathCommand uint8

// Human readable path constants
const (
	pathMoveTo pathCommand = iota
	pathLineTo
	pathQuadTo
	pathCubicTo
	pathClose
)

// Operation groups the different SVG commands
type Operation interface {
	command() pathCommand
}

type MoveTo fixed.Point26_6

type LineTo fixed.Point26_6

// QuadTo is a quadratic bezier curve: control point, then end point.
type QuadTo [2]fixed.Point26_6

// CubicTo is a cubic bezier curve: two control points, then end point.
type CubicTo [3]fixed.Point26_6

type Close struct{}

func (MoveTo) command() pathCommand  { return pathMoveTo }
func (LineTo) command() pathCommand  { return pathLineTo }
func (QuadTo) command() pathCommand  { return pathQuadTo }
func (CubicTo) command() pathCommand { return pathCubicTo }
func (Close) command() pathCommand   { return pathClose }

// Path describes a sequence of basic SVG operations.
type Path []Operation

// ToFixed converts a coordinate to its 26.6 fixed point value,
// rounding to the nearest 1/64. Values beyond MaxCoordinate
// are clamped.
func ToFixed(f float64) fixed.Int26_6 {
	v := math.Round(f * 64)
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return fixed.Int26_6(v)
}

// ToFixedP converts two floats to a fixed point.
func ToFixedP(x, y float64) fixed.Point26_6 {
	return fixed.Point26_6{X: ToFixed(x), Y: ToFixed(y)}
}

// ToFloat converts back a fixed point value.
func ToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// formats a coordinate as a plain decimal, with
// the minimum number of digits needed
func formatCoord(v fixed.Int26_6) string {
	return strconv.FormatFloat(ToFloat(v), 'f', -1, 64)
}

func writePoint(b *strings.Builder, p fixed.Point26_6) {
	b.WriteString(formatCoord(p.X))
	b.WriteByte(',')
	b.WriteString(formatCoord(p.Y))
}

// ToSVGPath returns a string representation of the path, suitable
// for a `d` attribute : each command letter is followed by a space
// and its points, written as x,y pairs separated by spaces, such as
//
//	M 0,0 L 1.5,0 Q 2,1 3,0 Z
func (p Path) ToSVGPath() string {
	var b strings.Builder
	for i, op := range p {
		if i != 0 {
			b.WriteByte(' ')
		}
		var pts []fixed.Point26_6
		switch op := op.(type) {
		case MoveTo:
			b.WriteByte('M')
			pts = []fixed.Point26_6{fixed.Point26_6(op)}
		case LineTo:
			b.WriteByte('L')
			pts = []fixed.Point26_6{fixed.Point26_6(op)}
		case QuadTo:
			b.WriteByte('Q')
			pts = op[:]
		case CubicTo:
			b.WriteByte('C')
			pts = op[:]
		case Close:
			b.WriteByte('Z')
		}
		for _, pt := range pts {
			b.WriteByte(' ')
			writePoint(&b, pt)
		}
	}
	return b.String()
}

// String returns a readable representation of a Path.
func (p Path) String() string {
	return p.ToSVGPath()
}

// Start starts a new curve at the given point.
func (p *Path) Start(a fixed.Point26_6) {
	*p = append(*p, MoveTo{a.X, a.Y})
}

// Line adds a linear segment to the current curve.
func (p *Path) Line(b fixed.Point26_6) {
	*p = append(*p, LineTo{b.X, b.Y})
}

// QuadBezier adds a quadratic segment to the current curve.
func (p *Path) QuadBezier(b, c fixed.Point26_6) {
	*p = append(*p, QuadTo{b, c})
}

// CubeBezier adds a cubic segment to the current curve.
func (p *Path) CubeBezier(b, c, d fixed.Point26_6) {
	*p = append(*p, CubicTo{b, c, d})
}

// Stop joins the ends of the path
func (p *Path) Stop(closeLoop bool) {
	if closeLoop {
		*p = append(*p, Close{})
	}
}
