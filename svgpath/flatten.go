package svgpath

import (
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/inknote/stroke"
)

// Flattener reduces paths to polylines.
//
// The zero value keeps only the end point of the curves,
// use Tessellate to sample them.
type Flattener struct {
	// CurveSegments is the number of line segments
	// approximating each curve; values <= 1 keep only the end point.
	CurveSegments int
}

// Tessellate returns a Flattener approximating each curve by `n` segments.
func Tessellate(n int) Flattener { return Flattener{CurveSegments: n} }

func toPoint(p fixed.Point26_6) stroke.Point {
	x, y := fixedTof(p)
	return stroke.Pt(x, y)
}

// Flatten returns the points of the path, as one polyline.
// MoveTo and LineTo contribute their point, curves their end point
// (preceded by intermediate samples when tessellating), and Close
// contributes nothing: subpaths are chained in the same polyline.
func (f Flattener) Flatten(p Path) []stroke.Point {
	var out []stroke.Point
	var current, start fixed.Point26_6
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			current, start = fixed.Point26_6(op), fixed.Point26_6(op)
			out = append(out, toPoint(current))
		case LineTo:
			current = fixed.Point26_6(op)
			out = append(out, toPoint(current))
		case QuadTo:
			out = f.appendCurve(out, quadBezier{current, op[0], op[1]})
			current = op[1]
			out = append(out, toPoint(current))
		case CubicTo:
			out = f.appendCurve(out, cubicBezier{current, op[0], op[1], op[2]})
			current = op[2]
			out = append(out, toPoint(current))
		case Close:
			current = start
		}
	}
	return out
}

// appendCurve adds the intermediate samples of the curve,
// excluding both ends
func (f Flattener) appendCurve(out []stroke.Point, seg segment) []stroke.Point {
	for k := 1; k < f.CurveSegments; k++ {
		x, y := seg.evaluate(float64(k) / float64(f.CurveSegments))
		out = append(out, stroke.Pt(x, y))
	}
	return out
}

// Flatten is a shortcut for Flattener{}.Flatten(p)
func (p Path) Flatten() []stroke.Point { return Flattener{}.Flatten(p) }

// FromPoints returns the path joining the given points:
// a MoveTo followed by LineTo.
func FromPoints(points []stroke.Point) Path {
	out := make(Path, 0, len(points))
	for i, pt := range points {
		if i == 0 {
			out.Start(ToFixedP(pt.X, pt.Y))
		} else {
			out.Line(ToFixedP(pt.X, pt.Y))
		}
	}
	return out
}
