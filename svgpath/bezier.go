package svgpath

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// This file implements the evaluation of the path segments,
// used to flatten curves and compute bounding boxes.

type segment interface {
	// compute the t zeroing the derivative
	criticalPoints() (tX, tY []float64)
	// compute the point a time t in [0,1]
	evaluate(t float64) (x, y float64)
}

func fixedTof(p fixed.Point26_6) (x, y float64) {
	return ToFloat(p.X), ToFloat(p.Y)
}

type line [2]fixed.Point26_6

func (line) criticalPoints() (tX, tY []float64) { return nil, nil }

func (l line) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedTof(l[0])
	p1x, p1y := fixedTof(l[1])
	return bezierLine(p0x, p1x, t), bezierLine(p0y, p1y, t)
}

func bezierLine(p0, p1, t float64) float64 {
	return (p1-p0)*t + p0
}

type quadBezier [3]fixed.Point26_6

// quadratic polinomial
// x = At^2 + Bt + C
// where
// A = p0 + p2 - 2p1
// B = 2(p1 - p0)
// C = p0
func bezierQuad(p0, p1, p2, t float64) float64 {
	return (p0+p2-2*p1)*t*t + 2*(p1-p0)*t + p0
}

// derivative as at + b
func quadDerivative(p0, p1, p2 float64) (a, b float64) {
	return 2 * (p2 - 2*p1 + p0), 2 * (p1 - p0)
}

func linearRoots(a, b float64) []float64 {
	if a == 0 {
		return nil
	}
	return []float64{-b / a}
}

func (cu quadBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	return linearRoots(quadDerivative(p0x, p1x, p2x)), linearRoots(quadDerivative(p0y, p1y, p2y))
}

func (cu quadBezier) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	return bezierQuad(p0x, p1x, p2x, t), bezierQuad(p0y, p1y, p2y, t)
}

type cubicBezier [4]fixed.Point26_6

// cubic polinomial
// x = At^3 + Bt^2 + Ct + D
// where A,B,C,D:
// A = p3 -3 * p2 + 3 * p1 - p0
// B = 3 * p2 - 6 * p1 +3 * p0
// C = 3 * p1 - 3 * p0
// D = p0
func bezierCubic(p0, p1, p2, p3, t float64) float64 {
	return (p3-3*p2+3*p1-p0)*t*t*t +
		(3*p2-6*p1+3*p0)*t*t +
		(3*p1-3*p0)*t +
		p0
}

// derivative as at^2 + bt + c
func cubicDerivative(p0, p1, p2, p3 float64) (a, b, c float64) {
	return 3*p3 - 9*p2 + 9*p1 - 3*p0, 6*p2 - 12*p1 + 6*p0, 3*p1 - 3*p0
}

func quadraticRoots(a, b, c float64) []float64 {
	if a == 0 {
		return linearRoots(b, c)
	}
	d := b*b - 4*a*c
	switch {
	case d < 0:
		return nil
	case d == 0:
		return []float64{-b / (2 * a)}
	default:
		sq := math.Sqrt(d)
		return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
	}
}

func (cu cubicBezier) criticalPoints() (tX, tY []float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	p3x, p3y := fixedTof(cu[3])
	return quadraticRoots(cubicDerivative(p0x, p1x, p2x, p3x)),
		quadraticRoots(cubicDerivative(p0y, p1y, p2y, p3y))
}

func (cu cubicBezier) evaluate(t float64) (x, y float64) {
	p0x, p0y := fixedTof(cu[0])
	p1x, p1y := fixedTof(cu[1])
	p2x, p2y := fixedTof(cu[2])
	p3x, p3y := fixedTof(cu[3])
	return bezierCubic(p0x, p1x, p2x, p3x, t), bezierCubic(p0y, p1y, p2y, p3y, t)
}

// extremas returns the bounding box of the segment,
// as min and max coordinates
func extremas(seg segment) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	tX, tY := seg.criticalPoints()
	for _, t := range append(append(tX, 0, 1), tY...) {
		if !(0 <= t && t <= 1) {
			continue
		}
		x, y := seg.evaluate(t)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return
}

// walk calls fn for each segment of the path, with the
// current point tracked as SVG does (Close goes back to
// the start of the subpath). A lone MoveTo is reported as
// a degenerated line.
func (p Path) walk(fn func(seg segment)) {
	var current, start fixed.Point26_6
	lone := false
	for _, op := range p {
		switch op := op.(type) {
		case MoveTo:
			if lone {
				fn(line{current, current})
			}
			current, start = fixed.Point26_6(op), fixed.Point26_6(op)
			lone = true
			continue
		case LineTo:
			fn(line{current, fixed.Point26_6(op)})
			current = fixed.Point26_6(op)
		case QuadTo:
			fn(quadBezier{current, op[0], op[1]})
			current = op[1]
		case CubicTo:
			fn(cubicBezier{current, op[0], op[1], op[2]})
			current = op[2]
		case Close:
			current = start
		}
		lone = false
	}
	if lone {
		fn(line{current, current})
	}
}

// Bounds returns the exact bounding box of the path, curves included.
// An empty path has empty bounds.
func (p Path) Bounds() fixed.Rectangle26_6 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	p.walk(func(seg segment) {
		x0, y0, x1, y1 := extremas(seg)
		minX, minY = math.Min(minX, x0), math.Min(minY, y0)
		maxX, maxY = math.Max(maxX, x1), math.Max(maxY, y1)
	})
	if math.IsInf(minX, 1) {
		return fixed.Rectangle26_6{}
	}
	return fixed.Rectangle26_6{Min: ToFixedP(minX, minY), Max: ToFixedP(maxX, maxY)}
}
