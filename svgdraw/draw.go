// Given decoded strokes, implements how to
// draw them on a page.
// This requires a driver implementing the actual draw operations,
// such as a rasterizer to output .png images or a pdf writer.
package svgdraw

import (
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/inknote/stroke"
	"github.com/benoitkugler/inknote/svgpath"
)

// Driver strokes paths with its current style.
type Driver interface {
	DrawPath(path svgpath.Path)
}

// Pather receives path commands. It is implemented
// by rasterx.Adder implementations.
type Pather interface {
	Start(a fixed.Point26_6)
	Line(b fixed.Point26_6)
	QuadBezier(b, c fixed.Point26_6)
	CubeBezier(b, c, d fixed.Point26_6)
	Stop(closeLoop bool)
}

// Draw sends the non-empty strokes to the driver, one path
// per stroke, and returns the number of paths drawn.
func Draw(d Driver, strokes []stroke.Stroke) int {
	n := 0
	for _, st := range strokes {
		if st.Empty() {
			continue
		}
		d.DrawPath(svgpath.FromPoints(st.Points))
		n++
	}
	return n
}

// Replay sends the operations of path to p. Every MoveTo
// after the first one stops the current sub-path.
func Replay(p Pather, path svgpath.Path) {
	for i, op := range path {
		switch op := op.(type) {
		case svgpath.MoveTo:
			if i != 0 {
				p.Stop(false)
			}
			p.Start(fixed.Point26_6(op))
		case svgpath.LineTo:
			p.Line(fixed.Point26_6(op))
		case svgpath.QuadTo:
			p.QuadBezier(op[0], op[1])
		case svgpath.CubicTo:
			p.CubeBezier(op[0], op[1], op[2])
		case svgpath.Close:
			p.Stop(true)
		}
	}
}
