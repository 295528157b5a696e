package svgpath

import (
	"math"
	"testing"

	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/inknote/stroke"
)

func TestTessellate(t *testing.T) {
	path, _, _ := Compile("M 0,0 Q 5,10 10,0", IgnoreErrorMode)

	pts := Tessellate(4).Flatten(path)
	if len(pts) != 5 {
		t.Fatalf("expected 5 points, got %v", pts)
	}
	if pts[0] != stroke.Pt(0, 0) || pts[4] != stroke.Pt(10, 0) {
		t.Errorf("unexpected ends %v", pts)
	}
	// the middle of a symmetric quadratic curve is at half the control height
	if mid := pts[2]; math.Abs(mid.X-5) > 1e-9 || math.Abs(mid.Y-5) > 1e-9 {
		t.Errorf("unexpected middle %v", mid)
	}

	if pts := Tessellate(1).Flatten(path); len(pts) != 2 {
		t.Errorf("expected only endpoints, got %v", pts)
	}
}

func TestTessellateCubic(t *testing.T) {
	path, _, _ := Compile("M 0,0 C 0,10 10,10 10,0 Z L 0,5", IgnoreErrorMode)
	pts := Tessellate(2).Flatten(path)
	// Close goes back to the subpath start, but adds no point
	exp := []stroke.Point{stroke.Pt(0, 0), stroke.Pt(5, 7.5), stroke.Pt(10, 0), stroke.Pt(0, 5)}
	if len(pts) != len(exp) {
		t.Fatalf("expected %v, got %v", exp, pts)
	}
	for i := range exp {
		if pts[i].Dist(exp[i]) > 1e-9 {
			t.Errorf("point %d: expected %v, got %v", i, exp[i], pts[i])
		}
	}
}

func TestBounds(t *testing.T) {
	for _, test := range []struct {
		d   string
		exp fixed.Rectangle26_6
	}{
		{"M 1,2 L 5,-3", fixed.Rectangle26_6{Min: ToFixedP(1, -3), Max: ToFixedP(5, 2)}},
		{"M 0,0 Q 5,10 10,0", fixed.Rectangle26_6{Min: ToFixedP(0, 0), Max: ToFixedP(10, 5)}},
		{"M 0,0 C 0,10 10,10 10,0", fixed.Rectangle26_6{Min: ToFixedP(0, 0), Max: ToFixedP(10, 7.5)}},
		{"M 3,3", fixed.Rectangle26_6{Min: ToFixedP(3, 3), Max: ToFixedP(3, 3)}},
		{"", fixed.Rectangle26_6{}},
	} {
		path, _, _ := Compile(test.d, IgnoreErrorMode)
		if got := path.Bounds(); got != test.exp {
			t.Errorf("%q: expected %v, got %v", test.d, test.exp, got)
		}
	}
}
