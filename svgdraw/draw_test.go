package svgdraw

import (
	"reflect"
	"testing"

	"github.com/benoitkugler/inknote/stroke"
	"github.com/benoitkugler/inknote/svgpath"
)

type recorder struct{ paths []svgpath.Path }

func (r *recorder) DrawPath(path svgpath.Path) { r.paths = append(r.paths, path) }

func TestDraw(t *testing.T) {
	var r recorder
	n := Draw(&r, []stroke.Stroke{
		stroke.New(stroke.Pt(1, 2), stroke.Pt(3, 4)),
		{},
		stroke.New(stroke.Pt(5, 6)),
	})
	if n != 2 || len(r.paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", n)
	}
	if s := r.paths[0].ToSVGPath(); s != "M 1,2 L 3,4" {
		t.Errorf("unexpected path %s", s)
	}
	if s := r.paths[1].ToSVGPath(); s != "M 5,6" {
		t.Errorf("unexpected path %s", s)
	}
}

func TestReplay(t *testing.T) {
	src, _, err := svgpath.Compile("M 0,0 L 1,0 Q 2,1 3,0 C 4,1 5,1 6,0 Z M 8,8 L 9,9", svgpath.IgnoreErrorMode)
	if err != nil {
		t.Fatal(err)
	}
	var dst svgpath.Path
	Replay(&dst, src)
	if !reflect.DeepEqual(src, dst) {
		t.Errorf("expected %v, got %v", src, dst)
	}
}
