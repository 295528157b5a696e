package eraser

import (
	"math"
	"reflect"
	"testing"

	"github.com/benoitkugler/inknote/stroke"
)

const step = 1.

func line(x0, y0, x1, y1 float64) stroke.Stroke {
	return stroke.New(stroke.Pt(x0, y0), stroke.Pt(x1, y1))
}

func TestEraseCutsStraightStroke(t *testing.T) {
	center := stroke.Pt(50, 0)
	out := Erase([]stroke.Stroke{line(0, 0, 100, 0)}, center, 10, step)
	if len(out) != 2 {
		t.Fatalf("expected 2 strokes, got %d: %v", len(out), out)
	}
	left, right := out[0], out[1]
	if left.Start() != stroke.Pt(0, 0) || right.End() != stroke.Pt(100, 0) {
		t.Errorf("unexpected extremities %v %v", left, right)
	}
	if d := math.Abs(left.End().X - 40); d > step {
		t.Errorf("left part should end near (40,0), got %v", left.End())
	}
	if d := math.Abs(right.Start().X - 60); d > step {
		t.Errorf("right part should start near (60,0), got %v", right.Start())
	}

	// only the boundary samples may be in the eraser
	for _, st := range out {
		for i, p := range st.Points {
			boundary := (st.Start() == right.Start() && i == 0) || (st.End() == left.End() && i == len(st.Points)-1)
			if !boundary && p.Dist(center) < 10 {
				t.Errorf("point %v of %v is erased", p, st)
			}
		}
	}
}

func TestEraseInsideStroke(t *testing.T) {
	out := Erase([]stroke.Stroke{line(45, 0, 55, 3)}, stroke.Pt(50, 0), 10, step)
	if len(out) != 0 {
		t.Errorf("expected no stroke, got %v", out)
	}
}

func TestEraseUntouchedStroke(t *testing.T) {
	st := stroke.New(stroke.Pt(0, 0), stroke.Pt(3.5, 0), stroke.Pt(3.5, 4))
	out := Erase([]stroke.Stroke{st}, stroke.Pt(50, 50), 10, step)
	if len(out) != 1 {
		t.Fatalf("expected 1 stroke, got %v", out)
	}
	if exp := st.Resample(step); !reflect.DeepEqual(out[0], exp) {
		t.Errorf("expected the resampled stroke %v, got %v", exp, out[0])
	}
}

func TestEraseNoRadius(t *testing.T) {
	in := []stroke.Stroke{line(0, 0, 100, 0), stroke.New(stroke.Pt(1, 1))}
	for _, r := range []float64{0, -3} {
		out := Erase(in, stroke.Pt(50, 0), r, step)
		if !reflect.DeepEqual(out, in) {
			t.Errorf("radius %g: expected unchanged strokes, got %v", r, out)
		}
	}
	out := Erase(in, stroke.Pt(50, 0), 0, step)
	out[0].Points[0] = stroke.Pt(-1, -1)
	if in[0].Points[0] != stroke.Pt(0, 0) {
		t.Error("input should not be modified")
	}
}

func TestEraseSinglePointDropped(t *testing.T) {
	out := Erase([]stroke.Stroke{stroke.New(stroke.Pt(100, 100))}, stroke.Pt(0, 0), 5, step)
	if len(out) != 0 {
		t.Errorf("single point strokes should be dropped, got %v", out)
	}
}

func TestEraseKeepsOrder(t *testing.T) {
	in := []stroke.Stroke{
		line(0, 0, 100, 0),  // cut in two
		line(0, 50, 10, 50), // untouched
		line(50, -5, 50, 5), // erased
		line(0, 10, 100, 10),
	}
	out := Eraser{Radius: 12, Step: step}.Apply(in, stroke.Pt(50, 0))
	if len(out) != 5 {
		t.Fatalf("expected 5 strokes, got %d: %v", len(out), out)
	}
	if out[2].Start() != stroke.Pt(0, 50) {
		t.Errorf("unexpected order: %v", out)
	}
	if out[3].Start() != stroke.Pt(0, 10) || out[4].End() != stroke.Pt(100, 10) {
		t.Errorf("unexpected cut of the last stroke: %v", out[3:])
	}
}

func TestEraseStrokeStartingInside(t *testing.T) {
	out := Erase([]stroke.Stroke{line(50, 0, 80, 0)}, stroke.Pt(50, 0), 10, step)
	if len(out) != 1 {
		t.Fatalf("expected 1 stroke, got %v", out)
	}
	if math.Abs(out[0].Start().X-60) > step || out[0].End() != stroke.Pt(80, 0) {
		t.Errorf("unexpected remaining stroke %v", out[0])
	}
}

func TestEraseRepeatedMoves(t *testing.T) {
	strokes := []stroke.Stroke{line(0, 0, 100, 0)}
	for x := 20.; x <= 80; x += 5 {
		strokes = Erase(strokes, stroke.Pt(x, 0), 4, step)
	}
	if len(strokes) != 2 {
		t.Fatalf("expected 2 strokes, got %d", len(strokes))
	}
	if strokes[0].End().X > 18 || strokes[1].Start().X < 82 {
		t.Errorf("unexpected remaining strokes %v", strokes)
	}
}
