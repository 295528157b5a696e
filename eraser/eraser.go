// Implements the eraser: strokes overlapping a circle
// are cut, and only their parts outside the circle are kept.
package eraser

import "github.com/benoitkugler/inknote/stroke"

// Eraser binds the radius of the circle and the
// re-sampling step used when cutting strokes.
type Eraser struct {
	Radius float64
	Step   float64 // arc length between two samples; stroke.DefaultStep if <= 0
}

// Apply erases `strokes` around center. See Erase.
func (e Eraser) Apply(strokes []stroke.Stroke, center stroke.Point) []stroke.Stroke {
	return Erase(strokes, center, e.Radius, e.Step)
}

// Erase cuts every stroke where it overlaps the disk of the given center and radius,
// and returns the surviving sub-strokes, in the order of the input strokes.
// Strokes are first re-sampled with `step`, so that the output is made of
// re-sampled polylines: geometry untouched by the eraser may slightly move.
// A stroke inside the disk produces no output, as does a stroke of zero length.
// A non positive radius erases nothing and a copy of `strokes` is returned,
// with the original points: the strokes are not re-sampled in that case.
// Erase has no side effect: `strokes` is not modified.
func Erase(strokes []stroke.Stroke, center stroke.Point, radius, step float64) []stroke.Stroke {
	if !(radius > 0) {
		return stroke.CloneAll(strokes)
	}
	r2 := radius * radius
	var out []stroke.Stroke
	for _, st := range strokes {
		out = cut(out, st, center, r2, step)
	}
	return out
}

// cut appends to `out` the parts of `st` outside the disk
func cut(out []stroke.Stroke, st stroke.Stroke, center stroke.Point, r2, step float64) []stroke.Stroke {
	samples := stroke.Resample(st.Points, step)
	if len(samples) < 2 {
		return out
	}

	emit := func(run []stroke.Point) {
		if len(run) >= 2 {
			out = append(out, stroke.Stroke{Points: run, Style: st.Style})
		}
	}

	var run []stroke.Point // the open sub-stroke, nil when inside
	wasInside := samples[0].Dist2(center) <= r2
	if !wasInside {
		run = []stroke.Point{samples[0]}
	}
	for i := 1; i < len(samples); i++ {
		p := samples[i]
		inside := p.Dist2(center) <= r2
		switch {
		case !wasInside && !inside:
			run = append(run, p)
		case !wasInside && inside:
			// the sub-stroke ends on the first sample in the eraser
			emit(append(run, p))
			run = nil
		case wasInside && !inside:
			// the sub-stroke restarts on the last sample in the eraser
			run = []stroke.Point{samples[i-1], p}
		}
		wasInside = inside
	}
	if !wasInside {
		emit(run)
	}
	return out
}
