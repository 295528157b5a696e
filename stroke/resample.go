package stroke

import "math"

// DefaultStep is the arc length between two samples used when
// no positive step is given.
const DefaultStep = 1.0

func polylineLength(points []Point) float64 {
	var l float64
	for i := 1; i < len(points); i++ {
		l += points[i-1].Dist(points[i])
	}
	return l
}

// Resample converts a polyline into samples spaced by `step` along its arc length.
// The first and last samples are always the exact start and end points, even when
// `step` does not divide the length. A polyline of zero length yields its start
// point only, and an empty one yields nil.
// The result only depends on `points` and `step`.
func Resample(points []Point, step float64) []Point {
	if len(points) == 0 {
		return nil
	}
	if !(step > 0) || math.IsInf(step, 1) {
		step = DefaultStep
	}
	total := polylineLength(points)
	start, end := points[0], points[len(points)-1]
	if total == 0 {
		return []Point{start}
	}

	// samples landing closer than eps to the end would duplicate it
	eps := step * 1e-6
	out := make([]Point, 0, int(total/step)+2)
	out = append(out, start)

	k := 1 // index of the next sample, at arc length k*step
	var pos float64
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		segLen := a.Dist(b)
		if segLen == 0 {
			continue
		}
		for next := float64(k) * step; next <= pos+segLen && next < total-eps; next = float64(k) * step {
			out = append(out, a.lerp(b, (next-pos)/segLen))
			k++
		}
		pos += segLen
	}
	return append(out, end)
}
