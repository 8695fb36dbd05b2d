package schema

// Point is one drawable sample.
type Point struct {
	T float64
	V float64
}

// Connected reports whether neighbouring samples at t0 and t1 may be joined.
// A nil mask connects everything.
func (g *GapMaskSpec) Connected(t0, t1 float64) bool {
	if g == nil {
		return true
	}
	d := t1 - t0
	if d < 0 {
		d = -d
	}
	return d <= g.MaxDelta
}

// Segments splits a series into runs of connected samples.
// Renderers without native gap handling draw each run as its own line.
func Segments(times []float64, values []*float64, mask *GapMaskSpec) [][]Point {
	var segments [][]Point
	var current []Point
	for i, t := range times {
		if i >= len(values) || values[i] == nil {
			continue
		}
		if len(current) > 0 && !mask.Connected(current[len(current)-1].T, t) {
			segments = append(segments, current)
			current = nil
		}
		current = append(current, Point{T: t, V: *values[i]})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}
