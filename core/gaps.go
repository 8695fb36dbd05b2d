package core

import "github.com/burnrate-dev/burnrate/schema"

// GapMask decides which parts of a time range render as gaps.
// All times are unix seconds.
type GapMask struct {
	From     float64
	To       float64
	MaxDelta float64
}

// SeriesGaps returns the gap mask for the range [from, to].
// Two samples further apart than one and a half query steps are not connected,
// so a single missing evaluation already breaks the line.
func SeriesGaps(from, to float64) GapMask {
	return GapMask{
		From:     from,
		To:       to,
		MaxDelta: gapFactor * stepSeconds(from, to),
	}
}

// Spec returns the renderer-facing description of the mask.
func (g GapMask) Spec() *schema.GapMaskSpec {
	return &schema.GapMaskSpec{From: g.From, To: g.To, MaxDelta: g.MaxDelta}
}

// Connected reports whether neighbouring samples at t0 and t1 may be joined.
func (g GapMask) Connected(t0, t1 float64) bool {
	return g.Spec().Connected(t0, t1)
}

// Intervals returns the gaps of one series over the mask's range.
// Leading and trailing stretches without data count as gaps too.
func (g GapMask) Intervals(times []float64, values []*float64) []schema.Interval {
	var gaps []schema.Interval
	prev, seen := 0.0, false
	for i, t := range times {
		if i >= len(values) || values[i] == nil {
			continue
		}
		if !seen {
			if t-g.From > g.MaxDelta {
				gaps = append(gaps, schema.Interval{From: g.From, To: t})
			}
		} else if !g.Connected(prev, t) {
			gaps = append(gaps, schema.Interval{From: prev, To: t})
		}
		prev, seen = t, true
	}
	if !seen {
		return []schema.Interval{{From: g.From, To: g.To}}
	}
	if g.To-prev > g.MaxDelta {
		gaps = append(gaps, schema.Interval{From: prev, To: g.To})
	}
	return gaps
}
