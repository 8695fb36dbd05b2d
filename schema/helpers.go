package schema

import "math"

// Float64Ptr returns a pointer to a copy of f.
func Float64Ptr(f float64) *float64 {
	return &f
}

// ValueOrNaN dereferences v, mapping nil to NaN for renderers that treat NaN as a break.
func ValueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// LastValue returns the last non-nil value in a column.
func LastValue(col []*float64) (float64, bool) {
	for i := len(col) - 1; i >= 0; i-- {
		if col[i] != nil {
			return *col[i], true
		}
	}
	return 0, false
}
