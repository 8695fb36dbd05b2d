package core

import (
	"testing"

	"github.com/burnrate-dev/burnrate/schema"
	"github.com/stretchr/testify/assert"
)

func TestSeriesGaps(t *testing.T) {
	mask := SeriesGaps(0, 86400)
	assert.Equal(t, 0.0, mask.From)
	assert.Equal(t, 86400.0, mask.To)
	assert.Equal(t, 130.5, mask.MaxDelta)

	spec := mask.Spec()
	assert.Equal(t, &schema.GapMaskSpec{From: 0, To: 86400, MaxDelta: 130.5}, spec)
	assert.True(t, mask.Connected(0, 87))
	assert.True(t, mask.Connected(87, 0))
	assert.False(t, mask.Connected(0, 174))
}

func TestGapIntervals(t *testing.T) {
	mask := GapMask{From: 0, To: 600, MaxDelta: 90}

	tests := []struct {
		name     string
		times    []float64
		values   []*float64
		expected []schema.Interval
	}{
		{
			name:     "internal gap",
			times:    []float64{0, 60, 120, 540, 600},
			values:   []*float64{ptr(1), ptr(1), nil, nil, ptr(1)},
			expected: []schema.Interval{{From: 60, To: 600}},
		},
		{
			name:     "no gaps",
			times:    []float64{60, 120, 180, 240, 300, 360, 420, 480, 540},
			values:   []*float64{ptr(1), ptr(1), ptr(1), ptr(1), ptr(1), ptr(1), ptr(1), ptr(1), ptr(1)},
			expected: nil,
		},
		{
			name:     "leading and trailing",
			times:    []float64{300, 360},
			values:   []*float64{ptr(1), ptr(2)},
			expected: []schema.Interval{{From: 0, To: 300}, {From: 360, To: 600}},
		},
		{
			name:     "no samples",
			times:    []float64{0, 60},
			values:   []*float64{nil, nil},
			expected: []schema.Interval{{From: 0, To: 600}},
		},
		{
			name:     "short values column",
			times:    []float64{0, 60, 120},
			values:   []*float64{ptr(1)},
			expected: []schema.Interval{{From: 0, To: 600}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mask.Intervals(tt.times, tt.values))
		})
	}
}

func TestSegmentsFollowMask(t *testing.T) {
	mask := GapMask{From: 0, To: 600, MaxDelta: 90}
	times := []float64{0, 60, 300, 360}
	values := []*float64{ptr(1), ptr(2), ptr(3), nil}

	segments := schema.Segments(times, values, mask.Spec())
	assert.Equal(t, [][]schema.Point{
		{{T: 0, V: 1}, {T: 60, V: 2}},
		{{T: 300, V: 3}},
	}, segments)
}
