package core

import (
	"math"
	"slices"

	"github.com/burnrate-dev/burnrate/schema"
	"github.com/prometheus/common/model"
)

// ConvertAlignedData turns a range query matrix into aligned form.
// Every stream becomes one column over the union of all sample timestamps.
// It returns nil when the matrix has no streams.
func ConvertAlignedData(matrix model.Matrix, role schema.QueryRole) *schema.AlignedData {
	if len(matrix) == 0 {
		return nil
	}

	seen := make(map[float64]struct{})
	for _, stream := range matrix {
		for _, pair := range stream.Values {
			seen[timestampSeconds(pair.Timestamp)] = struct{}{}
		}
	}
	times := sortedKeys(seen)
	index := indexOf(times)

	series := make([]schema.AlignedSeries, 0, len(matrix))
	for _, stream := range matrix {
		values := make([]*float64, len(times))
		for _, pair := range stream.Values {
			v := float64(pair.Value)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values[index[timestampSeconds(pair.Timestamp)]] = schema.Float64Ptr(v)
		}
		series = append(series, schema.AlignedSeries{
			Role:   role,
			Labels: metricLabels(stream.Metric),
			Values: values,
		})
	}

	return &schema.AlignedData{Times: times, Series: series}
}

// MergeAlignedData merges several aligned sets onto one shared time axis.
// Columns keep their input order; a column has nil wherever its set had no timestamp.
func MergeAlignedData(sets []schema.AlignedData) schema.AlignedData {
	seen := make(map[float64]struct{})
	for _, set := range sets {
		for _, t := range set.Times {
			seen[t] = struct{}{}
		}
	}
	times := sortedKeys(seen)
	index := indexOf(times)

	var series []schema.AlignedSeries
	for _, set := range sets {
		for _, s := range set.Series {
			values := make([]*float64, len(times))
			for i, t := range set.Times {
				if i < len(s.Values) {
					values[index[t]] = s.Values[i]
				}
			}
			series = append(series, schema.AlignedSeries{
				Role:   s.Role,
				Labels: s.Labels,
				Values: values,
			})
		}
	}

	return schema.AlignedData{Times: times, Series: series}
}

// WithThreshold appends a constant threshold column covering the whole time axis.
func WithThreshold(data schema.AlignedData, threshold float64) schema.AlignedData {
	values := make([]*float64, data.Len())
	for i := range values {
		values[i] = schema.Float64Ptr(threshold)
	}
	series := make([]schema.AlignedSeries, 0, len(data.Series)+1)
	series = append(series, data.Series...)
	series = append(series, schema.AlignedSeries{Role: schema.ThresholdRole, Values: values})
	return schema.AlignedData{Times: data.Times, Series: series}
}

// timestampSeconds converts a sample timestamp to unix seconds.
func timestampSeconds(ts model.Time) float64 {
	return float64(ts) / 1000
}

// metricLabels copies a metric into a plain label map.
func metricLabels(metric model.Metric) map[string]string {
	if len(metric) == 0 {
		return nil
	}
	labels := make(map[string]string, len(metric))
	for k, v := range metric {
		labels[string(k)] = string(v)
	}
	return labels
}

func sortedKeys(set map[float64]struct{}) []float64 {
	keys := make([]float64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func indexOf(times []float64) map[float64]int {
	index := make(map[float64]int, len(times))
	for i, t := range times {
		index[t] = i
	}
	return index
}
