// Package analytics implements the dashboard's aggregation functions.
// Every function is a pure transform from a filtered table to a
// chart-ready result and degrades to zeros or empty output when an
// expected column is missing.
package analytics

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Quantile returns the q-quantile (0 ≤ q ≤ 1) of values using linear
// interpolation between closest ranks, the same scheme pandas uses.
// Returns 0 for an empty slice.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Describe is a summary-statistics block matching the original
// dashboard's describe() tables.
type Describe struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"25%"`
	Median float64 `json:"50%"`
	Q75    float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// DescribeValues computes the describe block for values. Std is the
// sample standard deviation; it is 0 when fewer than two values exist.
func DescribeValues(values []float64) Describe {
	d := Describe{Count: len(values)}
	if len(values) == 0 {
		return d
	}

	d.Mean = Mean(values)
	d.Min = Quantile(values, 0)
	d.Q25 = Quantile(values, 0.25)
	d.Median = Quantile(values, 0.5)
	d.Q75 = Quantile(values, 0.75)
	d.Max = Quantile(values, 1)

	if len(values) > 1 {
		var ss float64
		for _, v := range values {
			diff := v - d.Mean
			ss += diff * diff
		}
		d.Std = math.Sqrt(ss / float64(len(values)-1))
	}
	return d
}

// HistogramBin is one fixed-width bin of a value histogram.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram bins values into bins fixed-width buckets over the observed
// range. The final bin's upper bound is inclusive so the maximum value is
// always counted. Returns nil for empty input; degenerate input (all
// values equal) collapses to one bin.
func Histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		return []HistogramBin{{Low: min, High: max, Count: len(values)}}
	}

	width := (max - min) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Low = min + float64(i)*width
		out[i].High = min + float64(i+1)*width
	}
	out[bins-1].High = max

	for _, v := range values {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// TopNBy returns the n rows with the largest key, stable under ties:
// equal-key rows keep their relative input order. The input slice is not
// modified.
func TopNBy[T any](rows []T, n int, key func(T) float64) []T {
	if n <= 0 {
		return nil
	}
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) > key(sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
