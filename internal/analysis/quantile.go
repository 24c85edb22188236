package analysis

import (
	"math"
	"sort"

	"goeda/domain/charts"
)

// quantile returns the p-quantile of sorted data, interpolating linearly
// between the two closest ranks (numpy's default estimator)
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := p * float64(n-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	if h == lo {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// notNaN drops NaN but keeps infinities, as describe() does
func notNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// finite drops NaN and infinite values
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// boxStats computes quartiles, Tukey fences and whisker ends for non-empty data
func boxStats(values []float64) *charts.BoxData {
	sorted := sortedCopy(values)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1

	box := &charts.BoxData{
		Values:     values,
		Q1:         q1,
		Median:     quantile(sorted, 0.5),
		Q3:         q3,
		LowerFence: q1 - WhiskerIQR*iqr,
		UpperFence: q3 + WhiskerIQR*iqr,
		Outliers:   []float64{},
	}

	box.WhiskerLow = q1
	box.WhiskerHigh = q3
	for _, v := range sorted {
		if v >= box.LowerFence {
			box.WhiskerLow = math.Min(v, q1)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= box.UpperFence {
			box.WhiskerHigh = math.Max(sorted[i], q3)
			break
		}
	}
	for _, v := range sorted {
		if v < box.LowerFence || v > box.UpperFence {
			box.Outliers = append(box.Outliers, v)
		}
	}
	return box
}
