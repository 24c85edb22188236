package analysis

import (
	"fmt"
	"math"

	"goeda/domain/charts"
	"goeda/domain/dataset"
	"goeda/domain/views"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram bins one numeric column into HistogramBins equal-width buckets
func Histogram(table *dataset.Table, column string) *views.Result {
	res := views.NewResult(views.ViewHistogram)

	numeric := table.NumericColumns()
	if len(numeric) == 0 {
		res.Warn("No numerical columns in the dataset to create a histogram.")
		return res
	}
	res.Options = numeric

	column = pickNumeric(table, numeric, column)
	res.Selection = views.Selection{Column: column}

	col, _ := table.Column(column)
	values := finite(col.Present())
	if len(values) == 0 {
		res.Note("Column `%s` has no values to plot.", column)
		return res
	}

	hist := histogramBins(values, HistogramBins)
	res.Charts = []charts.Spec{{
		Kind:      charts.KindHistogram,
		Title:     fmt.Sprintf("Histogram: %s", column),
		XLabel:    column,
		YLabel:    "Frequency",
		Alpha:     MarkerAlpha,
		Histogram: &hist,
	}}
	return res
}

// histogramBins spans [min, max] with equal-width bins; the last bin is closed.
// A constant sample is centred in a unit-wide range.
func histogramBins(values []float64, bins int) charts.HistogramData {
	if len(values) == 0 || bins < 1 {
		return charts.HistogramData{Bins: []charts.Bin{}}
	}

	sorted := sortedCopy(values)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram wants every value strictly below the last divider
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := make([]float64, bins)
	stat.Histogram(counts, dividers, sorted, nil)

	out := charts.HistogramData{
		Bins:  make([]charts.Bin, bins),
		Total: len(values),
	}
	for i := 0; i < bins; i++ {
		upper := dividers[i+1]
		if i == bins-1 {
			upper = hi
		}
		out.Bins[i] = charts.Bin{Min: dividers[i], Max: upper, Count: int(counts[i])}
	}
	return out
}
