package analysis

import (
	"math"

	"goeda/domain/charts"
	"goeda/domain/dataset"
	"goeda/domain/views"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix computes pairwise Pearson correlation across the numeric
// columns and describes it as an annotated heat map centred at zero
func CorrelationMatrix(table *dataset.Table) *views.Result {
	res := views.NewResult(views.ViewCorrelationMatrix)

	numeric := table.NumericColumns()
	if len(numeric) == 0 {
		res.Note("No numerical columns for correlation matrix.")
		return res
	}

	sym := correlate(table, numeric)
	values := make([][]float64, len(numeric))
	for i := range numeric {
		values[i] = make([]float64, len(numeric))
		for j := range numeric {
			values[i][j] = sym.At(i, j)
		}
	}

	res.Correlation = &views.CorrelationMatrix{Columns: numeric, Values: values}
	res.Charts = []charts.Spec{{
		Kind:  charts.KindHeatmap,
		Title: "Correlation Matrix",
		Heatmap: &charts.HeatmapData{
			Labels:   numeric,
			Values:   values,
			Min:      -1,
			Max:      1,
			Center:   0,
			Annotate: true,
		},
	}}
	return res
}

// correlate fills a symmetric matrix using pairwise-complete observations.
// The diagonal is 1; undefined coefficients are NaN.
func correlate(table *dataset.Table, names []string) *mat.SymDense {
	n := len(names)
	sym := mat.NewSymDense(n, nil)
	cols := make([]*dataset.Column, n)
	for i, name := range names {
		cols[i], _ = table.Column(name)
	}

	for i := 0; i < n; i++ {
		sym.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			x, y := completePairs(cols[i], cols[j])
			r := math.NaN()
			if len(x) >= 2 {
				r = stat.Correlation(x, y, nil)
			}
			sym.SetSym(i, j, r)
		}
	}
	return sym
}

// completePairs returns the rows where both columns hold finite values
func completePairs(a, b *dataset.Column) ([]float64, []float64) {
	x := make([]float64, 0, len(a.Values))
	y := make([]float64, 0, len(b.Values))
	for i := range a.Values {
		if a.Missing[i] || b.Missing[i] {
			continue
		}
		av, bv := a.Values[i], b.Values[i]
		if math.IsInf(av, 0) || math.IsInf(bv, 0) || math.IsNaN(av) || math.IsNaN(bv) {
			continue
		}
		x = append(x, av)
		y = append(y, bv)
	}
	return x, y
}
