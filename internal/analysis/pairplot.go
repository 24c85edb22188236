package analysis

import (
	"goeda/domain/charts"
	"goeda/domain/dataset"
	"goeda/domain/views"
)

// Pairplot describes a scatter matrix over the selected numeric columns with
// histograms on the diagonal. Without a selection the first two numeric
// columns are used.
func Pairplot(table *dataset.Table, sel views.Selection) *views.Result {
	res := views.NewResult(views.ViewPairplot)

	numeric := table.NumericColumns()
	if len(numeric) < 2 {
		res.Warn("Not enough numerical columns in the dataset to create a pairplot.")
		return res
	}
	res.Options = numeric

	columns := numeric[:2]
	if sel.ColumnsSet {
		columns = table.FilterNumeric(sel.Columns)
	}
	res.Selection = views.Selection{Columns: columns, ColumnsSet: true}

	if len(columns) == 0 {
		res.Warn("Please select at least one numerical column for the pairplot.")
		return res
	}

	grid := &charts.PairGridData{
		Columns:  columns,
		Series:   make(map[string][]float64, len(columns)),
		Diagonal: make([]charts.HistogramData, len(columns)),
		Cells:    make([][]charts.ScatterData, len(columns)),
	}
	cols := make([]*dataset.Column, len(columns))
	for i, name := range columns {
		cols[i], _ = table.Column(name)
		values := finite(cols[i].Present())
		grid.Series[name] = values
		grid.Diagonal[i] = histogramBins(values, HistogramBins)
	}
	for i := range columns {
		grid.Cells[i] = make([]charts.ScatterData, len(columns))
		for j := range columns {
			if i == j {
				continue
			}
			// row i is the y axis, column j the x axis
			x, y := completePairs(cols[j], cols[i])
			grid.Cells[i][j] = charts.ScatterData{X: x, Y: y}
		}
	}

	res.Charts = []charts.Spec{{
		Kind:     charts.KindPairGrid,
		Title:    "Pairplot",
		PairGrid: grid,
	}}
	return res
}
