package analysis

import (
	"fmt"

	"goeda/domain/charts"
	"goeda/domain/dataset"
	"goeda/domain/views"
)

// ScatterPlot plots column y against column x. Either axis may name any numeric
// column, including the same one; unset or invalid choices fall back to the
// first numeric column.
func ScatterPlot(table *dataset.Table, x, y string) *views.Result {
	res := views.NewResult(views.ViewScatterPlot)

	numeric := table.NumericColumns()
	if len(numeric) < 2 {
		res.Warn("Not enough numerical columns in the dataset to create a scatter plot.")
		return res
	}
	res.Options = numeric

	x = pickNumeric(table, numeric, x)
	y = pickNumeric(table, numeric, y)
	res.Selection = views.Selection{X: x, Y: y}

	xc, _ := table.Column(x)
	yc, _ := table.Column(y)
	xs, ys := completePairs(xc, yc)

	res.Charts = []charts.Spec{{
		Kind:    charts.KindScatter,
		Title:   fmt.Sprintf("Scatter Plot: %s vs %s", x, y),
		XLabel:  x,
		YLabel:  y,
		Alpha:   MarkerAlpha,
		Scatter: &charts.ScatterData{X: xs, Y: ys},
	}}
	return res
}
