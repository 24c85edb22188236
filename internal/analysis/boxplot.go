package analysis

import (
	"fmt"

	"goeda/domain/charts"
	"goeda/domain/dataset"
	"goeda/domain/views"
)

// BoxPlot draws a single vertical, filled box plot of one numeric column after
// dropping its missing values
func BoxPlot(table *dataset.Table, column string) *views.Result {
	res := views.NewResult(views.ViewBoxPlot)

	numeric := table.NumericColumns()
	if len(numeric) == 0 {
		res.Warn("No numerical columns in the dataset to create a box plot.")
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

	box := boxStats(values)
	box.Filled = true
	res.Charts = []charts.Spec{{
		Kind:   charts.KindBox,
		Title:  fmt.Sprintf("Box Plot: %s", column),
		YLabel: column,
		Box:    box,
	}}
	return res
}
