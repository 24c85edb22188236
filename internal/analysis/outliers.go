package analysis

import (
	"fmt"

	"goeda/domain/charts"
	"goeda/domain/dataset"
	"goeda/domain/views"
)

// OutlierDetection draws one horizontal box plot per selected numeric column.
// There is no default selection: nothing selected renders nothing.
func OutlierDetection(table *dataset.Table, selected []string) *views.Result {
	res := views.NewResult(views.ViewOutlierDetection)

	numeric := table.NumericColumns()
	if len(numeric) == 0 {
		res.Note("No numerical columns for outlier detection.")
		return res
	}
	res.Options = numeric

	columns := table.FilterNumeric(selected)
	res.Selection = views.Selection{Columns: columns, ColumnsSet: len(selected) > 0}

	for _, name := range columns {
		col, _ := table.Column(name)
		values := finite(col.Present())
		if len(values) == 0 {
			res.Note("Column `%s` has no values to plot.", name)
			continue
		}

		box := boxStats(values)
		box.Horizontal = true
		res.Outliers = append(res.Outliers, views.OutlierSummary{
			Column:     name,
			Count:      len(box.Outliers),
			LowerFence: box.LowerFence,
			UpperFence: box.UpperFence,
		})
		res.Charts = append(res.Charts, charts.Spec{
			Kind:   charts.KindBox,
			Title:  fmt.Sprintf("Boxplot for `%s`", name),
			XLabel: name,
			Box:    box,
		})
	}
	return res
}
