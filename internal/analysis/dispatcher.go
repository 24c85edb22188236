package analysis

import (
	"fmt"

	"goeda/domain/dataset"
	"goeda/domain/views"
	"goeda/internal/errors"
)

const (
	// HistogramBins is the fixed bin count for histograms
	HistogramBins = 20
	// MarkerAlpha is the opacity applied to scatter points and histogram bars
	MarkerAlpha = 0.7
	// WhiskerIQR is the Tukey whisker reach in multiples of the interquartile range
	WhiskerIQR = 1.5
)

// Dispatch runs exactly one analysis function for the requested view.
// A nil table renders nothing: the result and error are both nil.
func Dispatch(table *dataset.Table, view views.View, sel views.Selection) (*views.Result, error) {
	if table == nil {
		return nil, nil
	}

	switch view {
	case views.ViewBasicInfo:
		return BasicInfo(table), nil
	case views.ViewSummaryStatistics:
		return SummaryStatistics(table), nil
	case views.ViewCorrelationMatrix:
		return CorrelationMatrix(table), nil
	case views.ViewOutlierDetection:
		return OutlierDetection(table, sel.Columns), nil
	case views.ViewPairplot:
		return Pairplot(table, sel), nil
	case views.ViewScatterPlot:
		return ScatterPlot(table, sel.X, sel.Y), nil
	case views.ViewHistogram:
		return Histogram(table, sel.Column), nil
	case views.ViewBoxPlot:
		return BoxPlot(table, sel.Column), nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown view %q", view))
	}
}

// pickNumeric returns name when it is a numeric column, otherwise the first
// numeric column (the default a select widget shows)
func pickNumeric(table *dataset.Table, numeric []string, name string) string {
	if name != "" && table.IsNumeric(name) {
		return name
	}
	return numeric[0]
}
