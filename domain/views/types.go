package views

import (
	"fmt"
	"strings"

	"goeda/domain/charts"
)

// View is one selectable analysis or chart mode
type View string

const (
	ViewBasicInfo         View = "basic_info"
	ViewSummaryStatistics View = "summary_statistics"
	ViewCorrelationMatrix View = "correlation_matrix"
	ViewOutlierDetection  View = "outlier_detection"
	ViewPairplot          View = "pairplot"
	ViewScatterPlot       View = "scatter_plot"
	ViewHistogram         View = "histogram"
	ViewBoxPlot           View = "box_plot"
)

var allViews = []View{
	ViewBasicInfo,
	ViewSummaryStatistics,
	ViewCorrelationMatrix,
	ViewOutlierDetection,
	ViewPairplot,
	ViewScatterPlot,
	ViewHistogram,
	ViewBoxPlot,
}

var titles = map[View]string{
	ViewBasicInfo:         "Basic Information",
	ViewSummaryStatistics: "Summary Statistics",
	ViewCorrelationMatrix: "Correlation Matrix",
	ViewOutlierDetection:  "Outlier Detection",
	ViewPairplot:          "Pairplot",
	ViewScatterPlot:       "Scatter Plot",
	ViewHistogram:         "Histogram",
	ViewBoxPlot:           "Box Plot",
}

// All returns every view in dashboard order
func All() []View {
	out := make([]View, len(allViews))
	copy(out, allViews)
	return out
}

// Visualizations returns the views offered by the visualization selector
func Visualizations() []View {
	return []View{ViewPairplot, ViewScatterPlot, ViewHistogram, ViewBoxPlot}
}

// Title returns the human readable header of the view
func (v View) Title() string {
	if t, ok := titles[v]; ok {
		return t
	}
	return string(v)
}

func (v View) String() string {
	return string(v)
}

// Valid reports whether v names a known view
func (v View) Valid() bool {
	_, ok := titles[v]
	return ok
}

// Parse accepts either the wire id ("scatter_plot") or the title ("Scatter Plot")
func Parse(s string) (View, error) {
	key := strings.TrimSpace(s)
	if v := View(strings.ToLower(key)); v.Valid() {
		return v, nil
	}
	for v, title := range titles {
		if strings.EqualFold(title, key) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Selection carries the user's column choices for a view. ColumnsSet distinguishes
// "never chosen" (defaults apply) from "chosen, possibly empty".
type Selection struct {
	Columns    []string `json:"columns,omitempty"`
	ColumnsSet bool     `json:"columns_set,omitempty"`
	X          string   `json:"x,omitempty"`
	Y          string   `json:"y,omitempty"`
	Column     string   `json:"column,omitempty"`
}

// Result is the output of a single rendering pass of one view
type Result struct {
	View      View      `json:"view"`
	Title     string    `json:"title"`
	Warnings  []string  `json:"warnings,omitempty"`
	Notes     []string  `json:"notes,omitempty"`
	Selection Selection `json:"selection"`
	// Numeric columns offered to the user's selection widgets
	Options []string `json:"options,omitempty"`

	BasicInfo   *BasicInfo          `json:"basic_info,omitempty"`
	Summary     *SummaryStatistics  `json:"summary,omitempty"`
	Correlation *CorrelationMatrix  `json:"correlation,omitempty"`
	Outliers    []OutlierSummary    `json:"outliers,omitempty"`
	Charts      []charts.Spec       `json:"charts,omitempty"`
}

// NewResult starts a result for the view with its default header
func NewResult(v View) *Result {
	return &Result{View: v, Title: v.Title()}
}

// Warn records a user-facing precondition warning
func (r *Result) Warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Note records an informational message
func (r *Result) Note(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// HasCharts reports whether anything is to be drawn
func (r *Result) HasCharts() bool {
	return len(r.Charts) > 0
}

// ColumnCount pairs a column name with a count
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// ColumnType pairs a column name with its declared dtype
type ColumnType struct {
	Column string `json:"column"`
	DType  string `json:"dtype"`
}

// BasicInfo describes the shape and quality of the table
type BasicInfo struct {
	Rows          int           `json:"rows"`
	Columns       int           `json:"columns"`
	Types         []ColumnType  `json:"types"`
	Missing       []ColumnCount `json:"missing"`
	DuplicateRows int           `json:"duplicate_rows"`
	Unique        []ColumnCount `json:"unique"`
}

// NumericSummary is one row of describe() output for a numeric column.
// Undefined statistics (empty column, std of one value) are NaN.
type NumericSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Q50    float64 `json:"q50"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// CategoricalSummary is one row of describe() output for an object column
type CategoricalSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top,omitempty"`
	Freq   int    `json:"freq"`
	HasTop bool   `json:"has_top"`
}

// SummaryStatistics holds descriptive statistics for both column families
type SummaryStatistics struct {
	Numeric     []NumericSummary     `json:"numeric"`
	Categorical []CategoricalSummary `json:"categorical"`
}

// CorrelationMatrix is a symmetric Pearson correlation matrix over numeric columns
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the coefficient for columns i and j
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// OutlierSummary describes the Tukey fences applied to one column
type OutlierSummary struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
}
