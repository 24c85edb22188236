package charts

// Kind identifies which chart a Spec describes
type Kind string

const (
	KindHeatmap   Kind = "heatmap"
	KindBox       Kind = "box"
	KindScatter   Kind = "scatter"
	KindHistogram Kind = "histogram"
	KindPairGrid  Kind = "pair_grid"
)

// Spec is a backend-independent chart description. Analysis functions produce
// specs; a renderer turns them into images.
type Spec struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`

	// Opacity of marks in [0,1]; zero means fully opaque
	Alpha float64 `json:"alpha,omitempty"`

	Scatter   *ScatterData   `json:"scatter,omitempty"`
	Histogram *HistogramData `json:"histogram,omitempty"`
	Box       *BoxData       `json:"box,omitempty"`
	Heatmap   *HeatmapData   `json:"heatmap,omitempty"`
	PairGrid  *PairGridData  `json:"pair_grid,omitempty"`
}

// ScatterData holds paired observations with missing pairs already removed
type ScatterData struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Bin is a histogram bucket covering [Min, Max); the last bin also includes Max
type Bin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// HistogramData holds pre-computed equal-width bins
type HistogramData struct {
	Bins  []Bin `json:"bins"`
	Total int   `json:"total"`
}

// BoxData holds the five-number summary plus Tukey fences
type BoxData struct {
	Values     []float64 `json:"values"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	LowerFence float64   `json:"lower_fence"`
	UpperFence float64   `json:"upper_fence"`
	// Whisker ends: the most extreme observations inside the fences
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers"`
	Horizontal  bool      `json:"horizontal"`
	Filled      bool      `json:"filled"`
}

// HeatmapData is a square labelled matrix drawn on a diverging scale
type HeatmapData struct {
	Labels   []string    `json:"labels"`
	Values   [][]float64 `json:"values"`
	Min      float64     `json:"min"`
	Max      float64     `json:"max"`
	Center   float64     `json:"center"`
	Annotate bool        `json:"annotate"`
}

// PairGridData holds the per-column series for a scatter matrix
type PairGridData struct {
	Columns []string            `json:"columns"`
	Series  map[string][]float64 `json:"-"`
	// Diagonal histograms, one per column in Columns order
	Diagonal []HistogramData `json:"diagonal"`
	// Off-diagonal scatter data keyed [row][col]; the diagonal entries are empty
	Cells [][]ScatterData `json:"-"`
}
