package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"goeda/domain/charts"
	"goeda/internal"
	"goeda/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

var logger = internal.DefaultLogger.For("ChartRenderer")

var (
	markColor  = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
	boxFill    = color.NRGBA{R: 158, G: 202, B: 225, A: 255}
	missingHue = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
)

// paletteSize is the number of discrete colours on the correlation scale
const paletteSize = 255

// Renderer draws chart specs as SVG with gonum/plot
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer producing images of the given size in centimetres
func NewRenderer(widthCm, heightCm float64) *Renderer {
	return &Renderer{
		width:  vg.Length(widthCm) * vg.Centimeter,
		height: vg.Length(heightCm) * vg.Centimeter,
	}
}

// ContentType returns the MIME type of rendered charts
func (r *Renderer) ContentType() string {
	return "image/svg+xml"
}

// Render writes one chart as a standalone SVG document
func (r *Renderer) Render(spec charts.Spec, w io.Writer) error {
	if spec.Kind == charts.KindPairGrid {
		return r.renderPairGrid(spec, w)
	}

	p, err := r.build(spec)
	if err != nil {
		return errors.RenderError(fmt.Sprintf("failed to build %s chart", spec.Kind), err)
	}

	width, height := r.width, r.height
	if spec.Kind == charts.KindHeatmap {
		// square cells read better
		height = width
	}

	wt, err := p.WriterTo(width, height, "svg")
	if err != nil {
		return errors.RenderError("failed to create svg canvas", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.RenderError("failed to write svg", err)
	}
	logger.Trace("rendered %s chart %q", spec.Kind, spec.Title)
	return nil
}

// RenderSVG renders a chart into memory
func (r *Renderer) RenderSVG(spec charts.Spec) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(spec, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Inline strips the XML prolog so the SVG can be embedded in an HTML page
func Inline(svg []byte) string {
	if i := bytes.Index(svg, []byte("<svg")); i >= 0 {
		return string(svg[i:])
	}
	return string(svg)
}

func (r *Renderer) build(spec charts.Spec) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel

	switch spec.Kind {
	case charts.KindScatter:
		if spec.Scatter == nil {
			return nil, fmt.Errorf("scatter chart without data")
		}
		s, err := scatter(*spec.Scatter, spec.Alpha)
		if err != nil {
			return nil, err
		}
		p.Add(s)
	case charts.KindHistogram:
		if spec.Histogram == nil {
			return nil, fmt.Errorf("histogram chart without data")
		}
		p.Add(histogram(*spec.Histogram, spec.Alpha))
	case charts.KindBox:
		if spec.Box == nil {
			return nil, fmt.Errorf("box chart without data")
		}
		b, err := boxPlot(spec.Box)
		if err != nil {
			return nil, err
		}
		p.Add(b)
		if spec.Box.Horizontal {
			p.HideY()
		} else {
			p.HideX()
		}
	case charts.KindHeatmap:
		if spec.Heatmap == nil {
			return nil, fmt.Errorf("heatmap chart without data")
		}
		if err := heatmap(p, spec.Heatmap); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
	return p, nil
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	if alpha > 0 && alpha < 1 {
		c.A = uint8(math.Round(alpha * 255))
	}
	return c
}

func scatter(data charts.ScatterData, alpha float64) (*plotter.Scatter, error) {
	xys := make(plotter.XYs, len(data.X))
	for i := range data.X {
		xys[i].X = data.X[i]
		xys[i].Y = data.Y[i]
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Color = withAlpha(markColor, alpha)
	s.GlyphStyle.Radius = vg.Points(2.5)
	return s, nil
}

// histogram draws precomputed bins rather than letting plotter re-bin the data
func histogram(data charts.HistogramData, alpha float64) *plotter.Histogram {
	h := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(data.Bins)),
		FillColor: withAlpha(markColor, alpha),
		LineStyle: plotter.DefaultLineStyle,
	}
	for i, b := range data.Bins {
		h.Bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: float64(b.Count)}
	}
	if len(data.Bins) > 0 {
		h.Width = data.Bins[0].Max - data.Bins[0].Min
	}
	h.LineStyle.Width = vg.Points(0.5)
	return h
}

// boxPlot lets plotter lay out the box, then applies our own quartiles and fences
func boxPlot(data *charts.BoxData) (*plotter.BoxPlot, error) {
	if len(data.Values) == 0 {
		return nil, fmt.Errorf("box chart without values")
	}
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(data.Values))
	if err != nil {
		return nil, err
	}
	b.Median = data.Median
	b.Quartile1 = data.Q1
	b.Quartile3 = data.Q3
	b.AdjLow = data.WhiskerLow
	b.AdjHigh = data.WhiskerHigh
	b.Outside = b.Outside[:0]
	for i, v := range b.Values {
		if v < data.LowerFence || v > data.UpperFence {
			b.Outside = append(b.Outside, i)
		}
	}
	b.Horizontal = data.Horizontal
	if data.Filled {
		b.FillColor = boxFill
	}
	return b, nil
}

// correlationGrid places the first label in the top row
type correlationGrid struct {
	values [][]float64
}

func (g correlationGrid) Dims() (int, int) {
	return len(g.values), len(g.values)
}

func (g correlationGrid) Z(c, r int) float64 {
	return g.values[len(g.values)-1-r][c]
}

func (g correlationGrid) X(c int) float64 { return float64(c) }
func (g correlationGrid) Y(r int) float64 { return float64(r) }

func heatmap(p *plot.Plot, data *charts.HeatmapData) error {
	n := len(data.Labels)
	if n == 0 || len(data.Values) != n {
		return fmt.Errorf("heatmap needs a square matrix with one label per row")
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(data.Min)
	cm.SetMax(data.Max)

	grid := correlationGrid{values: data.Values}
	hm := plotter.NewHeatMap(grid, cm.Palette(paletteSize))
	hm.Min = data.Min
	hm.Max = data.Max
	hm.NaN = missingHue
	p.Add(hm)

	if data.Annotate {
		var labels plotter.XYLabels
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				v := grid.Z(c, r)
				if math.IsNaN(v) {
					continue
				}
				labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
				labels.Labels = append(labels.Labels, fmt.Sprintf("%.2f", v))
			}
		}
		if len(labels.Labels) > 0 {
			l, err := plotter.NewLabels(labels)
			if err != nil {
				return err
			}
			for i := range l.TextStyle {
				l.TextStyle[i].XAlign = draw.XCenter
				l.TextStyle[i].YAlign = draw.YCenter
			}
			p.Add(l)
		}
	}

	reversed := make([]string, n)
	for i, name := range data.Labels {
		reversed[n-1-i] = name
	}
	p.NominalX(data.Labels...)
	p.NominalY(reversed...)
	return nil
}

// renderPairGrid lays out an n×n matrix of plots: histograms on the diagonal,
// scatter plots elsewhere. Row i plots column i on the y axis.
func (r *Renderer) renderPairGrid(spec charts.Spec, w io.Writer) error {
	grid := spec.PairGrid
	if grid == nil || len(grid.Columns) == 0 {
		return errors.RenderError("pair grid without columns", nil)
	}
	n := len(grid.Columns)

	plots := make([][]*plot.Plot, n)
	for i := 0; i < n; i++ {
		plots[i] = make([]*plot.Plot, n)
		for j := 0; j < n; j++ {
			p := plot.New()
			if i == n-1 {
				p.X.Label.Text = grid.Columns[j]
			}
			if j == 0 {
				p.Y.Label.Text = grid.Columns[i]
			}
			if i == j {
				p.Add(histogram(grid.Diagonal[i], 0))
			} else {
				s, err := scatter(grid.Cells[i][j], 0)
				if err != nil {
					return errors.RenderError("failed to build pair grid cell", err)
				}
				p.Add(s)
			}
			plots[i][j] = p
		}
	}

	side := r.height * vg.Length(n) / 2
	if side < r.height {
		side = r.height
	}
	img := vgsvg.New(side, side)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      n,
		Cols:      n,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}

	canvases := plot.Align(plots, tiles, dc)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	if _, err := img.WriteTo(w); err != nil {
		return errors.RenderError("failed to write svg", err)
	}
	logger.Trace("rendered %dx%d pair grid", n, n)
	return nil
}
