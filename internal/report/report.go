package report

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"

	"goeda/adapters/render"
	"goeda/domain/dataset"
	"goeda/domain/views"
	"goeda/internal"
	"goeda/internal/analysis"
	"goeda/internal/errors"
	"goeda/ports"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"golang.org/x/sync/errgroup"
)

var logger = internal.DefaultLogger.For("ReportBuilder")

const reportCSS = `<style>
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 1100px; margin: 2rem auto; color: #222; }
table { border-collapse: collapse; margin: 0.5rem 0 1.5rem; }
th, td { border: 1px solid #ddd; padding: 0.25rem 0.6rem; text-align: right; }
th:first-child, td:first-child { text-align: left; }
blockquote { border-left: 4px solid #f0ad4e; margin: 0.5rem 0; padding: 0.25rem 0.75rem; background: #fff8e5; }
.chart svg { max-width: 100%; height: auto; }
</style>
`

// Builder renders every dashboard section of a dataset into one document
type Builder struct {
	renderer ports.ChartRenderer
	workers  int
}

// NewBuilder creates a builder drawing charts with renderer. At most workers
// sections are rendered at the same time.
func NewBuilder(renderer ports.ChartRenderer, workers int) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{renderer: renderer, workers: workers}
}

// Markdown renders the report as Markdown with charts embedded as inline SVG
func (b *Builder) Markdown(ctx context.Context, table *dataset.Table) ([]byte, error) {
	if table == nil {
		return nil, errors.InvalidInput("no dataset to report on")
	}
	start := time.Now()

	sections := views.All()
	parts := make([]string, len(sections))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, v := range sections {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := analysis.Dispatch(table, v, reportSelection(table, v))
			if err != nil {
				return errors.Wrapf(err, "section %s", v)
			}
			md, err := b.section(res)
			if err != nil {
				return errors.Wrapf(err, "section %s", v)
			}
			parts[i] = md
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# EDA report: %s\n\n", escapeCell(table.Name()))
	fmt.Fprintf(&buf, "%d rows × %d columns.\n\n", table.Rows(), table.NumColumns())
	for _, p := range parts {
		buf.WriteString(p)
	}

	logger.Info("report for %s built in %s", table.Name(), time.Since(start).Round(time.Millisecond))
	return buf.Bytes(), nil
}

// HTML renders the report as a complete HTML page
func (b *Builder) HTML(ctx context.Context, table *dataset.Table) ([]byte, error) {
	md, err := b.Markdown(ctx, table)
	if err != nil {
		return nil, err
	}
	return ToHTML(md, "EDA report: "+table.Name()), nil
}

// ToHTML converts report Markdown into a standalone page
func ToHTML(md []byte, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := markdown.Parse(md, p)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: html.EscapeString(title),
		Head:  []byte(reportCSS),
	})
	return markdown.Render(doc, renderer)
}

// reportSelection picks what a user would look at first: every numeric column
// for outliers and the first two numeric columns for the scatter plot
func reportSelection(table *dataset.Table, v views.View) views.Selection {
	numeric := table.NumericColumns()
	switch v {
	case views.ViewOutlierDetection:
		return views.Selection{Columns: numeric, ColumnsSet: true}
	case views.ViewScatterPlot:
		if len(numeric) >= 2 {
			return views.Selection{X: numeric[0], Y: numeric[1]}
		}
	}
	return views.Selection{}
}

func (b *Builder) section(res *views.Result) (string, error) {
	var sb strings.Builder
	sb.WriteString(Section(res))

	for _, spec := range res.Charts {
		var svg bytes.Buffer
		if err := b.renderer.Render(spec, &svg); err != nil {
			return "", err
		}
		// one line keeps the whole SVG inside a single raw HTML block
		inline := strings.ReplaceAll(render.Inline(svg.Bytes()), "\n", " ")
		fmt.Fprintf(&sb, "<div class=\"chart\">\n%s\n</div>\n\n", inline)
	}
	return sb.String(), nil
}

// Section renders the header, messages and tables of a result as Markdown.
// Charts are left out.
func Section(res *views.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", res.Title)

	for _, w := range res.Warnings {
		fmt.Fprintf(&sb, "> **Warning:** %s\n\n", w)
	}
	for _, n := range res.Notes {
		fmt.Fprintf(&sb, "> %s\n\n", n)
	}

	switch {
	case res.BasicInfo != nil:
		writeBasicInfo(&sb, res.BasicInfo)
	case res.Summary != nil:
		writeSummary(&sb, res.Summary)
	case res.Correlation != nil:
		writeCorrelation(&sb, res.Correlation)
	case len(res.Outliers) > 0:
		writeOutliers(&sb, res.Outliers)
	}
	return sb.String()
}

func writeBasicInfo(sb *strings.Builder, info *views.BasicInfo) {
	fmt.Fprintf(sb, "**Shape:** %d rows × %d columns\n\n", info.Rows, info.Columns)
	fmt.Fprintf(sb, "**Duplicate rows:** %d\n\n", info.DuplicateRows)

	sb.WriteString("**Data types**\n\n| Column | Type |\n|---|---|\n")
	for _, t := range info.Types {
		fmt.Fprintf(sb, "| %s | %s |\n", escapeCell(t.Column), t.DType)
	}
	sb.WriteString("\n**Missing values**\n\n")
	if len(info.Missing) == 0 {
		sb.WriteString("No missing values.\n\n")
	} else {
		sb.WriteString("| Column | Missing |\n|---|---|\n")
		for _, m := range info.Missing {
			fmt.Fprintf(sb, "| %s | %d |\n", escapeCell(m.Column), m.Count)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("**Unique values**\n\n| Column | Unique |\n|---|---|\n")
	for _, u := range info.Unique {
		fmt.Fprintf(sb, "| %s | %d |\n", escapeCell(u.Column), u.Count)
	}
	sb.WriteString("\n")
}

func writeSummary(sb *strings.Builder, s *views.SummaryStatistics) {
	if len(s.Numeric) > 0 {
		sb.WriteString("**Numerical columns**\n\n")
		sb.WriteString("| Column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
		for _, n := range s.Numeric {
			fmt.Fprintf(sb, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				escapeCell(n.Column), n.Count,
				FormatFloat(n.Mean), FormatFloat(n.Std), FormatFloat(n.Min),
				FormatFloat(n.Q25), FormatFloat(n.Q50), FormatFloat(n.Q75), FormatFloat(n.Max))
		}
		sb.WriteString("\n")
	}
	if len(s.Categorical) > 0 {
		sb.WriteString("**Categorical columns**\n\n| Column | count | unique | top | freq |\n|---|---|---|---|---|\n")
		for _, c := range s.Categorical {
			top := ""
			if c.HasTop {
				top = escapeCell(c.Top)
			}
			fmt.Fprintf(sb, "| %s | %d | %d | %s | %d |\n", escapeCell(c.Column), c.Count, c.Unique, top, c.Freq)
		}
		sb.WriteString("\n")
	}
}

func writeCorrelation(sb *strings.Builder, m *views.CorrelationMatrix) {
	sb.WriteString("| |")
	for _, c := range m.Columns {
		fmt.Fprintf(sb, " %s |", escapeCell(c))
	}
	sb.WriteString("\n|---|" + strings.Repeat("---|", len(m.Columns)) + "\n")
	for i, row := range m.Columns {
		fmt.Fprintf(sb, "| %s |", escapeCell(row))
		for j := range m.Columns {
			fmt.Fprintf(sb, " %s |", strconv.FormatFloat(m.At(i, j), 'f', 2, 64))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeOutliers(sb *strings.Builder, outliers []views.OutlierSummary) {
	sb.WriteString("| Column | Outliers | Lower fence | Upper fence |\n|---|---|---|---|\n")
	for _, o := range outliers {
		fmt.Fprintf(sb, "| %s | %d | %s | %s |\n",
			escapeCell(o.Column), o.Count, FormatFloat(o.LowerFence), FormatFloat(o.UpperFence))
	}
	sb.WriteString("\n")
}

// FormatFloat prints statistics with up to six significant digits; undefined
// values print as NaN and infinities as inf
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ", "<", "&lt;", ">", "&gt;").Replace(s)
}
