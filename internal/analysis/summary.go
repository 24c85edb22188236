package analysis

import (
	"math"
	"sort"

	"goeda/domain/dataset"
	"goeda/domain/views"

	"github.com/montanaflynn/stats"
)

// SummaryStatistics computes describe()-style statistics for numeric and
// categorical columns. Absent column families are reported as notes.
func SummaryStatistics(table *dataset.Table) *views.Result {
	res := views.NewResult(views.ViewSummaryStatistics)
	summary := &views.SummaryStatistics{}

	numeric := table.NumericColumns()
	if len(numeric) == 0 {
		res.Note("No numerical columns found.")
	}
	for _, name := range numeric {
		col, _ := table.Column(name)
		summary.Numeric = append(summary.Numeric, describeNumeric(name, notNaN(col.Present())))
	}

	categorical := table.CategoricalColumns()
	if len(categorical) == 0 {
		res.Note("No categorical columns found.")
	}
	for _, name := range categorical {
		col, _ := table.Column(name)
		summary.Categorical = append(summary.Categorical, describeCategorical(col))
	}

	res.Summary = summary
	return res
}

func describeNumeric(name string, values []float64) views.NumericSummary {
	s := views.NumericSummary{
		Column: name,
		Count:  len(values),
		Mean:   math.NaN(),
		Std:    math.NaN(),
		Min:    math.NaN(),
		Q25:    math.NaN(),
		Q50:    math.NaN(),
		Q75:    math.NaN(),
		Max:    math.NaN(),
	}
	if len(values) == 0 {
		return s
	}

	s.Mean, _ = stats.Mean(values)
	s.Min, _ = stats.Min(values)
	s.Max, _ = stats.Max(values)
	if len(values) > 1 {
		s.Std, _ = stats.StandardDeviationSample(values)
	}

	sorted := sortedCopy(values)
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// describeCategorical counts non-missing values; the most frequent value wins
// and ties go to the value seen first
func describeCategorical(col *dataset.Column) views.CategoricalSummary {
	s := views.CategoricalSummary{Column: col.Name}

	type tally struct {
		count int
		first int
	}
	counts := make(map[string]*tally)
	for i, v := range col.Text {
		if col.Missing[i] {
			continue
		}
		s.Count++
		if t, ok := counts[v]; ok {
			t.count++
		} else {
			counts[v] = &tally{count: 1, first: i}
		}
	}
	s.Unique = len(counts)

	if len(counts) == 0 {
		return s
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		ta, tb := counts[keys[a]], counts[keys[b]]
		if ta.count != tb.count {
			return ta.count > tb.count
		}
		return ta.first < tb.first
	})

	s.Top = keys[0]
	s.Freq = counts[keys[0]].count
	s.HasTop = true
	return s
}
