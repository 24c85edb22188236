package tabular

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"goeda/adapters/excel"
	"goeda/domain/dataset"
	"goeda/internal"
	"goeda/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var logger = internal.DefaultLogger.For("TabularLoader")

// DefaultNaNValues are the cell texts treated as missing, matching pandas' read_csv
var DefaultNaNValues = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"null", "NULL", "None", "<NA>", "#N/A", "#NA",
}

// Loader turns raw records into typed tables using gota's type detection
type Loader struct {
	reader    *excel.DataReader
	nanValues []string
}

// NewLoader creates a loader reading files with the given reader configuration
func NewLoader(config excel.ReaderConfig) *Loader {
	return &Loader{
		reader:    excel.NewDataReader(config),
		nanValues: DefaultNaNValues,
	}
}

// Load reads and types the dataset in r; filename selects CSV or XLSX parsing
func (l *Loader) Load(filename string, r io.Reader) (*dataset.Table, error) {
	raw, err := l.reader.Read(filename, r)
	if err != nil {
		return nil, err
	}
	return l.FromRaw(raw)
}

// FromRaw infers column types for already parsed records
func (l *Loader) FromRaw(raw *excel.RawData) (*dataset.Table, error) {
	headers := NormalizeHeaders(raw.Headers)
	if len(headers) == 0 {
		return nil, errors.ParseError("no columns to parse from file", nil)
	}

	if len(raw.Rows) == 0 {
		return emptyTable(raw.Name, headers)
	}

	records := make([][]string, 0, len(raw.Rows)+1)
	records = append(records, headers)
	for _, row := range raw.Rows {
		records = append(records, inferenceRow(row))
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(l.nanValues),
	)
	if df.Err != nil {
		return nil, errors.ParseError("failed to infer column types", df.Err)
	}

	columns := make([]dataset.Column, len(headers))
	for j, name := range headers {
		s := df.Col(name)
		if s.Err != nil {
			return nil, errors.ParseError(fmt.Sprintf("column %q", name), s.Err)
		}
		columns[j] = l.buildColumn(name, s, raw.Rows, j)
	}

	table, err := dataset.NewTable(raw.Name, columns)
	if err != nil {
		return nil, errors.ParseError("inconsistent table", err)
	}
	logger.Debug("loaded %s: %d rows, %d columns, %d numeric",
		raw.Name, table.Rows(), table.NumColumns(), len(table.NumericColumns()))
	return table, nil
}

// buildColumn converts a gota series to a dataset column, declaring the dtype
// pandas would report for the same data
func (l *Loader) buildColumn(name string, s series.Series, rows [][]string, j int) dataset.Column {
	missing := make([]bool, len(rows))
	text := make([]string, len(rows))
	allMissing := true
	for i := range rows {
		if l.isNaN(rows[i][j]) {
			missing[i] = true
			continue
		}
		allMissing = false
		text[i] = rows[i][j]
	}
	hasMissing := !allMissing && countTrue(missing) > 0

	col := dataset.Column{
		Name:    name,
		Text:    text,
		Missing: missing,
	}

	switch s.Type() {
	case series.Int:
		col.DType = dataset.DTypeInt64
		if hasMissing {
			col.DType = dataset.DTypeFloat64
		}
	case series.Float:
		col.DType = dataset.DTypeFloat64
	case series.Bool:
		col.DType = dataset.DTypeBool
		if hasMissing || unparsed(s.IsNaN(), missing) {
			col.DType = dataset.DTypeObject
		}
	default:
		col.DType = dataset.DTypeObject
		if allMissing {
			col.DType = dataset.DTypeFloat64
		}
	}

	if col.DType == dataset.DTypeBool {
		for i := range text {
			if !missing[i] {
				text[i] = inferenceCell(text[i])
			}
		}
	}

	if col.IsNumeric() {
		if allMissing {
			col.Values = make([]float64, len(rows))
			for i := range col.Values {
				col.Values[i] = math.NaN()
			}
		} else {
			col.Values = s.Float()
		}
	}
	return col
}

// inferenceRow rewrites cells the way pandas reads them before type detection:
// numbers lose surrounding whitespace and True/TRUE/False/FALSE become booleans.
// Object columns keep the cells as written.
func inferenceRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = inferenceCell(cell)
	}
	return out
}

func inferenceCell(cell string) string {
	switch cell {
	case "True", "TRUE", "true":
		return "true"
	case "False", "FALSE", "false":
		return "false"
	}
	if trimmed := strings.TrimSpace(cell); trimmed != cell && trimmed != "" {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) {
			return trimmed
		}
	}
	return cell
}

func emptyTable(name string, headers []string) (*dataset.Table, error) {
	columns := make([]dataset.Column, len(headers))
	for i, h := range headers {
		columns[i] = dataset.Column{
			Name:    h,
			DType:   dataset.DTypeObject,
			Text:    []string{},
			Missing: []bool{},
		}
	}
	return dataset.NewTable(name, columns)
}

// NormalizeHeaders trims names, labels blank ones "Unnamed: <i>" and suffixes
// repeats ".1", ".2" so every column name is unique
func NormalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if used[name] {
			base := name
			for k := 1; used[name]; k++ {
				name = fmt.Sprintf("%s.%d", base, k)
			}
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func (l *Loader) isNaN(cell string) bool {
	for _, v := range l.nanValues {
		if cell == v {
			return true
		}
	}
	return false
}

// unparsed reports cells gota could not convert although they were present,
// such as "2" in a column it detected as boolean
func unparsed(nan, missing []bool) bool {
	for i := range nan {
		if nan[i] && !missing[i] {
			return true
		}
	}
	return false
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
