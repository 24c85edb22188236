package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an immutable in-memory dataset with named, typed columns
type Table struct {
	name    string
	columns []Column
	index   map[string]int
	rows    int
}

// NewTable validates the columns and builds a Table.
// All columns must have the same length and distinct names.
func NewTable(name string, columns []Column) (*Table, error) {
	t := &Table{
		name:    name,
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}

	for i := range columns {
		col := &columns[i]
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		t.index[col.Name] = i

		if len(col.Text) != len(col.Missing) {
			return nil, fmt.Errorf("column %q: text and missing mask differ in length", col.Name)
		}
		if col.IsNumeric() && len(col.Values) != len(col.Missing) {
			return nil, fmt.Errorf("column %q: numeric values and missing mask differ in length", col.Name)
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), t.rows)
		}
	}

	return t, nil
}

// Name returns the display name of the dataset (usually the uploaded file name)
func (t *Table) Name() string {
	return t.name
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	return t.rows
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Columns returns the columns in table order. Callers must not modify them.
func (t *Table) Columns() []Column {
	return t.columns
}

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i := range t.columns {
		names[i] = t.columns[i].Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.columns[i], true
}

// NumericColumns returns the names of numeric columns in column order
func (t *Table) NumericColumns() []string {
	return t.namesOfKind(KindNumeric)
}

// CategoricalColumns returns the names of object columns in column order
func (t *Table) CategoricalColumns() []string {
	return t.namesOfKind(KindCategorical)
}

func (t *Table) namesOfKind(k Kind) []string {
	var names []string
	for i := range t.columns {
		if t.columns[i].Kind() == k {
			names = append(names, t.columns[i].Name)
		}
	}
	return names
}

// IsNumeric reports whether name refers to a numeric column
func (t *Table) IsNumeric(name string) bool {
	col, ok := t.Column(name)
	return ok && col.IsNumeric()
}

// FilterNumeric keeps the names that refer to numeric columns, preserving order
// and dropping repeats
func (t *Table) FilterNumeric(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] || !t.IsNumeric(n) {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// DuplicateRows counts rows identical to an earlier row. Missing cells compare equal.
func (t *Table) DuplicateRows() int {
	seen := make(map[string]struct{}, t.rows)
	dups := 0
	var sb strings.Builder
	for r := 0; r < t.rows; r++ {
		sb.Reset()
		for c := range t.columns {
			col := &t.columns[c]
			if col.Missing[r] {
				sb.WriteString("\x00NA")
			} else {
				sb.WriteString(col.key(r, col.Text[r]))
			}
			sb.WriteByte('\x1f')
		}
		k := sb.String()
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

func formatKey(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
