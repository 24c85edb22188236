package dataset

// DType is the declared storage type of a column, named the way pandas reports it
type DType string

const (
	DTypeInt64   DType = "int64"
	DTypeFloat64 DType = "float64"
	DTypeBool    DType = "bool"
	DTypeObject  DType = "object"
)

// Kind groups dtypes by what the analysis functions may do with them
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindBoolean     Kind = "boolean"
	KindCategorical Kind = "categorical"
)

// KindOf maps a declared dtype onto its analysis kind
func KindOf(t DType) Kind {
	switch t {
	case DTypeInt64, DTypeFloat64:
		return KindNumeric
	case DTypeBool:
		return KindBoolean
	default:
		return KindCategorical
	}
}

// Column is a single named, typed column.
//
// Text always holds the raw cell text ("" where missing). Values is populated for
// numeric columns only and carries NaN where the cell is missing.
type Column struct {
	Name    string    `json:"name"`
	DType   DType     `json:"dtype"`
	Text    []string  `json:"-"`
	Values  []float64 `json:"-"`
	Missing []bool    `json:"-"`
}

// Kind returns the analysis kind of the column
func (c *Column) Kind() Kind {
	return KindOf(c.DType)
}

// IsNumeric reports whether the column's declared type is an integer or float kind
func (c *Column) IsNumeric() bool {
	return c.Kind() == KindNumeric
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Missing)
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Present returns the non-missing numeric values in row order.
// Non-numeric columns yield nil.
func (c *Column) Present() []float64 {
	if !c.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(c.Values))
	for i, v := range c.Values {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// UniqueCount returns the number of distinct non-missing values
func (c *Column) UniqueCount() int {
	seen := make(map[string]struct{}, len(c.Text))
	for i, s := range c.Text {
		if c.Missing[i] {
			continue
		}
		seen[c.key(i, s)] = struct{}{}
	}
	return len(seen)
}

// key normalises a cell so that "1" and "1.0" count as the same number
func (c *Column) key(i int, s string) string {
	if c.IsNumeric() {
		return formatKey(c.Values[i])
	}
	return s
}
