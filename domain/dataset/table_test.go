package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableValidates(t *testing.T) {
	_, err := NewTable("t", []Column{
		{Name: "a", DType: DTypeObject, Text: []string{"x"}, Missing: []bool{false}},
		{Name: "a", DType: DTypeObject, Text: []string{"y"}, Missing: []bool{false}},
	})
	assert.Error(t, err)

	_, err = NewTable("t", []Column{
		{Name: "a", DType: DTypeObject, Text: []string{"x"}, Missing: []bool{false}},
		{Name: "b", DType: DTypeObject, Text: []string{"y", "z"}, Missing: []bool{false, false}},
	})
	assert.Error(t, err)

	_, err = NewTable("t", []Column{
		{Name: "n", DType: DTypeInt64, Text: []string{"1"}, Missing: []bool{false}},
	})
	assert.Error(t, err, "numeric column without values")
}

func TestTableAccessors(t *testing.T) {
	table, err := NewTable("t.csv", []Column{
		{Name: "n", DType: DTypeInt64, Text: []string{"1", "2"}, Values: []float64{1, 2}, Missing: []bool{false, false}},
		{Name: "f", DType: DTypeBool, Text: []string{"true", "false"}, Missing: []bool{false, false}},
		{Name: "s", DType: DTypeObject, Text: []string{"x", ""}, Missing: []bool{false, true}},
		{Name: "m", DType: DTypeFloat64, Text: []string{"1.0", ""}, Values: []float64{1, math.NaN()}, Missing: []bool{false, true}},
	})
	require.NoError(t, err)

	assert.Equal(t, "t.csv", table.Name())
	assert.Equal(t, 2, table.Rows())
	assert.Equal(t, 4, table.NumColumns())
	assert.Equal(t, []string{"n", "m"}, table.NumericColumns())
	assert.Equal(t, []string{"s"}, table.CategoricalColumns())
	assert.True(t, table.IsNumeric("m"))
	assert.False(t, table.IsNumeric("f"))
	assert.False(t, table.IsNumeric("missing"))
	assert.Equal(t, []string{"m", "n"}, table.FilterNumeric([]string{"m", "s", "n", "m", "zzz"}))

	m, ok := table.Column("m")
	require.True(t, ok)
	assert.Equal(t, []float64{1}, m.Present())
	assert.Equal(t, 1, m.MissingCount())

	s, _ := table.Column("s")
	assert.Nil(t, s.Present())
	_, ok = table.Column("nope")
	assert.False(t, ok)
}

func TestUniqueCountNormalisesNumbers(t *testing.T) {
	col := Column{
		Name:    "v",
		DType:   DTypeFloat64,
		Text:    []string{"1", "1.0", "2", ""},
		Values:  []float64{1, 1, 2, math.NaN()},
		Missing: []bool{false, false, false, true},
	}
	assert.Equal(t, 2, col.UniqueCount())
	assert.Equal(t, 4, col.Len())
}

func TestDuplicateRows(t *testing.T) {
	table, err := NewTable("d", []Column{
		{Name: "n", DType: DTypeFloat64, Text: []string{"1", "1.0", "", ""}, Values: []float64{1, 1, math.NaN(), math.NaN()}, Missing: []bool{false, false, true, true}},
		{Name: "s", DType: DTypeObject, Text: []string{"x", "x", "", "y"}, Missing: []bool{false, false, true, false}},
	})
	require.NoError(t, err)
	// only the second row repeats an earlier one
	assert.Equal(t, 1, table.DuplicateRows())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNumeric, KindOf(DTypeInt64))
	assert.Equal(t, KindNumeric, KindOf(DTypeFloat64))
	assert.Equal(t, KindBoolean, KindOf(DTypeBool))
	assert.Equal(t, KindCategorical, KindOf(DTypeObject))
}
