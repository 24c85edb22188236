package views

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		columns []string
		set     bool
	}{
		{"defaults", "", nil, false},
		{"repeated and comma separated", "columns=a,b&columns=c", []string{"a", "b", "c"}, true},
		{"cleared multi-select", "columns_set=1", nil, true},
		{"empty value", "columns=", nil, true},
		{"blank names skipped", "columns=a,,%20b%20", []string{"a", "b"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			q.Set("x", "a")
			q.Set("y", "b")
			q.Set("column", "c")

			sel := ParseSelection(q)
			assert.Equal(t, tt.columns, sel.Columns)
			assert.Equal(t, tt.set, sel.ColumnsSet)
			assert.Equal(t, "a", sel.X)
			assert.Equal(t, "b", sel.Y)
			assert.Equal(t, "c", sel.Column)
		})
	}
}
