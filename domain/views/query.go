package views

import (
	"net/url"
	"strings"
)

// ParseSelection reads columns, x, y and column from query parameters.
// columns may repeat or hold a comma separated list. Any columns parameter, or
// columns_set (sent by forms whose multi-select was cleared), marks the column
// list as chosen.
func ParseSelection(q url.Values) Selection {
	sel := Selection{
		X:      q.Get("x"),
		Y:      q.Get("y"),
		Column: q.Get("column"),
	}

	values, ok := q["columns"]
	if ok || q.Get("columns_set") != "" {
		sel.ColumnsSet = true
	}
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sel.Columns = append(sel.Columns, name)
			}
		}
	}
	return sel
}
