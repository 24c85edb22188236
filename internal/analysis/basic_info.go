package analysis

import (
	"goeda/domain/dataset"
	"goeda/domain/views"
)

// BasicInfo reports the table's shape, declared types, missing values,
// duplicate rows and per-column cardinality
func BasicInfo(table *dataset.Table) *views.Result {
	res := views.NewResult(views.ViewBasicInfo)
	info := &views.BasicInfo{
		Rows:          table.Rows(),
		Columns:       table.NumColumns(),
		Types:         make([]views.ColumnType, 0, table.NumColumns()),
		Missing:       []views.ColumnCount{},
		Unique:        make([]views.ColumnCount, 0, table.NumColumns()),
		DuplicateRows: table.DuplicateRows(),
	}

	columns := table.Columns()
	for i := range columns {
		col := &columns[i]
		info.Types = append(info.Types, views.ColumnType{Column: col.Name, DType: string(col.DType)})
		if n := col.MissingCount(); n > 0 {
			info.Missing = append(info.Missing, views.ColumnCount{Column: col.Name, Count: n})
		}
		info.Unique = append(info.Unique, views.ColumnCount{Column: col.Name, Count: col.UniqueCount()})
	}

	res.BasicInfo = info
	return res
}
