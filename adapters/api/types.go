package api

import (
	"goeda/domain/dataset"
	"goeda/domain/views"
)

// ColumnInfo describes one column of a stored dataset
type ColumnInfo struct {
	Name    string `json:"name"`
	DType   string `json:"dtype"`
	Missing int    `json:"missing"`
}

// DatasetResponse is returned when a dataset is uploaded or looked up
type DatasetResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Rows        int          `json:"rows"`
	Columns     []ColumnInfo `json:"columns"`
	Numeric     []string     `json:"numeric"`
	Categorical []string     `json:"categorical"`
	Views       []string     `json:"views"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newDatasetResponse(id string, table *dataset.Table) DatasetResponse {
	resp := DatasetResponse{
		ID:          id,
		Name:        table.Name(),
		Rows:        table.Rows(),
		Numeric:     table.NumericColumns(),
		Categorical: table.CategoricalColumns(),
	}
	for _, col := range table.Columns() {
		resp.Columns = append(resp.Columns, ColumnInfo{
			Name:    col.Name,
			DType:   string(col.DType),
			Missing: col.MissingCount(),
		})
	}
	for _, v := range views.All() {
		resp.Views = append(resp.Views, v.String())
	}
	return resp
}
