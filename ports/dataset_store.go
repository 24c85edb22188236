package ports

import (
	"context"
	"time"

	"goeda/domain/dataset"
)

// DatasetInfo describes a stored dataset without its content
type DatasetInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DatasetStore keeps loaded tables addressable by id between requests
type DatasetStore interface {
	Put(ctx context.Context, table *dataset.Table) (string, error)
	Get(ctx context.Context, id string) (*dataset.Table, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]DatasetInfo, error)
}
