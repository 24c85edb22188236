package ports

import (
	"io"

	"goeda/domain/charts"
)

// ChartRenderer turns a chart description into an image
type ChartRenderer interface {
	Render(spec charts.Spec, w io.Writer) error
	// ContentType is the MIME type of what Render writes
	ContentType() string
}
