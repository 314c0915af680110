//go:build !gcs

package objstore

import (
	"context"
	"fmt"
	"io"
)

// GCSSource is only compiled in with `-tags gcs` (it pulls in the GCS SDK).
type GCSSource struct{}

var _ Source = (*GCSSource)(nil)

func NewGCSSource(string) (*GCSSource, error) {
	return nil, fmt.Errorf("objstore: built without gcs support, rebuild with -tags gcs")
}

func (*GCSSource) Size(context.Context, string, int, int) (int64, error) {
	return 0, fmt.Errorf("objstore: gcs support not built in")
}

func (*GCSSource) RangeReader(context.Context, string, int, int, int64, int64) (io.ReadCloser, error) {
	return nil, fmt.Errorf("objstore: gcs support not built in")
}
