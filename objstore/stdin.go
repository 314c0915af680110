package objstore

import (
	"context"
	"io"
	"os"
)

// StdinSource is the literal "-" shard source: total size is unknown ahead
// of time, so Size reports -1 and RecordReader treats that as "unbounded",
// relying on skip/cap line counting instead of a byte range.
type StdinSource struct{}

var _ Source = (*StdinSource)(nil)

func NewStdinSource() *StdinSource { return &StdinSource{} }

func (*StdinSource) Size(context.Context, string, int, int) (int64, error) { return -1, nil }

func (*StdinSource) RangeReader(_ context.Context, _ string, _, _ int, byteStart, byteEnd int64) (io.ReadCloser, error) {
	// stdin cannot seek, but because records are fixed-width, skipping
	// byteStart bytes by discarding them is equivalent to seeking.
	if byteStart > 0 {
		if _, err := io.CopyN(io.Discard, os.Stdin, byteStart); err != nil {
			return nil, err
		}
	}
	return &limitedReader{r: os.Stdin, remaining: byteEnd - byteStart}, nil
}

type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

func (*limitedReader) Close() error { return nil }
