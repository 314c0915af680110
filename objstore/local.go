package objstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalSource reads a shard from a local directory, seeking to the start
// byte and reading line-by-line -- the `local-file` scheme equivalent of the
// teacher's mountpath-local reads.
type LocalSource struct {
	dir string
}

// interface guard
var _ Source = (*LocalSource)(nil)

func NewLocalSource(dir string) *LocalSource { return &LocalSource{dir: dir} }

func (s *LocalSource) path(color string, year, month int) string {
	return filepath.Join(s.dir, Key(color, year, month))
}

func (s *LocalSource) Size(_ context.Context, color string, year, month int) (int64, error) {
	fi, err := os.Stat(s.path(color, year, month))
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (s *LocalSource) RangeReader(_ context.Context, color string, year, month int, byteStart, byteEnd int64) (io.ReadCloser, error) {
	f, err := os.Open(s.path(color, year, month))
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(byteStart, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return &limitedFile{f: f, remaining: byteEnd - byteStart}, nil
}

// limitedFile caps reads at the requested range's length, then reports EOF,
// matching the semantics of a true byte-range HTTP GET.
type limitedFile struct {
	f         *os.File
	remaining int64
}

func (l *limitedFile) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.f.Read(p)
	l.remaining -= int64(n)
	return n, err
}

func (l *limitedFile) Close() error { return l.f.Close() }
