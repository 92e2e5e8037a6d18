// Package iometer counts the bytes flowing through readers.
package iometer

import (
	"io"
	"sync/atomic"

	"github.com/samber/lo"
)

//go:generate mockgen -destination=mock/mock_reader.go -package=mock_iometer io Reader

// Reader counts the bytes read from an underlying reader. A Reader is not
// safe for concurrent use, but the totals it adds into may be shared by
// many readers, e.g. all chunks of one upload.
type Reader struct {
	reader io.Reader
	totals []*atomic.Int64
	count  int64
}

// NewReader wraps reader. Every read is added to each non-nil total.
func NewReader(reader io.Reader, totals ...*atomic.Int64) *Reader {
	return &Reader{
		reader: reader,
		totals: lo.Compact(totals),
	}
}

// Read reads from the underlying reader. Bytes returned along with an
// error are counted too.
func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = r.reader.Read(p)
	if n > 0 {
		r.count += int64(n)
		for _, total := range r.totals {
			total.Add(int64(n))
		}
	}
	return
}

// Count returns the number of bytes read through r.
func (r *Reader) Count() int64 {
	return r.count
}
