package memory

import (
	"errors"
	"io"
	"sync"

	"github.com/derektruong/fxput/protoc"
)

var errNegativeOffset = errors.New("memory: negative offset")

type writeHandle struct {
	mu     sync.Mutex
	store  *Store
	path   string
	pos    int64
	closed bool
}

func (h *writeHandle) Write(p []byte) (n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	n, err = h.store.writeAt(h.path, h.pos, p)
	h.pos += int64(n)
	return
}

func (h *writeHandle) Seek(offset int64, whence int) (pos int64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	if h.pos, err = seek(h.pos, h.store.size(h.path), offset, whence); err != nil {
		return
	}
	return h.pos, nil
}

func (h *writeHandle) Close() (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.store.handleClosed()
	return
}

type readHandle struct {
	mu     sync.Mutex
	store  *Store
	path   string
	pos    int64
	closed bool
}

func (h *readHandle) Read(p []byte) (n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	var size int64
	if n, size, err = h.store.readAt(h.path, h.pos, p); err != nil {
		return
	}
	h.pos += int64(n)
	if n == 0 && h.pos >= size && len(p) > 0 {
		err = io.EOF
	}
	return
}

func (h *readHandle) Seek(offset int64, whence int) (pos int64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	if h.pos, err = seek(h.pos, h.store.size(h.path), offset, whence); err != nil {
		return
	}
	return h.pos, nil
}

func (h *readHandle) Close() (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.store.handleClosed()
	return
}

func seek(current, size, offset int64, whence int) (pos int64, err error) {
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = current + offset
	case io.SeekEnd:
		pos = size + offset
	default:
		return current, errors.New("memory: invalid whence")
	}
	if pos < 0 {
		return current, errNegativeOffset
	}
	return
}
