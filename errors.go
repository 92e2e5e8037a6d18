package fxput

import (
	"errors"
	"fmt"

	"github.com/derektruong/fxput/protoc"
)

var (
	// ErrIOUnavailable is returned when the local source cannot be stat'ed,
	// listed, opened or read.
	ErrIOUnavailable = errors.New("fxput: local source is unavailable")
	// ErrSeekFailure is returned when a local or remote stream cannot be
	// positioned at a chunk offset.
	ErrSeekFailure = errors.New("fxput: cannot seek to chunk offset")
	// ErrShortRead is returned when the local file ends before the planned
	// chunk is fully read, e.g. it was truncated during the upload.
	ErrShortRead = errors.New("fxput: local file ended before the chunk was read")
	// ErrRemoteWriteFailure is returned when the remote store rejects a write,
	// an open, a close or a collection creation.
	ErrRemoteWriteFailure = errors.New("fxput: remote store rejected the write")
	// ErrPoolExhausted is returned when no pooled connection could be leased
	// within the acquire timeout.
	ErrPoolExhausted = protoc.ErrPoolExhausted
	// ErrCanceled is reported for the units that were never dispatched
	// because the upload was canceled.
	ErrCanceled = errors.New("fxput: upload canceled before the unit was dispatched")
	// ErrNotDirectoryOrFile is returned for sources that are neither a
	// directory nor a regular file (devices, sockets, pipes).
	ErrNotDirectoryOrFile = errors.New("fxput: source is neither a directory nor a regular file")
	// ErrIncompleteSubtree is the error of a directory outcome when the
	// directory itself was created but some of its entries failed.
	ErrIncompleteSubtree = errors.New("fxput: one or more entries of the directory failed")
	// ErrTaskPanicked is the error of a unit or chunk whose task panicked.
	ErrTaskPanicked = errors.New("fxput: upload task panicked")
)

// recovered runs fn and turns a panic raised by it into an error.
func recovered(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, rec)
		}
	}()
	return fn()
}

// classify wraps err with kind unless it already carries kind or the pool
// exhaustion error.
func classify(kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) || errors.Is(err, ErrPoolExhausted) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
