package fxput

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/derektruong/fxput/internal/iometer"
	"github.com/derektruong/fxput/protoc"
	"github.com/derektruong/fxput/storage"
)

// copyRange copies length bytes of src starting at offset to the same
// offset of dst, at most len(buf) bytes at a time. Every byte read from
// src is added to counter.
func copyRange(
	dst io.WriteSeeker,
	src io.ReadSeeker,
	offset, length int64,
	buf []byte,
	counter *atomic.Int64,
) (written int64, err error) {
	if _, err = src.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: local offset %d: %w", ErrSeekFailure, offset, err)
	}
	if _, err = dst.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w: remote offset %d: %w", ErrSeekFailure, offset, err)
	}

	reader := iometer.NewReader(src, counter)
	for written < length {
		want := min(int64(len(buf)), length-written)
		nr, readErr := reader.Read(buf[:want])
		if nr > 0 {
			nw, writeErr := dst.Write(buf[:nr])
			written += int64(nw)
			if writeErr != nil {
				return written, fmt.Errorf("%w: at offset %d: %w", ErrRemoteWriteFailure, offset+written, writeErr)
			}
			if nw < nr {
				return written, fmt.Errorf("%w: at offset %d: %w", ErrRemoteWriteFailure, offset+written, io.ErrShortWrite)
			}
		}
		switch {
		case readErr == nil && nr > 0:
		case readErr == nil, errors.Is(readErr, io.EOF):
			if written < length {
				return written, fmt.Errorf("%w: got %d of %d bytes at offset %d",
					ErrShortRead, written, length, offset)
			}
		default:
			return written, fmt.Errorf("%w: %w", ErrIOUnavailable, readErr)
		}
	}
	return
}

// putRange opens the local file and the remote data object over conn and
// copies the chunk. The data object is closed before returning, which
// commits the write on stores that buffer it.
func putRange(
	ctx context.Context,
	conn protoc.Conn,
	source storage.Source,
	spec ChunkSpec,
	flag protoc.OpenFlag,
	buf []byte,
	counter *atomic.Int64,
) (err error) {
	var file io.ReadSeekCloser
	if file, err = source.Open(ctx, spec.Source); err != nil {
		return classify(ErrIOUnavailable, err)
	}
	defer file.Close()

	var handle protoc.WriteHandle
	if handle, err = conn.OpenForWrite(ctx, spec.Destination, flag); err != nil {
		return classify(ErrRemoteWriteFailure, err)
	}
	if _, err = copyRange(handle, file, spec.Offset, spec.Length, buf, counter); err != nil {
		_ = handle.Close()
		return
	}
	if err = handle.Close(); err != nil {
		return classify(ErrRemoteWriteFailure, err)
	}
	return
}

// createEmpty creates or truncates the data object at path.
func createEmpty(ctx context.Context, conn protoc.Conn, path string) (err error) {
	var handle protoc.WriteHandle
	if handle, err = conn.OpenForWrite(ctx, path, protoc.OpenCreate|protoc.OpenTruncate); err != nil {
		return classify(ErrRemoteWriteFailure, err)
	}
	if err = handle.Close(); err != nil {
		return classify(ErrRemoteWriteFailure, err)
	}
	return
}

// copyStream copies src to dst until src is exhausted, len(buf) bytes at a
// time.
func copyStream(dst io.Writer, src io.Reader, buf []byte, counter *atomic.Int64) (written int64, err error) {
	reader := iometer.NewReader(src, counter)
	for {
		nr, readErr := reader.Read(buf)
		if nr > 0 {
			nw, writeErr := dst.Write(buf[:nr])
			written += int64(nw)
			if writeErr == nil && nw < nr {
				writeErr = io.ErrShortWrite
			}
			if writeErr != nil {
				return written, fmt.Errorf("%w: at offset %d: %w", ErrRemoteWriteFailure, written, writeErr)
			}
		}
		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, fmt.Errorf("%w: %w", ErrIOUnavailable, readErr)
		}
	}
}
