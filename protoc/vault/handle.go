package vault

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/derektruong/fxput/protoc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterNamePrefix = "fxput/protoc/vault"

var (
	// bytesWritten counts the bytes written by every vault handle of the process
	bytesWritten atomic.Int64

	meterOnce sync.Once
	meterErr  error
)

type writeHandle struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	closed bool
}

func (h *writeHandle) Write(p []byte) (n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	n, err = h.file.Write(p)
	bytesWritten.Add(int64(n))
	return
}

func (h *writeHandle) Seek(offset int64, whence int) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	return h.file.Seek(offset, whence)
}

func (h *writeHandle) Close() (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	if err = h.file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", h.path, err)
	}
	return
}

type readHandle struct {
	mu     sync.Mutex
	file   *os.File
	path   string
	closed bool
}

func (h *readHandle) Read(p []byte) (n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	return h.file.Read(p)
}

func (h *readHandle) Seek(offset int64, whence int) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	return h.file.Seek(offset, whence)
}

func (h *readHandle) Close() (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	return h.file.Close()
}

func registerMeterCallback() error {
	meterOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(fmt.Sprintf("%s/handle", meterNamePrefix))
		var written metric.Int64ObservableCounter
		if written, meterErr = meter.Int64ObservableCounter("bytes_written"); meterErr != nil {
			return
		}
		_, meterErr = meter.RegisterCallback(
			func(ctx context.Context, o metric.Observer) (err error) {
				o.ObserveInt64(written, bytesWritten.Load())
				return
			},
			written,
		)
	})
	return meterErr
}
