package fxput

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/derektruong/fxput/internal/lpath"
	"github.com/derektruong/fxput/internal/xferfile"
	"github.com/derektruong/fxput/protoc"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "fxput/uploader"

var (
	bytesUploaded atomic.Int64
	filesUploaded atomic.Int64
	filesFailed   atomic.Int64

	meterOnce sync.Once
	meterErr  error
)

// Uploader is the interface for uploading local files and directories to
// a remote store.
type Uploader interface {
	// Upload uploads the local file or directory at cmd.SourcePath into the
	// collection cmd.DestinationPath, under the base name of the source.
	// Directories are walked recursively, every file and chunk is uploaded
	// as an independent task, and failures are collected instead of
	// aborting the sibling tasks. Canceling ctx stops dispatching new
	// entries; the tasks already dispatched run to completion.
	//
	// Parameters:
	//   - ctx: the context for managing the upload lifecycle.
	//   - cmd: see UploadCommand for more details.
	//
	// Returns:
	//   - report: the outcome of every unit, see UploadReport
	//   - err: the validation or source error when nothing could be
	//     uploaded, report.Err() otherwise
	Upload(ctx context.Context, cmd UploadCommand) (report UploadReport, err error)

	// UploadStream copies cmd.Reader into the data object at
	// cmd.DestinationPath over one pooled connection, creating or
	// truncating it.
	//
	// Returns:
	//   - report: a report holding the single stream outcome
	//   - err: the validation error, report.Err() otherwise
	UploadStream(ctx context.Context, cmd StreamCommand) (report UploadReport, err error)
}

// uploader handles uploads with configurations
type uploader struct {
	logger  logr.Logger
	buffers sync.Pool

	// options
	workers                 int
	bufferSize              int
	multiChunkThreshold     int64
	fileRule                *fileRule
	excludes                []string
	refreshProgressInterval time.Duration
	progressCallback        ProgressUpdatedCallback
}

// NewUploader creates a new uploader with the optional UploadOption(s).
func NewUploader(
	logger logr.Logger,
	options ...UploadOption,
) Uploader {
	u := &uploader{
		logger:                  logger.WithName("uploader"),
		workers:                 runtime.NumCPU(),
		bufferSize:              DefaultBufferSize,
		multiChunkThreshold:     DefaultMultiChunkThreshold,
		fileRule:                new(fileRule),
		refreshProgressInterval: defaultRefreshInterval,
	}
	for _, opt := range options {
		opt(u)
	}
	u.buffers.New = func() any {
		buf := make([]byte, u.bufferSize)
		return &buf
	}
	if err := registerMeterCallback(); err != nil {
		u.logger.Error(err, "failed to register uploader metrics")
	}
	return u
}

func (u *uploader) Upload(ctx context.Context, cmd UploadCommand) (report UploadReport, err error) {
	if err = cmd.Validate(ctx); err != nil {
		return
	}
	var excludes excludeRule
	if excludes, err = newExcludeRule(u.excludes); err != nil {
		return
	}
	var destination string
	if destination, err = lpath.Clean(cmd.DestinationPath); err != nil {
		return
	}

	var srcInfo xferfile.Info
	if srcInfo, err = cmd.Source.GetFileInfo(ctx, cmd.SourcePath); err != nil {
		return report, classify(ErrIOUnavailable, err)
	}
	root := &node{
		unit: TransferUnit{
			Source:      srcInfo.Path,
			Destination: lpath.Join(destination, srcInfo.Name),
		},
	}
	root.pending.Store(1)
	switch {
	case srcInfo.IsDir():
		root.unit.Kind = UnitDirectory
	case srcInfo.IsRegular():
		root.unit.Kind = UnitFile
	default:
		return report, fmt.Errorf("%w: %s (%s)", ErrNotDirectoryOrFile, cmd.SourcePath, srcInfo.Mode.Type())
	}

	r := u.newRun(ctx, cmd, excludes)
	defer r.workers.Close()

	completed := make(chan struct{})
	go r.progress.track(completed)

	u.logger.Info("starting upload",
		"srcPath", root.unit.Source, "dstPath", root.unit.Destination, "kind", root.unit.Kind.String(),
		"workers", r.workers.Width(), "connections", cmd.Pool.Size())

	if root.unit.Kind == UnitDirectory {
		r.dispatch(root, func() { r.uploadDirectory(root) })
	} else {
		r.dispatchRootFile(root, srcInfo)
	}

	r.workers.Wait()
	close(completed)
	report = r.collector.finish()
	r.progress.finish(report)

	u.logger.Info("upload is finished",
		"srcPath", root.unit.Source, "dstPath", root.unit.Destination,
		"files", len(report.Files), "failures", len(report.Failures()),
		"skipped", len(report.Skipped()), "canceled", len(report.Canceled),
		"bytes", report.BytesTransferred, "duration", report.Duration().String())
	err = report.Err()
	return
}

func (u *uploader) UploadStream(ctx context.Context, cmd StreamCommand) (report UploadReport, err error) {
	if err = cmd.Validate(ctx); err != nil {
		return
	}
	var destination string
	if destination, err = lpath.Clean(cmd.DestinationPath); err != nil {
		return
	}

	c := newCollector()
	unit := TransferUnit{Source: "-", Destination: destination, Kind: UnitStream}
	var written int64
	streamErr := withConnection(ctx, cmd.Pool, func(conn protoc.Conn) (err error) {
		var status protoc.ObjectStatus
		status, err = conn.Stat(ctx, destination)
		switch {
		case err == nil && status.Kind == protoc.KindCollection:
			return fmt.Errorf("%w: %w: %s", ErrRemoteWriteFailure, protoc.ErrNotDataObject, destination)
		case err != nil && !errors.Is(err, protoc.ErrNotFound):
			return classify(ErrRemoteWriteFailure, err)
		}

		var handle protoc.WriteHandle
		if handle, err = conn.OpenForWrite(ctx, destination, protoc.OpenCreate|protoc.OpenTruncate); err != nil {
			return classify(ErrRemoteWriteFailure, err)
		}
		buf := u.getBuffer()
		defer u.buffers.Put(buf)
		if written, err = copyStream(handle, cmd.Reader, *buf, nil); err != nil {
			_ = handle.Close()
			return
		}
		if err = handle.Close(); err != nil {
			return classify(ErrRemoteWriteFailure, err)
		}
		return
	})

	outcome := Outcome{Unit: unit, Status: StatusSuccess}
	if streamErr != nil {
		outcome.Status, outcome.Err = StatusFailure, streamErr
		filesFailed.Add(1)
		u.logger.Error(streamErr, "failed to upload stream", "dstPath", destination, "written", written)
	} else {
		c.addBytes(written)
		filesUploaded.Add(1)
		bytesUploaded.Add(written)
		u.logger.Info("stream upload is finished", "dstPath", destination, "totalSize", written)
	}
	c.addFile(outcome)
	report = c.finish()
	err = report.Err()
	return
}

func (u *uploader) getBuffer() *[]byte {
	return u.buffers.Get().(*[]byte)
}

// withConnection runs fn over a pooled connection. Failures to lease the
// connection are classified as remote write failures unless the pool is
// exhausted.
func withConnection(ctx context.Context, pool protoc.ConnectionPool, fn func(conn protoc.Conn) error) (err error) {
	var leased bool
	err = protoc.WithConnection(ctx, pool, func(conn protoc.Conn) error {
		leased = true
		return fn(conn)
	})
	if err != nil && !leased {
		err = classify(ErrRemoteWriteFailure, err)
	}
	return
}

func registerMeterCallback() error {
	meterOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		var bytes, uploaded, failed metric.Int64ObservableCounter
		if bytes, meterErr = meter.Int64ObservableCounter("bytes_uploaded"); meterErr != nil {
			return
		}
		if uploaded, meterErr = meter.Int64ObservableCounter("files_uploaded"); meterErr != nil {
			return
		}
		if failed, meterErr = meter.Int64ObservableCounter("files_failed"); meterErr != nil {
			return
		}
		_, meterErr = meter.RegisterCallback(
			func(ctx context.Context, o metric.Observer) (err error) {
				o.ObserveInt64(bytes, bytesUploaded.Load())
				o.ObserveInt64(uploaded, filesUploaded.Load())
				o.ObserveInt64(failed, filesFailed.Load())
				return
			},
			bytes, uploaded, failed,
		)
	})
	return meterErr
}
