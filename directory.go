package fxput

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"sync/atomic"

	"github.com/derektruong/fxput/internal/lpath"
	"github.com/derektruong/fxput/internal/workerpool"
	"github.com/derektruong/fxput/internal/xferfile"
	"github.com/derektruong/fxput/protoc"
	"github.com/derektruong/fxput/storage"
	"github.com/go-logr/logr"
	"github.com/samber/lo"
)

// node tracks a unit until it and, for directories, every entry below it
// reached a terminal outcome.
type node struct {
	unit TransferUnit
	// rel is the slash separated path relative to the uploaded directory
	rel    string
	parent *node

	// pending counts the entries not finished yet, plus one while the
	// directory is being listed
	pending atomic.Int64
	// failed is set when any entry below the directory failed
	failed atomic.Bool
	// err is the failure of the directory itself, written before pending
	// drops to zero
	err error
	// done is set once the outcome of a file is recorded
	done atomic.Bool
}

// run is the state of one Upload call.
type run struct {
	*uploader
	logger logr.Logger

	// ctx is observed before every dispatch, taskCtx is handed to the
	// dispatched tasks and ignores cancellation
	ctx     context.Context
	taskCtx context.Context

	source    storage.Source
	pool      protoc.ConnectionPool
	workers   *workerpool.Pool
	excludes  excludeRule
	collector *collector
	progress  *progressTracker
}

func (u *uploader) newRun(ctx context.Context, cmd UploadCommand, excludes excludeRule) (r *run) {
	c := newCollector()
	r = &run{
		uploader:  u,
		logger:    u.logger,
		ctx:       ctx,
		taskCtx:   context.WithoutCancel(ctx),
		source:    cmd.Source,
		pool:      cmd.Pool,
		workers:   workerpool.New(u.logger, u.workers),
		excludes:  excludes,
		collector: c,
		progress:  newProgressTracker(c.report.StartedAt, u.refreshProgressInterval, u.progressCallback),
	}
	return
}

// dispatch hands the task of unit n to the workers. A panic escaping the
// task fails n, so the unit and its ancestors still reach an outcome.
func (r *run) dispatch(n *node, task func()) {
	if err := r.workers.Go(func() {
		if err := recovered(func() error { task(); return nil }); err != nil {
			r.logger.Error(err, "upload task panicked", "srcPath", n.unit.Source)
			r.fail(n, err)
		}
	}); err != nil {
		r.logger.Error(err, "failed to dispatch task", "srcPath", n.unit.Source)
		r.fail(n, err)
		return
	}
	r.collector.addDispatched()
}

// uploadDirectory creates the collection of n, then dispatches one task per
// entry of the local directory.
func (r *run) uploadDirectory(n *node) {
	defer func() {
		if rec := recover(); rec != nil {
			n.err = fmt.Errorf("%w: %v", ErrTaskPanicked, rec)
			r.logger.Error(n.err, "directory task panicked", "srcPath", n.unit.Source)
		}
		r.release(n)
	}()

	if err := withConnection(r.taskCtx, r.pool, func(conn protoc.Conn) error {
		return classify(ErrRemoteWriteFailure, conn.CreateCollectionAll(r.taskCtx, n.unit.Destination))
	}); err != nil {
		n.err = err
		r.logger.Error(err, "failed to create collection", "srcPath", n.unit.Source, "dstPath", n.unit.Destination)
		return
	}

	entries, err := r.source.ReadDir(r.taskCtx, n.unit.Source)
	if err != nil {
		n.err = classify(ErrIOUnavailable, err)
		r.logger.Error(err, "failed to list directory", "srcPath", n.unit.Source)
		return
	}
	r.logger.V(1).Info("listed directory", "srcPath", n.unit.Source, "entries", len(entries))

	for i, entry := range entries {
		if r.ctx.Err() != nil {
			canceled := lo.Map(entries[i:], func(e xferfile.Info, _ int) TransferUnit {
				return r.childUnit(n, e)
			})
			r.collector.addCanceled(canceled...)
			n.failed.Store(true)
			r.logger.Info("upload is canceled, stopped dispatching entries",
				"srcPath", n.unit.Source, "canceled", len(canceled))
			return
		}
		r.dispatchEntry(n, entry)
	}
}

func (r *run) childUnit(parent *node, entry xferfile.Info) (unit TransferUnit) {
	unit = TransferUnit{
		Source:      entry.Path,
		Destination: lpath.Join(parent.unit.Destination, entry.Name),
		Kind:        UnitOther,
	}
	switch {
	case entry.IsDir():
		unit.Kind = UnitDirectory
	case entry.IsRegular():
		unit.Kind = UnitFile
	}
	return
}

func (r *run) dispatchEntry(parent *node, entry xferfile.Info) {
	child := &node{
		unit:   r.childUnit(parent, entry),
		rel:    path.Join(parent.rel, entry.Name),
		parent: parent,
	}
	child.pending.Store(1)
	parent.pending.Add(1)

	if reason := r.excludes.Check(child.rel); reason != nil {
		r.skip(child, reason)
		return
	}

	switch child.unit.Kind {
	case UnitDirectory:
		r.dispatch(child, func() { r.uploadDirectory(child) })
	case UnitFile:
		if reason := r.fileRule.Check(entry); reason != nil {
			r.skip(child, reason)
			return
		}
		r.progress.planned.Add(entry.Size)
		r.dispatch(child, func() { r.uploadFile(child, entry.Size) })
	default:
		err := fmt.Errorf("%w: %s (%s)", ErrNotDirectoryOrFile, entry.Path, entry.Mode.Type())
		r.logger.Error(err, "cannot upload entry", "srcPath", entry.Path)
		r.fail(child, err)
	}
}

// dispatchRootFile uploads a single file given as the upload source, after
// making sure its collection exists.
func (r *run) dispatchRootFile(n *node, info xferfile.Info) {
	if reason := r.fileRule.Check(info); reason != nil {
		r.skip(n, reason)
		return
	}
	r.progress.planned.Add(info.Size)
	r.dispatch(n, func() {
		if err := withConnection(r.taskCtx, r.pool, func(conn protoc.Conn) error {
			return classify(ErrRemoteWriteFailure, conn.CreateCollectionAll(r.taskCtx, lpath.Parent(n.unit.Destination)))
		}); err != nil {
			r.completeFile(n, err)
			return
		}
		r.uploadFile(n, info.Size)
	})
}

// release drops one pending entry of the directory n, and records its
// outcome once nothing is pending anymore.
func (r *run) release(n *node) {
	if n.pending.Add(-1) > 0 {
		return
	}
	outcome := Outcome{Unit: n.unit, Status: StatusSuccess}
	switch {
	case n.err != nil:
		outcome.Status, outcome.Err = StatusFailure, n.err
	case n.failed.Load():
		outcome.Status, outcome.Err = StatusFailure, ErrIncompleteSubtree
	}
	r.collector.addCollection(outcome)
	r.logger.V(1).Info("directory is finished",
		"srcPath", n.unit.Source, "dstPath", n.unit.Destination, "status", outcome.Status.String())
	r.notifyParent(n, outcome.Status == StatusFailure)
}

func (r *run) notifyParent(n *node, failed bool) {
	if n.parent == nil {
		return
	}
	if failed {
		n.parent.failed.Store(true)
	}
	r.release(n.parent)
}

// skip records n as skipped for reason.
func (r *run) skip(n *node, reason error) {
	outcome := Outcome{Unit: n.unit, Status: StatusSkipped, Err: reason}
	if n.unit.Kind == UnitDirectory {
		r.collector.addCollection(outcome)
	} else {
		r.collector.addFile(outcome)
	}
	r.logger.V(1).Info("skipped entry", "srcPath", n.unit.Source, "reason", reason.Error())
	r.notifyParent(n, false)
}

// fail records n as failed without running it.
func (r *run) fail(n *node, err error) {
	if n.unit.Kind == UnitDirectory {
		n.err = err
		r.release(n)
		return
	}
	r.completeFile(n, err)
}

// uploadFile plans the file of n and uploads it with the planned strategy.
func (r *run) uploadFile(n *node, size int64) {
	strategy, err := PlanFile(n.unit, size, r.multiChunkThreshold)
	if err != nil {
		r.completeFile(n, err)
		return
	}
	r.logger.V(1).Info("planned file upload",
		"srcPath", n.unit.Source, "dstPath", n.unit.Destination,
		"totalSize", size, "strategy", strategy.Kind.String(), "chunks", len(strategy.Chunks))

	switch strategy.Kind {
	case StrategyEmpty:
		r.completeFile(n, r.createEmpty(n))
	case StrategySingleStream:
		spec := strategy.Chunks[0]
		err = r.putChunk(spec, protoc.OpenCreate|protoc.OpenTruncate)
		if err == nil {
			r.collector.addBytes(spec.Length)
		}
		r.completeFile(n, err)
	case StrategyMultiChunk:
		r.uploadChunks(n, strategy.Chunks)
	}
}

// fileChunks gathers the chunk results of one multi-chunk file.
type fileChunks struct {
	n         *node
	remaining atomic.Int64
	mu        sync.Mutex
	errs      []error
}

// uploadChunks pre-creates the data object, then dispatches every chunk.
// The last chunk to finish records the outcome of the file.
func (r *run) uploadChunks(n *node, chunks []ChunkSpec) {
	if err := r.createEmpty(n); err != nil {
		r.completeFile(n, err)
		return
	}

	fc := &fileChunks{n: n}
	fc.remaining.Store(int64(len(chunks)))
	for _, spec := range chunks {
		if err := r.workers.Go(func() { r.uploadChunk(fc, spec) }); err != nil {
			r.chunkDone(fc, spec, err)
		}
	}
}

func (r *run) uploadChunk(fc *fileChunks, spec ChunkSpec) {
	r.chunkDone(fc, spec, r.putChunk(spec, protoc.OpenCreate))
}

func (r *run) chunkDone(fc *fileChunks, spec ChunkSpec, err error) {
	outcome := Outcome{Unit: fc.n.unit, Chunk: &spec, Status: StatusSuccess}
	if err != nil {
		outcome.Status, outcome.Err = StatusFailure, err
		fc.mu.Lock()
		fc.errs = append(fc.errs, fmt.Errorf("chunk [%d, %d): %w", spec.Offset, spec.End(), err))
		fc.mu.Unlock()
		r.logger.Error(err, "failed to upload chunk",
			"srcPath", spec.Source, "dstPath", spec.Destination, "offset", spec.Offset, "length", spec.Length)
	} else {
		r.logger.V(1).Info("uploaded chunk",
			"dstPath", spec.Destination, "offset", spec.Offset, "length", spec.Length)
	}
	r.collector.addChunk(outcome)

	if fc.remaining.Add(-1) > 0 {
		return
	}
	fc.mu.Lock()
	fileErr := errors.Join(fc.errs...)
	fc.mu.Unlock()
	r.completeFile(fc.n, fileErr)
}

// createEmpty creates the empty data object of n over a pooled connection.
func (r *run) createEmpty(n *node) error {
	return recovered(func() error {
		return withConnection(r.taskCtx, r.pool, func(conn protoc.Conn) error {
			return createEmpty(r.taskCtx, conn, n.unit.Destination)
		})
	})
}

// putChunk copies one chunk over a pooled connection. A panic while
// copying fails the chunk only; the connection is released either way.
func (r *run) putChunk(spec ChunkSpec, flag protoc.OpenFlag) error {
	return recovered(func() error {
		return withConnection(r.taskCtx, r.pool, func(conn protoc.Conn) error {
			buf := r.getBuffer()
			defer r.buffers.Put(buf)
			if err := putRange(r.taskCtx, conn, r.source, spec, flag, *buf, &r.progress.transferred); err != nil {
				return err
			}
			bytesUploaded.Add(spec.Length)
			return nil
		})
	})
}

// completeFile records the outcome of the file of n, once.
func (r *run) completeFile(n *node, err error) {
	if !n.done.CompareAndSwap(false, true) {
		return
	}
	outcome := Outcome{Unit: n.unit, Status: StatusSuccess}
	if err != nil {
		outcome.Status, outcome.Err = StatusFailure, err
		filesFailed.Add(1)
		r.logger.Error(err, "failed to upload file", "srcPath", n.unit.Source, "dstPath", n.unit.Destination)
	} else {
		filesUploaded.Add(1)
		r.logger.Info("file upload is finished", "srcPath", n.unit.Source, "dstPath", n.unit.Destination)
	}
	r.collector.addFile(outcome)
	r.progress.fileDone(err != nil)
	r.notifyParent(n, err != nil)
}
