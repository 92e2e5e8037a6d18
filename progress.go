package fxput

import (
	"math"
	"sync/atomic"
	"time"
)

// ProgressUpdatedCallback is a function that is called when the
// progress of an upload is updated.
type ProgressUpdatedCallback func(progress Progress)

// ProgressStatus is an enum that represents the status of the progress
type ProgressStatus int

const (
	// ProgressStatusInProgress is the status of the progress when the upload is in progress
	ProgressStatusInProgress ProgressStatus = iota
	// ProgressStatusFinalizing is the status of the progress when every planned
	// byte is read but some data objects are still being committed
	ProgressStatusFinalizing
	// ProgressStatusFinished is the status of the progress when the upload is finished
	ProgressStatusFinished
	// ProgressStatusInError is the status of the progress when the upload
	// finished with failed or canceled units
	ProgressStatusInError
)

// Progress is the aggregated progress of one upload. Sizes grow while the
// directory walk discovers files.
type Progress struct {
	// Status is the status of the progress
	Status ProgressStatus

	// TotalSize is the number of bytes of the files planned so far
	TotalSize int64

	// TransferredSize is the number of bytes read from the local files so far
	TransferredSize int64

	// Percentage is the percentage of the planned bytes that has been transferred
	Percentage int

	// Speed is the speed of the upload in bytes per second
	Speed int64

	// Duration is the duration of the upload
	Duration time.Duration

	// FilesDone is the number of files that reached a terminal outcome
	FilesDone int64

	// FilesFailed is the number of files that failed
	FilesFailed int64

	// Error is the aggregated error (when Status is ProgressStatusInError)
	Error error

	// StartAt is the time when the upload started
	StartAt time.Time

	// FinishAt is the time when the upload finished
	FinishAt time.Time
}

const (
	// finalizingProgress is the progress value that is used when
	// every byte is read but the upload is not finished yet
	finalizingProgress = 99
	// finishedProgress is the progress value that is used when
	// the upload is finished (100%)
	finishedProgress = 100
)

// progressTracker holds the counters of one upload and reports them
// periodically.
type progressTracker struct {
	startTime       time.Time
	refreshInterval time.Duration
	cb              ProgressUpdatedCallback

	planned     atomic.Int64
	transferred atomic.Int64
	filesDone   atomic.Int64
	filesFailed atomic.Int64
}

func newProgressTracker(
	startTime time.Time,
	refreshInterval time.Duration,
	cb ProgressUpdatedCallback,
) *progressTracker {
	return &progressTracker{
		startTime:       startTime,
		refreshInterval: refreshInterval,
		cb:              cb,
	}
}

// fileDone counts a file that reached a terminal outcome.
func (t *progressTracker) fileDone(failed bool) {
	t.filesDone.Add(1)
	if failed {
		t.filesFailed.Add(1)
	}
}

func (t *progressTracker) snapshot() (p Progress) {
	totalSize := t.planned.Load()
	transferredSize := t.transferred.Load()
	elapsed := time.Since(t.startTime)
	p = Progress{
		Status:          ProgressStatusInProgress,
		TotalSize:       totalSize,
		TransferredSize: transferredSize,
		Duration:        elapsed,
		Speed:           transferredSize / int64(math.Max(1, elapsed.Seconds())),
		FilesDone:       t.filesDone.Load(),
		FilesFailed:     t.filesFailed.Load(),
		StartAt:         t.startTime,
	}
	if totalSize > 0 {
		p.Percentage = int(math.Min(
			finishedProgress,
			math.Round(float64(transferredSize)/float64(totalSize)*100),
		))
	}
	if p.Percentage == finishedProgress {
		p.Percentage = finalizingProgress
		p.Status = ProgressStatusFinalizing
	}
	return
}

// track calls the callback every refresh interval until completed is closed.
func (t *progressTracker) track(completed <-chan struct{}) {
	if t.cb == nil {
		return
	}
	ticker := time.NewTicker(t.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-completed:
			return
		case <-ticker.C:
			t.cb(t.snapshot())
		}
	}
}

// finish sends the final update derived from report.
func (t *progressTracker) finish(report UploadReport) {
	if t.cb == nil {
		return
	}
	p := t.snapshot()
	p.FinishAt = report.FinishedAt
	p.Duration = report.Duration()
	if p.Error = report.Err(); p.Error != nil {
		p.Status = ProgressStatusInError
	} else {
		p.Status = ProgressStatusFinished
		p.Percentage = finishedProgress
	}
	t.cb(p)
}
