package fxput

import (
	"cmp"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// UnitKind tells what a TransferUnit uploads.
type UnitKind int

const (
	// UnitFile is a regular local file uploaded to one data object.
	UnitFile UnitKind = iota
	// UnitDirectory is a local directory uploaded to one collection.
	UnitDirectory
	// UnitStream is an io.Reader uploaded to one data object.
	UnitStream
	// UnitOther is a local entry that is neither a file nor a directory.
	UnitOther
)

func (k UnitKind) String() string {
	switch k {
	case UnitFile:
		return "file"
	case UnitDirectory:
		return "directory"
	case UnitStream:
		return "stream"
	default:
		return "other"
	}
}

// TransferUnit pairs a local source with its remote destination.
type TransferUnit struct {
	// Source is the local path, "-" for streams
	Source string `json:"source"`
	// Destination is the logical path of the data object or collection
	Destination string `json:"destination"`
	// Kind is the kind of the source
	Kind UnitKind `json:"kind"`
}

// ChunkSpec is one contiguous byte range of a file, uploaded by one task.
type ChunkSpec struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Offset      int64  `json:"offset"`
	Length      int64  `json:"length"`
}

// End returns the offset right after the last byte of the chunk.
func (c ChunkSpec) End() int64 {
	return c.Offset + c.Length
}

// Status is the terminal state of a unit or chunk.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the terminal state of a unit, or of one chunk of a unit when
// Chunk is set.
type Outcome struct {
	Unit   TransferUnit `json:"unit"`
	Chunk  *ChunkSpec   `json:"chunk,omitempty"`
	Status Status       `json:"status"`
	// Err is the cause of a failure, or the rule that skipped the unit
	Err error `json:"-"`
}

// UploadReport aggregates the outcomes of one upload.
type UploadReport struct {
	// Files holds one outcome per file or stream unit
	Files []Outcome
	// Collections holds one outcome per directory unit. A directory fails
	// when it could not be created or listed, or when any entry below it failed.
	Collections []Outcome
	// Chunks holds one outcome per chunk of every multi-chunk file
	Chunks []Outcome
	// Canceled lists the units that were never dispatched
	Canceled []TransferUnit
	// Dispatched is the number of file and directory units handed to the workers
	Dispatched int
	// BytesTransferred is the number of bytes written by successful chunks and streams
	BytesTransferred int64
	StartedAt        time.Time
	FinishedAt       time.Time
}

// Duration returns how long the upload ran.
func (r UploadReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failures returns the failed file and directory outcomes.
func (r UploadReport) Failures() []Outcome {
	return lo.Filter(append(slices.Clone(r.Collections), r.Files...), func(o Outcome, _ int) bool {
		return o.Status == StatusFailure
	})
}

// Skipped returns the outcomes of the units skipped by a file rule or an
// exclude pattern.
func (r UploadReport) Skipped() []Outcome {
	return lo.Filter(append(slices.Clone(r.Collections), r.Files...), func(o Outcome, _ int) bool {
		return o.Status == StatusSkipped
	})
}

// Failed reports whether any unit failed or was never dispatched.
func (r UploadReport) Failed() bool {
	return len(r.Canceled) > 0 || len(r.Failures()) > 0
}

// Err joins the errors of every failed unit. Directories failing only
// because of their entries are left out, the entries carry the cause.
func (r UploadReport) Err() error {
	var errs []error
	for _, o := range r.Failures() {
		if o.Err == nil || errors.Is(o.Err, ErrIncompleteSubtree) {
			continue
		}
		errs = append(errs, fmt.Errorf("%s %s: %w", o.Unit.Kind, o.Unit.Destination, o.Err))
	}
	if n := len(r.Canceled); n > 0 {
		errs = append(errs, fmt.Errorf("%w: %d units", ErrCanceled, n))
	}
	return errors.Join(errs...)
}

// collector gathers outcomes from concurrent tasks.
type collector struct {
	mu     sync.Mutex
	report UploadReport
}

func newCollector() *collector {
	return &collector{report: UploadReport{StartedAt: time.Now()}}
}

func (c *collector) addFile(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Files = append(c.report.Files, o)
}

func (c *collector) addCollection(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Collections = append(c.report.Collections, o)
}

func (c *collector) addChunk(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Chunks = append(c.report.Chunks, o)
	if o.Status == StatusSuccess && o.Chunk != nil {
		c.report.BytesTransferred += o.Chunk.Length
	}
}

func (c *collector) addBytes(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.BytesTransferred += n
}

func (c *collector) addCanceled(units ...TransferUnit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Canceled = append(c.report.Canceled, units...)
}

func (c *collector) addDispatched() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.Dispatched++
}

// finish returns the report with every outcome list sorted by destination,
// and chunks by offset.
func (c *collector) finish() (report UploadReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report.FinishedAt = time.Now()
	report = c.report
	byDestination := func(a, b Outcome) int {
		return cmp.Compare(a.Unit.Destination, b.Unit.Destination)
	}
	slices.SortFunc(report.Files, byDestination)
	slices.SortFunc(report.Collections, byDestination)
	slices.SortFunc(report.Chunks, func(a, b Outcome) int {
		if n := byDestination(a, b); n != 0 {
			return n
		}
		return cmp.Compare(a.Chunk.Offset, b.Chunk.Offset)
	})
	slices.SortFunc(report.Canceled, func(a, b TransferUnit) int {
		return cmp.Compare(a.Destination, b.Destination)
	})
	return
}
