package protoc

import (
	"context"
	"io"
	"time"
)

//go:generate mockgen -source=conn.go -destination=mock/mock_conn.go -package=mock_protoc

// OpenFlag controls how a data object is opened for writing.
type OpenFlag int

const (
	// OpenCreate creates the data object when it does not exist yet.
	OpenCreate OpenFlag = 1 << iota
	// OpenTruncate discards the current content of the data object.
	OpenTruncate
)

// Has reports whether all bits of flag are set.
func (f OpenFlag) Has(flag OpenFlag) bool {
	return f&flag == flag
}

// ObjectKind discriminates the entries of the logical namespace.
type ObjectKind int

const (
	KindUnknown ObjectKind = iota
	KindDataObject
	KindCollection
)

func (k ObjectKind) String() string {
	switch k {
	case KindDataObject:
		return "data-object"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// ObjectStatus describes one entry of the logical namespace.
type ObjectStatus struct {
	// Path is the cleaned logical path of the entry
	Path string `json:"path"`
	// Kind tells whether the entry is a collection or a data object
	Kind ObjectKind `json:"kind"`
	// Size is the size of a data object in bytes, zero for collections
	Size int64 `json:"size"`
	// ModTime is the last modification time of the entry
	ModTime time.Time `json:"modTime"`
}

// WriteHandle is a positioned write stream on a single data object.
// Close is idempotent; for some stores the written bytes only become
// visible once Close returns without error.
type WriteHandle interface {
	io.Writer
	io.Seeker
	io.Closer
}

// ReadHandle is a positioned read stream on a single data object.
// Close is idempotent.
type ReadHandle interface {
	io.Reader
	io.Seeker
	io.Closer
}

// Conn is one live session with the remote store. A Conn must never be
// used by two goroutines at the same time; share it through a
// ConnectionPool instead.
type Conn interface {
	// ID returns the unique identifier of this session.
	ID() string

	// Stat returns the status of the entry at the logical path.
	//
	// Returns:
	//  - status: the status of the entry
	//  - err: ErrNotFound if nothing exists at the path
	Stat(ctx context.Context, path string) (status ObjectStatus, err error)

	// CreateCollectionAll creates the collection at the logical path and all
	// its missing ancestors. It succeeds when the collection already exists.
	//
	// Returns:
	//  - err: ErrNotCollection if the path or an ancestor is a data object
	CreateCollectionAll(ctx context.Context, path string) (err error)

	// OpenForWrite opens the data object at the logical path for writing,
	// positioned at offset 0. The parent collection must exist.
	//
	// Parameters:
	//  - ctx: the context
	//  - path: the logical path of the data object
	//  - flag: see OpenFlag
	//
	// Returns:
	//  - handle: the write handle, seek it to write at another offset
	//  - err: the error if any occurred, nil otherwise
	OpenForWrite(ctx context.Context, path string, flag OpenFlag) (handle WriteHandle, err error)

	// OpenForRead opens the data object at the logical path for reading,
	// positioned at offset 0.
	OpenForRead(ctx context.Context, path string) (handle ReadHandle, err error)

	// SetModTime updates the modification time of a collection or data object.
	SetModTime(ctx context.Context, path string, modTime time.Time) (err error)

	// Close ends the session. It is safe to call more than once.
	Close() (err error)
}
