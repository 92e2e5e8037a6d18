package storage

import (
	"context"
	"io"

	"github.com/derektruong/fxput/internal/xferfile"
)

//go:generate mockgen -source=source.go -destination=mock/mock_source.go -package=mock_storage

// Source is the read-only side of an upload.
type Source interface {
	// GetFileInfo retrieves the metadata of the entry at the given path,
	// following symbolic links
	//
	// Parameters:
	//  - ctx: the context of the request
	//  - filePath: the path of the entry
	//
	// Returns:
	//  - info: the metadata of the entry
	//  - err: the error if any occurred, nil otherwise
	GetFileInfo(ctx context.Context, filePath string) (info xferfile.Info, err error)

	// ReadDir lists the entries of a directory, sorted by name.
	//
	// Returns:
	//  - entries: the metadata of every entry, Path is joined to dirPath
	//  - err: ErrNotDirectory if dirPath is not a directory
	ReadDir(ctx context.Context, dirPath string) (entries []xferfile.Info, err error)

	// Open opens a regular file for reading, positioned at offset 0.
	//
	// Returns:
	//  - file: the opened file, the caller must close it
	//  - err: ErrIsDirectory if filePath is a directory
	Open(ctx context.Context, filePath string) (file io.ReadSeekCloser, err error)

	// Close closes the source
	Close()
}
