package xferfile

import (
	"os"
	"time"
)

// Info describes one entry of the local filesystem about to be uploaded.
type Info struct {
	// Path is the local path of the entry
	Path string `json:"path"`

	// Size is the size of the file in bytes, zero for directories
	Size int64 `json:"size"`

	// Name is the base name of the entry, extension included
	Name string `json:"name"`

	// Extension contains the file extension without the leading dot,
	// empty when the name has none
	Extension string `json:"extension"`

	// ModTime is the modification time of the entry
	ModTime time.Time `json:"modTime"`

	// Mode holds the type and permission bits of the entry
	Mode os.FileMode `json:"mode"`
}

// IsDir reports whether the entry is a directory.
func (i Info) IsDir() bool {
	return i.Mode.IsDir()
}

// IsRegular reports whether the entry is a regular file.
func (i Info) IsRegular() bool {
	return i.Mode.IsRegular()
}
