package storage

import "errors"

var ErrNotDirectory = errors.New("storage: not a directory")
var ErrIsDirectory = errors.New("storage: is a directory")
