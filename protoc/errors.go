package protoc

import "errors"

var (
	ErrNotFound          = errors.New("protocol: logical path does not exist")
	ErrNotCollection     = errors.New("protocol: logical path is not a collection")
	ErrNotDataObject     = errors.New("protocol: logical path is not a data object")
	ErrInvalidPath       = errors.New("protocol: logical path must be absolute")
	ErrHandleClosed      = errors.New("protocol: stream handle is closed")
	ErrConnectionClosed  = errors.New("protocol: connection is closed")
	ErrPoolExhausted     = errors.New("protocol: timed out waiting for a pooled connection")
	ErrPoolClosed        = errors.New("protocol: connection pool is closed")
	ErrForeignConnection = errors.New("protocol: connection was not acquired from this pool")
)
