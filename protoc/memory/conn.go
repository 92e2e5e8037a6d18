package memory

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/derektruong/fxput/internal/lpath"
	"github.com/derektruong/fxput/protoc"
	"github.com/go-logr/logr"
)

type memoryConn struct {
	id     string
	store  *Store
	logger logr.Logger
	closed atomic.Bool
}

func (c *memoryConn) ID() string {
	return c.id
}

func (c *memoryConn) Stat(ctx context.Context, path string) (status protoc.ObjectStatus, err error) {
	if path, err = c.clean(path); err != nil {
		return
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.store.statLocked(path)
}

func (c *memoryConn) CreateCollectionAll(ctx context.Context, path string) (err error) {
	if path, err = c.clean(path); err != nil {
		return
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	ancestors := lpath.Ancestors(path)
	for _, ancestor := range ancestors {
		if _, ok := c.store.objects[ancestor]; ok {
			return &os.PathError{Op: "mkdir", Path: ancestor, Err: protoc.ErrNotCollection}
		}
	}
	now := time.Now()
	for _, ancestor := range ancestors {
		if _, ok := c.store.collections[ancestor]; !ok {
			c.store.collections[ancestor] = now
		}
	}
	c.logger.V(1).Info("created collection", "path", path)
	return
}

func (c *memoryConn) OpenForWrite(
	ctx context.Context,
	path string,
	flag protoc.OpenFlag,
) (handle protoc.WriteHandle, err error) {
	if path, err = c.clean(path); err != nil {
		return
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	parent := lpath.Parent(path)
	if _, ok := c.store.collections[parent]; !ok {
		if _, isObject := c.store.objects[parent]; isObject {
			return nil, &os.PathError{Op: "open", Path: parent, Err: protoc.ErrNotCollection}
		}
		return nil, &os.PathError{Op: "open", Path: parent, Err: protoc.ErrNotFound}
	}
	if _, ok := c.store.collections[path]; ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: protoc.ErrNotDataObject}
	}
	obj, exists := c.store.objects[path]
	switch {
	case !exists && !flag.Has(protoc.OpenCreate):
		return nil, &os.PathError{Op: "open", Path: path, Err: protoc.ErrNotFound}
	case !exists:
		c.store.objects[path] = &object{modTime: time.Now()}
	case flag.Has(protoc.OpenTruncate):
		obj.data = nil
		obj.modTime = time.Now()
	}

	c.store.openHandles++
	c.store.peakHandles = max(c.store.peakHandles, c.store.openHandles)
	return &writeHandle{store: c.store, path: path}, nil
}

func (c *memoryConn) OpenForRead(ctx context.Context, path string) (handle protoc.ReadHandle, err error) {
	var status protoc.ObjectStatus
	if status, err = c.Stat(ctx, path); err != nil {
		return
	}
	if status.Kind != protoc.KindDataObject {
		return nil, &os.PathError{Op: "open", Path: status.Path, Err: protoc.ErrNotDataObject}
	}
	c.store.handleOpened()
	return &readHandle{store: c.store, path: status.Path}, nil
}

func (c *memoryConn) SetModTime(ctx context.Context, path string, modTime time.Time) (err error) {
	if path, err = c.clean(path); err != nil {
		return
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if _, ok := c.store.collections[path]; ok {
		c.store.collections[path] = modTime
		return
	}
	if obj, ok := c.store.objects[path]; ok {
		obj.modTime = modTime
		return
	}
	return &os.PathError{Op: "chtimes", Path: path, Err: protoc.ErrNotFound}
}

func (c *memoryConn) Close() (err error) {
	if c.closed.CompareAndSwap(false, true) {
		c.store.connClosed()
	}
	return
}

func (c *memoryConn) clean(path string) (cleaned string, err error) {
	if c.closed.Load() {
		return "", protoc.ErrConnectionClosed
	}
	if cleaned, err = lpath.Clean(path); err != nil {
		return "", &os.PathError{Op: "resolve", Path: path, Err: errors.Join(protoc.ErrInvalidPath, err)}
	}
	return
}
