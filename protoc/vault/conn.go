package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/derektruong/fxput/internal/lpath"
	"github.com/derektruong/fxput/protoc"
	"github.com/go-logr/logr"
)

var (
	defaultFilePerm = os.FileMode(0664)
	defaultDirPerm  = os.FileMode(0755)
)

type vaultConn struct {
	id     string
	root   string
	logger logr.Logger
	closed atomic.Bool
}

func (c *vaultConn) ID() string {
	return c.id
}

func (c *vaultConn) Stat(ctx context.Context, path string) (status protoc.ObjectStatus, err error) {
	var logical, physical string
	if logical, physical, err = c.resolve(path); err != nil {
		return
	}
	var info os.FileInfo
	if info, err = os.Stat(physical); err != nil {
		err = translateError(err)
		return
	}
	status = protoc.ObjectStatus{
		Path:    logical,
		Kind:    protoc.KindDataObject,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if info.IsDir() {
		status.Kind = protoc.KindCollection
		status.Size = 0
	}
	return
}

func (c *vaultConn) CreateCollectionAll(ctx context.Context, path string) (err error) {
	var logical, physical string
	if logical, physical, err = c.resolve(path); err != nil {
		return
	}
	for _, ancestor := range lpath.Ancestors(logical) {
		var status protoc.ObjectStatus
		if status, err = c.Stat(ctx, ancestor); err != nil {
			if errors.Is(err, protoc.ErrNotFound) {
				err = nil
				break
			}
			return
		}
		if status.Kind != protoc.KindCollection {
			return &os.PathError{Op: "mkdir", Path: ancestor, Err: protoc.ErrNotCollection}
		}
	}
	if err = os.MkdirAll(physical, defaultDirPerm); err != nil {
		return translateError(err)
	}
	c.logger.V(1).Info("created collection", "path", logical)
	return
}

func (c *vaultConn) OpenForWrite(
	ctx context.Context,
	path string,
	flag protoc.OpenFlag,
) (handle protoc.WriteHandle, err error) {
	var logical, physical string
	if logical, physical, err = c.resolve(path); err != nil {
		return
	}
	if err = c.requireCollection(ctx, lpath.Parent(logical)); err != nil {
		return
	}
	var status protoc.ObjectStatus
	if status, err = c.Stat(ctx, logical); err == nil && status.Kind == protoc.KindCollection {
		return nil, &os.PathError{Op: "open", Path: logical, Err: protoc.ErrNotDataObject}
	}

	osFlag := os.O_WRONLY
	if flag.Has(protoc.OpenCreate) {
		osFlag |= os.O_CREATE
	}
	if flag.Has(protoc.OpenTruncate) {
		osFlag |= os.O_TRUNC
	}
	var file *os.File
	if file, err = os.OpenFile(physical, osFlag, defaultFilePerm); err != nil {
		return nil, translateError(err)
	}
	return &writeHandle{file: file, path: logical}, nil
}

func (c *vaultConn) OpenForRead(ctx context.Context, path string) (handle protoc.ReadHandle, err error) {
	var status protoc.ObjectStatus
	if status, err = c.Stat(ctx, path); err != nil {
		return
	}
	if status.Kind != protoc.KindDataObject {
		return nil, &os.PathError{Op: "open", Path: status.Path, Err: protoc.ErrNotDataObject}
	}
	var file *os.File
	if file, err = os.Open(filepath.Join(c.root, filepath.FromSlash(status.Path))); err != nil {
		return nil, translateError(err)
	}
	return &readHandle{file: file, path: status.Path}, nil
}

func (c *vaultConn) SetModTime(ctx context.Context, path string, modTime time.Time) (err error) {
	var physical string
	if _, physical, err = c.resolve(path); err != nil {
		return
	}
	if err = os.Chtimes(physical, modTime, modTime); err != nil {
		return translateError(err)
	}
	return
}

func (c *vaultConn) Close() (err error) {
	if c.closed.CompareAndSwap(false, true) {
		c.logger.V(1).Info("closed vault connection")
	}
	return
}

// resolve maps a logical path onto the physical path under the vault root.
func (c *vaultConn) resolve(path string) (logical, physical string, err error) {
	if c.closed.Load() {
		err = protoc.ErrConnectionClosed
		return
	}
	if logical, err = lpath.Clean(path); err != nil {
		err = &os.PathError{Op: "resolve", Path: path, Err: protoc.ErrInvalidPath}
		return
	}
	physical = filepath.Join(c.root, filepath.FromSlash(logical))
	return
}

func (c *vaultConn) requireCollection(ctx context.Context, path string) (err error) {
	var status protoc.ObjectStatus
	if status, err = c.Stat(ctx, path); err != nil {
		return
	}
	if status.Kind != protoc.KindCollection {
		return &os.PathError{Op: "open", Path: path, Err: protoc.ErrNotCollection}
	}
	return
}

func translateError(err error) error {
	var pathErr *os.PathError
	switch {
	case errors.Is(err, os.ErrNotExist):
		if errors.As(err, &pathErr) {
			return &os.PathError{Op: pathErr.Op, Path: pathErr.Path, Err: protoc.ErrNotFound}
		}
		return protoc.ErrNotFound
	default:
		return err
	}
}
