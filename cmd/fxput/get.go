package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/derektruong/fxput/protoc"
	"github.com/spf13/cobra"
)

const getBufferSize = 4 << 20

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <logical_path> [local_path|-]",
		Short: "Stream a data object to standard output or a local file",
		Example: `  fxput get /zone/home/alice/hello.txt
  fxput get /zone/home/alice/logs.tar ./logs.tar`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) (err error) {
			var path string
			if path, err = a.logicalPath(args[0]); err != nil {
				return fmt.Errorf("invalid logical path %q: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if len(args) == 2 && args[1] != stdioPath {
				var file *os.File
				if file, err = os.Create(args[1]); err != nil {
					return
				}
				defer func() {
					if closeErr := file.Close(); err == nil {
						err = closeErr
					}
				}()
				out = file
			}
			var pool *protoc.Pool
			if pool, err = a.connectionPool(); err != nil {
				return
			}
			var written int64
			if written, err = download(cmd.Context(), pool, path, out); err != nil {
				return
			}
			a.logger.V(1).Info("downloaded data object", "path", path, "size", written)
			return
		}),
	}
}

// download copies the data object at path to w over one pooled connection.
func download(ctx context.Context, pool protoc.ConnectionPool, path string, w io.Writer) (written int64, err error) {
	err = protoc.WithConnection(ctx, pool, func(conn protoc.Conn) (err error) {
		var status protoc.ObjectStatus
		if status, err = conn.Stat(ctx, path); err != nil {
			return
		}
		if status.Kind != protoc.KindDataObject {
			return fmt.Errorf("%w: %s", protoc.ErrNotDataObject, path)
		}
		var handle protoc.ReadHandle
		if handle, err = conn.OpenForRead(ctx, path); err != nil {
			return
		}
		defer handle.Close()
		written, err = io.CopyBuffer(w, handle, make([]byte, getBufferSize))
		return
	})
	return
}
