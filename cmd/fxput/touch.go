package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/derektruong/fxput/internal/lpath"
	"github.com/derektruong/fxput/protoc"
	"github.com/spf13/cobra"
)

func newTouchCmd(a *app) *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "touch <logical_path> [unix-seconds]",
		Short: "Set the modification time of a collection or data object",
		Long: `Set the modification time of an existing collection or data object to the
given Unix time, or to the current time. With --create, an empty data object
is created when nothing exists at logical_path; its collection must exist.`,
		Example: `  fxput touch /zone/home/alice/report.csv
  fxput touch /zone/home/alice/report.csv 1700000000
  fxput touch --create /zone/home/alice/.keep`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) (err error) {
			var path string
			if path, err = a.logicalPath(args[0]); err != nil {
				return fmt.Errorf("invalid logical path %q: %w", args[0], err)
			}
			modTime := time.Now()
			if len(args) == 2 {
				var seconds int64
				if seconds, err = strconv.ParseInt(args[1], 10, 64); err != nil {
					return fmt.Errorf("invalid unix time %q: %w", args[1], err)
				}
				modTime = time.Unix(seconds, 0)
			}
			var pool *protoc.Pool
			if pool, err = a.connectionPool(); err != nil {
				return
			}
			return touch(cmd.Context(), pool, path, modTime, create)
		}),
	}

	cmd.Flags().BoolVar(&create, "create", false, "create an empty data object when missing")

	return cmd
}

func touch(ctx context.Context, pool protoc.ConnectionPool, path string, modTime time.Time, create bool) error {
	return protoc.WithConnection(ctx, pool, func(conn protoc.Conn) (err error) {
		if _, err = conn.Stat(ctx, path); err != nil {
			if !create || !isNotFound(err) || lpath.IsRoot(path) {
				return
			}
			var handle protoc.WriteHandle
			if handle, err = conn.OpenForWrite(ctx, path, protoc.OpenCreate); err != nil {
				return
			}
			if err = handle.Close(); err != nil {
				return
			}
		}
		return conn.SetModTime(ctx, path, modTime)
	})
}
