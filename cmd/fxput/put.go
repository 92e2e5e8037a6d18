package main

import (
	"fmt"
	"time"

	"github.com/derektruong/fxput"
	"github.com/derektruong/fxput/storage/local"
	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

// stdioPath stands for standard input or output in place of a local path.
const stdioPath = "-"

type putFlags struct {
	workers  int
	excludes []string
	progress time.Duration
}

func newPutCmd(a *app) *cobra.Command {
	var flags putFlags

	cmd := &cobra.Command{
		Use:   "put <local_path|-> [logical_path]",
		Short: "Upload a file or a directory tree",
		Long: `Upload a local file or directory into the collection at logical_path, which
defaults to the home collection. A file f is stored as logical_path/f, a
directory d is mirrored as the collection logical_path/d.

With "-" as the source, standard input is streamed into the data object at
logical_path.`,
		Example: `  fxput put ./dataset /zone/home/alice
  fxput put --exclude '**/.git/**' --exclude '**/*.tmp' ./project
  echo hello | fxput put - /zone/home/alice/hello.txt`,
		Args: cobra.RangeArgs(1, 2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			return a.put(cmd, args, flags)
		}),
	}

	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "number of tasks run at once (default from config, CPU count)")
	cmd.Flags().StringArrayVar(&flags.excludes, "exclude", nil, "doublestar pattern of relative paths to skip, repeatable")
	cmd.Flags().DurationVar(&flags.progress, "progress-interval", 2*time.Second, "interval between progress lines, 0 disables them")

	return cmd
}

func (a *app) put(cmd *cobra.Command, args []string, flags putFlags) (err error) {
	ctx := cmd.Context()
	src := args[0]
	if src == stdioPath && len(args) < 2 {
		return fmt.Errorf("uploading standard input requires a logical path")
	}
	dest := a.cfg.Home
	if len(args) == 2 {
		dest = args[1]
	}
	if dest, err = a.logicalPath(dest); err != nil {
		return fmt.Errorf("invalid logical path %q: %w", args[len(args)-1], err)
	}

	options, err := a.uploadOptions(cmd, flags)
	if err != nil {
		return
	}
	pool, err := a.connectionPool()
	if err != nil {
		return
	}
	uploader := fxput.NewUploader(a.logger, options...)

	var report fxput.UploadReport
	if src == stdioPath {
		report, err = uploader.UploadStream(ctx, fxput.StreamCommand{
			Reader:          cmd.InOrStdin(),
			DestinationPath: dest,
			Pool:            pool,
		})
	} else {
		var source *local.Source
		if source, err = local.NewSource(a.logger); err != nil {
			return
		}
		defer source.Close()
		report, err = uploader.Upload(ctx, fxput.UploadCommand{
			SourcePath:      src,
			Source:          source,
			DestinationPath: dest,
			Pool:            pool,
		})
	}
	a.summarize(report)
	return
}

func (a *app) uploadOptions(cmd *cobra.Command, flags putFlags) (options []fxput.UploadOption, err error) {
	transfer := a.cfg.Transfer
	if cmd.Flags().Changed("workers") {
		if flags.workers <= 0 {
			return nil, fmt.Errorf("--workers must be positive, got %d", flags.workers)
		}
		transfer.Workers = flags.workers
	}
	transfer.Excludes = append(transfer.Excludes, flags.excludes...)
	if options, err = transfer.UploadOptions(); err != nil {
		return
	}
	if flags.progress > 0 {
		options = append(options,
			fxput.WithProgressRefreshInterval(flags.progress),
			fxput.WithProgressCallback(newProgressLogger(a.logger, flags.progress)),
		)
	}
	return
}

func (a *app) summarize(report fxput.UploadReport) {
	if report.StartedAt.IsZero() {
		return
	}
	a.logger.Info("upload summary",
		"files", len(report.Files),
		"collections", len(report.Collections),
		"chunks", len(report.Chunks),
		"failed", len(report.Failures()),
		"skipped", len(report.Skipped()),
		"canceled", len(report.Canceled),
		"transferred", units.BytesSize(float64(report.BytesTransferred)),
		"duration", report.Duration().Round(time.Millisecond).String(),
	)
}
