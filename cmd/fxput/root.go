package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/derektruong/fxput"
	"github.com/derektruong/fxput/internal/lpath"
	"github.com/derektruong/fxput/protoc"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

// app holds the state shared by the subcommands of one invocation.
type app struct {
	// global flags
	cfgPath   string
	logLevel  string
	logFormat string
	poolSize  int

	cfg    fxput.Config
	logger logr.Logger
	pool   *protoc.Pool
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logr.Discard()}

	cmd := &cobra.Command{
		Use:   "fxput",
		Short: "Parallel uploads to a remote collection store",
		Long: `fxput uploads local files and directory trees into the logical namespace of a
remote store. Large files are split into chunks written concurrently over a
bounded pool of connections.

The store is selected by the configuration file, looked up at --config, then
$FXPUT_CONFIG, then ~/.config/fxput/config.yaml. Without a file, a vault store
under ~/.local/share/fxput/vault is used.`,
		Example: `  fxput put ./dataset /zone/home/alice
  fxput put -c 8 -w 16 big.tar /zone/home/alice
  tar c ./logs | fxput put - /zone/home/alice/logs.tar
  fxput get /zone/home/alice/logs.tar > logs.tar
  fxput touch --create /zone/home/alice/.keep`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.setupLogging(cmd.ErrOrStderr())
			if shouldSkipConfig(cmd.Name()) {
				return nil
			}
			return a.loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to config file (auto-discovered if not specified)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format (text or json)")
	cmd.PersistentFlags().IntVarP(&a.poolSize, "connection-pool-size", "c", 0,
		"number of connections opened at most (default from config, 4)")

	cmd.AddCommand(
		newPutCmd(a),
		newGetCmd(a),
		newTouchCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// setupLogging builds the logger from the --log-level and --log-format flags.
func (a *app) setupLogging(w io.Writer) {
	var level slog.Level
	switch strings.ToLower(a.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if strings.ToLower(a.logFormat) == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	a.logger = logr.FromSlogHandler(handler).WithName("fxput")
}

func (a *app) loadConfig(cmd *cobra.Command) (err error) {
	ctx := cmd.Context()
	if a.cfgPath == "" {
		if a.cfgPath, err = fxput.FindConfigFile(); err != nil {
			a.logger.V(1).Info("config file not found, using defaults", "errorMessage", err.Error())
			a.cfgPath = ""
		}
	}

	if a.cfgPath != "" {
		if a.cfg, err = fxput.LoadConfig(ctx, a.cfgPath); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		a.cfg = fxput.DefaultConfig()
		if err = a.cfg.Validate(ctx); err != nil {
			return fmt.Errorf("invalid default config: %w", err)
		}
	}

	if cmd.Flags().Changed("connection-pool-size") {
		if a.poolSize <= 0 {
			return fmt.Errorf("--connection-pool-size must be positive, got %d", a.poolSize)
		}
		a.cfg.Transfer.PoolSize = a.poolSize
	}
	a.logger.V(1).Info("config loaded",
		"path", a.cfgPath,
		"store", a.cfg.Store.Type,
		"poolSize", a.cfg.Transfer.PoolSize)
	return nil
}

// connectionPool returns the pool of the configured store, created on first
// use. Connections are dialed on the first lease.
func (a *app) connectionPool() (pool *protoc.Pool, err error) {
	if a.pool != nil {
		return a.pool, nil
	}
	if a.cfg.Store.Type == fxput.StoreVault {
		if err = os.MkdirAll(a.cfg.Store.Vault.Root, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create vault root: %w", err)
		}
	}
	var client protoc.Client
	if client, err = a.cfg.Store.NewClient(); err != nil {
		return
	}
	if a.pool, err = protoc.NewConnectionPool(
		a.logger,
		client,
		a.cfg.Transfer.PoolSize,
		a.cfg.Transfer.PoolOptions()...,
	); err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return a.pool, nil
}

// runE wraps the run function of a subcommand so the connection pool is
// closed once it returns, whether it failed or not.
func (a *app) runE(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.closePool()
		return run(cmd, args)
	}
}

func (a *app) closePool() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}

// logicalPath resolves p against the home collection when it is relative.
func (a *app) logicalPath(p string) (string, error) {
	if !strings.HasPrefix(p, lpath.Separator) {
		p = lpath.Join(a.cfg.Home, p)
	}
	return lpath.Clean(p)
}

// shouldSkipConfig checks if a command should skip config loading
func shouldSkipConfig(cmdName string) bool {
	skipConfigCmds := map[string]bool{
		"help":    true,
		"version": true,
	}
	return skipConfigCmds[cmdName]
}

func isNotFound(err error) bool {
	return errors.Is(err, protoc.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
