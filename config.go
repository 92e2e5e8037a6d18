package fxput

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/derektruong/fxput/internal/protocutils"
	"github.com/derektruong/fxput/protoc"
	"github.com/derektruong/fxput/protoc/memory"
	"github.com/derektruong/fxput/protoc/s3"
	"github.com/derektruong/fxput/protoc/vault"
	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable holding the config file path.
const ConfigEnv = "FXPUT_CONFIG"

// StoreType names a remote store backend.
type StoreType string

const (
	StoreVault  StoreType = "vault"
	StoreS3     StoreType = "s3"
	StoreMemory StoreType = "memory"
)

// Config is the content of the configuration file.
type Config struct {
	Store    StoreConfig    `json:"store" yaml:"store"`
	Transfer TransferConfig `json:"transfer" yaml:"transfer"`
	// Home is the collection used when no destination is given
	Home string `json:"home" yaml:"home" validate:"required,startswith=/"`
}

// StoreConfig selects and configures the remote store.
type StoreConfig struct {
	Type  StoreType   `json:"type" yaml:"type" validate:"required,oneof=vault s3 memory"`
	Vault VaultConfig `json:"vault" yaml:"vault"`
	S3    S3Config    `json:"s3" yaml:"s3"`
}

// VaultConfig configures the vault store.
type VaultConfig struct {
	Root string `json:"root" yaml:"root"`
}

// S3Config configures the S3 store.
type S3Config struct {
	Host               string `json:"host" yaml:"host"`
	Port               int    `json:"port" yaml:"port" validate:"gte=0,lte=65535"`
	Secure             bool   `json:"secure" yaml:"secure"`
	Bucket             string `json:"bucket" yaml:"bucket"`
	Region             string `json:"region" yaml:"region"`
	AccessKey          string `json:"accessKey" yaml:"access_key"`
	SecretKey          string `json:"secretKey" yaml:"secret_key"`
	TemporaryDirectory string `json:"temporaryDirectory" yaml:"temporary_directory"`
}

// TransferConfig tunes the upload engine.
type TransferConfig struct {
	// PoolSize is the number of connections opened at most
	PoolSize int `json:"poolSize" yaml:"pool_size" validate:"gte=0"`
	// Workers is the number of tasks run at once
	Workers int `json:"workers" yaml:"workers" validate:"gte=0"`
	// BufferSize is the copy buffer of every chunk, e.g. "4MiB"
	BufferSize string `json:"bufferSize" yaml:"buffer_size"`
	// MultiChunkThreshold is the size from which files are chunked, e.g. "32MiB"
	MultiChunkThreshold string `json:"multiChunkThreshold" yaml:"multi_chunk_threshold"`
	// AcquireTimeout bounds the wait for a pooled connection, 0 waits forever
	AcquireTimeout time.Duration `json:"acquireTimeout" yaml:"acquire_timeout" validate:"gte=0"`
	// ConnectionRefresh is the age after which pooled connections are redialed
	ConnectionRefresh time.Duration `json:"connectionRefresh" yaml:"connection_refresh" validate:"gte=0"`
	// Excludes are doublestar patterns of the paths skipped by directory uploads
	Excludes []string `json:"excludes" yaml:"excludes"`
}

// DefaultConfig returns the configuration used when no file is found: a
// vault store under the user data directory.
func DefaultConfig() Config {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataDir = filepath.Join(home, ".local", "share")
		}
	}
	return Config{
		Store: StoreConfig{
			Type:  StoreVault,
			Vault: VaultConfig{Root: filepath.Join(dataDir, "fxput", "vault")},
		},
		Transfer: TransferConfig{
			PoolSize:            4,
			Workers:             runtime.NumCPU(),
			BufferSize:          "4MiB",
			MultiChunkThreshold: "32MiB",
			ConnectionRefresh:   600 * time.Second,
		},
		Home: "/",
	}
}

// FindConfigFile returns the path of the configuration file: the value of
// FXPUT_CONFIG, else ~/.config/fxput/config.yaml when it exists.
func FindConfigFile() (path string, err error) {
	if path = os.Getenv(ConfigEnv); path != "" {
		return
	}
	var configDir string
	if configDir, err = os.UserConfigDir(); err != nil {
		return
	}
	path = filepath.Join(configDir, "fxput", "config.yaml")
	if _, err = os.Stat(path); err != nil {
		return "", err
	}
	return
}

// LoadConfig reads the YAML file at path over DefaultConfig and validates
// the result.
func LoadConfig(ctx context.Context, path string) (cfg Config, err error) {
	cfg = DefaultConfig()
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err = cfg.Validate(ctx); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return
}

func (c Config) Validate(ctx context.Context) (err error) {
	if err = validate.StructCtx(ctx, c); err != nil {
		return
	}
	var errs []error
	switch c.Store.Type {
	case StoreVault:
		if c.Store.Vault.Root == "" {
			errs = append(errs, errors.New("store.vault.root is required"))
		}
	case StoreS3:
		if c.Store.S3.Host == "" {
			errs = append(errs, errors.New("store.s3.host is required"))
		}
		if c.Store.S3.Bucket == "" {
			errs = append(errs, errors.New("store.s3.bucket is required"))
		}
	}
	if _, _, sizeErr := c.Transfer.sizes(); sizeErr != nil {
		errs = append(errs, sizeErr)
	}
	if _, excludeErr := newExcludeRule(c.Transfer.Excludes); excludeErr != nil {
		errs = append(errs, excludeErr)
	}
	return errors.Join(errs...)
}

func (t TransferConfig) sizes() (bufferSize, threshold int64, err error) {
	if t.BufferSize != "" {
		if bufferSize, err = units.RAMInBytes(t.BufferSize); err != nil {
			return 0, 0, fmt.Errorf("transfer.buffer_size: %w", err)
		}
	}
	if t.MultiChunkThreshold != "" {
		if threshold, err = units.RAMInBytes(t.MultiChunkThreshold); err != nil {
			return 0, 0, fmt.Errorf("transfer.multi_chunk_threshold: %w", err)
		}
	}
	return
}

// UploadOptions returns the options of an Uploader configured by t.
func (t TransferConfig) UploadOptions() (options []UploadOption, err error) {
	var bufferSize, threshold int64
	if bufferSize, threshold, err = t.sizes(); err != nil {
		return
	}
	options = []UploadOption{
		WithWorkers(t.Workers),
		WithBufferSize(int(bufferSize)),
		WithMultiChunkThreshold(threshold),
	}
	if len(t.Excludes) > 0 {
		options = append(options, WithExcludePatterns(t.Excludes...))
	}
	return
}

// PoolOptions returns the options of a protoc.Pool configured by t.
func (t TransferConfig) PoolOptions() []protoc.PoolOption {
	return []protoc.PoolOption{
		protoc.WithAcquireTimeout(t.AcquireTimeout),
		protoc.WithConnectionRefresh(t.ConnectionRefresh),
	}
}

// NewClient returns the client dialing the configured store.
func (s StoreConfig) NewClient() (client protoc.Client, err error) {
	switch s.Type {
	case StoreVault:
		return vault.NewClient(s.Vault.Root), nil
	case StoreS3:
		c := s3.NewClient(
			protocutils.BuildEndpoint(s.S3.Host, s.S3.Port, s.S3.Secure),
			s.S3.Bucket,
			s.S3.Region,
			s.S3.AccessKey,
			s.S3.SecretKey,
		)
		c.TemporaryDirectory = s.S3.TemporaryDirectory
		return c, nil
	case StoreMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", s.Type)
	}
}
