package fxput

import (
	"context"
	"io"

	"github.com/derektruong/fxput/protoc"
	"github.com/derektruong/fxput/storage"
	"github.com/go-playground/validator/v10"
)

// validate use a single instance of validate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// UploadCommand represents a local file or directory to upload.
type UploadCommand struct {
	// SourcePath is the local path of the file or directory
	SourcePath string `json:"sourcePath" yaml:"sourcePath" validate:"required"`
	// Source: see storage.Source
	Source storage.Source `json:"-" yaml:"-" validate:"required"`
	// DestinationPath is the logical path of the collection receiving the
	// upload, the source is stored under its base name
	DestinationPath string `json:"destinationPath" yaml:"destinationPath" validate:"required,startswith=/"`
	// Pool: see protoc.ConnectionPool
	Pool protoc.ConnectionPool `json:"-" yaml:"-" validate:"required"`
}

// StreamCommand represents a stream uploaded to one data object.
type StreamCommand struct {
	// Reader is the content of the data object
	Reader io.Reader `json:"-" yaml:"-" validate:"required"`
	// DestinationPath is the logical path of the data object
	DestinationPath string `json:"destinationPath" yaml:"destinationPath" validate:"required,startswith=/"`
	// Pool: see protoc.ConnectionPool
	Pool protoc.ConnectionPool `json:"-" yaml:"-" validate:"required"`
}

func (cmd UploadCommand) Validate(ctx context.Context) error {
	return validate.StructCtx(ctx, cmd)
}

func (cmd StreamCommand) Validate(ctx context.Context) error {
	return validate.StructCtx(ctx, cmd)
}
