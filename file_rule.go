package fxput

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/derektruong/fxput/internal/fileutils"
	"github.com/derektruong/fxput/internal/xferfile"
)

var (
	ErrMaxFileSizeExceeded = func(required, got int64) error {
		return fmt.Errorf("file size exceeds the maximum allowed size: %d > %d bytes", got, required)
	}
	ErrMinFileSizeNotMet = func(required, got int64) error {
		return fmt.Errorf("file size does not meet the minimum required size: %d < %d bytes", got, required)
	}
	ErrExtensionNotAllowed = func(ext string) error {
		return fmt.Errorf("file extension is not allowed: %s", ext)
	}
	ErrExtensionBlocked = func(ext string) error {
		return fmt.Errorf("file extension is blocked: %s", ext)
	}
	ErrModifiedBefore = func(t time.Time) error {
		return fmt.Errorf("file was modified before the required time: %s", t.Format(time.RFC3339))
	}
	ErrModifiedAfter = func(t time.Time) error {
		return fmt.Errorf("file was modified after the required time: %s", t.Format(time.RFC3339))
	}
	ErrFileNamePatternMismatch = func(pattern string) error {
		return fmt.Errorf("file name does not match the required pattern: %s", pattern)
	}
	ErrExcluded = func(pattern string) error {
		return fmt.Errorf("path matches the exclude pattern: %s", pattern)
	}
)

// fileRule defines which regular files are uploaded
type fileRule struct {
	// MaxFileSize allows setting a maximum file size for upload.
	MaxFileSize int64
	// MinFileSize allows setting a minimum file size for upload.
	MinFileSize int64
	// ExtensionWhitelist allows setting a list of allowed file extensions.
	ExtensionWhitelist []string
	// ExtensionBlacklist allows setting a list of blocked file extensions.
	ExtensionBlacklist []string
	// ModifiedAfter allows setting a minimum modified time for upload.
	ModifiedAfter time.Time
	// ModifiedBefore allows setting a maximum modified time for upload.
	ModifiedBefore time.Time
	// FileNamePattern allows setting a regular expression pattern for file names.
	FileNamePattern *regexp.Regexp
}

// Check returns the reason fileInfo must be skipped, nil if it is uploaded.
func (r *fileRule) Check(fileInfo xferfile.Info) (err error) {
	// check file size
	if r.MaxFileSize > 0 && fileInfo.Size > r.MaxFileSize {
		return ErrMaxFileSizeExceeded(r.MaxFileSize, fileInfo.Size)
	}
	if r.MinFileSize > 0 && fileInfo.Size < r.MinFileSize {
		return ErrMinFileSizeNotMet(r.MinFileSize, fileInfo.Size)
	}

	// check file extension
	if len(r.ExtensionWhitelist) > 0 && !fileutils.HasExt(fileInfo.Extension, r.ExtensionWhitelist) {
		return ErrExtensionNotAllowed(fileInfo.Extension)
	}
	if fileutils.HasExt(fileInfo.Extension, r.ExtensionBlacklist) {
		return ErrExtensionBlocked(fileInfo.Extension)
	}

	// check modified time
	if !r.ModifiedAfter.IsZero() &&
		fileInfo.ModTime.Before(r.ModifiedAfter) {
		return ErrModifiedAfter(r.ModifiedAfter)
	}
	if !r.ModifiedBefore.IsZero() &&
		fileInfo.ModTime.After(r.ModifiedBefore) {
		return ErrModifiedBefore(r.ModifiedBefore)
	}

	// check file name pattern
	if r.FileNamePattern != nil &&
		!r.FileNamePattern.MatchString(fileInfo.Name) {
		return ErrFileNamePatternMismatch(r.FileNamePattern.String())
	}
	return
}

// excludeRule skips the entries of a directory walk matching a doublestar
// pattern.
type excludeRule struct {
	patterns []string
}

func newExcludeRule(patterns []string) (r excludeRule, err error) {
	var errs []error
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern))
		}
	}
	if err = errors.Join(errs...); err != nil {
		return
	}
	r.patterns = patterns
	return
}

// Check returns the reason the entry at relPath must be skipped, nil if it
// is uploaded. relPath is slash separated and relative to the uploaded
// directory.
func (r excludeRule) Check(relPath string) (err error) {
	for _, pattern := range r.patterns {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return ErrExcluded(pattern)
		}
	}
	return
}
