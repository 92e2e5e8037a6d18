package fxput

import (
	"regexp"
	"runtime"
	"time"
)

const (
	defaultMaxFileSize     = 5 << 40 // 5 TB
	defaultMinFileSize     = 0
	defaultRefreshInterval = 1 * time.Second
)

type UploadOption func(*uploader)

// WithWorkers sets the number of tasks run at once. Connections are still
// bounded by the pool size, extra workers wait on the pool.
// Default is runtime.NumCPU().
func WithWorkers(workers int) UploadOption {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return func(u *uploader) {
		u.workers = workers
	}
}

// WithBufferSize sets the size of the copy buffer of every chunk task.
// Default is 4 MiB.
func WithBufferSize(size int) UploadOption {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return func(u *uploader) {
		u.bufferSize = size
	}
}

// WithMultiChunkThreshold sets the file size from which files are uploaded
// in parallel chunks. Default is 32 MiB.
func WithMultiChunkThreshold(threshold int64) UploadOption {
	if threshold <= 0 {
		threshold = DefaultMultiChunkThreshold
	}
	return func(u *uploader) {
		u.multiChunkThreshold = threshold
	}
}

// WithMaxFileSize sets the maximum file size allowed for upload, larger
// files are skipped.
// Default is 0 (no limit).
func WithMaxFileSize(size int64) UploadOption {
	if size <= 0 {
		size = defaultMaxFileSize
	}
	return func(u *uploader) {
		u.fileRule.MaxFileSize = size
	}
}

// WithMinFileSize sets the minimum file size required for upload, smaller
// files are skipped.
// Default is 0 (no limit).
func WithMinFileSize(size int64) UploadOption {
	if size <= 0 {
		size = defaultMinFileSize
	}
	return func(u *uploader) {
		u.fileRule.MinFileSize = size
	}
}

// WithExtensionWhitelist sets the list of allowed file extensions, compared
// case-insensitively.
// Default is empty (no restriction).
func WithExtensionWhitelist(extensions ...string) UploadOption {
	return func(u *uploader) {
		u.fileRule.ExtensionWhitelist = extensions
	}
}

// WithExtensionBlacklist sets the list of blocked file extensions, compared
// case-insensitively.
// Default is empty (no restriction).
func WithExtensionBlacklist(extensions ...string) UploadOption {
	return func(u *uploader) {
		u.fileRule.ExtensionBlacklist = extensions
	}
}

// WithModifiedAfter skips files modified before modTime.
// Default is zero (no restriction).
func WithModifiedAfter(modTime time.Time) UploadOption {
	return func(u *uploader) {
		u.fileRule.ModifiedAfter = modTime
	}
}

// WithModifiedBefore skips files modified after modTime.
// Default is zero (no restriction).
func WithModifiedBefore(modTime time.Time) UploadOption {
	return func(u *uploader) {
		u.fileRule.ModifiedBefore = modTime
	}
}

// WithFileNamePattern skips files whose base name does not match pattern.
// Default is nil (no restriction).
func WithFileNamePattern(pattern *regexp.Regexp) UploadOption {
	return func(u *uploader) {
		u.fileRule.FileNamePattern = pattern
	}
}

// WithExcludePatterns skips the files and directories whose path relative
// to the uploaded directory matches one of the doublestar patterns, e.g.
// "**/*.tmp" or ".git". Invalid patterns make Upload fail.
// Default is empty (nothing excluded).
func WithExcludePatterns(patterns ...string) UploadOption {
	return func(u *uploader) {
		u.excludes = append(u.excludes, patterns...)
	}
}

// WithProgressRefreshInterval sets the interval for refreshing the progress update.
// Default is 1 second.
func WithProgressRefreshInterval(interval time.Duration) UploadOption {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return func(u *uploader) {
		u.refreshProgressInterval = interval
	}
}

// WithProgressCallback sets the callback receiving the aggregated progress
// of every upload.
// Default is nil (no progress tracking).
func WithProgressCallback(cb ProgressUpdatedCallback) UploadOption {
	return func(u *uploader) {
		u.progressCallback = cb
	}
}
