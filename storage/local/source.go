package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/derektruong/fxput/internal/fileutils"
	"github.com/derektruong/fxput/internal/xferfile"
	"github.com/derektruong/fxput/storage"
	"github.com/go-logr/logr"
	"golang.org/x/exp/slices"
)

type Source struct {
	logger logr.Logger
}

var _ storage.Source = (*Source)(nil)

func NewSource(logger logr.Logger) (s *Source, err error) {
	s = &Source{
		logger: logger.WithName("local.source"),
	}
	return
}

// GetFileInfo stats the entry at filePath. Relative paths are made
// absolute so the name of "." is the name of the working directory.
func (s *Source) GetFileInfo(ctx context.Context, filePath string) (info xferfile.Info, err error) {
	if filePath, err = filepath.Abs(filePath); err != nil {
		return
	}
	var fileInfo os.FileInfo
	if fileInfo, err = os.Stat(filePath); err != nil {
		return
	}
	return toInfo(filePath, fileInfo)
}

func (s *Source) ReadDir(ctx context.Context, dirPath string) (entries []xferfile.Info, err error) {
	var dirInfo os.FileInfo
	if dirInfo, err = os.Stat(dirPath); err != nil {
		return
	}
	if !dirInfo.IsDir() {
		return nil, &os.PathError{Op: "readdir", Path: dirPath, Err: storage.ErrNotDirectory}
	}
	var dirEntries []os.DirEntry
	if dirEntries, err = os.ReadDir(dirPath); err != nil {
		return
	}

	entries = make([]xferfile.Info, 0, len(dirEntries))
	for _, entry := range dirEntries {
		entryPath := filepath.Join(dirPath, entry.Name())
		fileInfo, statErr := os.Stat(entryPath)
		if statErr != nil {
			// dangling symbolic link, keep what Lstat says
			if fileInfo, statErr = entry.Info(); statErr != nil {
				s.logger.V(1).Info("entry vanished while listing", "path", entryPath)
				continue
			}
		}
		var info xferfile.Info
		if info, err = toInfo(entryPath, fileInfo); err != nil {
			return nil, err
		}
		entries = append(entries, info)
	}
	slices.SortFunc(entries, func(a, b xferfile.Info) int {
		return strings.Compare(a.Name, b.Name)
	})
	return
}

func (s *Source) Open(ctx context.Context, filePath string) (file io.ReadSeekCloser, err error) {
	var f *os.File
	if f, err = os.Open(filePath); err != nil {
		return
	}
	var fileInfo os.FileInfo
	if fileInfo, err = f.Stat(); err != nil {
		_ = f.Close()
		return
	}
	if fileInfo.IsDir() {
		_ = f.Close()
		return nil, &os.PathError{Op: "open", Path: filePath, Err: storage.ErrIsDirectory}
	}
	return f, nil
}

func (s *Source) Close() {
	s.logger.Info("closed local source")
}

func toInfo(filePath string, fileInfo os.FileInfo) (info xferfile.Info, err error) {
	_, fileExt := fileutils.SplitExt(fileInfo.Name())
	info = xferfile.Info{
		Path:      filePath,
		Name:      fileInfo.Name(),
		Extension: fileExt,
		Size:      fileInfo.Size(),
		ModTime:   fileInfo.ModTime(),
		Mode:      fileInfo.Mode(),
	}
	if info.IsDir() {
		info.Size = 0
		info.Extension = ""
	}
	return
}
