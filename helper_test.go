package fxput_test

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/derektruong/fxput/internal/xferfile"
	"github.com/derektruong/fxput/storage"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// writeRandomFile creates the file at path, and its parent directories,
// filled with size random bytes.
func writeRandomFile(path string, size int) []byte {
	GinkgoHelper()
	content := make([]byte, size)
	_, err := rand.Read(content)
	Expect(err).ToNot(HaveOccurred())
	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, content, 0o644)).To(Succeed())
	return content
}

// cancelingSource cancels the upload right after listing dirPath.
type cancelingSource struct {
	storage.Source
	dirPath string
	cancel  context.CancelFunc
}

func (s cancelingSource) ReadDir(ctx context.Context, dirPath string) (entries []xferfile.Info, err error) {
	entries, err = s.Source.ReadDir(ctx, dirPath)
	if dirPath == s.dirPath {
		s.cancel()
	}
	return
}
