package xferfile_test

import (
	"os"

	"github.com/derektruong/fxput/internal/xferfile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Info", func() {
	DescribeTable("entry kind",
		func(mode os.FileMode, isDir, isRegular bool) {
			info := xferfile.Info{Mode: mode}
			Expect(info.IsDir()).To(Equal(isDir))
			Expect(info.IsRegular()).To(Equal(isRegular))
		},
		Entry("regular file", os.FileMode(0644), false, true),
		Entry("directory", os.ModeDir|0755, true, false),
		Entry("symbolic link", os.ModeSymlink|0777, false, false),
		Entry("named pipe", os.ModeNamedPipe|0600, false, false),
	)
})
