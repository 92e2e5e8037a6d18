package fileutils_test

import (
	"github.com/derektruong/fxput/internal/fileutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Names", func() {
	DescribeTable("SplitExt",
		func(name, stem, ext string) {
			gotStem, gotExt := fileutils.SplitExt(name)
			Expect(gotStem).To(Equal(stem))
			Expect(gotExt).To(Equal(ext))
		},
		Entry("simple extension", "report.csv", "report", "csv"),
		Entry("compound extension", "backup.tar.gz", "backup.tar", "gz"),
		Entry("no extension", "Makefile", "Makefile", ""),
		Entry("dot file", ".bashrc", ".bashrc", ""),
		Entry("dot file with extension", ".env.local", ".env", "local"),
		Entry("trailing dot", "draft.", "draft.", ""),
		Entry("empty name", "", "", ""),
	)

	DescribeTable("HasExt",
		func(ext string, exts []string, expected bool) {
			Expect(fileutils.HasExt(ext, exts)).To(Equal(expected))
		},
		Entry("exact match", "txt", []string{"csv", "txt"}, true),
		Entry("case insensitive", "JPG", []string{"jpg"}, true),
		Entry("leading dot in the list", "png", []string{".png"}, true),
		Entry("no match", "exe", []string{"txt", ".csv"}, false),
		Entry("empty list", "txt", nil, false),
		Entry("no extension never matches a listed one", "", []string{"txt"}, false),
	)
})
