package fxput

import (
	"regexp"
	"time"

	"github.com/derektruong/fxput/internal/xferfile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FileRule", func() {
	var (
		rule     *fileRule
		fileInfo xferfile.Info
	)

	BeforeEach(func() {
		rule = &fileRule{}
		fileInfo = xferfile.Info{
			Path:      "/Path1/Đường dẫn 2/path-3/Tên file.mov",
			Size:      2 << 30, // 2 GB
			Name:      "Tên file.mov",
			Extension: "mov",
			ModTime:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	})

	It("should return error when file size exceeds the maximum allowed size", func() {
		rule.MaxFileSize = 1 << 30 // 1 GB
		err := rule.Check(fileInfo)
		Expect(err).To(MatchError(ErrMaxFileSizeExceeded(rule.MaxFileSize, fileInfo.Size)))
	})

	It("should return error when file size does not meet the minimum required size", func() {
		rule.MinFileSize = 4 << 30 // 4 GB
		err := rule.Check(fileInfo)
		Expect(err).To(MatchError(ErrMinFileSizeNotMet(rule.MinFileSize, fileInfo.Size)))
	})

	It("should return error when file extension is not allowed", func() {
		rule.ExtensionWhitelist = []string{"mp4"}
		err := rule.Check(fileInfo)
		Expect(err).To(MatchError(ErrExtensionNotAllowed(fileInfo.Extension)))
	})

	It("should return error when file extension is blocked", func() {
		rule.ExtensionBlacklist = []string{"mov", "mp4"}
		err := rule.Check(fileInfo)
		Expect(err).To(MatchError(ErrExtensionBlocked(fileInfo.Extension)))
	})

	It("should compare extensions case-insensitively, with or without a dot", func() {
		rule.ExtensionWhitelist = []string{".MOV"}
		Expect(rule.Check(fileInfo)).To(Succeed())
		rule.ExtensionWhitelist = nil
		rule.ExtensionBlacklist = []string{"Mov"}
		Expect(rule.Check(fileInfo)).To(MatchError(ErrExtensionBlocked(fileInfo.Extension)))
	})

	It("should return error when file was modified before the required time", func() {
		rule.ModifiedAfter = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		err := rule.Check(fileInfo)
		Expect(err).To(MatchError(ErrModifiedAfter(rule.ModifiedAfter)))
	})

	It("should return error when file was modified after the required time", func() {
		rule.ModifiedBefore = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		err := rule.Check(fileInfo)
		Expect(err).To(MatchError(ErrModifiedBefore(rule.ModifiedBefore)))
	})

	It("should return error when file name does not match the required pattern", func() {
		rule.FileNamePattern = regexp.MustCompile(`^abc$`)
		err := rule.Check(fileInfo)
		Expect(err).To(MatchError(ErrFileNamePatternMismatch(rule.FileNamePattern.String())))
	})

	It("should return nil when all checks pass", func() {
		err := rule.Check(fileInfo)
		Expect(err).To(BeNil())
	})
})

var _ = Describe("ExcludeRule", func() {
	It("should reject invalid patterns", func() {
		_, err := newExcludeRule([]string{"ok/*", "[broken"})
		Expect(err).To(MatchError(ContainSubstring(`invalid exclude pattern "[broken"`)))
	})

	DescribeTable("Check",
		func(patterns []string, relPath string, excluded bool) {
			rule, err := newExcludeRule(patterns)
			Expect(err).ToNot(HaveOccurred())
			if excluded {
				Expect(rule.Check(relPath)).To(HaveOccurred())
			} else {
				Expect(rule.Check(relPath)).To(Succeed())
			}
		},
		Entry("no pattern", nil, "a/b.txt", false),
		Entry("top level name", []string{".git"}, ".git", true),
		Entry("top level name does not match nested", []string{".git"}, "sub/.git", false),
		Entry("any depth", []string{"**/.git"}, "sub/.git", true),
		Entry("extension at any depth", []string{"**/*.tmp"}, "a/b/c.tmp", true),
		Entry("extension at top level", []string{"**/*.tmp"}, "c.tmp", true),
		Entry("other extension", []string{"**/*.tmp"}, "a/b/c.txt", false),
		Entry("second pattern", []string{"*.log", "build"}, "build", true),
		Entry("brace alternatives", []string{"{cache,tmp}/**"}, "tmp/a/b.bin", true),
		Entry("character class", []string{"run[0-9].log"}, "run7.log", true),
		Entry("character class mismatch", []string{"run[0-9].log"}, "runx.log", false),
	)
})
