// Package fileutils handles the names of the uploaded entries.
package fileutils

import (
	"strings"

	"github.com/samber/lo"
)

// SplitExt splits the base name of an entry into its stem and its
// extension, the latter without the leading dot. Only the last extension
// is split off ("a.tar.gz" gives "a.tar" and "gz"); dot files such as
// ".bashrc" and names ending with a dot have no extension.
func SplitExt(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// HasExt reports whether ext is one of exts. The comparison ignores case
// and a leading dot in exts, so ".JPG" matches "jpg".
func HasExt(ext string, exts []string) bool {
	return lo.ContainsBy(exts, func(candidate string) bool {
		return strings.EqualFold(strings.TrimPrefix(candidate, "."), ext)
	})
}
