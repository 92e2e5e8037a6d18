// Package lpath manipulates logical paths of the remote namespace. Logical
// paths always use forward slashes and are rooted at "/", independently of
// the local operating system.
package lpath

import (
	"errors"
	"path"
	"strings"
)

const Separator = "/"

var ErrNotAbsolute = errors.New("logical path must start with " + Separator)

// Clean returns the shortest absolute form of p. It fails if p is not
// absolute.
func Clean(p string) (cleaned string, err error) {
	if !strings.HasPrefix(p, Separator) {
		err = ErrNotAbsolute
		return
	}
	cleaned = path.Clean(p)
	return
}

// Join appends the elements to the logical path base.
func Join(base string, elem ...string) string {
	return path.Join(append([]string{base}, elem...)...)
}

// Parent returns the logical path of the collection containing p.
// The parent of the root is the root itself.
func Parent(p string) string {
	return path.Dir(p)
}

// Base returns the last element of p.
func Base(p string) string {
	return path.Base(p)
}

// Ancestors returns the collections leading to p, root excluded, from the
// outermost to p itself. For "/a/b/c" it returns ["/a", "/a/b", "/a/b/c"].
func Ancestors(p string) (ancestors []string) {
	p = path.Clean(p)
	if p == Separator || p == "." {
		return nil
	}
	current := ""
	for _, elem := range strings.Split(strings.TrimPrefix(p, Separator), Separator) {
		current += Separator + elem
		ancestors = append(ancestors, current)
	}
	return
}

// IsRoot reports whether p designates the root collection.
func IsRoot(p string) bool {
	return path.Clean(p) == Separator
}
