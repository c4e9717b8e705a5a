package colsync

import (
	"strings"
)

// Names never mirrored to the remote store: version control metadata,
// editor droppings and OS metadata files.
var ignoredNames = map[string]struct{}{
	".git":      {},
	".svn":      {},
	".hg":       {},
	".bzr":      {},
	"CVS":       {},
	".gitignore": {},
	".DS_Store": {},
	"Thumbs.db": {},
	"desktop.ini": {},
}

var ignoredSuffixes = []string{"~", ".swp", ".swx", ".orig"}

// IgnoredName reports whether a single path component is excluded from
// mirroring and watching.
func IgnoredName(name string) bool {
	if _, ok := ignoredNames[name]; ok {
		return true
	}
	for _, suffix := range ignoredSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return strings.HasPrefix(name, ".#")
}

// IgnoredPath reports whether any component of a slash-separated relative
// path is ignored.
func IgnoredPath(rel string) bool {
	if rel == "." || rel == "" {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if IgnoredName(part) {
			return true
		}
	}
	return false
}
