package colsync

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// NormalizeRemotePath cleans a remote path: absolute, slash-separated, no
// trailing slash. The root collection "/" stays "/".
func NormalizeRemotePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// RelativeRemotePath strips the configured root prefix from a remote path.
// Returns "." for the root itself.
func RelativeRemotePath(root, p string) (string, error) {
	root = NormalizeRemotePath(root)
	p = NormalizeRemotePath(p)

	if p == root {
		return ".", nil
	}
	prefix := root + "/"
	if root == "/" {
		prefix = "/"
	}
	if !strings.HasPrefix(p, prefix) {
		return "", fmt.Errorf("%s is not under %s", p, root)
	}
	return p[len(prefix):], nil
}

// JoinRemotePath builds the remote path for a relative path under root.
// rel follows the RelativeRemotePath convention, "." meaning root itself.
func JoinRemotePath(root, rel string) string {
	root = NormalizeRemotePath(root)
	if rel == "." || rel == "" {
		return root
	}
	if root == "/" {
		return "/" + path.Clean(rel)
	}
	return root + "/" + path.Clean(rel)
}

// EncodeRemotePath percent-encodes each segment of a remote path for
// inclusion in a request URL. Spaces and other reserved characters are
// escaped; slashes separating segments are kept.
func EncodeRemotePath(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(segments, "/")
}

// LocalRelativePath maps an absolute local path to its slash-separated path
// relative to the local root. Fails for paths outside the root.
func LocalRelativePath(root, abs string) (string, error) {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", abs, root)
	}
	return filepath.ToSlash(rel), nil
}
