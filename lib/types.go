package colsync

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	archiveFilenameRe  = regexp.MustCompile(fmt.Sprintf(`^(.+)-(%s)(\.csar)?$`, SnapshotRe))
	SnapshotRe         = `\d{8}_\d{6}`  // Regexp matching a snapshot name
	SnapshotTimeFormat = "20060102_150405" // Time format of a snapshot, for time.Parse / time.Format
)

// Represents a snapshot of the remote tree. Should be in the
// YYYYMMDD_HHMMSS format, so that lexicographic order is chronological order.
type Snapshot string

func (s Snapshot) Time() (time.Time, error) {
	return time.ParseInLocation(SnapshotTimeFormat, string(s), time.UTC)
}

func (s Snapshot) Name() string {
	return string(s)
}

// Represents a packed snapshot stored on an archive destination
type Archive struct {
	App string

	// Snapshot this archive was packed from
	Snapshot
}

// Name of an archive: <app>-<snapshot>
func (a Archive) FullName() string {
	return fmt.Sprintf("%s-%s", a.App, a.Snapshot.Name())
}

// Shorthand for FullName() + ".csar"
func (a Archive) Filename() string {
	return a.FullName() + ".csar"
}

// Compare snapshots by date
func CompareSnapshots(a, b Snapshot) int {
	return strings.Compare(string(a), string(b))
}

// Compare archives by the date of their snapshot
func CompareArchives(a, b Archive) int {
	return CompareSnapshots(a.Snapshot, b.Snapshot)
}

// Sorted from most recent to least recent
func SortedListArchives(dst Destination) ([]Archive, error) {
	archives, err := dst.ListArchives()
	if err != nil {
		return nil, err
	}

	sort.Slice(archives, func(a, b int) bool {
		return CompareArchives(archives[a], archives[b]) >= 0
	})

	return archives, nil
}

// Reverse of Archive.Filename()
func ParseArchiveFilename(f string, requireExt bool) (Archive, error) {
	f = path.Base(f)
	m := archiveFilenameRe.FindStringSubmatch(f)
	if m == nil {
		return Archive{}, fmt.Errorf("cannot parse archive filename: %s", f)
	}

	if requireExt && m[3] != ".csar" {
		return Archive{}, fmt.Errorf("cannot parse archive filename: %s: missing or invalid extension '%s'", f, m[3])
	}

	return Archive{App: m[1], Snapshot: Snapshot(m[2])}, nil
}

// NodeKind discriminates the two kinds of remote tree nodes.
type NodeKind int

const (
	// A collection has children and no content
	KindCollection NodeKind = iota
	// A resource is a leaf with byte content
	KindResource
)

func (k NodeKind) String() string {
	if k == KindCollection {
		return "collection"
	}
	return "resource"
}

// Node is a discovered remote tree node, addressed by its path relative to
// the crawl root ("." for the root itself).
type Node struct {
	Path string
	Kind NodeKind
}

// Listing is the raw directory listing of a collection, as returned by the
// remote store. A name appearing in both slices is an ambiguity the store
// should not produce; consumers resolve it by suppressing the resource entry.
type Listing struct {
	Collections []string
	Resources   []string
}

// Resolve the ambiguity rule: drop resource entries shadowed by a collection
// of the same name.
func (l Listing) Normalize() Listing {
	cols := make(map[string]struct{}, len(l.Collections))
	for _, c := range l.Collections {
		cols[c] = struct{}{}
	}

	res := make([]string, 0, len(l.Resources))
	for _, r := range l.Resources {
		if _, shadowed := cols[r]; shadowed {
			continue
		}
		res = append(res, r)
	}

	return Listing{Collections: l.Collections, Resources: res}
}
