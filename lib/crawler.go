package colsync

import (
	"path"
	"strings"

	"github.com/sirupsen/logrus"
)

var crawlLog = logrus.WithFields(logrus.Fields{
	"component": "crawler",
})

// Crawler enumerates a remote subtree depth-first. Every crawl restarts from
// the root; a crawl is not resumable midway.
type Crawler struct {
	client Client
	root   string
}

func NewCrawler(client Client, root string) *Crawler {
	return &Crawler{client: client, root: NormalizeRemotePath(root)}
}

// Walk calls visit for every discovered node: a collection first, then its
// resources, then its child collections recursively. Node paths are relative
// to the crawl root ("." for the root itself).
//
// A failed root listing is fatal. Everything below is best-effort: a failed
// child listing or visit is recorded in the result and its branch skipped,
// siblings are unaffected.
//
// Two guards protect the descent from cyclic trees (a collection symlinked
// to an ancestor): a child whose canonical path equals an ancestor on the
// recursion stack is skipped, and so is a child whose path re-enters the
// root collection a second time. Both emit a warning instead of failing the
// crawl.
func (c *Crawler) Walk(visit func(Node) error) (SyncResult, error) {
	var res SyncResult

	listing, err := c.client.List(c.root)
	if err != nil {
		return res, err
	}

	ancestors := map[string]struct{}{c.root: {}}
	c.descend(c.root, listing, ancestors, visit, &res)
	return res, nil
}

func (c *Crawler) descend(current string, listing Listing, ancestors map[string]struct{}, visit func(Node) error, res *SyncResult) {
	rel, err := RelativeRemotePath(c.root, current)
	if err != nil {
		res.addFailure("crawl", current, err)
		return
	}

	// The collection itself comes first so consumers can create the local
	// directory before its resources arrive.
	if err := visit(Node{Path: rel, Kind: KindCollection}); err != nil {
		res.addFailure("visit", rel, err)
		return
	}
	res.addSuccess()

	listing = listing.Normalize()

	for _, name := range listing.Resources {
		relResource := path.Join(rel, name)
		if err := visit(Node{Path: relResource, Kind: KindResource}); err != nil {
			res.addFailure("visit", relResource, err)
			continue
		}
		res.addSuccess()
	}

	for _, name := range listing.Collections {
		child := NormalizeRemotePath(current + "/" + name)

		if _, seen := ancestors[child]; seen {
			crawlLog.Warnf("skipping %s: collection cycles back to an ancestor", child)
			continue
		}
		prefix := current + "/"
		if current == "/" {
			prefix = "/"
		}
		if !strings.HasPrefix(child, prefix) {
			crawlLog.Warnf("skipping %s: listing entry escapes its collection", child)
			continue
		}
		if reentersRoot(c.root, child) {
			crawlLog.Warnf("skipping %s: path re-enters the crawl root", child)
			continue
		}

		childListing, err := c.client.List(child)
		if err != nil {
			res.addFailure("list", child, err)
			continue
		}

		ancestors[child] = struct{}{}
		c.descend(child, childListing, ancestors, visit, res)
		delete(ancestors, child)
	}
}

// reentersRoot reports whether the root's segment sequence occurs a second
// time inside child, i.e. the path leads back into the synced subtree. The
// comparison is segment-wise, so a collection merely named like the root
// does not trip it.
func reentersRoot(root, child string) bool {
	rootSegs := strings.Split(strings.TrimPrefix(root, "/"), "/")
	childSegs := strings.Split(strings.TrimPrefix(child, "/"), "/")

	for start := 1; start+len(rootSegs) <= len(childSegs); start++ {
		match := true
		for i, seg := range rootSegs {
			if childSegs[start+i] != seg {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
