package remote

import (
	colsync "github.com/colsync/colsync/lib"

	"fmt"
	"path"
	"sort"
	"strings"
)

// Fake is an in-memory collection store for unit tests. It records every
// mutating call in Ops so tests can assert ordering, and individual paths
// can be rigged to fail.
type Fake struct {
	Collections map[string]struct{}
	Resources   map[string][]byte

	// Canned listings, served instead of the store content. Lets tests
	// hand the crawler ambiguous or cyclic trees.
	Listings map[string]colsync.Listing

	// Mutating and listing calls in invocation order, e.g. "MKCOL /db/a"
	Ops []string

	FailWrites map[string]error
	FailReads  map[string]error
	FailLists  map[string]error
}

func NewFake(root string) *Fake {
	f := &Fake{
		Collections: map[string]struct{}{},
		Resources:   map[string][]byte{},
		Listings:    map[string]colsync.Listing{},
		FailWrites:  map[string]error{},
		FailReads:   map[string]error{},
		FailLists:   map[string]error{},
	}
	f.AddCollection(root)
	return f
}

// AddCollection creates a collection and all its ancestors.
func (f *Fake) AddCollection(p string) {
	p = colsync.NormalizeRemotePath(p)
	for p != "/" {
		f.Collections[p] = struct{}{}
		p = path.Dir(p)
	}
	f.Collections["/"] = struct{}{}
}

// AddResource stores a resource, creating parent collections as needed.
func (f *Fake) AddResource(p string, data []byte) {
	p = colsync.NormalizeRemotePath(p)
	f.AddCollection(path.Dir(p))
	f.Resources[p] = data
}

func (f *Fake) List(p string) (colsync.Listing, error) {
	p = colsync.NormalizeRemotePath(p)
	f.Ops = append(f.Ops, "LIST "+p)

	if err, ok := f.FailLists[p]; ok {
		return colsync.Listing{}, err
	}
	if canned, ok := f.Listings[p]; ok {
		return canned, nil
	}
	if _, ok := f.Collections[p]; !ok {
		return colsync.Listing{}, &colsync.TransportError{Method: "GET", URL: p, Err: fmt.Errorf("no such collection")}
	}

	var listing colsync.Listing
	for c := range f.Collections {
		if path.Dir(c) == p && c != p {
			listing.Collections = append(listing.Collections, path.Base(c))
		}
	}
	for r := range f.Resources {
		if path.Dir(r) == p {
			listing.Resources = append(listing.Resources, path.Base(r))
		}
	}
	sort.Strings(listing.Collections)
	sort.Strings(listing.Resources)

	return listing, nil
}

func (f *Fake) Read(p string) ([]byte, error) {
	p = colsync.NormalizeRemotePath(p)
	if err, ok := f.FailReads[p]; ok {
		return nil, err
	}
	data, ok := f.Resources[p]
	if !ok {
		return nil, &colsync.TransportError{Method: "GET", URL: p, Err: fmt.Errorf("no such resource")}
	}
	return append([]byte(nil), data...), nil
}

// Write refuses uploads into a missing parent collection, like the real
// store does. This is what makes ordering assertions meaningful.
func (f *Fake) Write(p string, data []byte) error {
	p = colsync.NormalizeRemotePath(p)
	f.Ops = append(f.Ops, "PUT "+p)

	if err, ok := f.FailWrites[p]; ok {
		return err
	}
	if _, ok := f.Collections[path.Dir(p)]; !ok {
		return &colsync.TransportError{Method: "PUT", URL: p, Err: fmt.Errorf("parent collection missing")}
	}

	f.Resources[p] = append([]byte(nil), data...)
	return nil
}

func (f *Fake) EnsureCollection(p string) error {
	p = colsync.NormalizeRemotePath(p)
	f.Ops = append(f.Ops, "MKCOL "+p)
	f.AddCollection(p)
	return nil
}

// Snapshot of the store as a relative-path → content map, for round-trip
// comparisons.
func (f *Fake) Contents(root string) map[string]string {
	root = colsync.NormalizeRemotePath(root)
	out := map[string]string{}
	for p, data := range f.Resources {
		if p == root || strings.HasPrefix(p, root+"/") {
			rel, err := colsync.RelativeRemotePath(root, p)
			if err != nil {
				continue
			}
			out[rel] = string(data)
		}
	}
	return out
}
