package colsync

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var mirrorLog = logrus.WithFields(logrus.Fields{
	"component": "mirror",
})

// Mirror replays whole trees between local disk and the remote store,
// overwriting whatever exists at the corresponding paths on the receiving
// side.
type Mirror struct {
	client Client
}

func NewMirror(client Client) *Mirror {
	return &Mirror{client: client}
}

// Push replays the local tree rooted at localRoot onto the remote
// collection remoteRoot, in two phases: first every directory (the root
// included) becomes a collection, then every regular file outside the
// ignore set is uploaded. No upload can run before all collections are
// ensured, so every upload target's parent exists.
//
// Per-item failures are logged, recorded in the result and skipped; the
// pass never aborts early. A missing localRoot is fatal and happens before
// any remote write.
func (m *Mirror) Push(localRoot, remoteRoot string) (SyncResult, error) {
	var res SyncResult

	info, err := os.Stat(localRoot)
	if err != nil || !info.IsDir() {
		return res, &NotFoundError{Kind: "directory", Name: localRoot}
	}

	remoteRoot = NormalizeRemotePath(remoteRoot)

	// Phase 1: collections
	err = filepath.WalkDir(localRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			res.addFailure("walk", p, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		rel, err := LocalRelativePath(localRoot, p)
		if err != nil {
			res.addFailure("walk", p, err)
			return filepath.SkipDir
		}
		if IgnoredPath(rel) {
			return filepath.SkipDir
		}

		target := JoinRemotePath(remoteRoot, rel)
		if err := m.client.EnsureCollection(target); err != nil {
			mirrorLog.Warnf("cannot create collection %s: %v", target, err)
			res.addFailure("mkcol", target, err)
			return nil
		}
		res.addSuccess()
		return nil
	})
	if err != nil {
		return res, err
	}

	// Phase 2: resources
	err = filepath.WalkDir(localRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			res.addFailure("walk", p, err)
			return nil
		}

		rel, relErr := LocalRelativePath(localRoot, p)
		if relErr != nil {
			res.addFailure("walk", p, relErr)
			return nil
		}
		if IgnoredPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		data, readErr := os.ReadFile(p)
		if readErr != nil {
			res.addFailure("read", p, readErr)
			return nil
		}

		target := JoinRemotePath(remoteRoot, rel)
		if err := m.client.Write(target, data); err != nil {
			mirrorLog.Warnf("cannot upload %s: %v", target, err)
			res.addFailure("write", target, err)
			return nil
		}
		res.addSuccess()
		return nil
	})
	if err != nil {
		return res, err
	}

	return res, nil
}

// Pull materializes the remote collection remoteRoot into localDir,
// creating each directory before its files arrive. Same best-effort
// semantics as Push; a failed root listing is fatal.
func (m *Mirror) Pull(remoteRoot, localDir string) (SyncResult, error) {
	remoteRoot = NormalizeRemotePath(remoteRoot)

	crawler := NewCrawler(m.client, remoteRoot)
	return crawler.Walk(func(n Node) error {
		local := filepath.Join(localDir, filepath.FromSlash(n.Path))

		if n.Kind == KindCollection {
			return os.MkdirAll(local, 0777)
		}

		data, err := m.client.Read(JoinRemotePath(remoteRoot, n.Path))
		if err != nil {
			mirrorLog.Warnf("cannot fetch %s: %v", n.Path, err)
			return err
		}
		return os.WriteFile(local, data, 0666)
	})
}
