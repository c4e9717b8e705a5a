package colsync

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

var (
	ErrOutsideRoot = errors.New("path outside the watched root")
	ErrIgnoredPath = errors.New("ignored path")

	watchLog = logrus.WithFields(logrus.Fields{
		"component": "watcher",
	})
)

// Watcher forwards changed-path notifications from an external file-watch
// facility to the remote store, one upload per notification. Deduplication
// and coalescing of events is the facility's business, not ours.
type Watcher struct {
	client     Client
	localRoot  string
	remoteRoot string
}

func NewWatcher(client Client, localRoot, remoteRoot string) *Watcher {
	return &Watcher{client: client, localRoot: localRoot, remoteRoot: NormalizeRemotePath(remoteRoot)}
}

// HandlePath uploads the current content of one changed path. Paths outside
// the watched root and ignore-listed names are rejected with ErrOutsideRoot
// and ErrIgnoredPath. A changed directory becomes a collection; for a file,
// the intermediate collections are ensured before the upload so that a file
// appearing in a brand-new directory still lands.
func (w *Watcher) HandlePath(abs string) error {
	rel, err := LocalRelativePath(w.localRoot, abs)
	if err != nil {
		return ErrOutsideRoot
	}
	if rel == "." || IgnoredPath(rel) {
		return ErrIgnoredPath
	}

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return w.client.EnsureCollection(JoinRemotePath(w.remoteRoot, rel))
	}
	if !info.Mode().IsRegular() {
		return ErrIgnoredPath
	}

	if err := w.ensureParents(rel); err != nil {
		return err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return err
	}
	return w.client.Write(JoinRemotePath(w.remoteRoot, rel), data)
}

func (w *Watcher) ensureParents(rel string) error {
	dir := path.Dir(rel)
	if dir == "." {
		return nil
	}

	segments := []string{}
	for d := dir; d != "."; d = path.Dir(d) {
		segments = append([]string{d}, segments...)
	}
	for _, d := range segments {
		if err := w.client.EnsureCollection(JoinRemotePath(w.remoteRoot, d)); err != nil {
			return err
		}
	}
	return nil
}

// Run consumes notifications until the channel closes. Notifications are
// applied strictly in arrival order, so two quick changes to the same path
// resolve as last write wins. One failed upload never stops the stream.
func (w *Watcher) Run(events <-chan string) {
	for p := range events {
		err := w.HandlePath(p)
		switch {
		case err == nil:
			watchLog.Printf("synced %s", p)
		case errors.Is(err, ErrOutsideRoot) || errors.Is(err, ErrIgnoredPath):
			watchLog.Debugf("skipping %s: %v", p, err)
		default:
			watchLog.Warnf("cannot sync %s: %v", p, err)
		}
	}
}

// WatchTree is the default file-watch facility: it emits the absolute path
// of every entry created or written under root, growing its watch set as
// new subdirectories appear. It closes events when stopped.
func WatchTree(root string, events chan<- string, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	defer close(events)

	if err := watchRecursive(watcher, root); err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchRecursive(watcher, ev.Name); err != nil {
						watchLog.Warnf("cannot watch %s: %v", ev.Name, err)
					}
				}
			}
			events <- ev.Name
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Warnf("watch error: %v", err)
		case <-stop:
			return nil
		}
	}
}

func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if IgnoredName(d.Name()) && p != root {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
