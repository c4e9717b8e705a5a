package colsync_test

import (
	colsync "github.com/colsync/colsync/lib"
	"github.com/colsync/colsync/remote"

	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWatcherHandleFile(t *testing.T) {
	localRoot := t.TempDir()
	writeLocalFile(t, localRoot, "index.html", "<html/>")

	fake := remote.NewFake("/db")
	fake.AddCollection("/db/app")

	w := colsync.NewWatcher(fake, localRoot, "/db/app")
	if err := w.HandlePath(filepath.Join(localRoot, "index.html")); err != nil {
		t.Fatalf("cannot handle path: %v", err)
	}

	if got := fake.Contents("/db/app"); !reflect.DeepEqual(got, map[string]string{"index.html": "<html/>"}) {
		t.Errorf("wrong remote content: %v", got)
	}
}

func TestWatcherHandleFileInNewDirectory(t *testing.T) {
	localRoot := t.TempDir()
	writeLocalFile(t, localRoot, "css/themes/dark.css", "body {}")

	fake := remote.NewFake("/db")
	fake.AddCollection("/db/app")

	w := colsync.NewWatcher(fake, localRoot, "/db/app")
	if err := w.HandlePath(filepath.Join(localRoot, "css", "themes", "dark.css")); err != nil {
		t.Fatalf("cannot handle path: %v", err)
	}

	expectedOps := []string{"MKCOL /db/app/css", "MKCOL /db/app/css/themes", "PUT /db/app/css/themes/dark.css"}
	if !reflect.DeepEqual(fake.Ops, expectedOps) {
		t.Errorf("expected parents ensured before upload, got %v", fake.Ops)
	}
}

func TestWatcherHandleDirectory(t *testing.T) {
	localRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(localRoot, "modules"), 0777); err != nil {
		t.Fatal(err)
	}

	fake := remote.NewFake("/db")
	fake.AddCollection("/db/app")

	w := colsync.NewWatcher(fake, localRoot, "/db/app")
	if err := w.HandlePath(filepath.Join(localRoot, "modules")); err != nil {
		t.Fatalf("cannot handle path: %v", err)
	}

	if !reflect.DeepEqual(fake.Ops, []string{"MKCOL /db/app/modules"}) {
		t.Errorf("expected a collection creation, got %v", fake.Ops)
	}
}

func TestWatcherHandleOutsideRoot(t *testing.T) {
	localRoot := t.TempDir()
	outside := t.TempDir()
	writeLocalFile(t, outside, "index.html", "<html/>")

	fake := remote.NewFake("/db")
	w := colsync.NewWatcher(fake, localRoot, "/db/app")

	if err := w.HandlePath(filepath.Join(outside, "index.html")); !errors.Is(err, colsync.ErrOutsideRoot) {
		t.Errorf("expected ErrOutsideRoot, got %v", err)
	}
	if len(fake.Ops) != 0 {
		t.Errorf("a rejected path must not touch the remote store: %v", fake.Ops)
	}
}

func TestWatcherHandleIgnored(t *testing.T) {
	localRoot := t.TempDir()
	writeLocalFile(t, localRoot, ".git/config", "[core]")
	writeLocalFile(t, localRoot, "notes.txt~", "draft")

	fake := remote.NewFake("/db")
	w := colsync.NewWatcher(fake, localRoot, "/db/app")

	for _, p := range []string{
		filepath.Join(localRoot, ".git", "config"),
		filepath.Join(localRoot, "notes.txt~"),
		localRoot,
	} {
		if err := w.HandlePath(p); !errors.Is(err, colsync.ErrIgnoredPath) {
			t.Errorf("expected ErrIgnoredPath for %s, got %v", p, err)
		}
	}
	if len(fake.Ops) != 0 {
		t.Errorf("ignored paths must not touch the remote store: %v", fake.Ops)
	}
}

func TestWatcherRunLastWriteWins(t *testing.T) {
	localRoot := t.TempDir()
	writeLocalFile(t, localRoot, "index.html", "first")

	fake := remote.NewFake("/db")
	fake.AddCollection("/db/app")

	events := make(chan string, 2)
	events <- filepath.Join(localRoot, "index.html")
	writeLocalFile(t, localRoot, "index.html", "second")
	events <- filepath.Join(localRoot, "index.html")
	close(events)

	colsync.NewWatcher(fake, localRoot, "/db/app").Run(events)

	if got := fake.Contents("/db/app"); got["index.html"] != "second" {
		t.Errorf("expected the last write to win, got %v", got)
	}
}
