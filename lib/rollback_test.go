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

func seedSnapshotContent(t *testing.T, backupRoot, app, name, file, content string) {
	t.Helper()

	p := filepath.Join(backupRoot, app, name, filepath.FromSlash(file))
	if err := os.MkdirAll(filepath.Dir(p), 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
}

func TestRollbackLast(t *testing.T) {
	backupRoot := t.TempDir()
	seedSnapshotContent(t, backupRoot, "app", "20250101_000000", "index.html", "old")
	seedSnapshotContent(t, backupRoot, "app", "20250102_000000", "index.html", "new")

	fake := remote.NewFake("/db")
	snapshot, res, err := colsync.Rollback(fake, backupRoot, "app", colsync.SelectorLast, "/db/app")
	if err != nil {
		t.Fatalf("cannot rollback: %v", err)
	}

	if snapshot != "20250102_000000" {
		t.Errorf("expected the most recent snapshot, got %v", snapshot)
	}
	if !res.Ok() {
		t.Errorf("unexpected failures: %+v", res.Failures)
	}
	if got := fake.Contents("/db/app"); !reflect.DeepEqual(got, map[string]string{"index.html": "new"}) {
		t.Errorf("wrong content restored: %v", got)
	}
}

func TestRollbackExplicit(t *testing.T) {
	backupRoot := t.TempDir()
	seedSnapshotContent(t, backupRoot, "app", "20250101_000000", "index.html", "old")
	seedSnapshotContent(t, backupRoot, "app", "20250102_000000", "index.html", "new")

	fake := remote.NewFake("/db")
	snapshot, _, err := colsync.Rollback(fake, backupRoot, "app", "20250101_000000", "/db/app")
	if err != nil {
		t.Fatalf("cannot rollback: %v", err)
	}

	if snapshot != "20250101_000000" {
		t.Errorf("expected the explicit snapshot, got %v", snapshot)
	}
	if got := fake.Contents("/db/app"); !reflect.DeepEqual(got, map[string]string{"index.html": "old"}) {
		t.Errorf("wrong content restored: %v", got)
	}
}

func TestRollbackUnknownSelector(t *testing.T) {
	backupRoot := t.TempDir()
	seedSnapshotContent(t, backupRoot, "app", "20250101_000000", "index.html", "old")
	seedSnapshotContent(t, backupRoot, "app", "20250102_000000", "index.html", "new")

	fake := remote.NewFake("/db")
	_, _, err := colsync.Rollback(fake, backupRoot, "app", "nonexistent", "/db/app")

	var notFound *colsync.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	expected := []string{"20250101_000000", "20250102_000000"}
	if !reflect.DeepEqual(notFound.Available, expected) {
		t.Errorf("expected available identifiers %v, got %v", expected, notFound.Available)
	}
	if len(fake.Ops) != 0 {
		t.Errorf("a failed selection must not touch the remote store: %v", fake.Ops)
	}
}

func TestRollbackNoSnapshots(t *testing.T) {
	fake := remote.NewFake("/db")
	_, _, err := colsync.Rollback(fake, t.TempDir(), "app", colsync.SelectorLast, "/db/app")

	var notFound *colsync.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestRollbackTakesNoSnapshot(t *testing.T) {
	backupRoot := t.TempDir()
	seedSnapshotContent(t, backupRoot, "app", "20250101_000000", "index.html", "old")

	fake := remote.NewFake("/db")
	if _, _, err := colsync.Rollback(fake, backupRoot, "app", colsync.SelectorLast, "/db/app"); err != nil {
		t.Fatal(err)
	}

	mgr := colsync.NewSnapshotManager(fake, backupRoot, "app")
	snapshots, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snapshots, []colsync.Snapshot{"20250101_000000"}) {
		t.Errorf("rollback must not create or delete snapshots: %v", snapshots)
	}
}
