package destinations

import (
	colsync "github.com/colsync/colsync/lib"

	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func fsOptions(t *testing.T) *colsync.Options {
	t.Helper()

	opts, err := colsync.EvalOptions(colsync.SplitOptions("type=fs,path="+t.TempDir()), make(map[string][]colsync.KeyValuePair))
	if err != nil {
		t.Fatal(err)
	}
	return opts
}

func TestFSDestinationRoundTrip(t *testing.T) {
	dst, err := New(fsOptions(t))
	if err != nil {
		t.Fatalf("cannot create destination: %v", err)
	}

	archive := colsync.Archive{App: "app", Snapshot: "20250101_000000"}
	if err := dst.SendArchive(archive, bytes.NewReader([]byte("container bytes"))); err != nil {
		t.Fatalf("cannot send archive: %v", err)
	}

	archives, err := dst.ListArchives()
	if err != nil {
		t.Fatalf("cannot list archives: %v", err)
	}
	if !reflect.DeepEqual(archives, []colsync.Archive{archive}) {
		t.Errorf("expected %v, got %v", archive, archives)
	}

	r, err := dst.ReceiveArchive(archive)
	if err != nil {
		t.Fatalf("cannot receive archive: %v", err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "container bytes" {
		t.Errorf("round trip mismatch: %q", data)
	}

	if err := dst.RemoveArchive(archive); err != nil {
		t.Fatalf("cannot remove archive: %v", err)
	}
	archives, err = dst.ListArchives()
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) != 0 {
		t.Errorf("expected an empty destination, got %v", archives)
	}
}

func TestFSDestinationListSkipsForeignFiles(t *testing.T) {
	opts := fsOptions(t)
	basePath := opts.String["Path"]

	for _, name := range []string{"_tmp-app-20250101_000000.csar", ".hidden", "README"} {
		if err := os.WriteFile(filepath.Join(basePath, name), []byte("x"), 0666); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(basePath, "app-20250102_000000.csar"), []byte("x"), 0666); err != nil {
		t.Fatal(err)
	}

	dst, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	archives, err := dst.ListArchives()
	if err != nil {
		t.Fatal(err)
	}

	expected := []colsync.Archive{{App: "app", Snapshot: "20250102_000000"}}
	if !reflect.DeepEqual(archives, expected) {
		t.Errorf("expected %v, got %v", expected, archives)
	}
}

func TestFSDestinationMissingPath(t *testing.T) {
	opts, err := colsync.EvalOptions(colsync.SplitOptions("type=fs"), make(map[string][]colsync.KeyValuePair))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(opts); err != ErrFSPath {
		t.Errorf("expected ErrFSPath, got %v", err)
	}
}

func TestNewUnknownType(t *testing.T) {
	opts, err := colsync.EvalOptions(colsync.SplitOptions("type=carrier-pigeon"), make(map[string][]colsync.KeyValuePair))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(opts); err == nil {
		t.Error("expected an unknown destination type to fail")
	}
}
