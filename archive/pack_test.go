package archive

import (
	colsync "github.com/colsync/colsync/lib"

	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"filippo.io/age"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0666); err != nil {
			t.Fatal(err)
		}
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()

	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

var testTree = map[string]string{
	"index.html":    "<html/>",
	"css/main.css":  "body {}",
	"css/print.css": "@media print {}",
}

func testArchive() colsync.Archive {
	return colsync.Archive{App: "app", Snapshot: "20250101_000000"}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, testTree)

	var buf bytes.Buffer
	if err := Pack(src, &buf); err != nil {
		t.Fatalf("cannot pack: %v", err)
	}

	dst := t.TempDir()
	if err := Unpack(&buf, dst); err != nil {
		t.Fatalf("cannot unpack: %v", err)
	}

	if got := readTree(t, dst); !reflect.DeepEqual(got, testTree) {
		t.Errorf("round trip mismatch: %v", got)
	}
}

func TestSnapshotRoundTripPlain(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, testTree)

	r, err := PackSnapshot(src, testArchive(), nil, 3)
	if err != nil {
		t.Fatalf("cannot pack snapshot: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("cannot read container: %v", err)
	}
	r.Close()

	dst := t.TempDir()
	a, err := UnpackSnapshot(bytes.NewReader(data), nil, dst)
	if err != nil {
		t.Fatalf("cannot unpack snapshot: %v", err)
	}

	if !reflect.DeepEqual(a, testArchive()) {
		t.Errorf("wrong archive identity: %+v", a)
	}
	if got := readTree(t, dst); !reflect.DeepEqual(got, testTree) {
		t.Errorf("round trip mismatch: %v", got)
	}
}

func TestSnapshotRoundTripEncrypted(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	writeTree(t, src, testTree)

	r, err := PackSnapshot(src, testArchive(), []age.Recipient{identity.Recipient()}, 3)
	if err != nil {
		t.Fatalf("cannot pack snapshot: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("cannot read container: %v", err)
	}
	r.Close()

	dst := t.TempDir()
	a, err := UnpackSnapshot(bytes.NewReader(data), []age.Identity{identity}, dst)
	if err != nil {
		t.Fatalf("cannot unpack snapshot: %v", err)
	}

	if !reflect.DeepEqual(a, testArchive()) {
		t.Errorf("wrong archive identity: %+v", a)
	}
	if got := readTree(t, dst); !reflect.DeepEqual(got, testTree) {
		t.Errorf("round trip mismatch: %v", got)
	}
}

func TestSnapshotEncryptedNeedsIdentity(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	writeTree(t, src, testTree)

	r, err := PackSnapshot(src, testArchive(), []age.Recipient{identity.Recipient()}, 3)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := UnpackSnapshot(bytes.NewReader(data), nil, t.TempDir()); err == nil {
		t.Error("expected unpacking an encrypted container without identities to fail")
	}
}

func TestReaderBadMagic(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("definitely not a colsync archive, padding padding padding\n")))
	if !errors.Is(err, ErrInvalidMagicHeader) {
		t.Errorf("expected ErrInvalidMagicHeader, got %v", err)
	}
}

func TestPackSnapshotMissingDir(t *testing.T) {
	_, err := PackSnapshot(filepath.Join(t.TempDir(), "nope"), testArchive(), nil, 3)

	var notFound *colsync.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestUnpackRejectsEscape(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Typeflag: tar.TypeReg, Name: "../escape.txt", Mode: 0666, Size: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	if err := Unpack(&buf, t.TempDir()); err == nil {
		t.Error("expected an entry outside the target to be rejected")
	}
}
