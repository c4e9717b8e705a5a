package archive

import (
	colsync "github.com/colsync/colsync/lib"

	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

// Pack writes the tree under dir as a tar stream. Entry names are
// slash-separated paths relative to dir.
func Pack(dir string, w io.Writer) error {
	tw := tar.NewWriter(w)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			return tw.WriteHeader(&tar.Header{
				Typeflag: tar.TypeDir,
				Name:     name + "/",
				Mode:     0777,
			})
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := tw.WriteHeader(&tar.Header{
			Typeflag: tar.TypeReg,
			Name:     name,
			Mode:     0666,
			Size:     info.Size(),
		}); err != nil {
			return err
		}

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}

	return tw.Close()
}

// Unpack materializes a tar stream into dir. Entry names must stay inside
// dir; anything absolute or climbing out is rejected.
func Unpack(r io.Reader, dir string) error {
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		name := filepath.FromSlash(hdr.Name)
		if filepath.IsAbs(name) || strings.HasPrefix(name, "..") {
			return fmt.Errorf("refusing to unpack entry outside the target: %s", hdr.Name)
		}
		target := filepath.Join(dir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0777); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0777); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
}

// PackSnapshot streams a snapshot directory in the container format:
// tar, compressed, encrypted when recipients are given. The returned reader
// yields the finished container and reports any packing error on Read.
func PackSnapshot(dir string, a colsync.Archive, recipients []age.Recipient, compressionLevel int) (io.ReadCloser, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, &colsync.NotFoundError{Kind: "snapshot", Name: a.Snapshot.Name()}
	}

	pr, pw := io.Pipe()

	go func() {
		cw, err := NewWriter(pw, recipients, a, compressionLevel)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := Pack(dir, cw); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(cw.Close())
	}()

	return pr, nil
}

// UnpackSnapshot reads a container produced by PackSnapshot into dir,
// returning the archive identity recorded in its header.
func UnpackSnapshot(data io.Reader, identities []age.Identity, dir string) (colsync.Archive, error) {
	r, err := NewReader(data)
	if err != nil {
		return colsync.Archive{}, err
	}
	defer r.Close()

	a := colsync.Archive{
		App:      r.Options.GetString("App", ""),
		Snapshot: colsync.Snapshot(r.Options.GetString("Snapshot", "")),
	}

	if err := r.Unseal(identities); err != nil {
		return a, err
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return a, err
	}
	return a, Unpack(r, dir)
}
