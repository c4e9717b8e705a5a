package destinations

import (
	colsync "github.com/colsync/colsync/lib"

	"errors"
	"io"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	ErrFSPath = errors.New("fs destination: missing path")
	fsLog     = logrus.WithFields(logrus.Fields{
		"destination": "fs",
	})
)

type fsDestination struct {
	options  *colsync.Options
	basePath string
}

func newFSDestination(options *colsync.Options) (colsync.Destination, error) {
	basePath := options.String["Path"]
	if basePath == "" {
		return nil, ErrFSPath
	}

	err := os.MkdirAll(basePath, 0777)
	if err != nil {
		return nil, err
	}

	return &fsDestination{options: options, basePath: basePath}, nil
}

func (d *fsDestination) ListArchives() ([]colsync.Archive, error) {
	var res []colsync.Archive
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "_") || entry.IsDir() {
			continue
		}

		archive, err := colsync.ParseArchiveFilename(entry.Name(), true)
		if err != nil {
			fsLog.Warnf("invalid archive file %s: %v", entry.Name(), err)
			continue
		}

		res = append(res, archive)
	}

	return res, nil
}

func (d *fsDestination) RemoveArchive(archive colsync.Archive) error {
	return os.Remove(path.Join(d.basePath, archive.Filename()))
}

func (d *fsDestination) SendArchive(archive colsync.Archive, data io.Reader) error {
	tmpFilename := path.Join(d.basePath, "_tmp-"+archive.Filename())
	finalFilename := path.Join(d.basePath, archive.Filename())
	tmpF, err := os.Create(tmpFilename)
	if err != nil {
		return err
	}
	defer tmpF.Close()
	defer os.Remove(tmpFilename)

	fsLog.Printf("writing archive to %s", tmpFilename)
	_, err = io.Copy(tmpF, data)
	if err != nil {
		return err
	}

	tmpF.Close()

	fsLog.Printf("moving final archive to %s", finalFilename)
	return os.Rename(tmpFilename, finalFilename)
}

func (d *fsDestination) ReceiveArchive(archive colsync.Archive) (io.ReadCloser, error) {
	return os.Open(path.Join(d.basePath, archive.Filename()))
}
