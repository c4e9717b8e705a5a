package colsync

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	snapshotNameRe = regexp.MustCompile(fmt.Sprintf(`^%s$`, SnapshotRe))
	snapLog        = logrus.WithFields(logrus.Fields{
		"component": "snapshot",
	})
)

// SnapshotManager creates and rotates full mirrors of the remote tree under
// <backup root>/<app>/<timestamp>. A snapshot directory is never touched
// again after creation, except by rotation.
type SnapshotManager struct {
	client     Client
	backupRoot string
	app        string
}

func NewSnapshotManager(client Client, backupRoot, app string) *SnapshotManager {
	return &SnapshotManager{client: client, backupRoot: backupRoot, app: app}
}

// Dir returns the directory a snapshot lives in.
func (m *SnapshotManager) Dir(s Snapshot) string {
	return filepath.Join(m.backupRoot, m.app, s.Name())
}

// Create mirrors the remote collection remoteRoot into a new snapshot
// directory named after the current second. Two snapshots within the same
// second collide; the later run overwrites the earlier directory, which is
// acceptable at manual invocation cadence.
func (m *SnapshotManager) Create(remoteRoot string) (Snapshot, SyncResult, error) {
	s := Snapshot(time.Now().UTC().Format(SnapshotTimeFormat))
	dir := m.Dir(s)

	snapLog.Printf("snapshotting %s to %s", remoteRoot, dir)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", SyncResult{}, err
	}

	res, err := NewMirror(m.client).Pull(remoteRoot, dir)
	if err != nil {
		// An aborted pull must not leave an empty directory behind: it
		// would list as the newest snapshot and become a rollback target.
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			snapLog.Warnf("cannot remove aborted snapshot %s: %v", s.Name(), rmErr)
		}
		return "", res, err
	}
	return s, res, nil
}

// List returns the app's snapshots sorted from oldest to most recent.
// A missing app directory is an empty list, not an error.
func (m *SnapshotManager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(filepath.Join(m.backupRoot, m.app))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if !entry.IsDir() || !snapshotNameRe.MatchString(entry.Name()) {
			continue
		}
		snapshots = append(snapshots, Snapshot(entry.Name()))
	}

	sort.Slice(snapshots, func(a, b int) bool {
		return CompareSnapshots(snapshots[a], snapshots[b]) < 0
	})

	return snapshots, nil
}

// Rotate deletes the oldest snapshots until at most keep remain, returning
// the deleted ones. keep <= 0 disables rotation entirely.
func (m *SnapshotManager) Rotate(keep int) ([]Snapshot, error) {
	if keep <= 0 {
		return nil, nil
	}

	snapshots, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(snapshots) <= keep {
		return nil, nil
	}

	var removed []Snapshot
	for _, s := range snapshots[:len(snapshots)-keep] {
		snapLog.Printf("removing snapshot %s", s.Name())
		if err := os.RemoveAll(m.Dir(s)); err != nil {
			snapLog.Warnf("cannot remove snapshot %s: %v", s.Name(), err)
			continue
		}
		removed = append(removed, s)
	}

	return removed, nil
}
