package colsync

import (
	"github.com/sirupsen/logrus"
)

var importLog = logrus.WithFields(logrus.Fields{
	"component": "import",
})

// Import replays the local tree onto the remote collection. It always
// attempts a snapshot first, so no import runs without a preceding backup
// attempt; a failed or partial backup is logged but does not block the
// import. That trade-off favors availability of import over strict safety
// and is deliberate.
func Import(client Client, cfg Config) (SyncResult, error) {
	mgr := NewSnapshotManager(client, cfg.BackupRoot, cfg.AppName)

	snapshot, backupRes, err := mgr.Create(cfg.RemoteRoot)
	if err != nil {
		importLog.Warnf("pre-import backup failed: %v, importing anyway", err)
	} else {
		if backupRes.Ok() {
			importLog.Printf("created snapshot %s (%s)", snapshot.Name(), backupRes.Summary())
		} else {
			importLog.Warnf("pre-import backup incomplete (%s), importing anyway", backupRes.Summary())
		}

		if removed, err := mgr.Rotate(cfg.Keep); err != nil {
			importLog.Warnf("cannot rotate snapshots: %v", err)
		} else if len(removed) > 0 {
			importLog.Printf("rotated out %d old snapshots", len(removed))
		}
	}

	return NewMirror(client).Push(cfg.LocalRoot, cfg.RemoteRoot)
}
