package colsync

import (
	"github.com/sirupsen/logrus"
)

// SelectorLast picks the most recent snapshot of an app.
const SelectorLast = "last"

var rollbackLog = logrus.WithFields(logrus.Fields{
	"component": "rollback",
})

// Rollback replays a snapshot onto the remote collection. The selector is
// either SelectorLast or an explicit timestamp; an unknown timestamp fails
// before any remote write, listing the available identifiers.
//
// Rollback deliberately takes no snapshot of its own: the operator is
// reverting to a known-good state, and the snapshot being restored stays in
// place afterwards.
func Rollback(client Client, backupRoot, app, selector, remoteRoot string) (Snapshot, SyncResult, error) {
	mgr := NewSnapshotManager(client, backupRoot, app)

	snapshots, err := mgr.List()
	if err != nil {
		return "", SyncResult{}, err
	}
	if len(snapshots) == 0 {
		return "", SyncResult{}, &NotFoundError{Kind: "snapshot", Name: selector}
	}

	var target Snapshot
	if selector == SelectorLast {
		target = snapshots[len(snapshots)-1]
	} else {
		for _, s := range snapshots {
			if s.Name() == selector {
				target = s
				break
			}
		}
		if target == "" {
			available := make([]string, 0, len(snapshots))
			for _, s := range snapshots {
				available = append(available, s.Name())
			}
			return "", SyncResult{}, &NotFoundError{Kind: "snapshot", Name: selector, Available: available}
		}
	}

	rollbackLog.Printf("restoring snapshot %s onto %s", target.Name(), remoteRoot)
	res, err := NewMirror(client).Push(mgr.Dir(target), remoteRoot)
	return target, res, err
}
