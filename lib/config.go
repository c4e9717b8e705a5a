package colsync

import (
	"fmt"
	"strings"
)

// Config carries the shared environment of a sync run: where the remote
// store lives, how to authenticate against it and where the local mirror
// and backup trees are rooted. It is built once by the command layer and
// passed to constructors unchanged.
type Config struct {
	// Base URL of the remote store, e.g. "http://localhost:8080"
	ServerURL string

	// REST path prefix prepended to every collection path, e.g. "/exist/rest"
	RestPrefix string

	// Absolute collection path of the synced subtree, e.g. "/db/apps/shop"
	RemoteRoot string

	// Basic auth credentials, sent on every request
	Username string
	Password string

	// Local directory mirroring RemoteRoot 1:1 by relative path
	LocalRoot string

	// Backup area; snapshots live under <BackupRoot>/<AppName>/<timestamp>
	BackupRoot string
	AppName    string

	// Snapshots retained by rotation. 0 disables rotation.
	Keep int
}

func (c Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("missing server URL")
	}
	if !strings.HasPrefix(c.RemoteRoot, "/") {
		return fmt.Errorf("remote collection must be an absolute path: %q", c.RemoteRoot)
	}
	if c.Keep < 0 {
		return fmt.Errorf("keep count must not be negative: %d", c.Keep)
	}
	return nil
}
