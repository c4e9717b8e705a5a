package cmd

import (
	colsync "github.com/colsync/colsync/lib"
	"github.com/colsync/colsync/remote"

	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cmdSnapshotCreate = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the remote collection into the backup area",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig()
		client := remote.New(cfg)

		mgr := colsync.NewSnapshotManager(client, cfg.BackupRoot, cfg.AppName)
		snapshot, res, err := mgr.Create(cfg.RemoteRoot)
		if err != nil {
			logrus.Fatal(err)
		}

		logrus.Printf("created snapshot %s", snapshot.Name())
		reportResult("snapshot", res)

		if removed, err := mgr.Rotate(cfg.Keep); err != nil {
			logrus.Warnf("cannot rotate snapshots: %v", err)
		} else if len(removed) > 0 {
			logrus.Printf("rotated out %d old snapshots", len(removed))
		}
	},
}

var cmdSnapshotList = &cobra.Command{
	Use:   "list",
	Short: "List snapshots in the backup area, oldest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig()

		mgr := colsync.NewSnapshotManager(nil, cfg.BackupRoot, cfg.AppName)
		snapshots, err := mgr.List()
		if err != nil {
			logrus.Fatal(err)
		}

		for _, s := range snapshots {
			fmt.Println(s.Name())
		}
	},
}

var cmdSnapshotRotate = &cobra.Command{
	Use:   "rotate",
	Short: "Delete the oldest snapshots beyond the keep count",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig()

		mgr := colsync.NewSnapshotManager(nil, cfg.BackupRoot, cfg.AppName)
		removed, err := mgr.Rotate(cfg.Keep)
		if err != nil {
			logrus.Fatal(err)
		}

		for _, s := range removed {
			fmt.Println(s.Name())
		}
	},
}

var cmdSnapshot = &cobra.Command{
	Use: "snapshot",
}

func init() {
	cmdSnapshot.AddCommand(cmdSnapshotCreate, cmdSnapshotList, cmdSnapshotRotate)
}
