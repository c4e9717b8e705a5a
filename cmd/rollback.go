package cmd

import (
	colsync "github.com/colsync/colsync/lib"
	"github.com/colsync/colsync/remote"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cmdRollback = &cobra.Command{
	Use:   "rollback [snapshot]",
	Short: "Replay a snapshot onto the remote collection (default: the most recent)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		selector := colsync.SelectorLast
		if len(args) > 0 {
			selector = args[0]
		}

		cfg := buildConfig()
		client := remote.New(cfg)

		snapshot, res, err := colsync.Rollback(client, cfg.BackupRoot, cfg.AppName, selector, cfg.RemoteRoot)
		if err != nil {
			logrus.Fatal(err)
		}

		logrus.Printf("rolled back to %s", snapshot.Name())
		reportResult("rollback", res)
	},
}
