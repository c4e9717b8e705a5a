package cmd

import (
	"github.com/colsync/colsync/archive"
	colsync "github.com/colsync/colsync/lib"

	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var archiveLog = logrus.WithFields(logrus.Fields{
	"component": "archive",
})

var cmdArchiveSend = &cobra.Command{
	Use:   "send <destination> [snapshot]",
	Short: "Pack a snapshot (default: the most recent) and ship it to a destination",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig()

		dstOpts := newOptionsBuilder(colsync.EvalOptions(colsync.SplitOptions(args[0]), presets)).
			WithDestination().
			WithRecipients().
			FatalOnError()

		mgr := colsync.NewSnapshotManager(nil, cfg.BackupRoot, cfg.AppName)
		snapshots, err := mgr.List()
		if err != nil {
			logrus.Fatal(err)
		}
		if len(snapshots) == 0 {
			logrus.Fatal(&colsync.NotFoundError{Kind: "snapshot", Name: colsync.SelectorLast})
		}

		target := snapshots[len(snapshots)-1]
		if len(args) > 1 {
			target = ""
			for _, s := range snapshots {
				if s.Name() == args[1] {
					target = s
					break
				}
			}
			if target == "" {
				available := make([]string, 0, len(snapshots))
				for _, s := range snapshots {
					available = append(available, s.Name())
				}
				logrus.Fatal(&colsync.NotFoundError{Kind: "snapshot", Name: args[1], Available: available})
			}
		}

		a := colsync.Archive{App: cfg.AppName, Snapshot: target}
		data, err := archive.PackSnapshot(mgr.Dir(target), a, dstOpts.Recipients, 3)
		if err != nil {
			logrus.Fatal(err)
		}
		defer data.Close()

		if err := dstOpts.Destination.SendArchive(a, data); err != nil {
			logrus.Fatal(err)
		}
		archiveLog.Printf("sent %s", a.Filename())

		if hook := dstOpts.Options.GetCommand("Hook", nil); hook != nil {
			if err := colsync.RunCommand(archiveLog, colsync.BuildCommand(hook, a.Filename())); err != nil {
				archiveLog.Warnf("hook failed: %v", err)
			}
		}
	},
}

var cmdArchiveFetch = &cobra.Command{
	Use:   "fetch <destination> [archive-name]",
	Short: "Fetch an archive (default: the most recent) and unpack it into the backup area",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		targetName := ""
		if len(args) > 1 {
			targetName = args[1]
		}

		cfg := buildConfig()

		dstOpts := newOptionsBuilder(colsync.EvalOptions(colsync.SplitOptions(args[0]), presets)).
			WithDestination().
			WithIdentities().
			FatalOnError()

		archives, err := colsync.SortedListArchives(dstOpts.Destination)
		if err != nil {
			logrus.Fatal(err)
		}

		var target *colsync.Archive
		for i, a := range archives {
			if strings.HasPrefix(a.FullName(), targetName) {
				target = &archives[i]
				break
			}
		}
		if target == nil {
			logrus.Fatal(&colsync.NotFoundError{Kind: "archive", Name: targetName})
		}

		data, err := dstOpts.Destination.ReceiveArchive(*target)
		if err != nil {
			logrus.Fatal(err)
		}
		defer data.Close()

		mgr := colsync.NewSnapshotManager(nil, cfg.BackupRoot, cfg.AppName)
		unpacked, err := archive.UnpackSnapshot(data, dstOpts.Identities, mgr.Dir(target.Snapshot))
		if err != nil {
			logrus.Fatal(err)
		}

		archiveLog.Printf("unpacked %s into %s", unpacked.Filename(), mgr.Dir(target.Snapshot))
	},
}

var cmdArchiveList = &cobra.Command{
	Use:   "list <destination>",
	Short: "List archives on a destination",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dstOpts := newOptionsBuilder(colsync.EvalOptions(colsync.SplitOptions(args[0]), presets)).
			WithDestination().
			FatalOnError()

		archives, err := colsync.SortedListArchives(dstOpts.Destination)
		if err != nil {
			logrus.Fatal(err)
		}

		for _, a := range archives {
			fmt.Println(a.FullName())
		}
	},
}

var cmdArchive = &cobra.Command{
	Use: "archive",
}

func init() {
	cmdArchive.AddCommand(cmdArchiveSend, cmdArchiveFetch, cmdArchiveList)
}
