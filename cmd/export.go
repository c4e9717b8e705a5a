package cmd

import (
	colsync "github.com/colsync/colsync/lib"
	"github.com/colsync/colsync/remote"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cmdExport = &cobra.Command{
	Use:   "export",
	Short: "Mirror the remote collection into the local directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig()
		client := remote.New(cfg)

		res, err := colsync.NewMirror(client).Pull(cfg.RemoteRoot, cfg.LocalRoot)
		if err != nil {
			logrus.Fatal(err)
		}

		reportResult("export", res)
	},
}

// reportResult prints the structured outcome of a best-effort pass. Partial
// failures are warnings, not fatal: the pass did complete.
func reportResult(op string, res colsync.SyncResult) {
	if res.Ok() {
		logrus.Printf("%s done: %s", op, res.Summary())
		return
	}

	for _, f := range res.Failures {
		logrus.Warnf("%s: %v", op, f)
	}
	logrus.Warnf("%s finished with failures: %s", op, res.Summary())
}
