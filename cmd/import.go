package cmd

import (
	colsync "github.com/colsync/colsync/lib"
	"github.com/colsync/colsync/remote"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cmdImport = &cobra.Command{
	Use:   "import",
	Short: "Replay the local directory onto the remote collection (snapshots first)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig()

		res, err := colsync.Import(remote.New(cfg), cfg)
		if err != nil {
			logrus.Fatal(err)
		}

		reportResult("import", res)
	},
}
