package cmd

import (
	colsync "github.com/colsync/colsync/lib"
	"github.com/colsync/colsync/remote"

	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cmdWatch = &cobra.Command{
	Use:   "watch",
	Short: "Upload local file changes to the remote collection as they happen",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := buildConfig()
		client := remote.New(cfg)

		if _, err := os.Stat(cfg.LocalRoot); err != nil {
			logrus.Fatal(err)
		}

		events := make(chan string)
		stop := make(chan struct{})

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		go func() {
			<-interrupt
			close(stop)
		}()

		watchErr := make(chan error, 1)
		go func() {
			watchErr <- colsync.WatchTree(cfg.LocalRoot, events, stop)
		}()

		logrus.Printf("watching %s", cfg.LocalRoot)
		colsync.NewWatcher(client, cfg.LocalRoot, cfg.RemoteRoot).Run(events)

		if err := <-watchErr; err != nil {
			logrus.Fatal(err)
		}
	},
}
