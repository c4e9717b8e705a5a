package cmd

import (
	colsync "github.com/colsync/colsync/lib"

	"fmt"
	"os"
	"os/user"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	presetsDir string
	logLevel   string
	presets    map[string][]colsync.KeyValuePair

	flagServer     string
	flagRestPrefix string
	flagCollection string
	flagUser       string
	flagLocalRoot  string
	flagBackupRoot string
	flagApp        string
	flagKeep       int

	tag       = "git"
	commit    = "unknown"
	buildDate = "unknown"

	rootCmd = &cobra.Command{
		Use:   "colsync",
		Short: "Mirror a local tree against a remote collection store, with versioned snapshots",
	}
	cmdVersion = &cobra.Command{
		Use: "version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Version: %s\n", tag)
			fmt.Printf("Commit: %s\n", commit)
			fmt.Printf("Build Date: %s\n", buildDate)
		},
	}
)

// buildConfig assembles the single configuration value every component gets.
// The password comes from the environment so it never shows up in process
// listings.
func buildConfig() colsync.Config {
	cfg := colsync.Config{
		ServerURL:  flagServer,
		RestPrefix: flagRestPrefix,
		RemoteRoot: flagCollection,
		Username:   flagUser,
		Password:   os.Getenv("COLSYNC_PASSWORD"),
		LocalRoot:  flagLocalRoot,
		BackupRoot: flagBackupRoot,
		AppName:    flagApp,
		Keep:       flagKeep,
	}
	if cfg.AppName == "" {
		cfg.AppName = path.Base(colsync.NormalizeRemotePath(cfg.RemoteRoot))
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}
	return cfg
}

func init() {
	cobra.OnInitialize(func() {
		var err error

		if presetsDir == "" {
			usr, err := user.Current()
			if err != nil {
				logrus.Fatal(err)
			}

			if usr.Uid == "0" {
				presetsDir = path.Join("/etc", "colsync", "presets")
			} else {
				presetsDir = path.Join(usr.HomeDir, ".config", "colsync", "presets")
			}
		}

		if logLevel != "" {
			level, err := logrus.ParseLevel(logLevel)
			if err == nil {
				logrus.SetLevel(level)
			} else {
				logrus.Warnf("Cannot set log level: %v", err)
			}
		}

		presets, err = colsync.ReadPresets(presetsDir)
		if err != nil {
			logrus.Fatal(err)
		}
	})

	rootCmd.PersistentFlags().StringVarP(&presetsDir, "presets-dir", "p", "", "path to presets directory")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", os.Getenv("LOG_LEVEL"), "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "http://localhost:8080", "base URL of the remote store")
	rootCmd.PersistentFlags().StringVarP(&flagRestPrefix, "rest-prefix", "", "/exist/rest", "REST path prefix of the remote store")
	rootCmd.PersistentFlags().StringVarP(&flagCollection, "collection", "c", "", "absolute path of the remote collection to sync")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "admin", "basic auth user (password via COLSYNC_PASSWORD)")
	rootCmd.PersistentFlags().StringVarP(&flagLocalRoot, "local-root", "d", ".", "local directory mirroring the collection")
	rootCmd.PersistentFlags().StringVarP(&flagBackupRoot, "backup-root", "b", "backup", "backup area holding snapshots")
	rootCmd.PersistentFlags().StringVarP(&flagApp, "app", "a", "", "application name (default: last collection segment)")
	rootCmd.PersistentFlags().IntVarP(&flagKeep, "keep", "k", 10, "snapshots retained by rotation, 0 disables")
	rootCmd.AddCommand(cmdExport, cmdImport, cmdWatch, cmdSnapshot, cmdRollback, cmdArchive, cmdVersion)
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logrus.Fatal(err)
	}
}
