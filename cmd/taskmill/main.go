package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/taskmill/taskmill/cmd/taskmill/admin"
	"github.com/taskmill/taskmill/cmd/taskmill/serve"
	"github.com/taskmill/taskmill/cmd/taskmill/webhook"
	"github.com/taskmill/taskmill/pkg/config"
	logr "github.com/taskmill/taskmill/pkg/log"
	"github.com/taskmill/taskmill/pkg/version"
	"go.uber.org/automaxprocs/maxprocs"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	// CommitDate contains the date of the commit that this application was
	// built against. It's set via ldflags when building.
	CommitDate = ""

	rootCmd = &cobra.Command{
		Use:          "taskmill",
		Short:        "A project and task tracker with webhooks",
		Long:         "Taskmill tracks projects, tasks, and time, and notifies webhooks when they change.",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.AddCommand(
		manCmd,
		serve.Command,
		admin.Command,
		webhook.Command,
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Sum != "" {
			Version = info.Main.Version
		} else {
			Version = "unknown (built from source)"
		}
	}
	rootCmd.Version = Version

	version.Version = Version
	version.CommitSHA = CommitSHA
	version.CommitDate = CommitDate
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	if err := cfg.Parse(); err != nil {
		fmt.Fprintln(os.Stderr, "could not parse config:", err)
		return 1
	}

	ctx = config.WithContext(ctx, cfg)
	logger, f, err := logr.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not create logger:", err)
		return 1
	}
	if f != nil {
		defer f.Close() // nolint: errcheck
	}

	ctx = log.WithContext(ctx, logger)
	log.SetDefault(logger)

	// Set the max number of processes to the number of CPUs
	// This is useful when running taskmill in a container
	if _, err := maxprocs.Set(maxprocs.Logger(logger.Debugf)); err != nil {
		logger.Warn("couldn't set automaxprocs", "error", err)
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Debug("command failed", "err", err)
		}
		return 1
	}

	return 0
}
