package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/actionlens/actionlens/pkg/cli"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "actionlens",
	Short: "Validate and analyze GitHub Actions workflows",
	Long: `actionlens validates GitHub Actions workflow files and analyzes them for
performance and security problems. It also simulates workflow execution to
estimate duration and resource usage before a workflow ever runs.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(cli.NewValidateCommand())
	rootCmd.AddCommand(cli.NewSimulateCommand())
	rootCmd.AddCommand(cli.NewWatchCommand())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
