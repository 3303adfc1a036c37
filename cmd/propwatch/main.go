package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/propwatch/internal/cli"
	"github.com/example/propwatch/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "propwatch",
		Short:   "PropWatch - SLA tracking and escalation for maintenance requests",
		Version: version.String(),
		Long: `PropWatch tracks maintenance requests against response and resolution
SLAs, escalates unacknowledged emergencies through configurable
thresholds, and notifies on-call staff as levels are crossed.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.RequestCmd())
	rootCmd.AddCommand(cli.AckCmd())
	rootCmd.AddCommand(cli.SweepCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
