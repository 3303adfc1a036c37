package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/propwatch/internal/wire"
)

// SweepCmd returns the sweep command
func SweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the escalation evaluator",
		Long: `Run one escalation evaluation pass over all open, unacknowledged
EMERGENCY requests, advancing escalation levels and dispatching
notifications as thresholds are crossed.

With --watch, sweeps repeat on the configured interval until
interrupted.

Examples:
  propwatch sweep
  propwatch sweep --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")

			if watch {
				ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				return wire.EscalationAdapter().Watch(ctx)
			}

			_, err := wire.EscalationAdapter().Sweep(context.Background())
			return err
		},
	}

	cmd.Flags().Bool("watch", false, "Keep sweeping on the configured interval")

	return cmd
}
