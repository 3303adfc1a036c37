package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/propwatch/internal/wire"
)

// AckCmd returns the ack command
func AckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ack [request-id]",
		Short: "Acknowledge an emergency request",
		Long: `Acknowledge a maintenance request, freezing its escalation at the
current level. Acknowledging an already-acknowledged request is a
no-op that reports the original acknowledgment.

Examples:
  propwatch ack REQ-001 --user staff-7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			if user == "" {
				return fmt.Errorf("--user is required")
			}

			_, err := wire.EscalationAdapter().Acknowledge(context.Background(), args[0], user)
			return err
		},
	}

	cmd.Flags().String("user", "", "ID of the acknowledging staff member (required)")

	return cmd
}
