package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/propwatch/internal/ports/primary"
	"github.com/example/propwatch/internal/wire"
)

// RequestCmd returns the request command
func RequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Manage maintenance requests",
		Long:  `Create and manage maintenance requests with SLA tracking.`,
	}

	cmd.AddCommand(requestCreateCmd())
	cmd.AddCommand(requestListCmd())
	cmd.AddCommand(requestShowCmd())
	cmd.AddCommand(requestRespondCmd())
	cmd.AddCommand(requestCompleteCmd())
	cmd.AddCommand(requestCancelCmd())

	return cmd
}

func requestCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new maintenance request",
		Long: `Create a maintenance request. SLA deadlines are stamped from the
configured per-priority targets at creation time.

Examples:
  propwatch request create --property PROP-001 --title "Gas leak" --priority EMERGENCY
  propwatch request create --property PROP-002 --unit 3B --title "Dripping faucet" --priority LOW --reporter tenant-42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			property, _ := cmd.Flags().GetString("property")
			unit, _ := cmd.Flags().GetString("unit")
			title, _ := cmd.Flags().GetString("title")
			description, _ := cmd.Flags().GetString("description")
			priority, _ := cmd.Flags().GetString("priority")
			reporter, _ := cmd.Flags().GetString("reporter")

			_, err := wire.RequestAdapter().Create(ctx, primary.CreateRequestInput{
				PropertyID:  property,
				UnitID:      unit,
				Title:       title,
				Description: description,
				Priority:    priority,
				ReportedBy:  reporter,
			})
			return err
		},
	}

	cmd.Flags().String("property", "", "Property ID (required)")
	cmd.Flags().String("unit", "", "Unit within the property")
	cmd.Flags().String("title", "", "Short summary of the issue (required)")
	cmd.Flags().String("description", "", "Longer description")
	cmd.Flags().String("priority", "MEDIUM", "Priority: EMERGENCY, HIGH, MEDIUM or LOW")
	cmd.Flags().String("reporter", "", "Who reported the issue")

	return cmd
}

func requestListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List maintenance requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			status, _ := cmd.Flags().GetString("status")
			priority, _ := cmd.Flags().GetString("priority")
			unacked, _ := cmd.Flags().GetBool("unacked-emergencies")
			limit, _ := cmd.Flags().GetInt("limit")

			_, err := wire.RequestAdapter().List(ctx, primary.RequestFilters{
				Status:             status,
				Priority:           priority,
				UnackedEmergencies: unacked,
				Limit:              limit,
			})
			return err
		},
	}

	cmd.Flags().String("status", "", "Filter by status")
	cmd.Flags().String("priority", "", "Filter by priority")
	cmd.Flags().Bool("unacked-emergencies", false, "Only unacknowledged, open emergencies")
	cmd.Flags().Int("limit", 0, "Limit the number of results")

	return cmd
}

func requestShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [request-id]",
		Short: "Show request details and SLA status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.RequestAdapter().Show(context.Background(), args[0])
			return err
		},
	}
}

func requestRespondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond [request-id]",
		Short: "Record the first response to a request",
		Long: `Record that staff responded to the request, fixing the response-SLA
achievement time. Repeat calls keep the original timestamp.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.RequestAdapter().Respond(context.Background(), args[0])
			return err
		},
	}
}

func requestCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [request-id]",
		Short: "Mark a request completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.RequestAdapter().Complete(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to complete request: %w", err)
			}
			return nil
		},
	}
}

func requestCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [request-id]",
		Short: "Cancel a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.RequestAdapter().Cancel(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to cancel request: %w", err)
			}
			return nil
		},
	}
}
