package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/propwatch/internal/ports/primary"
	"github.com/example/propwatch/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the SLA board",
		Long: `Display an overview of open requests: counts per status and the
unacknowledged emergencies currently driving escalations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			requests, err := wire.RequestService().ListRequests(ctx, primary.RequestFilters{})
			if err != nil {
				return fmt.Errorf("failed to list requests: %w", err)
			}

			counts := map[string]int{}
			open := 0
			for _, r := range requests {
				counts[r.Status]++
				if !primary.TerminalStatus(r.Status) {
					open++
				}
			}

			fmt.Printf("PropWatch Status - %d open of %d total\n", open, len(requests))
			fmt.Println()
			for _, status := range []string{
				primary.StatusSubmitted,
				primary.StatusAcknowledged,
				primary.StatusScheduled,
				primary.StatusInProgress,
				primary.StatusPendingParts,
				primary.StatusOnHold,
				primary.StatusCompleted,
				primary.StatusCancelled,
			} {
				if counts[status] > 0 {
					fmt.Printf("  %-14s %d\n", status, counts[status])
				}
			}

			emergencies, err := wire.RequestService().ListRequests(ctx, primary.RequestFilters{
				UnackedEmergencies: true,
			})
			if err != nil {
				return fmt.Errorf("failed to list emergencies: %w", err)
			}

			fmt.Println()
			if len(emergencies) == 0 {
				fmt.Println("No unacknowledged emergencies.")
				return nil
			}

			fmt.Printf("Unacknowledged emergencies (%d):\n", len(emergencies))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tLVL\tPROPERTY\tCREATED\tTITLE")
			for _, r := range emergencies {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					r.ID,
					r.EscalationLevel,
					r.PropertyID,
					r.CreatedAt,
					r.Title,
				)
			}
			w.Flush()
			fmt.Println()
			fmt.Println("Acknowledge with: propwatch ack <request-id> --user <staff-id>")
			return nil
		},
	}
}
