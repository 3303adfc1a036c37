package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/propwatch/internal/ports/primary"
)

// EscalationAdapter translates CLI operations to EscalationService and
// AcknowledgmentService calls.
type EscalationAdapter struct {
	escalations primary.EscalationService
	acks        primary.AcknowledgmentService
	out         io.Writer
}

// NewEscalationAdapter creates a new EscalationAdapter with the given services.
func NewEscalationAdapter(escalations primary.EscalationService, acks primary.AcknowledgmentService, out io.Writer) *EscalationAdapter {
	return &EscalationAdapter{
		escalations: escalations,
		acks:        acks,
		out:         out,
	}
}

// Sweep runs a single evaluation pass and prints the report.
func (a *EscalationAdapter) Sweep(ctx context.Context) (*primary.SweepReport, error) {
	report, err := a.escalations.RunSweep(ctx)
	if err != nil {
		return nil, fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Fprintf(a.out, "Sweep at %s\n", report.StartedAt)
	fmt.Fprintf(a.out, "  Candidates: %d\n", report.Candidates)
	fmt.Fprintf(a.out, "  Advanced:   %d\n", report.Advanced)
	fmt.Fprintf(a.out, "  Notified:   %d\n", report.Notified)
	if report.NotifyRetries > 0 {
		fmt.Fprintf(a.out, "  Re-sent:    %d\n", report.NotifyRetries)
	}
	if report.Skipped > 0 {
		fmt.Fprintf(a.out, "  Skipped:    %d\n", report.Skipped)
	}
	if report.Failed > 0 {
		fmt.Fprintf(a.out, "  Failed:     %d\n", report.Failed)
	}

	return report, nil
}

// Watch runs sweeps on the configured interval until the context is
// cancelled.
func (a *EscalationAdapter) Watch(ctx context.Context) error {
	fmt.Fprintln(a.out, "Watching for escalations (Ctrl+C to stop)...")
	return a.escalations.Watch(ctx)
}

// Acknowledge acknowledges a request on behalf of a user.
func (a *EscalationAdapter) Acknowledge(ctx context.Context, requestID, userID string) (*primary.AckResult, error) {
	result, err := a.acks.Acknowledge(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if result.AlreadyAcked {
		fmt.Fprintf(a.out, "Request %s was already acknowledged by %s at %s\n",
			result.RequestID, result.AcknowledgedBy, result.AcknowledgedAt)
	} else {
		fmt.Fprintf(a.out, "✓ Acknowledged %s as %s at %s\n",
			result.RequestID, result.AcknowledgedBy, result.AcknowledgedAt)
		fmt.Fprintln(a.out, "  Escalation frozen at the current level.")
	}

	return result, nil
}
