package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/propwatch/internal/core/sla"
	"github.com/example/propwatch/internal/ports/primary"
)

// RequestAdapter is a thin adapter that translates CLI operations to
// RequestService calls. It depends only on the RequestService interface,
// enabling easy testing with mocks.
type RequestAdapter struct {
	service primary.RequestService
	out     io.Writer
}

// NewRequestAdapter creates a new RequestAdapter with the given service.
func NewRequestAdapter(service primary.RequestService, out io.Writer) *RequestAdapter {
	return &RequestAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a maintenance request and prints a confirmation with the
// stamped SLA deadlines.
func (a *RequestAdapter) Create(ctx context.Context, input primary.CreateRequestInput) (*primary.MaintenanceRequest, error) {
	req, err := a.service.CreateRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created request %s (%s)\n", req.ID, req.Priority)
	fmt.Fprintf(a.out, "  %s\n", req.Title)
	if req.SLAResponseDueAt != "" {
		fmt.Fprintf(a.out, "  Response due:   %s\n", req.SLAResponseDueAt)
	}
	if req.SLAResolutionDueAt != "" {
		fmt.Fprintf(a.out, "  Resolution due: %s\n", req.SLAResolutionDueAt)
	}

	return req, nil
}

// List lists maintenance requests with optional filters.
func (a *RequestAdapter) List(ctx context.Context, filters primary.RequestFilters) ([]*primary.MaintenanceRequest, error) {
	requests, err := a.service.ListRequests(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	if len(requests) == 0 {
		fmt.Fprintln(a.out, "No requests found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first request:")
		fmt.Fprintln(a.out, "  propwatch request create --property PROP-001 --title \"Leaking faucet\" --priority MEDIUM")
		return requests, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tPRIORITY\tSTATUS\tLVL\tACK\tPROPERTY\tTITLE")
	fmt.Fprintln(w, "--\t--------\t------\t---\t---\t--------\t-----")

	for _, req := range requests {
		ack := "-"
		if req.AcknowledgedAt != "" {
			ack = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			req.ID,
			req.Priority,
			req.Status,
			req.EscalationLevel,
			ack,
			req.PropertyID,
			req.Title,
		)
	}

	w.Flush()
	return requests, nil
}

// Show displays details for a single request including its SLA panel.
func (a *RequestAdapter) Show(ctx context.Context, requestID string) (*primary.MaintenanceRequest, error) {
	req, err := a.service.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	fmt.Fprintf(a.out, "\nRequest: %s\n", req.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", req.Title)
	if req.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", req.Description)
	}
	fmt.Fprintf(a.out, "Property:    %s", req.PropertyID)
	if req.UnitID != "" {
		fmt.Fprintf(a.out, " / unit %s", req.UnitID)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Priority:    %s\n", req.Priority)
	fmt.Fprintf(a.out, "Status:      %s\n", req.Status)
	fmt.Fprintf(a.out, "Created:     %s\n", req.CreatedAt)
	if req.ReportedBy != "" {
		fmt.Fprintf(a.out, "Reported by: %s\n", req.ReportedBy)
	}
	if req.EscalationLevel > 0 {
		fmt.Fprintf(a.out, "Escalation:  level %d\n", req.EscalationLevel)
	}
	if req.AcknowledgedAt != "" {
		fmt.Fprintf(a.out, "Acked:       %s by %s\n", req.AcknowledgedAt, req.AcknowledgedBy)
	}

	panel, err := a.service.SLAStatus(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute SLA status: %w", err)
	}

	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Response:    %s (%s)\n", statusLabel(panel.ResponseStatus), panel.ResponseLabel)
	fmt.Fprintf(a.out, "Resolution:  %s (%s)\n", statusLabel(panel.ResolutionStatus), panel.ResolutionLabel)
	fmt.Fprintln(a.out)

	return req, nil
}

// Respond records a first response against the request.
func (a *RequestAdapter) Respond(ctx context.Context, requestID string) (*primary.MaintenanceRequest, error) {
	req, err := a.service.RecordFirstResponse(ctx, requestID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ First response recorded for %s at %s\n", req.ID, req.FirstRespondedAt)
	return req, nil
}

// Complete transitions the request to COMPLETED.
func (a *RequestAdapter) Complete(ctx context.Context, requestID string) error {
	if err := a.service.CompleteRequest(ctx, requestID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Completed request %s\n", requestID)
	return nil
}

// Cancel transitions the request to CANCELLED.
func (a *RequestAdapter) Cancel(ctx context.Context, requestID string) error {
	if err := a.service.CancelRequest(ctx, requestID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Cancelled request %s\n", requestID)
	return nil
}

// statusLabel colors a deadline classification for terminal output.
func statusLabel(status string) string {
	switch status {
	case sla.StatusOverdue, sla.StatusAchievedLate:
		return color.New(color.FgRed).Sprint(status)
	case sla.StatusAtRisk:
		return color.New(color.FgYellow).Sprint(status)
	case sla.StatusOnTrack, sla.StatusAchievedOnTime:
		return color.New(color.FgGreen).Sprint(status)
	default:
		return status
	}
}
