package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/propwatch/internal/ports/primary"
	"github.com/example/propwatch/internal/ports/secondary"
)

// AcknowledgmentServiceImpl implements the AcknowledgmentService interface.
type AcknowledgmentServiceImpl struct {
	requestRepo secondary.RequestRepository
	audit       secondary.AuditLog
	clock       secondary.Clock
	logOut      io.Writer
}

// NewAcknowledgmentService creates a new AcknowledgmentService with injected dependencies.
func NewAcknowledgmentService(
	requestRepo secondary.RequestRepository,
	audit secondary.AuditLog,
	clock secondary.Clock,
	logOut io.Writer,
) *AcknowledgmentServiceImpl {
	return &AcknowledgmentServiceImpl{
		requestRepo: requestRepo,
		audit:       audit,
		clock:       clock,
		logOut:      logOut,
	}
}

// Acknowledge freezes escalation for a request. Idempotent on repeat and on
// race: whoever commits first wins, everyone else gets the winner's
// timestamp back. Exactly one audit entry is written, by the winner.
func (s *AcknowledgmentServiceImpl) Acknowledge(ctx context.Context, requestID, userID string) (*primary.AckResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("acknowledging user is required")
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if primary.TerminalStatus(req.Status) {
		return nil, fmt.Errorf("cannot acknowledge %s request %s: %w", req.Status, requestID, primary.ErrInvalidState)
	}

	if req.AcknowledgedAt != nil {
		// Already acknowledged: success, report the original values.
		return &primary.AckResult{
			RequestID:      requestID,
			AcknowledgedAt: req.AcknowledgedAt.Format(time.RFC3339),
			AcknowledgedBy: req.AcknowledgedBy,
			AlreadyAcked:   true,
		}, nil
	}

	now := s.clock.Now()
	committed, ackedAt, err := s.requestRepo.TryAcknowledge(ctx, requestID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to acknowledge request: %w", err)
	}

	if committed {
		if err := s.audit.RecordAcknowledgment(ctx, requestID, userID, now); err != nil {
			fmt.Fprintf(s.logOut, "audit acknowledgment %s failed: %v\n", requestID, err)
		}
		return &primary.AckResult{
			RequestID:      requestID,
			AcknowledgedAt: now.Format(time.RFC3339),
			AcknowledgedBy: userID,
		}, nil
	}

	if ackedAt == nil {
		// The conditional write failed without anyone acknowledging: the
		// request went terminal between our read and write.
		return nil, fmt.Errorf("cannot acknowledge request %s: %w", requestID, primary.ErrInvalidState)
	}

	// Lost the race to a concurrent acknowledgment; report the winner's
	// values. No second audit entry.
	winner, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return &primary.AckResult{
		RequestID:      requestID,
		AcknowledgedAt: ackedAt.Format(time.RFC3339),
		AcknowledgedBy: winner.AcknowledgedBy,
		AlreadyAcked:   true,
	}, nil
}

// Ensure AcknowledgmentServiceImpl implements the interface
var _ primary.AcknowledgmentService = (*AcknowledgmentServiceImpl)(nil)
