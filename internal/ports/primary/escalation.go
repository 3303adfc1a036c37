package primary

import "context"

// EscalationService defines the primary port for the escalation sweep.
type EscalationService interface {
	// RunSweep executes one evaluation pass over all open, unacknowledged
	// emergency requests. Per-request failures are recorded in the report,
	// never propagated; RunSweep itself errors only when the candidate fetch
	// fails outright.
	RunSweep(ctx context.Context) (*SweepReport, error)

	// Watch runs sweeps on the configured interval until ctx is cancelled.
	// The first sweep fires immediately.
	Watch(ctx context.Context) error
}

// SweepReport summarizes one evaluation pass.
type SweepReport struct {
	StartedAt     string
	Candidates    int
	Advanced      int // level transitions committed
	Notified      int // notifications confirmed sent
	NotifyRetries int // pending notifications re-attempted for an already-committed level
	Skipped       int // lost a conditional write to a concurrent acknowledgment
	Failed        int // per-request errors (retried next sweep)
}

// AcknowledgmentService defines the primary port for staff acknowledgment.
type AcknowledgmentService interface {
	// Acknowledge freezes escalation for a request. Idempotent: acknowledging
	// an already-acknowledged request succeeds and reports the original
	// timestamp. Terminal requests are rejected with ErrInvalidState.
	Acknowledge(ctx context.Context, requestID, userID string) (*AckResult, error)
}

// AckResult reports the outcome of an acknowledgment.
type AckResult struct {
	RequestID      string
	AcknowledgedAt string
	AcknowledgedBy string
	// AlreadyAcked is true when the request had been acknowledged before this
	// call; AcknowledgedAt/AcknowledgedBy then report the original values.
	AlreadyAcked bool
}
