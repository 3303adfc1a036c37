package secondary

import (
	"context"
	"time"
)

// AuditLog defines the secondary port for the audit trail. Fire-and-forget:
// callers log failures and continue, an audit outage never blocks the engine.
type AuditLog interface {
	// RecordEscalation records a committed level transition.
	RecordEscalation(ctx context.Context, requestID string, previousLevel, newLevel int, at time.Time) error

	// RecordAcknowledgment records a committed acknowledgment.
	RecordAcknowledgment(ctx context.Context, requestID, userID string, at time.Time) error
}
