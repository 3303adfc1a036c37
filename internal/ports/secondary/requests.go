// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the engine drives the
// data store, the notification channel, the audit sink, and the clock.
package secondary

import (
	"context"
	"time"
)

// RequestRepository defines the secondary port for maintenance request
// persistence. The conditional Try* operations are the concurrency boundary:
// they must commit atomically or report that the precondition no longer held,
// so that duplicate evaluator instances and racing acknowledgments stay safe.
type RequestRepository interface {
	// Create persists a new request.
	Create(ctx context.Context, req *RequestRecord) error

	// GetByID retrieves a request by its ID.
	// Returns primary.ErrNotFound (wrapped) when absent.
	GetByID(ctx context.Context, id string) (*RequestRecord, error)

	// List retrieves requests matching the given filters.
	List(ctx context.Context, filters RequestListFilters) ([]*RequestRecord, error)

	// GetNextID returns the next available request ID.
	GetNextID(ctx context.Context) (string, error)

	// FetchEscalationCandidates returns all non-terminal EMERGENCY requests
	// with no acknowledgment, the population one sweep evaluates.
	FetchEscalationCandidates(ctx context.Context, now time.Time) ([]*RequestRecord, error)

	// TryAdvanceEscalation conditionally raises the escalation level.
	// Commits only while acknowledged_at is still null, the status is still
	// non-terminal, and the stored level equals expectedLevel. Returns false
	// without error when the precondition failed (lost the race).
	TryAdvanceEscalation(ctx context.Context, id string, expectedLevel, newLevel int, now time.Time) (bool, error)

	// TryAcknowledge conditionally sets acknowledged_at/acknowledged_by.
	// Commits only while acknowledged_at is still null and the status is
	// non-terminal. Always returns the acknowledgment timestamp now stored on
	// the request, whether this call won the race or a concurrent one did.
	TryAcknowledge(ctx context.Context, id, userID string, now time.Time) (committed bool, acknowledgedAt *time.Time, err error)

	// MarkEscalationNotified records that a notification for the given level
	// was delivered, stamping both the timestamp and the notified level.
	// Commits only while the stored level still equals level.
	MarkEscalationNotified(ctx context.Context, id string, level int, at time.Time) error

	// RecordFirstResponse stamps first_responded_at once. Returns the stored
	// timestamp; repeat calls leave the original value in place.
	RecordFirstResponse(ctx context.Context, id string, at time.Time) (*time.Time, error)

	// UpdateStatus transitions the request status, stamping completed_at when
	// the new status is COMPLETED. Commits only from a non-terminal status;
	// returns false when the request was already terminal.
	UpdateStatus(ctx context.Context, id, status string, at time.Time) (bool, error)
}

// RequestRecord represents a maintenance request as stored in persistence.
type RequestRecord struct {
	ID                       string
	PropertyID               string
	UnitID                   string
	Title                    string
	Description              string
	ReportedBy               string
	Priority                 string
	Status                   string
	CreatedAt                time.Time
	SLAResponseDueAt         *time.Time
	SLAResolutionDueAt       *time.Time
	FirstRespondedAt         *time.Time
	CompletedAt              *time.Time
	EscalationLevel          int
	AcknowledgedAt           *time.Time
	AcknowledgedBy           string
	LastEscalationNotifiedAt *time.Time
	// LastNotifiedLevel is the highest level a notification was confirmed
	// for. A request whose EscalationLevel exceeds this has a pending
	// delivery (a previous dispatch failed before confirmation).
	LastNotifiedLevel int
}

// RequestListFilters contains filter options for querying requests.
type RequestListFilters struct {
	Status             string
	Priority           string
	UnackedEmergencies bool
	Limit              int
}
