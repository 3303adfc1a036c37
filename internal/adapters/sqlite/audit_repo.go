package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/propwatch/internal/ports/secondary"
)

// AuditRepository implements secondary.AuditLog with SQLite. Entries get
// random UUIDs; nothing human-facing reads them in sequence.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new SQLite audit repository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordEscalation records a committed level transition.
func (r *AuditRepository) RecordEscalation(ctx context.Context, requestID string, previousLevel, newLevel int, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, request_id, action, previous_level, new_level, occurred_at)
		 VALUES (?, ?, 'escalation', ?, ?, ?)`,
		uuid.NewString(), requestID, previousLevel, newLevel, at,
	)
	if err != nil {
		return fmt.Errorf("failed to record escalation audit: %w", err)
	}

	return nil
}

// RecordAcknowledgment records a committed acknowledgment.
func (r *AuditRepository) RecordAcknowledgment(ctx context.Context, requestID, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, request_id, action, actor_id, occurred_at)
		 VALUES (?, ?, 'acknowledgment', ?, ?)`,
		uuid.NewString(), requestID, userID, at,
	)
	if err != nil {
		return fmt.Errorf("failed to record acknowledgment audit: %w", err)
	}

	return nil
}

// Ensure AuditRepository implements the interface
var _ secondary.AuditLog = (*AuditRepository)(nil)
