// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/propwatch/internal/ports/primary"
	"github.com/example/propwatch/internal/ports/secondary"
)

const requestColumns = `id, property_id, unit_id, title, description, reported_by, priority, status,
	created_at, sla_response_due_at, sla_resolution_due_at, first_responded_at, completed_at,
	escalation_level, acknowledged_at, acknowledged_by, last_escalation_notified_at, last_notified_level`

// RequestRepository implements secondary.RequestRepository with SQLite.
// The Try* methods rely on conditional UPDATEs so the compare-and-swap holds
// across processes, not just goroutines.
type RequestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new SQLite request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create persists a new request.
func (r *RequestRepository) Create(ctx context.Context, req *secondary.RequestRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO maintenance_requests
			(id, property_id, unit_id, title, description, reported_by, priority, status,
			 created_at, sla_response_due_at, sla_resolution_due_at, escalation_level)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID,
		req.PropertyID,
		nullString(req.UnitID),
		req.Title,
		nullString(req.Description),
		nullString(req.ReportedBy),
		req.Priority,
		req.Status,
		req.CreatedAt,
		nullTime(req.SLAResponseDueAt),
		nullTime(req.SLAResolutionDueAt),
		req.EscalationLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetByID retrieves a request by its ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*secondary.RequestRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM maintenance_requests WHERE id = ?`, id)

	record, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return record, nil
}

// List retrieves requests matching the given filters.
func (r *RequestRepository) List(ctx context.Context, filters secondary.RequestListFilters) ([]*secondary.RequestRecord, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_requests WHERE 1=1`
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	if filters.Priority != "" {
		query += " AND priority = ?"
		args = append(args, filters.Priority)
	}

	if filters.UnackedEmergencies {
		query += ` AND priority = 'EMERGENCY' AND acknowledged_at IS NULL
			AND status NOT IN ('COMPLETED', 'CANCELLED')`
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// GetNextID returns the next available request ID.
func (r *RequestRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("REQ-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM maintenance_requests", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next request ID: %w", err)
	}

	return fmt.Sprintf("REQ-%03d", maxID+1), nil
}

// FetchEscalationCandidates returns all non-terminal EMERGENCY requests with
// no acknowledgment, ordered oldest first so the longest-waiting requests are
// evaluated before a sweep deadline can cut the pass short.
func (r *RequestRepository) FetchEscalationCandidates(ctx context.Context, now time.Time) ([]*secondary.RequestRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM maintenance_requests
		 WHERE priority = 'EMERGENCY'
		   AND acknowledged_at IS NULL
		   AND status NOT IN ('COMPLETED', 'CANCELLED')
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch escalation candidates: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// TryAdvanceEscalation conditionally raises the escalation level. The WHERE
// clause is the compare-and-swap: it re-checks acknowledgment, terminality,
// and the expected level in the same statement that writes the new level.
func (r *RequestRepository) TryAdvanceEscalation(ctx context.Context, id string, expectedLevel, newLevel int, now time.Time) (bool, error) {
	if newLevel < expectedLevel {
		return false, fmt.Errorf("escalation level must not decrease: %d -> %d", expectedLevel, newLevel)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_requests
		 SET escalation_level = ?
		 WHERE id = ?
		   AND escalation_level = ?
		   AND acknowledged_at IS NULL
		   AND status NOT IN ('COMPLETED', 'CANCELLED')`,
		newLevel, id, expectedLevel,
	)
	if err != nil {
		return false, fmt.Errorf("failed to advance escalation: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

// TryAcknowledge conditionally sets the acknowledgment. A SUBMITTED request
// also moves to ACKNOWLEDGED status; later statuses keep their status and
// only gain the timestamp. Always reports the acknowledgment timestamp now
// stored on the request so a racing loser can surface the winner's value.
func (r *RequestRepository) TryAcknowledge(ctx context.Context, id, userID string, now time.Time) (bool, *time.Time, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_requests
		 SET acknowledged_at = ?,
		     acknowledged_by = ?,
		     status = CASE WHEN status = 'SUBMITTED' THEN 'ACKNOWLEDGED' ELSE status END
		 WHERE id = ?
		   AND acknowledged_at IS NULL
		   AND status NOT IN ('COMPLETED', 'CANCELLED')`,
		now, userID, id,
	)
	if err != nil {
		return false, nil, fmt.Errorf("failed to acknowledge request: %w", err)
	}

	committed, _ := result.RowsAffected()

	var ackedAt sql.NullTime
	err = r.db.QueryRowContext(ctx,
		"SELECT acknowledged_at FROM maintenance_requests WHERE id = ?", id,
	).Scan(&ackedAt)
	if err == sql.ErrNoRows {
		return false, nil, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return false, nil, fmt.Errorf("failed to read acknowledgment: %w", err)
	}

	if !ackedAt.Valid {
		return false, nil, nil
	}
	return committed > 0, &ackedAt.Time, nil
}

// MarkEscalationNotified records confirmed delivery for the given level.
// Guarded on the level so a transition that raced in between does not get its
// fresh notification obligation wiped out.
func (r *RequestRepository) MarkEscalationNotified(ctx context.Context, id string, level int, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_requests
		 SET last_escalation_notified_at = ?, last_notified_level = ?
		 WHERE id = ? AND escalation_level = ?`,
		at, level, id, level,
	)
	if err != nil {
		return fmt.Errorf("failed to mark escalation notified: %w", err)
	}

	return nil
}

// RecordFirstResponse stamps first_responded_at once; repeat calls keep the
// original timestamp.
func (r *RequestRepository) RecordFirstResponse(ctx context.Context, id string, at time.Time) (*time.Time, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE maintenance_requests
		 SET first_responded_at = ?
		 WHERE id = ? AND first_responded_at IS NULL`,
		at, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record first response: %w", err)
	}

	var stored sql.NullTime
	err = r.db.QueryRowContext(ctx,
		"SELECT first_responded_at FROM maintenance_requests WHERE id = ?", id,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read first response: %w", err)
	}

	if !stored.Valid {
		return nil, fmt.Errorf("first response for %s not recorded", id)
	}
	return &stored.Time, nil
}

// UpdateStatus transitions the request status from a non-terminal state,
// stamping completed_at when the new status is COMPLETED. Returns false when
// the request was already terminal.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id, status string, at time.Time) (bool, error) {
	var result sql.Result
	var err error
	if status == primary.StatusCompleted {
		result, err = r.db.ExecContext(ctx,
			`UPDATE maintenance_requests
			 SET status = ?, completed_at = ?
			 WHERE id = ? AND status NOT IN ('COMPLETED', 'CANCELLED')`,
			status, at, id,
		)
	} else {
		result, err = r.db.ExecContext(ctx,
			`UPDATE maintenance_requests
			 SET status = ?
			 WHERE id = ? AND status NOT IN ('COMPLETED', 'CANCELLED')`,
			status, id,
		)
	}
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		return true, nil
	}

	// Distinguish "already terminal" from "no such request".
	var exists int
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM maintenance_requests WHERE id = ?", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check request: %w", err)
	}
	if exists == 0 {
		return false, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
	}

	return false, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanRequest.
type scanner interface {
	Scan(dest ...any) error
}

func scanRequest(s scanner) (*secondary.RequestRecord, error) {
	var (
		unitID       sql.NullString
		description  sql.NullString
		reportedBy   sql.NullString
		ackedBy      sql.NullString
		responseDue  sql.NullTime
		resolutionDu sql.NullTime
		firstResp    sql.NullTime
		completedAt  sql.NullTime
		ackedAt      sql.NullTime
		lastNotified sql.NullTime
	)

	record := &secondary.RequestRecord{}
	err := s.Scan(
		&record.ID, &record.PropertyID, &unitID, &record.Title, &description, &reportedBy,
		&record.Priority, &record.Status, &record.CreatedAt, &responseDue, &resolutionDu,
		&firstResp, &completedAt, &record.EscalationLevel, &ackedAt, &ackedBy, &lastNotified,
		&record.LastNotifiedLevel,
	)
	if err != nil {
		return nil, err
	}

	record.UnitID = unitID.String
	record.Description = description.String
	record.ReportedBy = reportedBy.String
	record.AcknowledgedBy = ackedBy.String
	record.SLAResponseDueAt = timePtr(responseDue)
	record.SLAResolutionDueAt = timePtr(resolutionDu)
	record.FirstRespondedAt = timePtr(firstResp)
	record.CompletedAt = timePtr(completedAt)
	record.AcknowledgedAt = timePtr(ackedAt)
	record.LastEscalationNotifiedAt = timePtr(lastNotified)

	return record, nil
}

func collectRequests(rows *sql.Rows) ([]*secondary.RequestRecord, error) {
	var records []*secondary.RequestRecord
	for rows.Next() {
		record, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return records, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Ensure RequestRepository implements the interface
var _ secondary.RequestRepository = (*RequestRepository)(nil)
