package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/propwatch/internal/adapters/sqlite"
)

func TestAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditRepository(db)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	seedRequest(t, db, "REQ-001", "EMERGENCY", "SUBMITTED", at.Add(-time.Hour))

	t.Run("records escalation transition", func(t *testing.T) {
		if err := repo.RecordEscalation(ctx, "REQ-001", 0, 1, at); err != nil {
			t.Fatalf("RecordEscalation failed: %v", err)
		}

		var prev, next int
		err := db.QueryRow(
			"SELECT previous_level, new_level FROM audit_log WHERE request_id = ? AND action = 'escalation'",
			"REQ-001",
		).Scan(&prev, &next)
		if err != nil {
			t.Fatalf("query audit row failed: %v", err)
		}
		if prev != 0 || next != 1 {
			t.Errorf("levels = (%d, %d), want (0, 1)", prev, next)
		}
	})

	t.Run("records acknowledgment with actor", func(t *testing.T) {
		if err := repo.RecordAcknowledgment(ctx, "REQ-001", "staff-7", at); err != nil {
			t.Fatalf("RecordAcknowledgment failed: %v", err)
		}

		var actor string
		err := db.QueryRow(
			"SELECT actor_id FROM audit_log WHERE request_id = ? AND action = 'acknowledgment'",
			"REQ-001",
		).Scan(&actor)
		if err != nil {
			t.Fatalf("query audit row failed: %v", err)
		}
		if actor != "staff-7" {
			t.Errorf("actor = %q, want staff-7", actor)
		}
	})

	t.Run("entries get distinct ids", func(t *testing.T) {
		if err := repo.RecordEscalation(ctx, "REQ-001", 1, 2, at.Add(time.Hour)); err != nil {
			t.Fatalf("RecordEscalation failed: %v", err)
		}

		var count, distinct int
		if err := db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT id) FROM audit_log").Scan(&count, &distinct); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != distinct {
			t.Errorf("duplicate audit ids: %d rows, %d distinct", count, distinct)
		}
	})
}
