// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema; do not hardcode CREATE TABLE statements here.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/propwatch/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedRequest inserts a minimal request row directly and returns its ID.
func seedRequest(t *testing.T, database *sql.DB, id, priority, status string, createdAt time.Time) string {
	t.Helper()

	_, err := database.Exec(
		`INSERT INTO maintenance_requests
			(id, property_id, title, priority, status, created_at, escalation_level)
		 VALUES (?, 'PROP-01', 'Test request', ?, ?, ?, 0)`,
		id, priority, status, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to seed request %s: %v", id, err)
	}

	return id
}
