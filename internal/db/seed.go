package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: a spread of
// priorities and lifecycle states so sweeps and status views have something
// to chew on.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()

	requests := []struct {
		id, property, unit, title, priority, status string
		age                                         time.Duration
		responseDue, resolutionDue                  time.Duration
	}{
		{"REQ-001", "PROP-12", "4B", "Burst pipe flooding kitchen", "EMERGENCY", "SUBMITTED", 30 * time.Minute, time.Hour, 24 * time.Hour},
		{"REQ-002", "PROP-12", "2A", "No heat in unit", "EMERGENCY", "SUBMITTED", 3 * time.Hour, time.Hour, 24 * time.Hour},
		{"REQ-003", "PROP-07", "", "Broken lobby door lock", "HIGH", "SCHEDULED", 6 * time.Hour, 4 * time.Hour, 72 * time.Hour},
		{"REQ-004", "PROP-07", "1C", "Dripping bathroom faucet", "MEDIUM", "SUBMITTED", 24 * time.Hour, 24 * time.Hour, 168 * time.Hour},
		{"REQ-005", "PROP-03", "8F", "Squeaky closet hinge", "LOW", "SUBMITTED", 48 * time.Hour, 48 * time.Hour, 336 * time.Hour},
	}

	// OR IGNORE keeps repeat seeding (init --demo on an initialized install)
	// from tripping over the fixture primary keys.
	for _, r := range requests {
		created := now.Add(-r.age)
		if _, err := database.Exec(
			`INSERT OR IGNORE INTO maintenance_requests
				(id, property_id, unit_id, title, priority, status, created_at, sla_response_due_at, sla_resolution_due_at, escalation_level)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
			r.id, r.property, r.unit, r.title, r.priority, r.status,
			created, created.Add(r.responseDue), created.Add(r.resolutionDue),
		); err != nil {
			return fmt.Errorf("seed requests: %w", err)
		}
	}

	return nil
}
