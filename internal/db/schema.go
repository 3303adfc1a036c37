package db

// SchemaSQL is the complete schema for fresh propwatch installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests load
// it via GetSchemaSQL(); do not hardcode CREATE TABLE statements in test
// files. If repository code references a column missing here, tests fail
// immediately with "no such column".
const SchemaSQL = `
-- Maintenance requests (the engine's only shared mutable resource)
CREATE TABLE IF NOT EXISTS maintenance_requests (
	id TEXT PRIMARY KEY,
	property_id TEXT NOT NULL,
	unit_id TEXT,
	title TEXT NOT NULL,
	description TEXT,
	reported_by TEXT,
	priority TEXT NOT NULL CHECK(priority IN ('EMERGENCY', 'HIGH', 'MEDIUM', 'LOW')),
	status TEXT NOT NULL CHECK(status IN ('SUBMITTED', 'ACKNOWLEDGED', 'SCHEDULED', 'IN_PROGRESS', 'PENDING_PARTS', 'ON_HOLD', 'COMPLETED', 'CANCELLED')) DEFAULT 'SUBMITTED',
	created_at DATETIME NOT NULL,
	sla_response_due_at DATETIME,
	sla_resolution_due_at DATETIME,
	first_responded_at DATETIME,
	completed_at DATETIME,
	escalation_level INTEGER NOT NULL CHECK(escalation_level BETWEEN 0 AND 3) DEFAULT 0,
	acknowledged_at DATETIME,
	acknowledged_by TEXT,
	last_escalation_notified_at DATETIME,
	last_notified_level INTEGER NOT NULL CHECK(last_notified_level BETWEEN 0 AND 3) DEFAULT 0
);

-- Candidate query: non-terminal unacknowledged emergencies
CREATE INDEX IF NOT EXISTS idx_requests_escalation_candidates
	ON maintenance_requests(priority, status, acknowledged_at);
CREATE INDEX IF NOT EXISTS idx_requests_status ON maintenance_requests(status);

-- Audit trail (write-only sink; the engine never reads it back)
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	request_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('escalation', 'acknowledgment')),
	previous_level INTEGER,
	new_level INTEGER,
	actor_id TEXT,
	occurred_at DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (request_id) REFERENCES maintenance_requests(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_audit_request ON audit_log(request_id);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}

	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
