// Package primary defines the primary ports (driving interfaces) for the
// application. CLI adapters and any future transport talk to these.
package primary

import "context"

// RequestService defines the primary port for maintenance request operations.
type RequestService interface {
	// CreateRequest creates a request and stamps its SLA deadlines from the
	// configured per-priority targets.
	CreateRequest(ctx context.Context, req CreateRequestInput) (*MaintenanceRequest, error)

	// GetRequest retrieves a request by ID.
	GetRequest(ctx context.Context, requestID string) (*MaintenanceRequest, error)

	// ListRequests lists requests with optional filters.
	ListRequests(ctx context.Context, filters RequestFilters) ([]*MaintenanceRequest, error)

	// RecordFirstResponse marks the first-response SLA as achieved.
	// Write-once: repeat calls succeed without moving the timestamp.
	RecordFirstResponse(ctx context.Context, requestID string) (*MaintenanceRequest, error)

	// CompleteRequest transitions a request to COMPLETED and stamps completedAt.
	CompleteRequest(ctx context.Context, requestID string) error

	// CancelRequest transitions a request to CANCELLED.
	CancelRequest(ctx context.Context, requestID string) error

	// SLAStatus computes the SLA panel for a request using the same
	// classification the escalation sweep uses.
	SLAStatus(ctx context.Context, requestID string) (*SLAPanel, error)
}

// MaintenanceRequest represents a maintenance request at the port boundary.
// Timestamps are RFC3339 strings; empty means unset.
type MaintenanceRequest struct {
	ID                       string
	PropertyID               string
	UnitID                   string
	Title                    string
	Description              string
	ReportedBy               string
	Priority                 string // EMERGENCY, HIGH, MEDIUM, LOW
	Status                   string // SUBMITTED .. CANCELLED
	CreatedAt                string
	SLAResponseDueAt         string
	SLAResolutionDueAt       string
	FirstRespondedAt         string
	CompletedAt              string
	EscalationLevel          int
	AcknowledgedAt           string
	AcknowledgedBy           string
	LastEscalationNotifiedAt string
}

// CreateRequestInput contains the fields needed to create a request.
type CreateRequestInput struct {
	PropertyID  string
	UnitID      string
	Title       string
	Description string
	ReportedBy  string
	Priority    string
}

// RequestFilters contains filter options for listing requests.
type RequestFilters struct {
	Status   string
	Priority string
	// UnackedEmergencies narrows to open, unacknowledged EMERGENCY requests,
	// the same population the escalation sweep reads.
	UnackedEmergencies bool
	Limit              int
}

// SLAPanel is the computed deadline view for one request.
type SLAPanel struct {
	RequestID        string
	ResponseStatus   string // sla.Status* value
	ResponseLabel    string // e.g. "1h left", "2h late"
	ResolutionStatus string
	ResolutionLabel  string
	EscalationLevel  int
	Acknowledged     bool
}

// Priority constants
const (
	PriorityEmergency = "EMERGENCY"
	PriorityHigh      = "HIGH"
	PriorityMedium    = "MEDIUM"
	PriorityLow       = "LOW"
)

// Status constants
const (
	StatusSubmitted    = "SUBMITTED"
	StatusAcknowledged = "ACKNOWLEDGED"
	StatusScheduled    = "SCHEDULED"
	StatusInProgress   = "IN_PROGRESS"
	StatusPendingParts = "PENDING_PARTS"
	StatusOnHold       = "ON_HOLD"
	StatusCompleted    = "COMPLETED"
	StatusCancelled    = "CANCELLED"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityEmergency, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TerminalStatus reports whether s is a terminal status. Terminal requests
// receive no further SLA or escalation evaluation.
func TerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}
