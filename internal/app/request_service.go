package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/propwatch/internal/core/sla"
	"github.com/example/propwatch/internal/ports/primary"
	"github.com/example/propwatch/internal/ports/secondary"
)

// SLATarget holds the deadlines applied to a priority at creation time.
// A zero duration means no deadline of that kind.
type SLATarget struct {
	Response   time.Duration
	Resolution time.Duration
}

// RequestConfig carries the externally supplied request settings.
type RequestConfig struct {
	SLATargets map[string]SLATarget
	RiskWindow time.Duration
}

// RequestServiceImpl implements the RequestService interface.
type RequestServiceImpl struct {
	requestRepo secondary.RequestRepository
	clock       secondary.Clock
	cfg         RequestConfig
}

// NewRequestService creates a new RequestService with injected dependencies.
func NewRequestService(requestRepo secondary.RequestRepository, clock secondary.Clock, cfg RequestConfig) *RequestServiceImpl {
	return &RequestServiceImpl{
		requestRepo: requestRepo,
		clock:       clock,
		cfg:         cfg,
	}
}

// CreateRequest creates a request with SLA deadlines stamped from the
// configured per-priority targets.
func (s *RequestServiceImpl) CreateRequest(ctx context.Context, req primary.CreateRequestInput) (*primary.MaintenanceRequest, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if req.PropertyID == "" {
		return nil, fmt.Errorf("property is required")
	}
	if !primary.ValidPriority(req.Priority) {
		return nil, fmt.Errorf("invalid priority %q (must be EMERGENCY, HIGH, MEDIUM or LOW)", req.Priority)
	}

	nextID, err := s.requestRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate request ID: %w", err)
	}

	now := s.clock.Now()
	record := &secondary.RequestRecord{
		ID:              nextID,
		PropertyID:      req.PropertyID,
		UnitID:          req.UnitID,
		Title:           req.Title,
		Description:     req.Description,
		ReportedBy:      req.ReportedBy,
		Priority:        req.Priority,
		Status:          primary.StatusSubmitted,
		CreatedAt:       now,
		EscalationLevel: 0,
	}

	if target, ok := s.cfg.SLATargets[req.Priority]; ok {
		if target.Response > 0 {
			due := now.Add(target.Response)
			record.SLAResponseDueAt = &due
		}
		if target.Resolution > 0 {
			due := now.Add(target.Resolution)
			record.SLAResolutionDueAt = &due
		}
	}

	if err := s.requestRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	created, err := s.requestRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created request: %w", err)
	}

	return recordToRequest(created), nil
}

// GetRequest retrieves a request by ID.
func (s *RequestServiceImpl) GetRequest(ctx context.Context, requestID string) (*primary.MaintenanceRequest, error) {
	record, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return recordToRequest(record), nil
}

// ListRequests lists requests with optional filters.
func (s *RequestServiceImpl) ListRequests(ctx context.Context, filters primary.RequestFilters) ([]*primary.MaintenanceRequest, error) {
	records, err := s.requestRepo.List(ctx, secondary.RequestListFilters{
		Status:             filters.Status,
		Priority:           filters.Priority,
		UnackedEmergencies: filters.UnackedEmergencies,
		Limit:              filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	requests := make([]*primary.MaintenanceRequest, len(records))
	for i, r := range records {
		requests[i] = recordToRequest(r)
	}
	return requests, nil
}

// RecordFirstResponse marks the first-response SLA achieved. Write-once:
// repeat calls succeed and keep the original timestamp.
func (s *RequestServiceImpl) RecordFirstResponse(ctx context.Context, requestID string) (*primary.MaintenanceRequest, error) {
	record, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if primary.TerminalStatus(record.Status) {
		return nil, fmt.Errorf("cannot record response on %s request %s: %w", record.Status, requestID, primary.ErrInvalidState)
	}

	if _, err := s.requestRepo.RecordFirstResponse(ctx, requestID, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("failed to record first response: %w", err)
	}

	updated, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return recordToRequest(updated), nil
}

// CompleteRequest transitions a request to COMPLETED.
func (s *RequestServiceImpl) CompleteRequest(ctx context.Context, requestID string) error {
	return s.transition(ctx, requestID, primary.StatusCompleted)
}

// CancelRequest transitions a request to CANCELLED.
func (s *RequestServiceImpl) CancelRequest(ctx context.Context, requestID string) error {
	return s.transition(ctx, requestID, primary.StatusCancelled)
}

func (s *RequestServiceImpl) transition(ctx context.Context, requestID, status string) error {
	committed, err := s.requestRepo.UpdateStatus(ctx, requestID, status, s.clock.Now())
	if err != nil {
		return err
	}
	if !committed {
		return fmt.Errorf("cannot move terminal request %s to %s: %w", requestID, status, primary.ErrInvalidState)
	}
	return nil
}

// SLAStatus computes the deadline panel for a request. It runs the same
// classifier the escalation sweep uses, so the two never disagree.
func (s *RequestServiceImpl) SLAStatus(ctx context.Context, requestID string) (*primary.SLAPanel, error) {
	record, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	panel := &primary.SLAPanel{
		RequestID:       record.ID,
		EscalationLevel: record.EscalationLevel,
		Acknowledged:    record.AcknowledgedAt != nil,
	}

	panel.ResponseStatus = sla.Evaluate(record.SLAResponseDueAt, record.FirstRespondedAt, now, s.cfg.RiskWindow)
	panel.ResponseLabel = deadlineLabel(record.SLAResponseDueAt, record.FirstRespondedAt, now)

	panel.ResolutionStatus = sla.Evaluate(record.SLAResolutionDueAt, record.CompletedAt, now, s.cfg.RiskWindow)
	panel.ResolutionLabel = deadlineLabel(record.SLAResolutionDueAt, record.CompletedAt, now)

	return panel, nil
}

// deadlineLabel renders the remaining/elapsed label for one deadline.
// For achieved deadlines the label reflects the margin at achievement time.
func deadlineLabel(dueAt, achievedAt *time.Time, now time.Time) string {
	if dueAt == nil {
		return "n/a"
	}
	at := now
	if achievedAt != nil {
		at = *achievedAt
	}
	return sla.FormatRemaining(sla.Remaining(*dueAt, at))
}

// recordToRequest converts a persistence record to the port representation.
func recordToRequest(r *secondary.RequestRecord) *primary.MaintenanceRequest {
	return &primary.MaintenanceRequest{
		ID:                       r.ID,
		PropertyID:               r.PropertyID,
		UnitID:                   r.UnitID,
		Title:                    r.Title,
		Description:              r.Description,
		ReportedBy:               r.ReportedBy,
		Priority:                 r.Priority,
		Status:                   r.Status,
		CreatedAt:                r.CreatedAt.Format(time.RFC3339),
		SLAResponseDueAt:         formatTimePtr(r.SLAResponseDueAt),
		SLAResolutionDueAt:       formatTimePtr(r.SLAResolutionDueAt),
		FirstRespondedAt:         formatTimePtr(r.FirstRespondedAt),
		CompletedAt:              formatTimePtr(r.CompletedAt),
		EscalationLevel:          r.EscalationLevel,
		AcknowledgedAt:           formatTimePtr(r.AcknowledgedAt),
		AcknowledgedBy:           r.AcknowledgedBy,
		LastEscalationNotifiedAt: formatTimePtr(r.LastEscalationNotifiedAt),
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// Ensure RequestServiceImpl implements the interface
var _ primary.RequestService = (*RequestServiceImpl)(nil)
