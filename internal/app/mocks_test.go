package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/propwatch/internal/ports/primary"
	"github.com/example/propwatch/internal/ports/secondary"
)

// fakeClock implements secondary.Clock with a settable time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// mockRequestRepository implements secondary.RequestRepository for testing.
// The Try* methods honor the same preconditions as the SQLite adapter so
// race interleavings can be simulated with the beforeAdvance hook.
type mockRequestRepository struct {
	mu       sync.Mutex
	requests map[string]*secondary.RequestRecord
	nextID   int

	fetchErr     error
	advanceErr   map[string]error // per-request TryAdvanceEscalation failures
	advanceDelay time.Duration    // slows every conditional advance, for deadline tests

	// beforeAdvance runs inside TryAdvanceEscalation before the precondition
	// check, simulating a concurrent writer that sneaks in first.
	beforeAdvance func(id string)

	// beforeAck does the same for TryAcknowledge.
	beforeAck func(id string)
}

func newMockRequestRepository() *mockRequestRepository {
	return &mockRequestRepository{
		requests:   make(map[string]*secondary.RequestRecord),
		advanceErr: make(map[string]error),
		nextID:     1,
	}
}

func (m *mockRequestRepository) add(r *secondary.RequestRecord) {
	m.requests[r.ID] = r
}

func (m *mockRequestRepository) Create(ctx context.Context, req *secondary.RequestRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *req
	m.requests[req.ID] = &cp
	return nil
}

func (m *mockRequestRepository) GetByID(ctx context.Context, id string) (*secondary.RequestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
}

func (m *mockRequestRepository) List(ctx context.Context, filters secondary.RequestListFilters) ([]*secondary.RequestRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.RequestRecord
	for _, r := range m.requests {
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.Priority != "" && r.Priority != filters.Priority {
			continue
		}
		if filters.UnackedEmergencies {
			if r.Priority != primary.PriorityEmergency || r.AcknowledgedAt != nil || primary.TerminalStatus(r.Status) {
				continue
			}
		}
		cp := *r
		result = append(result, &cp)
	}
	return result, nil
}

func (m *mockRequestRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("REQ-%03d", id), nil
}

func (m *mockRequestRepository) FetchEscalationCandidates(ctx context.Context, now time.Time) ([]*secondary.RequestRecord, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.List(ctx, secondary.RequestListFilters{UnackedEmergencies: true})
}

func (m *mockRequestRepository) TryAdvanceEscalation(ctx context.Context, id string, expectedLevel, newLevel int, now time.Time) (bool, error) {
	if err := m.advanceErr[id]; err != nil {
		return false, err
	}
	if m.advanceDelay > 0 {
		time.Sleep(m.advanceDelay)
	}
	if m.beforeAdvance != nil {
		hook := m.beforeAdvance
		m.beforeAdvance = nil
		hook(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return false, nil
	}
	if r.AcknowledgedAt != nil || primary.TerminalStatus(r.Status) || r.EscalationLevel != expectedLevel {
		return false, nil
	}
	r.EscalationLevel = newLevel
	return true, nil
}

func (m *mockRequestRepository) TryAcknowledge(ctx context.Context, id, userID string, now time.Time) (bool, *time.Time, error) {
	if m.beforeAck != nil {
		hook := m.beforeAck
		m.beforeAck = nil
		hook(id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return false, nil, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
	}
	if r.AcknowledgedAt != nil {
		at := *r.AcknowledgedAt
		return false, &at, nil
	}
	if primary.TerminalStatus(r.Status) {
		return false, nil, nil
	}
	at := now
	r.AcknowledgedAt = &at
	r.AcknowledgedBy = userID
	if r.Status == primary.StatusSubmitted {
		r.Status = primary.StatusAcknowledged
	}
	return true, &at, nil
}

func (m *mockRequestRepository) MarkEscalationNotified(ctx context.Context, id string, level int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || r.EscalationLevel != level {
		return nil
	}
	t := at
	r.LastEscalationNotifiedAt = &t
	r.LastNotifiedLevel = level
	return nil
}

func (m *mockRequestRepository) RecordFirstResponse(ctx context.Context, id string, at time.Time) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
	}
	if r.FirstRespondedAt == nil {
		t := at
		r.FirstRespondedAt = &t
	}
	cp := *r.FirstRespondedAt
	return &cp, nil
}

func (m *mockRequestRepository) UpdateStatus(ctx context.Context, id, status string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return false, fmt.Errorf("request %s: %w", id, primary.ErrNotFound)
	}
	if primary.TerminalStatus(r.Status) {
		return false, nil
	}
	r.Status = status
	if status == primary.StatusCompleted {
		t := at
		r.CompletedAt = &t
	}
	return true, nil
}

var _ secondary.RequestRepository = (*mockRequestRepository)(nil)

// mockDispatcher implements secondary.NotificationDispatcher for testing.
type mockDispatcher struct {
	calls   []dispatchCall
	failing bool
}

type dispatchCall struct {
	RequestID string
	Level     int
}

func (m *mockDispatcher) NotifyEscalation(ctx context.Context, requestID string, level int, recipients []string) error {
	m.calls = append(m.calls, dispatchCall{RequestID: requestID, Level: level})
	if m.failing {
		return errors.New("smtp unavailable")
	}
	return nil
}

// callsFor returns the dispatch attempts for a request.
func (m *mockDispatcher) callsFor(requestID string) []dispatchCall {
	var out []dispatchCall
	for _, c := range m.calls {
		if c.RequestID == requestID {
			out = append(out, c)
		}
	}
	return out
}

// mockAuditLog implements secondary.AuditLog for testing.
type mockAuditLog struct {
	escalations     []auditEscalation
	acknowledgments []auditAck
	failing         bool
}

type auditEscalation struct {
	RequestID string
	Previous  int
	New       int
}

type auditAck struct {
	RequestID string
	UserID    string
}

func (m *mockAuditLog) RecordEscalation(ctx context.Context, requestID string, previousLevel, newLevel int, at time.Time) error {
	if m.failing {
		return errors.New("audit sink down")
	}
	m.escalations = append(m.escalations, auditEscalation{RequestID: requestID, Previous: previousLevel, New: newLevel})
	return nil
}

func (m *mockAuditLog) RecordAcknowledgment(ctx context.Context, requestID, userID string, at time.Time) error {
	if m.failing {
		return errors.New("audit sink down")
	}
	m.acknowledgments = append(m.acknowledgments, auditAck{RequestID: requestID, UserID: userID})
	return nil
}
