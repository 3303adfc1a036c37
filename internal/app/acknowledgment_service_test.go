package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/example/propwatch/internal/ports/primary"
)

var ackT0 = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newAckService(repo *mockRequestRepository, audit *mockAuditLog, clock *fakeClock) *AcknowledgmentServiceImpl {
	return NewAcknowledgmentService(repo, audit, clock, io.Discard)
}

func TestAcknowledgmentService_Acknowledge(t *testing.T) {
	repo := newMockRequestRepository()
	audit := &mockAuditLog{}
	clock := &fakeClock{now: ackT0}
	svc := newAckService(repo, audit, clock)
	ctx := context.Background()

	repo.add(emergencyRecord("REQ-001", ackT0.Add(-time.Hour)))

	result, err := svc.Acknowledge(ctx, "REQ-001", "staff-7")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.AlreadyAcked {
		t.Error("first acknowledgment reported AlreadyAcked")
	}
	if result.AcknowledgedBy != "staff-7" {
		t.Errorf("acknowledgedBy = %q, want 'staff-7'", result.AcknowledgedBy)
	}
	if result.AcknowledgedAt != ackT0.Format(time.RFC3339) {
		t.Errorf("acknowledgedAt = %q, want %q", result.AcknowledgedAt, ackT0.Format(time.RFC3339))
	}

	got, _ := repo.GetByID(ctx, "REQ-001")
	if got.Status != primary.StatusAcknowledged {
		t.Errorf("status = %q, want %q", got.Status, primary.StatusAcknowledged)
	}
	if len(audit.acknowledgments) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audit.acknowledgments))
	}
	if audit.acknowledgments[0].UserID != "staff-7" {
		t.Errorf("audit actor = %q, want 'staff-7'", audit.acknowledgments[0].UserID)
	}
}

func TestAcknowledgmentService_Acknowledge_InProgressKeepsStatus(t *testing.T) {
	repo := newMockRequestRepository()
	clock := &fakeClock{now: ackT0}
	svc := newAckService(repo, &mockAuditLog{}, clock)
	ctx := context.Background()

	rec := emergencyRecord("REQ-001", ackT0.Add(-time.Hour))
	rec.Status = primary.StatusInProgress
	repo.add(rec)

	if _, err := svc.Acknowledge(ctx, "REQ-001", "staff-7"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, _ := repo.GetByID(ctx, "REQ-001")
	if got.Status != primary.StatusInProgress {
		t.Errorf("status = %q, want unchanged %q", got.Status, primary.StatusInProgress)
	}
	if got.AcknowledgedAt == nil {
		t.Error("acknowledgedAt not set")
	}
}

func TestAcknowledgmentService_Acknowledge_Idempotent(t *testing.T) {
	repo := newMockRequestRepository()
	audit := &mockAuditLog{}
	clock := &fakeClock{now: ackT0}
	svc := newAckService(repo, audit, clock)
	ctx := context.Background()

	repo.add(emergencyRecord("REQ-001", ackT0.Add(-time.Hour)))

	first, err := svc.Acknowledge(ctx, "REQ-001", "staff-7")
	if err != nil {
		t.Fatalf("first acknowledge failed: %v", err)
	}

	clock.Advance(20 * time.Minute)
	second, err := svc.Acknowledge(ctx, "REQ-001", "staff-9")
	if err != nil {
		t.Fatalf("repeat acknowledge failed: %v", err)
	}
	if !second.AlreadyAcked {
		t.Error("repeat acknowledgment did not report AlreadyAcked")
	}
	if second.AcknowledgedAt != first.AcknowledgedAt {
		t.Errorf("repeat returned %q, want original timestamp %q", second.AcknowledgedAt, first.AcknowledgedAt)
	}
	if second.AcknowledgedBy != "staff-7" {
		t.Errorf("repeat returned actor %q, want original 'staff-7'", second.AcknowledgedBy)
	}
	if len(audit.acknowledgments) != 1 {
		t.Errorf("audit entries = %d, want exactly 1", len(audit.acknowledgments))
	}
}

func TestAcknowledgmentService_Acknowledge_RaceLoserGetsWinnerValues(t *testing.T) {
	repo := newMockRequestRepository()
	audit := &mockAuditLog{}
	clock := &fakeClock{now: ackT0}
	svc := newAckService(repo, audit, clock)
	ctx := context.Background()

	repo.add(emergencyRecord("REQ-001", ackT0.Add(-time.Hour)))

	// A concurrent acknowledgment commits between our read and our write.
	winnerAt := ackT0.Add(-time.Second)
	repo.beforeAck = func(id string) {
		repo.TryAcknowledge(ctx, id, "staff-first", winnerAt)
	}

	result, err := svc.Acknowledge(ctx, "REQ-001", "staff-second")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.AlreadyAcked {
		t.Error("race loser did not report AlreadyAcked")
	}
	if result.AcknowledgedBy != "staff-first" {
		t.Errorf("acknowledgedBy = %q, want winner 'staff-first'", result.AcknowledgedBy)
	}
	if result.AcknowledgedAt != winnerAt.Format(time.RFC3339) {
		t.Errorf("acknowledgedAt = %q, want winner's %q", result.AcknowledgedAt, winnerAt.Format(time.RFC3339))
	}
	if len(audit.acknowledgments) != 0 {
		t.Errorf("loser wrote %d audit entries, want 0", len(audit.acknowledgments))
	}
}

func TestAcknowledgmentService_Acknowledge_TerminalRequest(t *testing.T) {
	repo := newMockRequestRepository()
	svc := newAckService(repo, &mockAuditLog{}, &fakeClock{now: ackT0})
	ctx := context.Background()

	for _, status := range []string{primary.StatusCompleted, primary.StatusCancelled} {
		t.Run(status, func(t *testing.T) {
			rec := emergencyRecord("REQ-"+status, ackT0.Add(-time.Hour))
			rec.Status = status
			repo.add(rec)

			_, err := svc.Acknowledge(ctx, rec.ID, "staff-7")
			if !errors.Is(err, primary.ErrInvalidState) {
				t.Errorf("err = %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestAcknowledgmentService_Acknowledge_WentTerminalMidRace(t *testing.T) {
	repo := newMockRequestRepository()
	svc := newAckService(repo, &mockAuditLog{}, &fakeClock{now: ackT0})
	ctx := context.Background()

	repo.add(emergencyRecord("REQ-001", ackT0.Add(-time.Hour)))
	repo.beforeAck = func(id string) {
		repo.UpdateStatus(ctx, id, primary.StatusCancelled, ackT0)
	}

	_, err := svc.Acknowledge(ctx, "REQ-001", "staff-7")
	if !errors.Is(err, primary.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestAcknowledgmentService_Acknowledge_NotFound(t *testing.T) {
	repo := newMockRequestRepository()
	svc := newAckService(repo, &mockAuditLog{}, &fakeClock{now: ackT0})

	_, err := svc.Acknowledge(context.Background(), "REQ-999", "staff-7")
	if !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestAcknowledgmentService_Acknowledge_MissingUser(t *testing.T) {
	repo := newMockRequestRepository()
	svc := newAckService(repo, &mockAuditLog{}, &fakeClock{now: ackT0})

	repo.add(emergencyRecord("REQ-001", ackT0))

	if _, err := svc.Acknowledge(context.Background(), "REQ-001", ""); err == nil {
		t.Error("expected error for missing user")
	}
}

func TestAcknowledgmentService_Acknowledge_AuditFailureNonFatal(t *testing.T) {
	repo := newMockRequestRepository()
	audit := &mockAuditLog{failing: true}
	svc := newAckService(repo, audit, &fakeClock{now: ackT0})

	repo.add(emergencyRecord("REQ-001", ackT0.Add(-time.Hour)))

	result, err := svc.Acknowledge(context.Background(), "REQ-001", "staff-7")
	if err != nil {
		t.Fatalf("expected no error when only the audit write fails, got %v", err)
	}
	if result.AcknowledgedBy != "staff-7" {
		t.Errorf("acknowledgedBy = %q, want 'staff-7'", result.AcknowledgedBy)
	}
}
