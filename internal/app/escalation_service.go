package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/example/propwatch/internal/core/escalation"
	"github.com/example/propwatch/internal/ports/primary"
	"github.com/example/propwatch/internal/ports/secondary"
)

// EvaluatorConfig carries the externally supplied escalation settings.
type EvaluatorConfig struct {
	Policy        *escalation.Policy
	Recipients    []string
	SweepInterval time.Duration
	SweepDeadline time.Duration
}

// EscalationServiceImpl implements the EscalationService interface. It holds
// no state between sweeps; every pass re-reads candidates from the store, so
// duplicate evaluator instances stay safe through the repository's
// conditional writes.
type EscalationServiceImpl struct {
	requestRepo secondary.RequestRepository
	dispatcher  secondary.NotificationDispatcher
	audit       secondary.AuditLog
	clock       secondary.Clock
	cfg         EvaluatorConfig
	logOut      io.Writer
}

// NewEscalationService creates a new EscalationService with injected dependencies.
// Sweep diagnostics are written to logOut.
func NewEscalationService(
	requestRepo secondary.RequestRepository,
	dispatcher secondary.NotificationDispatcher,
	audit secondary.AuditLog,
	clock secondary.Clock,
	cfg EvaluatorConfig,
	logOut io.Writer,
) *EscalationServiceImpl {
	return &EscalationServiceImpl{
		requestRepo: requestRepo,
		dispatcher:  dispatcher,
		audit:       audit,
		clock:       clock,
		cfg:         cfg,
		logOut:      logOut,
	}
}

// RunSweep executes one evaluation pass. Per-request failures are logged and
// counted, never propagated: the failed request is retried next cycle since
// its level was not advanced. Only a failed candidate fetch errors out.
func (s *EscalationServiceImpl) RunSweep(ctx context.Context) (*primary.SweepReport, error) {
	now := s.clock.Now()
	report := &primary.SweepReport{StartedAt: now.Format(time.RFC3339)}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.SweepDeadline)
	defer cancel()

	candidates, err := s.requestRepo.FetchEscalationCandidates(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch escalation candidates: %w", err)
	}
	report.Candidates = len(candidates)

	for i, req := range candidates {
		if ctx.Err() != nil {
			// Sweep deadline hit; the remainder is picked up next cycle.
			fmt.Fprintf(s.logOut, "sweep deadline exceeded, %d candidates deferred\n", len(candidates)-i)
			break
		}
		s.evaluate(ctx, req, now, report)
	}

	return report, nil
}

// evaluate processes a single candidate.
func (s *EscalationServiceImpl) evaluate(ctx context.Context, req *secondary.RequestRecord, now time.Time, report *primary.SweepReport) {
	level, changed := s.cfg.Policy.Next(req.Priority, req.CreatedAt, req.AcknowledgedAt, req.EscalationLevel, now)

	if !changed {
		// Level already correct; re-deliver if a previous dispatch for the
		// current level was never confirmed.
		if req.EscalationLevel > 0 && req.LastNotifiedLevel < req.EscalationLevel {
			report.NotifyRetries++
			s.notify(ctx, req.ID, req.EscalationLevel, now, report)
		}
		return
	}

	committed, err := s.requestRepo.TryAdvanceEscalation(ctx, req.ID, req.EscalationLevel, level, now)
	if err != nil {
		report.Failed++
		fmt.Fprintf(s.logOut, "sweep: advance %s to L%d failed: %v\n", req.ID, level, err)
		return
	}
	if !committed {
		// Lost the conditional write, typically to a concurrent
		// acknowledgment. Not an error; state already changed, skip.
		report.Skipped++
		return
	}

	report.Advanced++

	// Audit is fire-and-forget; an audit outage never blocks escalation.
	if err := s.audit.RecordEscalation(ctx, req.ID, req.EscalationLevel, level, now); err != nil {
		fmt.Fprintf(s.logOut, "sweep: audit escalation %s L%d->L%d failed: %v\n", req.ID, req.EscalationLevel, level, err)
	}

	// Notification happens after the transition committed; no lock is held
	// across the dispatcher call.
	s.notify(ctx, req.ID, level, now, report)
}

// notify dispatches and, only on confirmed delivery, records the level as
// notified. A failed dispatch leaves the pending marker in place so the next
// sweep retries: at-least-once on failure, at-most-once on success.
func (s *EscalationServiceImpl) notify(ctx context.Context, requestID string, level int, now time.Time, report *primary.SweepReport) {
	if err := s.dispatcher.NotifyEscalation(ctx, requestID, level, s.cfg.Recipients); err != nil {
		report.Failed++
		fmt.Fprintf(s.logOut, "sweep: notify %s L%d failed (will retry next cycle): %v\n", requestID, level, err)
		return
	}

	report.Notified++

	if err := s.requestRepo.MarkEscalationNotified(ctx, requestID, level, now); err != nil {
		// Delivery happened but the marker write failed; the next sweep may
		// send a duplicate, which the dispatcher contract tolerates.
		fmt.Fprintf(s.logOut, "sweep: mark notified %s L%d failed: %v\n", requestID, level, err)
	}
}

// Watch runs sweeps on the configured interval until ctx is cancelled. The
// first sweep fires immediately.
func (s *EscalationServiceImpl) Watch(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		report, err := s.RunSweep(ctx)
		if err != nil {
			fmt.Fprintf(s.logOut, "sweep failed: %v\n", err)
		} else {
			fmt.Fprintf(s.logOut, "sweep: %d candidates, %d advanced, %d notified, %d retried, %d skipped, %d failed\n",
				report.Candidates, report.Advanced, report.Notified, report.NotifyRetries, report.Skipped, report.Failed)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Ensure EscalationServiceImpl implements the interface
var _ primary.EscalationService = (*EscalationServiceImpl)(nil)
