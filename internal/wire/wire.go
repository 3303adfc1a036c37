// Package wire provides dependency injection for the propwatch application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"
	"time"

	cliadapter "github.com/example/propwatch/internal/adapters/cli"
	"github.com/example/propwatch/internal/adapters/clock"
	"github.com/example/propwatch/internal/adapters/notify"
	"github.com/example/propwatch/internal/adapters/sqlite"
	"github.com/example/propwatch/internal/app"
	"github.com/example/propwatch/internal/config"
	"github.com/example/propwatch/internal/db"
	"github.com/example/propwatch/internal/ports/primary"
)

var (
	requestService primary.RequestService
	escalationSvc  primary.EscalationService
	ackService     primary.AcknowledgmentService
	once           sync.Once
)

// RequestService returns the singleton RequestService instance.
func RequestService() primary.RequestService {
	once.Do(initServices)
	return requestService
}

// EscalationService returns the singleton EscalationService instance.
func EscalationService() primary.EscalationService {
	once.Do(initServices)
	return escalationSvc
}

// AcknowledgmentService returns the singleton AcknowledgmentService instance.
func AcknowledgmentService() primary.AcknowledgmentService {
	once.Do(initServices)
	return ackService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("failed to resolve home directory: %v", err)
	}

	cfg, err := config.LoadConfig(homeDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	policy, err := cfg.EscalationPolicy()
	if err != nil {
		log.Fatalf("invalid escalation thresholds: %v", err)
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with the injected DB
	requestRepo := sqlite.NewRequestRepository(database)
	auditRepo := sqlite.NewAuditRepository(database)
	dispatcher := notify.NewConsoleDispatcher(os.Stdout)
	sysClock := clock.NewSystem()

	// Services (primary ports implementation)
	requestService = app.NewRequestService(requestRepo, sysClock, app.RequestConfig{
		SLATargets: slaTargets(cfg),
		RiskWindow: cfg.AtRiskWindow(),
	})
	escalationSvc = app.NewEscalationService(requestRepo, dispatcher, auditRepo, sysClock, app.EvaluatorConfig{
		Policy:        policy,
		Recipients:    cfg.NotifyRecipients,
		SweepInterval: cfg.SweepInterval(),
		SweepDeadline: cfg.SweepDeadline(),
	}, os.Stderr)
	ackService = app.NewAcknowledgmentService(requestRepo, auditRepo, sysClock, os.Stderr)
}

func slaTargets(cfg *config.Config) map[string]app.SLATarget {
	targets := make(map[string]app.SLATarget, len(cfg.SLATargets))
	for priority, t := range cfg.SLATargets {
		targets[priority] = app.SLATarget{
			Response:   time.Duration(t.ResponseMinutes) * time.Minute,
			Resolution: time.Duration(t.ResolutionMinutes) * time.Minute,
		}
	}
	return targets
}

// RequestAdapter returns a new RequestAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func RequestAdapter() *cliadapter.RequestAdapter {
	return RequestAdapterWithOutput(os.Stdout)
}

// RequestAdapterWithOutput returns a new RequestAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func RequestAdapterWithOutput(out io.Writer) *cliadapter.RequestAdapter {
	once.Do(initServices)
	return cliadapter.NewRequestAdapter(requestService, out)
}

// EscalationAdapter returns a new EscalationAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func EscalationAdapter() *cliadapter.EscalationAdapter {
	return EscalationAdapterWithOutput(os.Stdout)
}

// EscalationAdapterWithOutput returns a new EscalationAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func EscalationAdapterWithOutput(out io.Writer) *cliadapter.EscalationAdapter {
	once.Do(initServices)
	return cliadapter.NewEscalationAdapter(escalationSvc, ackService, out)
}
