package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/propwatch/internal/core/escalation"
)

// ThresholdConfig is one escalation threshold as stored in config.
type ThresholdConfig struct {
	Level        int `json:"level"`
	AfterMinutes int `json:"after_minutes"`
}

// SLATarget holds the per-priority SLA deadlines applied at request creation.
// Zero means no deadline of that kind for the priority.
type SLATarget struct {
	ResponseMinutes   int `json:"response_minutes"`
	ResolutionMinutes int `json:"resolution_minutes"`
}

// Config represents the flat propwatch configuration.
type Config struct {
	Version              string               `json:"version"`
	EscalationThresholds []ThresholdConfig    `json:"escalation_thresholds"`
	AtRiskWindowMinutes  int                  `json:"at_risk_window_minutes"`
	SweepIntervalMinutes int                  `json:"sweep_interval_minutes"`
	SweepDeadlineSeconds int                  `json:"sweep_deadline_seconds"`
	NotifyRecipients     []string             `json:"notify_recipients,omitempty"`
	SLATargets           map[string]SLATarget `json:"sla_targets"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Version: "1",
		EscalationThresholds: []ThresholdConfig{
			{Level: 1, AfterMinutes: 0},
			{Level: 2, AfterMinutes: 60},
			{Level: 3, AfterMinutes: 240},
		},
		AtRiskWindowMinutes:  120,
		SweepIntervalMinutes: 5,
		SweepDeadlineSeconds: 60,
		SLATargets: map[string]SLATarget{
			"EMERGENCY": {ResponseMinutes: 60, ResolutionMinutes: 1440},
			"HIGH":      {ResponseMinutes: 240, ResolutionMinutes: 4320},
			"MEDIUM":    {ResponseMinutes: 1440, ResolutionMinutes: 10080},
			"LOW":       {ResponseMinutes: 2880, ResolutionMinutes: 20160},
		},
	}
}

// LoadConfig reads .propwatch/config.json from the specified directory.
// A missing file yields the defaults; a malformed or invalid file is an error.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".propwatch", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfig writes config.json to the directory.
func SaveConfig(dir string, cfg *Config) error {
	pwDir := filepath.Join(dir, ".propwatch")
	if err := os.MkdirAll(pwDir, 0755); err != nil {
		return fmt.Errorf("failed to create .propwatch dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(pwDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if _, err := c.EscalationPolicy(); err != nil {
		return err
	}
	if c.AtRiskWindowMinutes < 0 {
		return fmt.Errorf("at_risk_window_minutes must not be negative")
	}
	if c.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("sweep_interval_minutes must be positive")
	}
	if c.SweepDeadlineSeconds <= 0 {
		return fmt.Errorf("sweep_deadline_seconds must be positive")
	}
	for priority, target := range c.SLATargets {
		if target.ResponseMinutes < 0 || target.ResolutionMinutes < 0 {
			return fmt.Errorf("sla target for %s must not be negative", priority)
		}
	}
	return nil
}

// EscalationPolicy builds the validated policy from the configured thresholds.
func (c *Config) EscalationPolicy() (*escalation.Policy, error) {
	thresholds := make([]escalation.Threshold, len(c.EscalationThresholds))
	for i, t := range c.EscalationThresholds {
		thresholds[i] = escalation.Threshold{
			Level: t.Level,
			After: time.Duration(t.AfterMinutes) * time.Minute,
		}
	}
	return escalation.NewPolicy(thresholds)
}

// AtRiskWindow returns the at-risk window as a duration.
func (c *Config) AtRiskWindow() time.Duration {
	return time.Duration(c.AtRiskWindowMinutes) * time.Minute
}

// SweepInterval returns the sweep interval as a duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// SweepDeadline returns the per-sweep deadline as a duration.
func (c *Config) SweepDeadline() time.Duration {
	return time.Duration(c.SweepDeadlineSeconds) * time.Second
}
