// Package escalation contains the pure escalation-level policy for emergency
// maintenance requests. The policy maps elapsed time since creation to a
// severity level; it holds no state and performs no I/O.
package escalation

import (
	"fmt"
	"sort"
	"time"
)

// Escalation level bounds. Level 0 means no escalation.
const (
	MinLevel = 0
	MaxLevel = 3
)

// PriorityEmergency is the only priority subject to escalation.
const PriorityEmergency = "EMERGENCY"

// Threshold maps an escalation level to the unacknowledged elapsed time that
// triggers it, measured from request creation.
type Threshold struct {
	Level int
	After time.Duration
}

// Policy is an ordered set of escalation thresholds.
type Policy struct {
	thresholds []Threshold
}

// NewPolicy validates and orders the given thresholds.
// Rules:
// - at least one threshold
// - levels within 1..MaxLevel, no duplicates
// - elapsed times non-decreasing with level
func NewPolicy(thresholds []Threshold) (*Policy, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("escalation policy requires at least one threshold")
	}

	ordered := make([]Threshold, len(thresholds))
	copy(ordered, thresholds)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Level < ordered[j].Level })

	seen := make(map[int]bool)
	for i, th := range ordered {
		if th.Level <= MinLevel || th.Level > MaxLevel {
			return nil, fmt.Errorf("invalid escalation level %d: must be between 1 and %d", th.Level, MaxLevel)
		}
		if seen[th.Level] {
			return nil, fmt.Errorf("duplicate escalation level %d", th.Level)
		}
		seen[th.Level] = true
		if th.After < 0 {
			return nil, fmt.Errorf("negative elapsed time for level %d", th.Level)
		}
		if i > 0 && th.After < ordered[i-1].After {
			return nil, fmt.Errorf("elapsed time for level %d is shorter than level %d", th.Level, ordered[i-1].Level)
		}
	}

	return &Policy{thresholds: ordered}, nil
}

// Thresholds returns the ordered thresholds.
func (p *Policy) Thresholds() []Threshold {
	out := make([]Threshold, len(p.thresholds))
	copy(out, p.thresholds)
	return out
}

// Next computes the escalation level a request should hold at the given time.
// Frozen cases (non-emergency priority, or already acknowledged) return the
// current level unchanged. Otherwise the highest satisfied threshold wins in
// a single step; intermediate levels are not walked one sweep at a time. The
// returned level is never below currentLevel.
func (p *Policy) Next(priority string, createdAt time.Time, acknowledgedAt *time.Time, currentLevel int, now time.Time) (level int, changed bool) {
	if priority != PriorityEmergency || acknowledgedAt != nil {
		return currentLevel, false
	}

	elapsed := now.Sub(createdAt)
	level = currentLevel
	for _, th := range p.thresholds {
		if elapsed >= th.After && th.Level > level {
			level = th.Level
		}
	}

	return level, level != currentLevel
}
