// Package sla contains the pure deadline arithmetic for maintenance requests.
// All functions are stateless; callers supply the current time so sweeps and
// read paths classify deadlines identically.
package sla

import (
	"fmt"
	"time"
)

// Status constants for deadline classification.
const (
	StatusNotApplicable  = "NOT_APPLICABLE"   // no deadline configured
	StatusAchievedOnTime = "ACHIEVED_ON_TIME" // achieved at or before the deadline
	StatusAchievedLate   = "ACHIEVED_LATE"    // achieved after the deadline
	StatusOverdue        = "OVERDUE"          // deadline passed, not achieved
	StatusAtRisk         = "AT_RISK"          // unachieved, within the risk window
	StatusOnTrack        = "ON_TRACK"         // unachieved, comfortably before the deadline
)

// DefaultRiskWindow is used when no risk window is configured.
const DefaultRiskWindow = 2 * time.Hour

// Evaluate classifies a single deadline.
// The risk-window boundary is inclusive: a deadline exactly riskWindow away
// (or exactly now) is AT_RISK when unachieved. Achievement exactly at the
// deadline counts as on time.
func Evaluate(dueAt, achievedAt *time.Time, now time.Time, riskWindow time.Duration) string {
	if dueAt == nil {
		return StatusNotApplicable
	}

	if achievedAt != nil {
		if achievedAt.After(*dueAt) {
			return StatusAchievedLate
		}
		return StatusAchievedOnTime
	}

	if now.After(*dueAt) {
		return StatusOverdue
	}

	if dueAt.Sub(now) <= riskWindow {
		return StatusAtRisk
	}

	return StatusOnTrack
}

// Remaining returns the signed time until the deadline: positive while time
// remains, negative once the deadline has passed.
func Remaining(dueAt time.Time, now time.Time) time.Duration {
	return dueAt.Sub(now)
}

// FormatRemaining renders a signed duration as a coarse human label.
// Positive durations read "Nx left", negative read "Nx late", zero reads
// "due now". The unit is the largest applicable of days, hours, minutes,
// truncating toward zero at each unit boundary.
func FormatRemaining(d time.Duration) string {
	if d == 0 {
		return "due now"
	}

	suffix := "left"
	if d < 0 {
		suffix = "late"
		d = -d
	}

	return fmt.Sprintf("%s %s", coarseUnit(d), suffix)
}

// coarseUnit picks the largest unit that fits: days at >= 24h, hours at
// >= 1h, minutes otherwise. Truncation, never rounding up.
func coarseUnit(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
}
