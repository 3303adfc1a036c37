// Package clock provides the system time source.
package clock

import (
	"time"

	"github.com/example/propwatch/internal/ports/secondary"
)

// System implements secondary.Clock with the wall clock.
type System struct{}

// NewSystem creates a system clock.
func NewSystem() *System {
	return &System{}
}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Ensure System implements the interface
var _ secondary.Clock = (*System)(nil)
