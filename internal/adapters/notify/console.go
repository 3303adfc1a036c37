// Package notify contains notification dispatcher adapters.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/propwatch/internal/ports/secondary"
)

// ConsoleDispatcher implements secondary.NotificationDispatcher by writing a
// color-coded escalation banner. Delivery is the write itself, so repeat
// calls for the same (request, level) just print again; the engine only
// retries when a previous call failed.
type ConsoleDispatcher struct {
	out io.Writer
}

// NewConsoleDispatcher creates a dispatcher writing to the given output.
func NewConsoleDispatcher(out io.Writer) *ConsoleDispatcher {
	return &ConsoleDispatcher{out: out}
}

// NotifyEscalation prints the escalation banner.
func (d *ConsoleDispatcher) NotifyEscalation(ctx context.Context, requestID string, level int, recipients []string) error {
	banner := levelColor(level).Sprintf("ESCALATION L%d", level)

	to := "on-call"
	if len(recipients) > 0 {
		to = strings.Join(recipients, ", ")
	}

	if _, err := fmt.Fprintf(d.out, "%s %s -> %s\n", banner, requestID, to); err != nil {
		return fmt.Errorf("failed to write escalation notification: %w", err)
	}

	return nil
}

func levelColor(level int) *color.Color {
	switch {
	case level >= 3:
		return color.New(color.FgRed, color.Bold)
	case level == 2:
		return color.New(color.FgHiYellow, color.Bold)
	default:
		return color.New(color.FgYellow)
	}
}

// Ensure ConsoleDispatcher implements the interface
var _ secondary.NotificationDispatcher = (*ConsoleDispatcher)(nil)
