package secondary

import "context"

// NotificationDispatcher defines the secondary port for outbound escalation
// notifications. Implementations must tolerate repeat calls for the same
// (requestID, level) pair: the engine retries when a previous delivery was
// not confirmed, so a duplicate message on retry is acceptable, a lost
// escalation is not.
type NotificationDispatcher interface {
	// NotifyEscalation delivers an escalation alert for the request at the
	// given level to the configured recipients.
	NotifyEscalation(ctx context.Context, requestID string, level int, recipients []string) error
}
