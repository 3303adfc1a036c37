package primary

import "errors"

// Sentinel errors surfaced across the primary ports. Callers match with
// errors.Is; services wrap them with request context.
var (
	// ErrNotFound indicates the referenced request does not exist.
	ErrNotFound = errors.New("request not found")

	// ErrInvalidState indicates the operation was attempted on a terminal or
	// otherwise ineligible request.
	ErrInvalidState = errors.New("request is in an invalid state for this operation")
)
