package secondary

import "time"

// Clock supplies the current time. Injected so sweeps and acknowledgment
// paths are deterministic under test.
type Clock interface {
	Now() time.Time
}
