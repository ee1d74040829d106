// Package probe implements the health-check primitives behind a system's
// state: an ICMP-style reachability probe (ping subprocess) and an HTTP
// HEAD probe. Probes report structured results and never panic past their
// own boundary; unexpected failures surface as errors for the caller to
// contain.
package probe

// Status is the tri-state outcome of a health probe.
type Status int

const (
	// StatusUnknown means the probe itself misbehaved (not the target).
	StatusUnknown Status = iota
	// StatusOK means the target responded as expected.
	StatusOK
	// StatusFailed means the target is down or responded unexpectedly.
	StatusFailed
)

// String returns a human-readable status string.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the structured result of a health probe: a tri-state status
// plus a diagnostic line suitable for display.
type Outcome struct {
	Status Status
	Detail string
}
