package filtering

// FilterState represents the current state of content filtering.
type FilterState string

const (
	// StateUninitialized means no partition has been registered yet.
	StateUninitialized FilterState = "uninitialized"
	// StateActive means at least one partition is filtered.
	StateActive FilterState = "active"
	// StateDisabled means filtering is disabled by configuration.
	StateDisabled FilterState = "disabled"
	// StateError means the last registration failed.
	StateError FilterState = "error"
)

// FilterStatus is the state plus a short human-readable message.
type FilterStatus struct {
	State      FilterState
	Message    string
	Partitions int
}
