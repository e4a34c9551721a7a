package statesync

// Update results, as reported in events, metrics, and snapshots.
const (
	// ResultApplied: the final value was written to the target.
	ResultApplied = "applied"

	// ResultSuppressed: the comparator returned false.
	ResultSuppressed = "suppressed"

	// ResultSkipped: the final value already matched the target.
	ResultSkipped = "skipped"

	// ResultError: the target write failed.
	ResultError = "error"
)

// Event describes one processed update for diagnostic consumers.
type Event struct {
	// Path is the mapping's source path.
	Path string `json:"path"`

	// Result is one of the Result constants, or "miss" for a path that
	// failed to resolve.
	Result string `json:"result"`

	// Stage names the pipeline stage for failure events
	// ("comparator", "transform", "write", "writeback").
	Stage string `json:"stage,omitempty"`

	// Err carries the failure message for failure events.
	Err string `json:"error,omitempty"`
}

// resultMiss is reported when a path does not resolve in the source.
// A miss is a diagnostic, not an error.
const resultMiss = "miss"

// Observer receives engine events. Implementations must be fast and must
// not panic; they run synchronously inside the notification pipeline.
type Observer interface {
	ObserveUpdate(e Event)
}
