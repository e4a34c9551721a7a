package reactive

// Listener is anything that can be notified when a dependency changes.
// This interface is implemented by effects and by test doubles.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For effects, this re-runs the effect.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function returned by effects to clean up resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()
