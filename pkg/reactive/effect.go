package reactive

import (
	"sync"
	"sync/atomic"
)

// maxSettlePasses bounds how many times an effect re-runs in response to
// writes performed by its own body before giving up. A well-behaved effect
// converges in one or two passes; hitting the bound indicates a feedback
// loop between the effect and its sources.
const maxSettlePasses = 100

// Effect represents a reactive side effect that re-runs when its
// dependencies change. Effects are created with CreateEffect and are
// automatically tracked for dependencies during their execution.
//
// Effects run immediately when created, and re-run synchronously whenever
// any signal they read during execution changes (or at the end of the
// enclosing Batch). They can return a Cleanup function that will be called
// before the effect re-runs or when the effect is disposed.
type Effect struct {
	id uint64

	// fn is the effect function to run.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals this effect depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// owner is the Owner that owns this effect, if any.
	owner *Owner

	// pending indicates a notification arrived while the effect was running.
	pending atomic.Bool

	// running guards against re-entrant execution.
	running atomic.Bool

	// disposed indicates the effect has been disposed.
	disposed atomic.Bool
}

// MarkDirty re-runs the effect. If the effect body is currently executing
// (a write to one of its own sources), the re-run is deferred until the
// current pass completes.
// Implements the Listener interface.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}

	e.pending.Store(true)
	if e.running.Load() {
		// Picked up by the settle loop of the in-flight pass.
		return
	}
	e.settle()
}

// settle runs the effect until no notification arrived during the run.
func (e *Effect) settle() {
	for pass := 0; pass < maxSettlePasses; pass++ {
		if !e.pending.Swap(false) {
			return
		}
		e.run()
	}
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the effect function once with dependency tracking.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	e.running.Store(true)
	defer e.running.Store(false)

	// Run cleanup from previous run
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	// Unsubscribe from old sources; the new run re-establishes the set
	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = e.sources[:0]
	e.sourcesMu.Unlock()

	oldListener := setCurrentListener(e)
	e.cleanup = e.fn()
	setCurrentListener(oldListener)
}

// addSource adds a source dependency.
// Called by signals when they are read during effect execution.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// Dispose cleans up the effect and unsubscribes from all sources.
// Safe to call more than once.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.sourcesMu.Lock()
	for _, source := range e.sources {
		source.unsubscribe(e)
	}
	e.sources = nil
	e.sourcesMu.Unlock()
}

// CreateEffect creates and runs a new effect. If an owner is active on the
// current goroutine (see WithOwner), the effect is registered with it and
// disposed when the owner is disposed.
//
// The effect function runs immediately and re-runs when any signal it reads
// changes. If the function returns a Cleanup, it will be called before the
// effect re-runs and when the effect is disposed.
//
// Example:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("Cleanup") }
//	})
func CreateEffect(fn func() Cleanup) *Effect {
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: getCurrentOwner(),
	}

	if e.owner != nil {
		e.owner.registerEffect(e)
	}

	// Run immediately, then settle in case the body wrote to its own sources
	e.pending.Store(true)
	e.settle()

	return e
}
