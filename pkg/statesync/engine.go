package statesync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/statesync/pkg/reactive"
)

// Handle is a running synchronization engine: one live subscription per
// validated mapping. It is returned by Synchronize and remains valid until
// Stop is called.
type Handle struct {
	cfg    engineConfig
	logger *slog.Logger

	// pulse is bumped by Refresh to re-evaluate every mapping; each
	// subscription's read function depends on it.
	pulse *reactive.Signal[uint64]

	mu      sync.Mutex
	subs    []*subscription
	cfgErrs []error
	warned  map[string]struct{}
	stopped bool
}

// subscription binds one normalized mapping to its live watches.
type subscription struct {
	m          normalizedMapping
	stops      []reactive.Cleanup
	updates    atomic.Uint64
	lastResult atomic.Value // string
}

// Synchronize starts a synchronization engine: for each mapping it
// compiles the path, establishes a watch on the resolved value, and runs
// the comparator -> transform -> write pipeline on every observed change
// (including the initial evaluation unless NoImmediate is set).
//
// Invalid mappings are isolated: they are logged, retrievable via
// ConfigErrors, and do not prevent the rest of the batch from activating.
//
// The source is a plain nested container or a reactive cell wrapping one.
// Cell sources re-evaluate automatically when set; plain sources are
// re-evaluated via Handle.Refresh after mutation.
func Synchronize(source any, mappings []Mapping, opts ...Option) *Handle {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	h := &Handle{
		cfg:    cfg,
		logger: cfg.logger,
		pulse:  reactive.NewSignal(uint64(0)),
		warned: make(map[string]struct{}),
	}

	for i, m := range mappings {
		nm, err := validateMapping(m, i, &cfg)
		if err != nil {
			h.cfgErrs = append(h.cfgErrs, err)
			h.logger.Warn("statesync: mapping rejected", "index", i, "error", err)
			continue
		}

		sub := &subscription{m: nm}
		if err := h.startSubscription(source, sub); err != nil {
			h.logger.Warn("statesync: mapping activation failed", "index", i, "path", nm.path, "error", err)
			continue
		}
		h.subs = append(h.subs, sub)
	}

	if cfg.metrics != nil {
		cfg.metrics.activeMappings.Add(float64(len(h.subs)))
	}
	return h
}

// startSubscription establishes the watch (and the reverse watch for
// bidirectional mappings). A panic while constructing one subscription is
// isolated to that mapping.
func (h *Handle) startSubscription(source any, sub *subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			for _, stop := range sub.stops {
				stop()
			}
			sub.stops = nil
			err = fmt.Errorf("statesync: subscription setup panicked: %v", r)
		}
	}()

	read := func() any {
		h.pulse.Get()
		v, ok := sub.m.accessor.Resolve(source)
		if !ok {
			h.noteMiss(sub)
			return nil
		}
		return v
	}

	watchOpts := []reactive.WatchOption{reactive.WatchEquals(sub.m.equality())}
	if h.cfg.immediate {
		watchOpts = append(watchOpts, reactive.Immediate())
	}

	stop := reactive.Watch(read, func(next, prev any) {
		h.handleUpdate(sub, next, prev)
	}, watchOpts...)
	sub.stops = append(sub.stops, stop)

	if sub.m.bidirectional {
		target := sub.m.target
		back := reactive.Watch(func() any {
			return target.Get()
		}, func(next, prev any) {
			h.handleWriteBack(source, sub, next, prev)
		}, reactive.WatchEquals(sub.m.equality()))
		sub.stops = append(sub.stops, back)
	}

	return nil
}

// handleUpdate runs the notification pipeline for one observed change.
// Nothing may escape it: every user-supplied stage degrades to its
// documented fallback.
func (h *Handle) handleUpdate(sub *subscription, next, prev any) {
	var span trace.Span
	if h.cfg.tracer != nil {
		_, span = h.cfg.tracer.Start(context.Background(), "statesync.update",
			trace.WithAttributes(attrPath.String(sub.m.path)))
	}

	result, stage, err := h.runPipeline(sub, next, prev)
	h.record(sub, result, stage, err)

	if span != nil {
		span.SetAttributes(attrResult.String(result))
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}

// runPipeline executes the staged pipeline: comparator gate, transform,
// redundant-write check, write.
func (h *Handle) runPipeline(sub *subscription, next, prev any) (result, stage string, err error) {
	if !h.runComparator(sub, next, prev) {
		return ResultSuppressed, "", nil
	}

	final := h.runTransform(sub, next)

	// Skip the write when the computed value already matches the target;
	// this is what keeps redundant notifications out of downstream
	// observers.
	current, perr := peekTarget(sub.m.target)
	if perr != nil {
		return ResultError, "read", perr
	}
	if sub.m.equality()(final, current) {
		return ResultSkipped, "", nil
	}

	if err := writeTarget(sub.m.target, final, current); err != nil {
		return ResultError, "write", err
	}
	return ResultApplied, "", nil
}

// runComparator applies the user comparator. A panicking comparator is
// logged and treated as "proceed"; suppressing the update on error would
// hide real state changes.
func (h *Handle) runComparator(sub *subscription, next, prev any) (proceed bool) {
	c := sub.m.comparator
	if c == nil {
		return true
	}

	proceed = true
	func() {
		defer func() {
			if r := recover(); r != nil {
				h.stageFailure(sub, "comparator", r)
				proceed = true
			}
		}()
		proceed = c(next, prev)
	}()
	return proceed
}

// runTransform applies the user transform. A panicking transform is logged
// and the untransformed value is used instead.
func (h *Handle) runTransform(sub *subscription, v any) (out any) {
	t := sub.m.transform
	if t == nil {
		return v
	}

	out = v
	func() {
		defer func() {
			if r := recover(); r != nil {
				h.stageFailure(sub, "transform", r)
				out = v
			}
		}()
		out = t(v)
	}()
	return out
}

// peekTarget reads the target's current value, containing a panicking
// user cell implementation.
func peekTarget(target Cell) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("statesync: target read panicked: %v", r)
		}
	}()
	return target.Peek(), nil
}

// writeTarget writes the final value. When both the final value and the
// target's current value are sequences, the write goes through Reconcile
// so unchanged elements keep their identity.
func writeTarget(target Cell, final, current any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("statesync: target write panicked: %v", r)
		}
	}()

	nextSeq, nok := final.([]any)
	curSeq, cok := current.([]any)
	if nok && cok {
		merged := Reconcile(curSeq, nextSeq)
		target.Set(merged)
		if t, ok := target.(toucher); ok && sameSlice(merged, curSeq) {
			// Content changed in place; the stored reference did not, so a
			// plain Set would be swallowed by the cell's equality check.
			t.Touch()
		}
		return nil
	}

	target.Set(final)
	return nil
}

// sameSlice reports whether two slices share both header and backing.
func sameSlice(a, b []any) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

// handleWriteBack propagates a target change back into the source at the
// mapping's path (bidirectional mode). The comparator gate applies; a
// value already present in the source is not re-written, which also stops
// forward updates from echoing.
func (h *Handle) handleWriteBack(source any, sub *subscription, next, prev any) {
	if !h.runComparator(sub, next, prev) {
		return
	}

	if cur, ok := sub.m.accessor.Resolve(source); ok && sub.m.equality()(next, cur) {
		return
	}

	if err := Store(source, sub.m.path, next); err != nil {
		h.stageFailure(sub, "writeback", err)
	}
}

// noteMiss records a failed path resolution. With Debug enabled it logs
// once per distinct path per engine.
func (h *Handle) noteMiss(sub *subscription) {
	if h.cfg.metrics != nil {
		h.cfg.metrics.pathMisses.Inc()
	}
	if h.cfg.observer != nil {
		h.cfg.observer.ObserveUpdate(Event{Path: sub.m.path, Result: resultMiss})
	}
	if !h.cfg.debug {
		return
	}

	h.mu.Lock()
	_, seen := h.warned[sub.m.path]
	if !seen {
		h.warned[sub.m.path] = struct{}{}
	}
	h.mu.Unlock()

	if !seen {
		h.logger.Warn("statesync: path not found in source", "path", sub.m.path)
	}
}

// stageFailure reports a non-fatal pipeline stage failure.
func (h *Handle) stageFailure(sub *subscription, stage string, cause any) {
	h.logger.Warn("statesync: stage failed, continuing with fallback",
		"path", sub.m.path, "stage", stage, "cause", cause)
	if h.cfg.metrics != nil {
		h.cfg.metrics.stageErrors.WithLabelValues(stage).Inc()
	}
	if h.cfg.observer != nil {
		h.cfg.observer.ObserveUpdate(Event{
			Path:   sub.m.path,
			Result: ResultError,
			Stage:  stage,
			Err:    fmt.Sprint(cause),
		})
	}
}

// record accounts for one processed update.
func (h *Handle) record(sub *subscription, result, stage string, err error) {
	sub.updates.Add(1)
	sub.lastResult.Store(result)

	if h.cfg.metrics != nil {
		h.cfg.metrics.updates.WithLabelValues(result).Inc()
		if stage != "" {
			h.cfg.metrics.stageErrors.WithLabelValues(stage).Inc()
		}
	}
	if h.cfg.observer != nil {
		e := Event{Path: sub.m.path, Result: result, Stage: stage}
		if err != nil {
			e.Err = err.Error()
		}
		h.cfg.observer.ObserveUpdate(e)
	}

	if err != nil {
		h.logger.Warn("statesync: update pipeline failed", "path", sub.m.path, "stage", stage, "error", err)
	} else if h.cfg.debug {
		h.logger.Debug("statesync: update processed", "path", sub.m.path, "result", result)
	}
}

// Refresh re-evaluates every mapping against the source. This is the
// explicit flush for plain (non-observable) sources that were mutated in
// place; wrap several mutations and the Refresh in reactive.Batch to
// deliver them as one net change.
func (h *Handle) Refresh() {
	h.mu.Lock()
	stopped := h.stopped
	h.mu.Unlock()
	if stopped {
		return
	}
	h.pulse.Update(func(n uint64) uint64 { return n + 1 })
}

// ConfigErrors returns the per-mapping validation failures from
// registration, in mapping order. The engine runs the valid remainder.
func (h *Handle) ConfigErrors() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.cfgErrs...)
}

// MappingState is a point-in-time view of one active mapping, for
// diagnostics.
type MappingState struct {
	Path          string `json:"path"`
	Deep          bool   `json:"deep"`
	Bidirectional bool   `json:"bidirectional"`
	Updates       uint64 `json:"updates"`
	LastResult    string `json:"last_result,omitempty"`
}

// Snapshot returns the current state of every active mapping.
func (h *Handle) Snapshot() []MappingState {
	h.mu.Lock()
	subs := append([]*subscription(nil), h.subs...)
	h.mu.Unlock()

	states := make([]MappingState, 0, len(subs))
	for _, sub := range subs {
		st := MappingState{
			Path:          sub.m.path,
			Deep:          sub.m.deep,
			Bidirectional: sub.m.bidirectional,
			Updates:       sub.updates.Load(),
		}
		if lr, ok := sub.lastResult.Load().(string); ok {
			st.LastResult = lr
		}
		states = append(states, st)
	}
	return states
}

// Stop disposes every active subscription exactly once. Idempotent: a
// second call is a no-op. A panic while disposing one subscription does
// not block disposal of the rest.
func (h *Handle) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	subs := h.subs
	h.mu.Unlock()

	for _, sub := range subs {
		for _, stop := range sub.stops {
			func() {
				defer func() {
					if r := recover(); r != nil {
						h.logger.Warn("statesync: subscription disposal panicked", "path", sub.m.path, "cause", r)
					}
				}()
				stop()
			}()
		}
	}

	if h.cfg.metrics != nil {
		h.cfg.metrics.activeMappings.Sub(float64(len(subs)))
	}
}
