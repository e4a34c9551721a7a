// Package reactive provides the fine-grained reactivity substrate that the
// statesync engine is built on.
//
// The model is dependency tracking at runtime: reading a signal while a
// listener is active automatically subscribes that listener to the signal's
// changes.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := reactive.NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//
// Cell is the type-erased observable holder used as a synchronization
// target; NewCell returns a *Signal[any] that satisfies it.
//
// Watch observes a computed read function and invokes a callback with
// (new, old) values when its result changes:
//
//	stop := reactive.Watch(
//	    func() any { return user.Get() },
//	    func(next, prev any) { fmt.Println(next) },
//	    reactive.Immediate(),
//	)
//
// Owner is a lifecycle scope: effects and cleanups registered with an Owner
// are released when the Owner is disposed.
//
// # Batching
//
// Multiple signal updates can be batched so each watcher observes a single
// net change:
//
//	reactive.Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // One notification per watcher after both updates
//
// # Thread Safety
//
// Signals are safe for concurrent access. Dependency tracking state is
// scoped per goroutine; effects re-run synchronously on the goroutine that
// performed the triggering write.
package reactive
