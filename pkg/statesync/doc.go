// Package statesync keeps observable cells synchronized with values read
// from nested paths inside a source structure.
//
// A source is a plain nested container (map[string]any, []any, structs) or
// a reactive cell wrapping one. Each Mapping names a dotted path inside the
// source and a target Cell; the engine watches the resolved value and
// writes it through a change-detection -> comparator -> transform -> write
// pipeline:
//
//	profile := reactive.NewCell(any(nil))
//	h := statesync.Synchronize(source, []statesync.Mapping{
//	    {Path: "user.profile", Target: profile},
//	})
//	defer h.Stop()
//
// Change detection is shallow by default; the DeepCompare option (or a
// per-mapping override) switches to structural equality with cycle-safe
// traversal. When both the computed value and the target's current value
// are sequences, the write is delegated to Reconcile, which updates the
// live sequence in place and preserves element identity for unchanged
// entries.
//
// Bidirectional mappings additionally watch the target and write changes
// back into the source at the mapping's path, creating intermediate
// containers as needed.
//
// The path, equality, and reconciliation primitives (Compile, Resolve,
// Shallow, Deep, Reconcile) are exported for standalone use.
package statesync
