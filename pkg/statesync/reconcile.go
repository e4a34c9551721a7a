package statesync

// Reconcile updates live in place so its content matches next, while
// minimizing replacement of existing container elements. Downstream
// consumers that key on element identity (memoized views, keyed list
// rendering) see unchanged entries as the same objects.
//
// The algorithm is positional, not a minimal-edit-distance diff: slot i of
// live is merged with slot i of next. Containers of matching kind are
// merged field-by-field (stale keys are removed so they don't linger);
// mismatched kinds are replaced wholesale with a shallow clone. Extra tail
// elements of next are appended as shallow clones so live never aliases
// caller-owned containers; a shorter next truncates live.
//
// The returned slice is live itself, possibly re-sliced for length
// changes. Callers must use the return value.
func Reconcile(live, next []any) []any {
	overlap := len(live)
	if len(next) < overlap {
		overlap = len(next)
	}

	for i := 0; i < overlap; i++ {
		live[i] = reconcileSlot(live[i], next[i])
	}

	if len(next) > len(live) {
		for _, v := range next[len(live):] {
			live = append(live, CloneShallow(v))
		}
	} else if len(next) < len(live) {
		live = live[:len(next)]
	}

	return live
}

// reconcileSlot merges one positional slot and returns its new value.
func reconcileSlot(old, next any) any {
	nk := kindOf(next)
	if nk != KindSequence && nk != KindMap {
		// Primitive (or cell): overwrite only on change.
		if Shallow(old, next) {
			return old
		}
		return next
	}

	if kindOf(old) != nk {
		return CloneShallow(next)
	}

	if nk == KindSequence {
		os, ook := old.([]any)
		ns, nok := next.([]any)
		if !ook || !nok {
			// Typed sequences aren't merged in place.
			return CloneShallow(next)
		}
		return Reconcile(os, ns)
	}

	om, ook := old.(map[string]any)
	nm, nok := next.(map[string]any)
	if !ook || !nok {
		return CloneShallow(next)
	}
	mergeMap(om, nm)
	return om
}

// mergeMap copies every key of next into live and removes keys absent from
// next. Nested sequences are replaced only when structurally different, so
// an untouched nested list keeps its identity.
func mergeMap(live, next map[string]any) {
	for k, nv := range next {
		lv, present := live[k]
		if !present {
			live[k] = nv
			continue
		}

		ls, lok := lv.([]any)
		ns, nok := nv.([]any)
		if lok && nok {
			if !Deep(ls, ns) {
				live[k] = Reconcile(ls, ns)
			}
			continue
		}

		if !Shallow(lv, nv) {
			live[k] = nv
		}
	}

	for k := range live {
		if _, keep := next[k]; !keep {
			delete(live, k)
		}
	}
}
