package statesync

import "reflect"

// Shallow reports reference or primitive equality: containers are equal
// only when they are the same container, primitives when == holds. Two NaN
// values are unequal, matching strict comparison semantics. Values of
// differing dynamic types are unequal. Never panics, including on
// uncomparable dynamic types.
func Shallow(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ta.Comparable() {
		// A comparable static type can still carry uncomparable values
		// behind interface fields; Value.Comparable checks the content.
		// If a's content is comparable, == cannot panic: a mismatched
		// dynamic type on b's side compares unequal, a matching one is
		// comparable too.
		if va.Comparable() {
			return a == b
		}
		return false
	}

	// Uncomparable dynamic types: identity for reference containers,
	// unequal otherwise.
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Len() == vb.Len() && (va.Len() == 0 || va.Pointer() == vb.Pointer())
	}
	return false
}

// Deep reports structural equality: sequences compare element-wise, keyed
// containers (string-keyed maps and structs) compare per key, cells
// compare by current value, everything else falls back to Shallow.
//
// Traversal carries a per-call cache from visited left-hand containers to
// their right-hand counterparts. Re-visiting a left container short-
// circuits to "is the counterpart the same one as before". This guarantees
// termination on cyclic and shared-substructure inputs at the cost of a
// documented approximation: two distinct cyclic structures of identical
// shape may compare unequal.
func Deep(a, b any) bool {
	return deepEqual(a, b, make(map[uintptr]uintptr))
}

func deepEqual(a, b any, seen map[uintptr]uintptr) bool {
	if Shallow(a, b) {
		return true
	}
	if a == nil || b == nil {
		// Only equal when both are nil, which Shallow already accepted.
		return false
	}

	ka := kindOf(a)
	if ka != kindOf(b) {
		return false
	}

	if ka == KindCell {
		return deepEqual(a.(Cell).Peek(), b.(Cell).Peek(), seen)
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	rva, rvb := reflect.ValueOf(a), reflect.ValueOf(b)

	// Cycle / shared-structure guard. Keyed on the reference identity of
	// the left operand before pointer unwrapping, so pointer cycles are
	// caught too.
	if pa, ok := containerPointer(rva); ok {
		pb, _ := containerPointer(rvb)
		if prev, visited := seen[pa]; visited {
			return prev == pb
		}
		seen[pa] = pb
	}

	va := derefValue(rva)
	vb := derefValue(rvb)
	if !va.IsValid() || !vb.IsValid() {
		return false
	}

	switch ka {
	case KindSequence:
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !deepEqual(va.Index(i).Interface(), vb.Index(i).Interface(), seen) {
				return false
			}
		}
		return true

	case KindMap:
		if va.Kind() == reflect.Map {
			if va.Len() != vb.Len() {
				return false
			}
			iter := va.MapRange()
			for iter.Next() {
				bv := vb.MapIndex(iter.Key())
				if !bv.IsValid() {
					return false
				}
				if !deepEqual(iter.Value().Interface(), bv.Interface(), seen) {
					return false
				}
			}
			return true
		}
		// Structs: exported fields are the key set; identical types mean
		// identical key sets, so only values need comparing.
		for i := 0; i < va.NumField(); i++ {
			if !va.Type().Field(i).IsExported() {
				continue
			}
			if !deepEqual(va.Field(i).Interface(), vb.Field(i).Interface(), seen) {
				return false
			}
		}
		return true
	}

	return false
}

// derefValue unwraps pointer indirection.
func derefValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// containerPointer returns an identity for reference containers, used as
// the cycle-guard cache key. Value containers (arrays, bare structs) have
// no stable identity; they also cannot form cycles without going through a
// pointer, map, or slice, each of which gets a guard here.
func containerPointer(v reflect.Value) (uintptr, bool) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return 0, false
		}
		return v.Pointer(), true
	case reflect.Map, reflect.Slice:
		if v.IsNil() || (v.Kind() == reflect.Slice && v.Len() == 0) {
			return 0, false
		}
		return v.Pointer(), true
	}
	return 0, false
}
