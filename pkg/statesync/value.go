package statesync

import "reflect"

// Cell is an observable holder with a single current value, read and
// written by the engine. Ownership of the cell belongs to the caller; the
// engine only mutates the value. *reactive.Signal[any] satisfies it.
type Cell interface {
	// Get returns the current value, subscribing the current listener.
	Get() any

	// Peek returns the current value without subscribing.
	Peek() any

	// Set replaces the current value.
	Set(value any)
}

// toucher is an optional Cell extension for notifying observers after the
// held container was mutated in place.
type toucher interface {
	Touch()
}

// Kind classifies a value once so every component dispatches on the tag
// instead of repeating runtime-type probing.
type Kind uint8

const (
	// KindPrimitive covers nil and every non-container value.
	KindPrimitive Kind = iota

	// KindSequence covers slices and arrays.
	KindSequence

	// KindMap covers string-keyed maps and structs.
	KindMap

	// KindCell covers observable cells.
	KindCell

	// KindAbsent marks a value a path resolution did not find.
	KindAbsent
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindSequence:
		return "Sequence"
	case KindMap:
		return "Map"
	case KindCell:
		return "Cell"
	case KindAbsent:
		return "Absent"
	default:
		return "Unknown"
	}
}

// kindOf classifies a value. Pointers classify as what they point to;
// a nil pointer is a primitive.
func kindOf(v any) Kind {
	if v == nil {
		return KindPrimitive
	}

	switch v.(type) {
	case Cell:
		return KindCell
	case map[string]any:
		return KindMap
	case []any:
		return KindSequence
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return KindPrimitive
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMap
		}
		return KindPrimitive
	case reflect.Slice, reflect.Array:
		return KindSequence
	case reflect.Struct:
		return KindMap
	default:
		return KindPrimitive
	}
}

// Deref unwraps one layer of observable indirection: a Cell yields its
// current value (subscribing the current listener), anything else is
// returned as-is.
func Deref(v any) any {
	if c, ok := v.(Cell); ok {
		return c.Get()
	}
	return v
}

// CloneShallow copies the top level of a container so the result no longer
// aliases the input. Non-containers are returned unchanged.
func CloneShallow(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	case []any:
		out := make([]any, len(t))
		copy(out, t)
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	case reflect.Slice:
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	}
	return v
}
