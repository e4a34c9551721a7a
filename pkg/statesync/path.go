package statesync

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Accessor is a compiled path: a pure resolver from a root value to the
// value at the path, or absent. Accessors are cached process-wide per raw
// path string and never evicted; paths are assumed low-cardinality and
// stable.
type Accessor struct {
	raw   string
	segs  []string
	valid bool
}

// accessorCache maps raw path strings to compiled accessors.
// Read-mostly; safe under concurrent compilation.
var accessorCache sync.Map

// Compile parses a path into a reusable accessor, normalizing bracket
// index syntax ("a.b[0].c" becomes the segments a, b, 0, c). Compiling the
// same string twice returns the same accessor.
//
// Malformed paths do not fail compilation: the resulting accessor resolves
// every root to absent.
func Compile(path string) *Accessor {
	if cached, ok := accessorCache.Load(path); ok {
		return cached.(*Accessor)
	}

	a := &Accessor{raw: path}
	a.segs, a.valid = parsePath(path)

	actual, _ := accessorCache.LoadOrStore(path, a)
	return actual.(*Accessor)
}

// Path returns the raw path string the accessor was compiled from.
func (a *Accessor) Path() string {
	return a.raw
}

// parsePath splits a path into segments. Returns false for empty or
// malformed input (empty segments, unbalanced brackets, characters
// directly after a closing bracket).
func parsePath(path string) ([]string, bool) {
	if path == "" {
		return nil, false
	}

	var segs []string
	var cur []byte
	justClosed := false

	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			if justClosed {
				justClosed = false
				continue
			}
			if len(cur) == 0 {
				return nil, false
			}
			segs = append(segs, string(cur))
			cur = cur[:0]
		case '[':
			if len(cur) > 0 {
				segs = append(segs, string(cur))
				cur = cur[:0]
			}
			justClosed = false
			end := strings.IndexByte(path[i+1:], ']')
			if end < 0 {
				return nil, false
			}
			content := strings.Trim(path[i+1:i+1+end], `"'`)
			if content == "" {
				return nil, false
			}
			segs = append(segs, content)
			i += end + 1
			justClosed = true
		case ']':
			return nil, false
		default:
			if justClosed {
				return nil, false
			}
			cur = append(cur, c)
		}
	}

	if len(cur) > 0 {
		segs = append(segs, string(cur))
	} else if !justClosed {
		// Trailing separator
		return nil, false
	}

	if len(segs) == 0 {
		return nil, false
	}
	return segs, true
}

// Resolve walks the accessor's segments through root. The second return is
// false when the path is absent: a missing key, an index out of bounds, or
// a non-container encountered mid-path. Resolution never panics.
//
// Observable cells along the way are dereferenced with Get, so resolving
// inside a tracked context subscribes the current listener to them.
func (a *Accessor) Resolve(root any) (any, bool) {
	if !a.valid {
		return nil, false
	}

	v := root
	for _, seg := range a.segs {
		var ok bool
		v, ok = step(v, seg)
		if !ok {
			return nil, false
		}
	}
	return v, true
}

// Resolve compiles path and resolves it against root.
func Resolve(root any, path string) (any, bool) {
	return Compile(path).Resolve(root)
}

// Exists reports whether path resolves inside root. A key present with a
// nil value exists; a missing key does not. Intended for diagnostics, not
// the main read path.
func Exists(root any, path string) bool {
	_, ok := Compile(path).Resolve(root)
	return ok
}

// step descends one segment. Cells are unwrapped first so a nested
// observable participates in dependency tracking.
func step(v any, seg string) (any, bool) {
	for {
		c, ok := v.(Cell)
		if !ok {
			break
		}
		v = c.Get()
	}

	if v == nil {
		return nil, false
	}

	switch t := v.(type) {
	case map[string]any:
		val, ok := t[seg]
		return val, ok
	case []any:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= len(t) {
			return nil, false
		}
		return t[idx], true
	}
	return stepReflect(v, seg)
}

// stepReflect handles containers other than the native map[string]any and
// []any shapes: generic maps and slices, arrays, and structs.
func stepReflect(v any, seg string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	case reflect.Struct:
		// Only fields declared on the struct itself count as present;
		// promoted and unexported fields resolve to absent.
		f, ok := rv.Type().FieldByName(seg)
		if !ok || !f.IsExported() || len(f.Index) != 1 {
			return nil, false
		}
		return rv.Field(f.Index[0]).Interface(), true
	}
	return nil, false
}

// Store writes value at path inside root, creating missing intermediate
// containers: a map normally, or a sequence when the following segment is
// numeric. Sequences grow (padding with nils) when the index is past the
// end.
//
// The root must be a mutable container (map, slice, or a cell holding
// one). Writes only work through the native map[string]any / []any shapes;
// a typed container or struct mid-path returns ErrPathConflict.
func Store(root any, path string, value any) error {
	a := Compile(path)
	if !a.valid {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	if c, ok := root.(Cell); ok {
		inner := c.Peek()
		updated, err := storeSegs(inner, a.segs, value)
		if err != nil {
			return err
		}
		if !Shallow(updated, inner) {
			// The container was created or re-allocated; publish it.
			c.Set(updated)
		} else if t, ok := c.(toucher); ok {
			// In-place inner mutation: the stored reference is unchanged,
			// so observers need an explicit nudge.
			t.Touch()
		}
		return nil
	}

	switch root.(type) {
	case map[string]any:
		updated, err := storeSegs(root, a.segs, value)
		if err != nil {
			return err
		}
		if !Shallow(updated, root) {
			// Root was a nil map; the caller's reference cannot be updated.
			return ErrUnwritableRoot
		}
		return nil
	case []any:
		updated, err := storeSegs(root, a.segs, value)
		if err != nil {
			return err
		}
		if !Shallow(updated, root) {
			// Growth re-allocated the root sequence and the caller's
			// reference cannot be updated.
			return ErrUnwritableRoot
		}
		return nil
	}
	return ErrUnwritableRoot
}

// storeSegs recursively descends container, assigning value at the last
// segment. It returns the (possibly newly created or re-allocated)
// container so parents can re-attach it.
func storeSegs(container any, segs []string, value any) (any, error) {
	seg := segs[0]
	idx, idxErr := strconv.Atoi(seg)
	isIndex := idxErr == nil && idx >= 0

	if container == nil {
		if isIndex {
			container = make([]any, 0, idx+1)
		} else {
			container = make(map[string]any, 1)
		}
	}

	switch t := container.(type) {
	case map[string]any:
		if t == nil {
			t = make(map[string]any, 1)
		}
		if len(segs) == 1 {
			t[seg] = value
			return t, nil
		}
		child, err := storeSegs(t[seg], segs[1:], value)
		if err != nil {
			return nil, err
		}
		t[seg] = child
		return t, nil

	case []any:
		if !isIndex {
			return nil, fmt.Errorf("%w: %q is not a sequence index", ErrPathConflict, seg)
		}
		for idx >= len(t) {
			t = append(t, nil)
		}
		if len(segs) == 1 {
			t[idx] = value
			return t, nil
		}
		child, err := storeSegs(t[idx], segs[1:], value)
		if err != nil {
			return nil, err
		}
		t[idx] = child
		return t, nil

	case Cell:
		inner := t.Peek()
		updated, err := storeSegs(inner, segs, value)
		if err != nil {
			return nil, err
		}
		if !Shallow(updated, inner) {
			t.Set(updated)
		} else if tch, ok := t.(toucher); ok {
			tch.Touch()
		}
		return t, nil
	}

	return nil, fmt.Errorf("%w: at %q", ErrPathConflict, seg)
}
