package statesync

import "sort"

// Transform converts a resolved source value before it is written to the
// target. Transforms must be pure; a panicking transform is logged and the
// untransformed value is written instead.
type Transform func(value any) any

// Comparator gates updates after change detection. It receives the new and
// previous resolved values and returns false to suppress the write. A
// panicking comparator is logged and treated as "proceed", since silently
// suppressing on error would hide real state changes.
type Comparator func(next, prev any) bool

// Mapping is the user-supplied unit of synchronization. It is validated
// once at registration and immutable afterwards.
type Mapping struct {
	// Path locates the value inside the source, e.g. "user.addresses[0].city".
	// Required.
	Path string

	// Target is the observable cell kept in sync. Required.
	Target Cell

	// Transform, when set, converts the resolved value before writing.
	Transform Transform

	// Comparator, when set, decides whether an observed change proceeds.
	Comparator Comparator

	// Deep overrides the engine-wide deep-comparison mode for this mapping.
	Deep *bool

	// Bidirectional enables target-to-source write-back for this mapping.
	Bidirectional bool
}

// normalizedMapping is a validated mapping with defaults resolved.
type normalizedMapping struct {
	index         int
	path          string
	accessor      *Accessor
	target        Cell
	transform     Transform
	comparator    Comparator
	deep          bool
	bidirectional bool
}

// validateMapping checks one descriptor and resolves its defaults against
// the engine options. Failures are per-mapping ConfigurationErrors; the
// caller isolates them so the rest of the batch still registers.
func validateMapping(m Mapping, index int, cfg *engineConfig) (normalizedMapping, error) {
	if m.Path == "" {
		return normalizedMapping{}, &ConfigurationError{Index: index, Field: "path", Reason: "missing or empty"}
	}
	if m.Target == nil {
		return normalizedMapping{}, &ConfigurationError{Index: index, Field: "target", Reason: "missing"}
	}

	deep := cfg.deep
	if m.Deep != nil {
		deep = *m.Deep
	}

	return normalizedMapping{
		index:         index,
		path:          m.Path,
		accessor:      Compile(m.Path),
		target:        m.Target,
		transform:     m.Transform,
		comparator:    m.Comparator,
		deep:          deep,
		bidirectional: m.Bidirectional || cfg.bidirectional,
	}, nil
}

// equality returns the change-detection predicate for this mapping.
func (m *normalizedMapping) equality() func(a, b any) bool {
	if m.deep {
		return Deep
	}
	return Shallow
}

// FromTargets converts the key→target map form into a mapping list, each
// key treated as a path. The result is sorted by path so diagnostics are
// deterministic; Go map iteration order is not.
func FromTargets(targets map[string]Cell) []Mapping {
	paths := make([]string, 0, len(targets))
	for p := range targets {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	mappings := make([]Mapping, 0, len(paths))
	for _, p := range paths {
		mappings = append(mappings, Mapping{Path: p, Target: targets[p]})
	}
	return mappings
}
