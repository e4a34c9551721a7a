package statesync

import (
	"errors"
	"fmt"
)

// ErrInvalidPath is returned by Store when the path string is empty or
// malformed. Read-side resolution never errors on bad paths; it resolves
// to absent instead.
var ErrInvalidPath = errors.New("statesync: invalid path")

// ErrUnwritableRoot is returned by Store when the source root is not a
// container the engine can write into (for example a nil or primitive
// root, or a root sequence that would have to be re-allocated to grow).
var ErrUnwritableRoot = errors.New("statesync: source root cannot accept path writes")

// ErrPathConflict is returned by Store when an intermediate path segment
// is occupied by a non-container value that cannot be descended into.
var ErrPathConflict = errors.New("statesync: path segment conflicts with a non-container value")

// ConfigurationError reports a structurally invalid mapping descriptor.
// It is raised at registration time and isolated per mapping: one bad
// descriptor does not prevent the rest of the batch from activating.
type ConfigurationError struct {
	// Index is the mapping's position in the registration batch.
	Index int

	// Field is the offending descriptor field ("path" or "target").
	Field string

	// Reason describes what is wrong with the field.
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("statesync: mapping %d: invalid %s: %s", e.Index, e.Field, e.Reason)
}
