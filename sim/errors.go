package sim

import "errors"

// Sentinel errors for the point model. All are local, recoverable-by-caller
// failures; none of them stops the engine's periodic loop.
var (
	// ErrDuplicateInstance is returned by Registry.Register when a point
	// with the same (kind, instance) pair is already registered.
	ErrDuplicateInstance = errors.New("duplicate instance")

	// ErrNotFound is returned when no point matches a (kind, instance) pair.
	ErrNotFound = errors.New("point not found")

	// ErrInvalidPriority is returned for priority slots outside 1..16.
	ErrInvalidPriority = errors.New("priority slot out of range")

	// ErrTypeMismatch is returned when a written value is incompatible with
	// the point's kind or state range.
	ErrTypeMismatch = errors.New("value incompatible with point kind")

	// ErrReadOnly is returned for external writes to Input kinds, which have
	// no priority array.
	ErrReadOnly = errors.New("input points are not writable")

	// ErrInvalidDefinition is returned for malformed point definitions at
	// load time (zero-state multistate, non-numeric analog seed, ...).
	ErrInvalidDefinition = errors.New("invalid point definition")
)
