package reactivity

import "github.com/vango-dev/reactivity/internal/errors"

// Sentinel errors. Errors returned by this package match them under
// errors.Is by code, and carry a detail naming the offending type or field.
var (
	// ErrNotWrappable is returned when a target cannot be made reactive.
	ErrNotWrappable = errors.New("E001")

	// ErrUnknownProperty is returned when writing a field that does not exist.
	ErrUnknownProperty = errors.New("E002")

	// ErrTypeMismatch is returned when a value is not assignable to a field.
	ErrTypeMismatch = errors.New("E003")

	// ErrUnexportedProperty is returned when writing an unexported field.
	ErrUnexportedProperty = errors.New("E004")

	// ErrNotRef is returned by RefOf for values of the wrong type.
	ErrNotRef = errors.New("E005")
)
