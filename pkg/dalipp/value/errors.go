package value

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Value implementations.
var (
	// ErrNoField indicates the type has no member with the requested name.
	ErrNoField = errors.New("no such field")

	// ErrUnreadable indicates the member exists but its contents cannot be
	// read from the target (optimized out, unmapped memory).
	ErrUnreadable = errors.New("value unreadable")

	// ErrNotPointer indicates Dereference was called on a non-pointer.
	ErrNotPointer = errors.New("not a pointer")

	// ErrNullPointer indicates Dereference was called on a null pointer.
	ErrNullPointer = errors.New("null pointer dereference")

	// ErrNoTemplateArg indicates a template argument index is out of range.
	ErrNoTemplateArg = errors.New("no such template argument")

	// ErrTypeNotFound indicates a type lookup failed.
	ErrTypeNotFound = errors.New("type not found")
)

// FieldError wraps a failed member access with the owning type and field.
type FieldError struct {
	// Type is the name of the type the field was read from.
	Type string
	// Field is the requested member name.
	Field string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s of %s: %v", e.Field, e.Type, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *FieldError) Unwrap() error {
	return e.Err
}
