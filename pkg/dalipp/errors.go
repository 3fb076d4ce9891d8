package dalipp

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/dalipp/pkg/dalipp/registry"
)

// Sentinel errors for registration.
var (
	// ErrFrozen indicates Register was called after the registry was frozen.
	ErrFrozen = registry.ErrFrozen

	// ErrEmptyName indicates a printer was registered without a type name.
	ErrEmptyName = errors.New("printer name is empty")

	// ErrNilFactory indicates a printer was registered without a factory.
	ErrNilFactory = errors.New("printer factory is nil")

	// ErrUnknownPrinter indicates a printer name that was never registered.
	ErrUnknownPrinter = errors.New("unknown printer")
)

// Sentinel errors for host installation.
var (
	// ErrNilRegistry indicates Install was called with a nil registry.
	ErrNilRegistry = errors.New("registry is nil")

	// ErrDuplicateRegistry indicates a registry with the same name is already installed.
	ErrDuplicateRegistry = errors.New("registry already installed")
)

// FormatError wraps a printer failure with the value's type and the printer
// that was selected for it.
type FormatError struct {
	// TypeName is the basic type name of the value being formatted.
	TypeName string
	// Printer is the name the printer was registered under.
	Printer string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("printer %s for %s: %v", e.Printer, e.TypeName, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised inside a printer.
// Printers read arbitrary target memory, so a corrupt value must not take
// the host down.
type PanicError struct {
	// Printer is the name of the printer that panicked.
	Printer string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("printer %s panicked: %v", e.Printer, e.Value)
}
