package dalipp

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// Entry is a registered printer. Entries are owned by their Registry.
type Entry struct {
	name    string
	factory Factory
	enabled atomic.Bool
}

func newEntry(name string, factory Factory) *Entry {
	e := &Entry{name: name, factory: factory}
	e.enabled.Store(true)
	return e
}

// Name returns the type name the printer was registered under.
func (e *Entry) Name() string { return e.name }

// Enabled reports whether the printer produces output.
func (e *Entry) Enabled() bool { return e.enabled.Load() }

// SetEnabled turns the printer on or off.
func (e *Entry) SetEnabled(on bool) { e.enabled.Store(on) }

// Invoke builds the printer for v. A disabled entry returns (nil, nil),
// which callers treat the same as "no printer".
func (e *Entry) Invoke(typeName string, v value.Value) (p Printer, err error) {
	if !e.Enabled() {
		return nil, nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = &PanicError{Printer: e.name, Value: rec, Stack: string(debug.Stack())}
		}
	}()
	p, err = e.factory(typeName, v)
	if err != nil {
		return nil, fmt.Errorf("build printer: %w", err)
	}
	return p, nil
}
