package dalipp

import (
	"errors"
	"fmt"
	"iter"

	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// Test printers used across tests

var floatType = value.Float("float")

// vector2 formats a struct with float members x and y.
type vector2 struct {
	v value.Value
}

func (p vector2) ToString(Renderer) (Text, error) {
	x, err := fieldFloat(p.v, "x")
	if err != nil {
		return NoText, err
	}
	y, err := fieldFloat(p.v, "y")
	if err != nil {
		return NoText, err
	}
	return Stringf("<%g, %g>", x, y), nil
}

func newVector2(_ string, v value.Value) (Printer, error) {
	return vector2{v: v}, nil
}

func fieldFloat(v value.Value, name string) (float64, error) {
	f, err := v.Field(name)
	if err != nil {
		return 0, err
	}
	return value.AsFloat64(f)
}

// makeVector2 builds a Vector2 value.
func makeVector2(x, y float64) *value.Node {
	return value.Object("Vector2").
		Set("x", value.NewScalar(floatType, x)).
		Set("y", value.NewScalar(floatType, y))
}

// constPrinter always renders text.
type constPrinter string

func (c constPrinter) ToString(Renderer) (Text, error) {
	return String(string(c)), nil
}

// makeConstFactory returns a factory producing constPrinter(text).
func makeConstFactory(text string) Factory {
	return func(string, value.Value) (Printer, error) {
		return constPrinter(text), nil
	}
}

// listPrinter renders each element of an array value as a child.
type listPrinter struct {
	v    value.Value
	hint Hint
}

func (l listPrinter) ToString(Renderer) (Text, error) {
	elems, err := l.v.Elements()
	if err != nil {
		return NoText, err
	}
	return Stringf("Count:%d", len(elems)), nil
}

func (l listPrinter) Children(Renderer) iter.Seq2[string, Text] {
	return func(yield func(string, Text) bool) {
		elems, _ := l.v.Elements()
		for i, e := range elems {
			if !yield(fmt.Sprintf("[%d]", i), ValueText(e)) {
				return
			}
		}
	}
}

func (l listPrinter) DisplayHint() Hint { return l.hint }

var errBroken = errors.New("broken printer")

// makeFailingFactory returns a factory that always fails.
func makeFailingFactory(err error) Factory {
	return func(string, value.Value) (Printer, error) {
		return nil, err
	}
}

// panicPrinter panics from ToString.
type panicPrinter struct{}

func (panicPrinter) ToString(Renderer) (Text, error) {
	panic("corrupt object")
}
