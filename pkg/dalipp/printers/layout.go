package printers

import (
	"fmt"

	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// lookupType resolves name in v's program, or returns an opaque struct type
// of that name when the program does not declare it.
func lookupType(v value.Value, name string) value.Type {
	if t, err := v.Types().LookupType(name); err == nil {
		return t
	}
	return value.Struct(name)
}

// castDeref views v as a pointer to the named type and dereferences it.
func castDeref(v value.Value, typeName string) (value.Value, error) {
	t := lookupType(v, typeName)
	p, err := v.ReinterpretAs(value.PointerTo(t))
	if err != nil {
		return nil, err
	}
	return p.Dereference()
}

// dynamicTarget returns the most-derived class a pointer refers to.
func dynamicTarget(ptr value.Value) value.Type {
	t := ptr.DynamicType()
	if t != nil && t.Kind() == value.KindPointer && t.Target() != nil {
		return t.Target()
	}
	return t
}

func floatField(v value.Value, path ...string) (float64, error) {
	f, err := value.FieldPath(v, path...)
	if err != nil {
		return 0, err
	}
	return value.AsFloat64(f)
}

func intField(v value.Value, path ...string) (int64, error) {
	f, err := value.FieldPath(v, path...)
	if err != nil {
		return 0, err
	}
	return value.AsInt64(f)
}

// floats reads several float members of v.
func floats(v value.Value, names ...string) ([]any, error) {
	out := make([]any, len(names))
	for i, name := range names {
		f, err := floatField(v, name)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// typeString names a type the way the debugger prints it.
func typeString(t value.Type) string {
	if t == nil {
		return "void"
	}
	return t.Name()
}

func hexAddr(addr uint64) string {
	return fmt.Sprintf("0x%x", addr)
}
