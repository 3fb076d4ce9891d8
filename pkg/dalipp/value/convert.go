package value

import (
	"fmt"
	"math"
)

// AsInt64 reads v's payload as a signed integer.
// Booleans convert to 0/1 and integral floats are accepted.
func AsInt64(v Value) (int64, error) {
	s, err := scalarOf(v)
	if err != nil {
		return 0, err
	}
	switch x := s.(type) {
	case int64:
		return x, nil
	case uint64:
		return int64(x), nil
	case float64:
		if x == math.Trunc(x) {
			return int64(x), nil
		}
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%s: payload %T is not an integer", TypeName(v), s)
}

// AsFloat64 reads v's payload as a floating point number.
func AsFloat64(v Value) (float64, error) {
	s, err := scalarOf(v)
	if err != nil {
		return 0, err
	}
	switch x := s.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%s: payload %T is not a number", TypeName(v), s)
}

// AsBool reads v's payload as a boolean; non-zero integers are true.
func AsBool(v Value) (bool, error) {
	s, err := scalarOf(v)
	if err != nil {
		return false, err
	}
	switch x := s.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case uint64:
		return x != 0, nil
	}
	return false, fmt.Errorf("%s: payload %T is not a boolean", TypeName(v), s)
}

// AsString reads v's payload as a string, as for std::string or a
// NUL-terminated char pointer.
func AsString(v Value) (string, error) {
	s, err := scalarOf(v)
	if err != nil {
		return "", err
	}
	if str, ok := s.(string); ok {
		return str, nil
	}
	return "", fmt.Errorf("%s: payload %T is not a string", TypeName(v), s)
}

func scalarOf(v Value) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("nil value: %w", ErrUnreadable)
	}
	s, ok := v.Scalar()
	if !ok {
		return nil, fmt.Errorf("%s has no payload: %w", TypeName(v), ErrUnreadable)
	}
	return s, nil
}

// FieldPath follows a chain of member names, e.g. FieldPath(v, "mObjectHandle", "mPtr").
func FieldPath(v Value, names ...string) (Value, error) {
	cur := v
	for _, name := range names {
		next, err := cur.Field(name)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// PointerValue returns the address a pointer holds: its integer payload, or
// the address of the value it points to. Null pointers hold 0.
func PointerValue(v Value) uint64 {
	if v == nil || v.IsNull() {
		return 0
	}
	if s, ok := v.Scalar(); ok {
		switch x := s.(type) {
		case uint64:
			return x
		case int64:
			return uint64(x)
		}
	}
	if target, err := v.Dereference(); err == nil {
		return target.Address()
	}
	return 0
}
