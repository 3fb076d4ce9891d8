package value

import "strings"

// Value is a runtime value read from a debugged process.
//
// Implementations must be safe for concurrent reads.
type Value interface {
	// Type returns the static type of the value.
	Type() Type

	// DynamicType returns the most-derived type when the host can
	// determine it, and Type() otherwise.
	DynamicType() Type

	// Field returns the named member. Pointers and references are
	// dereferenced implicitly. Errors wrap ErrNoField or ErrUnreadable.
	Field(name string) (Value, error)

	// ReinterpretAs views the same storage as another type.
	ReinterpretAs(t Type) (Value, error)

	// Dereference follows a pointer or reference.
	Dereference() (Value, error)

	// Elements returns the elements of an array, or of the array a
	// pointer refers to.
	Elements() ([]Value, error)

	// Address returns the location of the value in the target, or 0.
	Address() uint64

	// IsNull reports whether the value is a null pointer.
	IsNull() bool

	// Scalar returns the leaf payload (int64, uint64, float64, bool or
	// string) and whether one is present.
	Scalar() (any, bool)

	// Types returns the type universe the value belongs to.
	Types() Types
}

// Type describes the type of a Value.
type Type interface {
	// Name returns the type name, possibly including template arguments.
	Name() string
	Kind() Kind
	// Target returns the pointee, referent, element or aliased type, or nil.
	Target() Type
	// Fields returns the members in declaration order.
	Fields() []FieldDesc
	TemplateArgument(i int) (Type, error)
	// EnumValue returns the value of the named enumerator.
	EnumValue(name string) (int64, bool)
}

// FieldDesc describes one member of a struct type.
type FieldDesc struct {
	Name string
	// Type is nil when the host could not determine the member type.
	Type Type
	// Artificial marks compiler-generated members such as vtable pointers.
	Artificial bool
	// BaseClass marks an embedded base-class subobject.
	BaseClass bool
}

// Types resolves type names against the debugged program's symbols.
type Types interface {
	LookupType(name string) (Type, error)
}

// BasicTypeName returns the tag printers are registered against: references
// and typedefs are followed and cv-qualifiers dropped. It returns "" for
// types without a tag (pointers, builtins, functions).
func BasicTypeName(t Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == KindReference {
		t = t.Target()
	}
	for t != nil && t.Kind() == KindTypedef {
		t = t.Target()
	}
	if t == nil || !t.Kind().HasTag() {
		return ""
	}
	return Unqualified(t.Name())
}

// Unqualified strips leading and trailing const/volatile qualifiers.
func Unqualified(name string) string {
	name = strings.TrimSpace(name)
	for {
		switch {
		case strings.HasPrefix(name, "const "):
			name = strings.TrimPrefix(name, "const ")
		case strings.HasPrefix(name, "volatile "):
			name = strings.TrimPrefix(name, "volatile ")
		case strings.HasSuffix(name, " const"):
			name = strings.TrimSuffix(name, " const")
		case strings.HasSuffix(name, " volatile"):
			name = strings.TrimSuffix(name, " volatile")
		default:
			return name
		}
	}
}

// TypeName returns the name of v's static type, or "" for a nil value.
func TypeName(v Value) string {
	if v == nil || v.Type() == nil {
		return ""
	}
	return v.Type().Name()
}
