package value

import (
	"fmt"
	"strings"
	"sync"
)

// TypeDesc is an in-memory Type.
//
// The builder methods mutate the receiver and are meant to be used while a
// type is being constructed, before it is shared.
type TypeDesc struct {
	name    string
	kind    Kind
	target  Type
	members []FieldDesc
	args    []Type
	enums   map[string]int64
}

// Compile-time interface check.
var _ Type = (*TypeDesc)(nil)

// NewType creates a type with the given name and kind.
func NewType(name string, kind Kind) *TypeDesc {
	return &TypeDesc{name: name, kind: kind}
}

// Struct creates a struct type with the given members.
func Struct(name string, members ...FieldDesc) *TypeDesc {
	return &TypeDesc{name: name, kind: KindStruct, members: members}
}

// Int creates an integer builtin.
func Int(name string) *TypeDesc { return NewType(name, KindInt) }

// Float creates a floating point builtin.
func Float(name string) *TypeDesc { return NewType(name, KindFloat) }

// Bool creates the boolean builtin.
func Bool() *TypeDesc { return NewType("bool", KindBool) }

// String creates a string type, e.g. std::string.
func String(name string) *TypeDesc { return NewType(name, KindString) }

// Void creates the void type.
func Void() *TypeDesc { return NewType("void", KindVoid) }

// Func creates a function type.
func Func(signature string) *TypeDesc { return NewType(signature, KindFunc) }

// PointerTo creates a pointer to t.
func PointerTo(t Type) *TypeDesc {
	return &TypeDesc{name: nameOf(t) + " *", kind: KindPointer, target: t}
}

// ReferenceTo creates a reference to t.
func ReferenceTo(t Type) *TypeDesc {
	return &TypeDesc{name: nameOf(t) + " &", kind: KindReference, target: t}
}

// Typedef creates an alias for t.
func Typedef(name string, t Type) *TypeDesc {
	return &TypeDesc{name: name, kind: KindTypedef, target: t}
}

// ArrayOf creates a fixed-size array of t.
func ArrayOf(t Type, n int) *TypeDesc {
	return &TypeDesc{name: fmt.Sprintf("%s [%d]", nameOf(t), n), kind: KindArray, target: t}
}

// Enum creates an enumeration with the given enumerators.
func Enum(name string, values map[string]int64) *TypeDesc {
	enums := make(map[string]int64, len(values))
	for k, v := range values {
		enums[k] = v
	}
	return &TypeDesc{name: name, kind: KindEnum, enums: enums}
}

// Member describes a regular data member.
func Member(name string, t Type) FieldDesc {
	return FieldDesc{Name: name, Type: t}
}

// Base describes a base-class subobject named after its type.
func Base(t Type) FieldDesc {
	return FieldDesc{Name: nameOf(t), Type: t, BaseClass: true}
}

// Artificial describes a compiler-generated member.
func Artificial(name string, t Type) FieldDesc {
	return FieldDesc{Name: name, Type: t, Artificial: true}
}

// WithMember appends a member and returns the receiver.
func (t *TypeDesc) WithMember(f FieldDesc) *TypeDesc {
	t.members = append(t.members, f)
	return t
}

// WithTemplateArgs sets the template arguments and returns the receiver.
func (t *TypeDesc) WithTemplateArgs(args ...Type) *TypeDesc {
	t.args = append(t.args[:0:0], args...)
	return t
}

// Name implements Type.
func (t *TypeDesc) Name() string { return t.name }

// Kind implements Type.
func (t *TypeDesc) Kind() Kind { return t.kind }

// Target implements Type.
func (t *TypeDesc) Target() Type { return t.target }

// Fields implements Type.
func (t *TypeDesc) Fields() []FieldDesc {
	out := make([]FieldDesc, len(t.members))
	copy(out, t.members)
	return out
}

// TemplateArgument implements Type.
func (t *TypeDesc) TemplateArgument(i int) (Type, error) {
	if i < 0 || i >= len(t.args) {
		return nil, fmt.Errorf("%s argument %d: %w", t.name, i, ErrNoTemplateArg)
	}
	return t.args[i], nil
}

// EnumValue implements Type.
func (t *TypeDesc) EnumValue(name string) (int64, bool) {
	v, ok := t.enums[name]
	return v, ok
}

// Enumerators returns a copy of the enumerator table.
func (t *TypeDesc) Enumerators() map[string]int64 {
	out := make(map[string]int64, len(t.enums))
	for k, v := range t.enums {
		out[k] = v
	}
	return out
}

// member returns the declared member with the given name.
func (t *TypeDesc) member(name string) (FieldDesc, bool) {
	for _, f := range t.members {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDesc{}, false
}

func nameOf(t Type) string {
	if t == nil {
		return "void"
	}
	return t.Name()
}

// TypeTable is a Types implementation backed by a map of declared types.
// Names ending in " *" resolve to pointers to the named type.
type TypeTable struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewTypeTable creates a table seeded with the common C++ builtins.
func NewTypeTable() *TypeTable {
	tt := &TypeTable{types: make(map[string]Type)}
	for _, t := range []*TypeDesc{
		Int("int"), Int("long int"), Int("unsigned int"), Int("char"),
		Float("float"), Float("double"), Bool(), Void(),
		String("std::string"), String("std::__cxx11::string"),
	} {
		tt.types[t.Name()] = t
	}
	return tt
}

// Define adds or replaces a type.
func (tt *TypeTable) Define(t Type) {
	tt.mu.Lock()
	defer tt.mu.Unlock()
	tt.types[t.Name()] = t
}

// LookupType implements Types.
func (tt *TypeTable) LookupType(name string) (Type, error) {
	name = Unqualified(name)
	if base, ok := strings.CutSuffix(name, "*"); ok {
		t, err := tt.LookupType(strings.TrimSpace(base))
		if err != nil {
			return nil, err
		}
		return PointerTo(t), nil
	}
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	if t, ok := tt.types[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrTypeNotFound)
}

// defaultTypes backs values that were never bound to a program.
var defaultTypes = NewTypeTable()
