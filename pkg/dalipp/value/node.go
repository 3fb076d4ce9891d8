package value

import (
	"errors"
	"fmt"
)

// Node is an in-memory Value.
//
// Nodes are built once and then only read; none of the builder methods
// are safe to call after a node has been shared.
type Node struct {
	typ        Type
	dyn        Type
	addr       uint64
	null       bool
	unreadable bool
	scalar     any
	hasScalar  bool
	fields     map[string]*Node
	pointee    *Node
	elems      []*Node
	types      Types
}

// Compile-time interface check.
var _ Value = (*Node)(nil)

// NewStruct creates a struct value of type t with no members populated.
func NewStruct(t Type) *Node {
	return &Node{typ: t, fields: make(map[string]*Node)}
}

// Object creates a struct value with a private type named name. Members
// added with Set and SetBase are declared on that type as they are added.
func Object(name string) *Node {
	return NewStruct(Struct(name))
}

// NewScalar creates a leaf value.
func NewScalar(t Type, v any) *Node {
	return &Node{typ: t, scalar: normalizeScalar(v), hasScalar: true}
}

// NewPointer creates a pointer to target. A nil target yields a null pointer.
func NewPointer(target *Node) *Node {
	if target == nil {
		return &Node{typ: PointerTo(Void()), null: true}
	}
	return &Node{typ: PointerTo(target.typ), pointee: target}
}

// NewNull creates a null pointer of type t.
func NewNull(t Type) *Node {
	return &Node{typ: t, null: true}
}

// NewArray creates an array value holding elems.
func NewArray(elem Type, elems ...*Node) *Node {
	return &Node{typ: ArrayOf(elem, len(elems)), elems: elems}
}

// Unreadable creates a value of type t whose contents cannot be read.
func Unreadable(t Type) *Node {
	return &Node{typ: t, unreadable: true}
}

// Set populates member name. When the node's type is a TypeDesc that does
// not declare the member, the member is declared with child's type.
func (n *Node) Set(name string, child *Node) *Node {
	n.declare(FieldDesc{Name: name, Type: child.typ})
	n.fields[name] = child
	return n
}

// SetBase populates a base-class subobject named after its type.
func (n *Node) SetBase(child *Node) *Node {
	name := nameOf(child.typ)
	n.declare(FieldDesc{Name: name, Type: child.typ, BaseClass: true})
	n.fields[name] = child
	return n
}

func (n *Node) declare(f FieldDesc) {
	if n.fields == nil {
		n.fields = make(map[string]*Node)
	}
	td, ok := n.typ.(*TypeDesc)
	if !ok {
		return
	}
	if _, exists := td.member(f.Name); !exists {
		td.WithMember(f)
	}
}

// WithDynamicType records the most-derived type of the value.
func (n *Node) WithDynamicType(t Type) *Node {
	n.dyn = t
	return n
}

// WithAddress records the target address of the value.
func (n *Node) WithAddress(addr uint64) *Node {
	n.addr = addr
	return n
}

// WithElements sets the elements of an array or of the array a pointer
// refers to.
func (n *Node) WithElements(elems ...*Node) *Node {
	n.elems = elems
	return n
}

// WithScalar sets a leaf payload on a node of any kind, e.g. the string a
// char pointer refers to.
func (n *Node) WithScalar(v any) *Node {
	n.scalar = normalizeScalar(v)
	n.hasScalar = true
	return n
}

// Bind attaches a type universe to the node and everything reachable from it.
func (n *Node) Bind(types Types) *Node {
	n.bind(types, make(map[*Node]bool))
	return n
}

func (n *Node) bind(types Types, seen map[*Node]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	n.types = types
	for _, f := range n.fields {
		f.bind(types, seen)
	}
	for _, e := range n.elems {
		e.bind(types, seen)
	}
	n.pointee.bind(types, seen)
}

// Type implements Value.
func (n *Node) Type() Type { return n.typ }

// DynamicType implements Value.
func (n *Node) DynamicType() Type {
	if n.dyn != nil {
		return n.dyn
	}
	if n.typ != nil && n.typ.Kind() == KindPointer && n.pointee != nil && n.pointee.dyn != nil {
		return PointerTo(n.pointee.dyn)
	}
	return n.typ
}

// Field implements Value.
func (n *Node) Field(name string) (Value, error) {
	if n.unreadable {
		return nil, &FieldError{Type: nameOf(n.typ), Field: name, Err: ErrUnreadable}
	}
	if n.isIndirect() {
		target, err := n.Dereference()
		if err != nil {
			return nil, &FieldError{Type: nameOf(n.typ), Field: name, Err: err}
		}
		return target.Field(name)
	}
	if f, ok := n.fields[name]; ok {
		if f.unreadable {
			return nil, &FieldError{Type: nameOf(n.typ), Field: name, Err: ErrUnreadable}
		}
		return f, nil
	}
	if n.declares(name) {
		return nil, &FieldError{Type: nameOf(n.typ), Field: name, Err: ErrUnreadable}
	}
	return nil, &FieldError{Type: nameOf(n.typ), Field: name, Err: ErrNoField}
}

func (n *Node) declares(name string) bool {
	if n.typ == nil {
		return false
	}
	for _, f := range n.typ.Fields() {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (n *Node) isIndirect() bool {
	if n.typ == nil {
		return false
	}
	k := n.typ.Kind()
	return k == KindPointer || k == KindReference
}

// ReinterpretAs implements Value.
//
// Casting a non-pointer to a pointer type yields a pointer whose target is
// the original storage viewed as the pointee type.
func (n *Node) ReinterpretAs(t Type) (Value, error) {
	if t == nil {
		return nil, errors.New("reinterpret as nil type")
	}
	if n.unreadable {
		return nil, fmt.Errorf("reinterpret %s as %s: %w", nameOf(n.typ), t.Name(), ErrUnreadable)
	}
	cp := *n
	cp.typ = t
	cp.dyn = nil
	if t.Kind() == KindPointer {
		switch {
		case n.isIndirect() && n.pointee != nil:
			cp.pointee = n.pointee.retype(t.Target())
		case !n.isIndirect() && !n.null:
			cp.pointee = n.retype(t.Target())
			cp.fields = nil
			cp.elems = nil
			cp.scalar, cp.hasScalar = nil, false
		}
	}
	return &cp, nil
}

func (n *Node) retype(t Type) *Node {
	cp := *n
	if t != nil {
		cp.typ = t
	}
	return &cp
}

// Dereference implements Value.
func (n *Node) Dereference() (Value, error) {
	if !n.isIndirect() {
		return nil, fmt.Errorf("dereference %s: %w", nameOf(n.typ), ErrNotPointer)
	}
	if n.null {
		return nil, fmt.Errorf("dereference %s: %w", nameOf(n.typ), ErrNullPointer)
	}
	if n.unreadable || n.pointee == nil {
		return nil, fmt.Errorf("dereference %s: %w", nameOf(n.typ), ErrUnreadable)
	}
	return n.pointee, nil
}

// Elements implements Value.
func (n *Node) Elements() ([]Value, error) {
	if n.unreadable {
		return nil, fmt.Errorf("elements of %s: %w", nameOf(n.typ), ErrUnreadable)
	}
	if n.elems == nil && n.isIndirect() && n.pointee != nil {
		return n.pointee.Elements()
	}
	out := make([]Value, len(n.elems))
	for i, e := range n.elems {
		out[i] = e
	}
	return out, nil
}

// Address implements Value.
func (n *Node) Address() uint64 { return n.addr }

// IsNull implements Value.
func (n *Node) IsNull() bool { return n.null }

// Scalar implements Value.
func (n *Node) Scalar() (any, bool) {
	if n.unreadable || !n.hasScalar {
		return nil, false
	}
	return n.scalar, true
}

// Types implements Value.
func (n *Node) Types() Types {
	if n.types == nil {
		return defaultTypes
	}
	return n.types
}

// normalizeScalar widens Go numeric types to int64, uint64 or float64.
func normalizeScalar(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
