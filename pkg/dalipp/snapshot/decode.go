package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// NamedValue is one top-level value of a snapshot.
type NamedValue struct {
	Name  string
	Value value.Value
}

// Snapshot is a decoded document: its values, built as value.Node trees
// bound to the declared types.
type Snapshot struct {
	Document Document
	Types    *value.TypeTable
	Values   []NamedValue
}

// Value returns the value named name.
func (s *Snapshot) Value(name string) (value.Value, bool) {
	for _, nv := range s.Values {
		if nv.Name == name {
			return nv.Value, true
		}
	}
	return nil, false
}

// Decode parses data in the given format and builds its values.
func Decode(data []byte, format Format) (*Snapshot, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	return Build(doc)
}

// Encode serializes doc in the given format.
func Encode(doc Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		return json.Marshal(doc)
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

// Build creates the value trees described by doc.
func Build(doc Document) (*Snapshot, error) {
	if len(doc.Values) == 0 {
		return nil, ErrNoValues
	}
	b, err := newBuilder(doc.Types)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Document: doc, Types: b.table}
	for i, rec := range doc.Values {
		if rec.Name == "" {
			return nil, fmt.Errorf("value %d: missing name", i)
		}
		n, err := b.node(rec)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", rec.Name, err)
		}
		snap.Values = append(snap.Values, NamedValue{Name: rec.Name, Value: n.Bind(b.table)})
	}
	return snap, nil
}

// builder turns records into nodes.
type builder struct {
	table     *value.TypeTable
	templates map[string][]string
}

func newBuilder(types []TypeRecord) (*builder, error) {
	b := &builder{table: value.NewTypeTable(), templates: make(map[string][]string)}
	for i, tr := range types {
		if tr.Name == "" {
			return nil, fmt.Errorf("type %d: missing name", i)
		}
		if len(tr.Enum) > 0 {
			b.table.Define(value.Enum(tr.Name, tr.Enum))
			continue
		}
		b.templates[tr.Name] = tr.TemplateArgs
		b.table.Define(b.structType(tr.Name))
	}
	return b, nil
}

// typeByName resolves a type name used as a pointee, element, dynamic type
// or template argument.
func (b *builder) typeByName(name string) value.Type {
	name = strings.TrimSpace(name)
	if base, ok := strings.CutSuffix(name, "*"); ok {
		return value.PointerTo(b.typeByName(base))
	}
	if base, ok := strings.CutSuffix(name, "&"); ok {
		return value.ReferenceTo(b.typeByName(base))
	}
	if t, err := b.table.LookupType(name); err == nil {
		return t
	}
	return b.structType(name)
}

func (b *builder) structType(name string) *value.TypeDesc {
	t := value.Struct(name)
	if args := b.templates[name]; len(args) > 0 {
		types := make([]value.Type, len(args))
		for i, a := range args {
			types[i] = b.typeByName(a)
		}
		t.WithTemplateArgs(types...)
	}
	return t
}

func (b *builder) kind(rec Record) (value.Kind, error) {
	if rec.Kind != "" {
		k, ok := value.ParseKind(rec.Kind)
		if !ok {
			return 0, fmt.Errorf("unknown kind %q", rec.Kind)
		}
		return k, nil
	}
	switch {
	case rec.Pointer != nil || rec.Null || strings.HasSuffix(strings.TrimSpace(rec.Type), "*"):
		return value.KindPointer, nil
	case rec.Elements != nil:
		return value.KindArray, nil
	case rec.Fields != nil:
		return value.KindStruct, nil
	}
	if t, err := b.table.LookupType(rec.Type); err == nil {
		return t.Kind(), nil
	}
	switch rec.Value.(type) {
	case bool:
		return value.KindBool, nil
	case string:
		return value.KindString, nil
	case float64:
		return value.KindFloat, nil
	case int, int64, uint64:
		return value.KindInt, nil
	}
	return value.KindStruct, nil
}

func (b *builder) node(rec Record) (*value.Node, error) {
	kind, err := b.kind(rec)
	if err != nil {
		return nil, err
	}

	var n *value.Node
	switch kind {
	case value.KindPointer, value.KindReference:
		n, err = b.pointer(rec, kind)
	case value.KindArray:
		n, err = b.array(rec)
	case value.KindStruct:
		n, err = b.object(rec)
	default:
		n, err = b.scalar(rec, kind)
	}
	if err != nil {
		return nil, err
	}

	if rec.Address != 0 {
		n.WithAddress(rec.Address)
	}
	if rec.DynamicType != "" {
		n.WithDynamicType(b.typeByName(rec.DynamicType))
	}
	return n, nil
}

func (b *builder) pointer(rec Record, kind value.Kind) (*value.Node, error) {
	target := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(rec.Type), "*&"))
	ptrType := value.PointerTo(b.typeByName(target))

	var n *value.Node
	switch {
	case rec.Null:
		n = value.NewNull(ptrType)
	case rec.Unreadable:
		n = value.Unreadable(ptrType)
	case rec.Pointer != nil:
		pointee, err := b.node(*rec.Pointer)
		if err != nil {
			return nil, fmt.Errorf("pointer: %w", err)
		}
		n = value.NewPointer(pointee)
	default:
		// The pointee was not captured.
		n = value.NewPointer(value.Unreadable(ptrType.Target()))
	}
	if rec.Value != nil {
		n.WithScalar(rec.Value)
	}

	if kind == value.KindReference {
		ref, err := n.ReinterpretAs(value.ReferenceTo(n.Type().Target()))
		if err != nil {
			return nil, err
		}
		return ref.(*value.Node), nil
	}
	return n, nil
}

func (b *builder) array(rec Record) (*value.Node, error) {
	elems := make([]*value.Node, len(rec.Elements))
	for i, er := range rec.Elements {
		e, err := b.node(er)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = e
	}

	var elemType value.Type
	if len(elems) > 0 {
		elemType = elems[0].Type()
	} else {
		// "int [3]" names its element type before the bracket.
		name, _, _ := strings.Cut(rec.Type, "[")
		elemType = b.typeByName(name)
	}
	if rec.Unreadable {
		return value.Unreadable(value.ArrayOf(elemType, len(elems))), nil
	}
	return value.NewArray(elemType, elems...), nil
}

func (b *builder) object(rec Record) (*value.Node, error) {
	if rec.Type == "" {
		return nil, fmt.Errorf("struct %q: missing type", rec.Name)
	}
	t := b.structType(rec.Type)
	if rec.Unreadable {
		return value.Unreadable(t), nil
	}

	children := make([]*value.Node, len(rec.Fields))
	names := make([]string, len(rec.Fields))
	for i, fr := range rec.Fields {
		child, err := b.node(fr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fr.Name, err)
		}
		children[i] = child

		switch {
		case fr.Base:
			names[i] = child.Type().Name()
			t.WithMember(value.Base(child.Type()))
		case fr.Name == "":
			return nil, fmt.Errorf("field %d of %s: missing name", i, rec.Type)
		case fr.Artificial:
			names[i] = fr.Name
			t.WithMember(value.Artificial(fr.Name, child.Type()))
		default:
			names[i] = fr.Name
			t.WithMember(value.Member(fr.Name, child.Type()))
		}
	}

	n := value.NewStruct(t)
	for i, child := range children {
		n.Set(names[i], child)
	}
	return n, nil
}

func (b *builder) scalar(rec Record, kind value.Kind) (*value.Node, error) {
	name := rec.Type
	if name == "" {
		name = kind.String()
	}

	var t value.Type
	if declared, err := b.table.LookupType(name); err == nil && declared.Kind() == kind {
		t = declared
	} else if kind == value.KindEnum {
		t = value.Enum(name, nil)
	} else {
		t = value.NewType(name, kind)
	}

	if rec.Unreadable {
		return value.Unreadable(t), nil
	}
	if kind.IsCallable() || kind == value.KindVoid {
		return value.NewStruct(t), nil
	}
	if rec.Value == nil {
		return nil, fmt.Errorf("%s %q: missing value", kind, rec.Name)
	}
	payload, err := convert(rec.Value, kind)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", kind, rec.Name, err)
	}
	return value.NewScalar(t, payload), nil
}

// convert coerces a decoded payload to the kind of its record.
func convert(v any, kind value.Kind) (any, error) {
	switch kind {
	case value.KindInt, value.KindEnum:
		switch x := v.(type) {
		case int:
			return int64(x), nil
		case int64, uint64:
			return x, nil
		case float64:
			// -math.MinInt64 is 2^63, the first whole float past int64.
			if x == math.Trunc(x) && x >= math.MinInt64 && x < -math.MinInt64 {
				return int64(x), nil
			}
		case bool:
			if x {
				return int64(1), nil
			}
			return int64(0), nil
		}
	case value.KindFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case uint64:
			return float64(x), nil
		}
	case value.KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int:
			return x != 0, nil
		case int64:
			return x != 0, nil
		case float64:
			return x != 0, nil
		}
	case value.KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("payload %v (%T) is not a %s", v, v, kind)
}
