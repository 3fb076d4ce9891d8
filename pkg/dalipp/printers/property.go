package printers

import (
	"fmt"
	"iter"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// propertyValuePrinter prints a Property::Value by its type tag.
type propertyValuePrinter struct {
	v  value.Value
	ns Namespace
}

func propertyValueFactory(ns Namespace) dalipp.Factory {
	return func(_ string, v value.Value) (dalipp.Printer, error) {
		return propertyValuePrinter{v: v, ns: ns}, nil
	}
}

// payloadTypes maps tags whose payload points at another object to that
// object's type, relative to the namespace.
var payloadTypes = map[string]string{
	"VECTOR2":   "Vector2",
	"VECTOR3":   "Vector3",
	"VECTOR4":   "Vector4",
	"MATRIX":    "Matrix",
	"MATRIX3":   "Matrix3",
	"ROTATION":  "Vector4",
	"RECTANGLE": "Vector4",
	"ARRAY":     "Property::Array",
	"MAP":       "Property::Map",
}

func (p propertyValuePrinter) ToString(dalipp.Renderer) (dalipp.Text, error) {
	impl, err := p.v.Field("mImpl")
	if err != nil {
		return dalipp.NoText, err
	}
	dbg, err := castDeref(impl, p.ns.Qualify("DebugPropertyValue"))
	if err != nil {
		return dalipp.NoText, err
	}
	tag, err := intField(dbg, "type")
	if err != nil {
		return dalipp.NoText, err
	}
	payload, err := dbg.Field("value")
	if err != nil {
		return dalipp.NoText, err
	}

	kind, ok := propertyType.name(p.v, p.ns, tag)
	if !ok {
		return dalipp.NoText, nil
	}
	switch kind {
	case "BOOLEAN":
		n, err := value.AsInt64(payload)
		if err != nil {
			return dalipp.NoText, err
		}
		if n != 0 {
			return dalipp.String("true"), nil
		}
		return dalipp.String("false"), nil
	case "INTEGER":
		n, err := value.AsInt64(payload)
		if err != nil {
			return dalipp.NoText, err
		}
		return dalipp.Stringf("%d", int32(n)), nil
	case "FLOAT":
		f, err := value.AsFloat64(payload)
		if err != nil {
			return dalipp.NoText, err
		}
		return dalipp.Stringf("%f", f), nil
	case "STRING":
		s, err := castDeref(payload, stdStringType(payload))
		if err != nil {
			return dalipp.NoText, err
		}
		return dalipp.ValueText(s), nil
	}

	target, ok := payloadTypes[kind]
	if !ok {
		return dalipp.NoText, nil
	}
	obj, err := castDeref(payload, p.ns.Qualify(target))
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.ValueText(obj), nil
}

// stdStringType returns the name the program uses for std::string.
func stdStringType(v value.Value) string {
	if _, err := v.Types().LookupType("std::string"); err == nil {
		return "std::string"
	}
	return "std::__cxx11::string"
}

// propertyArrayPrinter prints a Property::Array as "[#N]" with one child per
// element.
type propertyArrayPrinter struct {
	elems []value.Value
}

func propertyArrayFactory(ns Namespace) dalipp.Factory {
	return func(_ string, v value.Value) (dalipp.Printer, error) {
		impl, err := v.Field("mImpl")
		if err != nil {
			return nil, err
		}
		vec, err := castDeref(impl, ns.Qualify("DebugPropertyValueArray"))
		if err != nil {
			return nil, err
		}
		elems, err := vec.Elements()
		if err != nil {
			return nil, err
		}
		return propertyArrayPrinter{elems: elems}, nil
	}
}

func (p propertyArrayPrinter) ToString(dalipp.Renderer) (dalipp.Text, error) {
	return dalipp.Stringf("[#%d]", len(p.elems)), nil
}

func (p propertyArrayPrinter) Children(dalipp.Renderer) iter.Seq2[string, dalipp.Text] {
	return func(yield func(string, dalipp.Text) bool) {
		for i, e := range p.elems {
			if !yield(fmt.Sprintf("[%d]", i), dalipp.ValueText(e)) {
				return
			}
		}
	}
}

func (p propertyArrayPrinter) DisplayHint() dalipp.Hint { return dalipp.HintArray }

// propertyMapPrinter prints a Property::Map as "key:value" children, string
// keys first. Numbering restarts at zero for the integer keys.
type propertyMapPrinter struct {
	strValues []value.Value
	intValues []value.Value
}

func propertyMapFactory(ns Namespace) dalipp.Factory {
	return func(_ string, v value.Value) (dalipp.Printer, error) {
		impl, err := v.Field("mImpl")
		if err != nil {
			return nil, err
		}
		m, err := castDeref(impl, ns.Qualify("DebugPropertyValueMap"))
		if err != nil {
			return nil, err
		}
		strValues, err := pairs(m, "stringValues")
		if err != nil {
			return nil, err
		}
		intValues, err := pairs(m, "intValues")
		if err != nil {
			return nil, err
		}
		return propertyMapPrinter{strValues: strValues, intValues: intValues}, nil
	}
}

func pairs(m value.Value, name string) ([]value.Value, error) {
	f, err := m.Field(name)
	if err != nil {
		return nil, err
	}
	if f.IsNull() {
		return nil, nil
	}
	return f.Elements()
}

func (p propertyMapPrinter) ToString(dalipp.Renderer) (dalipp.Text, error) {
	return dalipp.NoText, nil
}

func (p propertyMapPrinter) Children(r dalipp.Renderer) iter.Seq2[string, dalipp.Text] {
	return func(yield func(string, dalipp.Text) bool) {
		for i, e := range p.strValues {
			key, val, err := pair(e)
			if err != nil {
				return
			}
			if !yield(fmt.Sprintf("[%d]", i), dalipp.String(r.Render(key)+":"+r.Render(val))) {
				return
			}
		}
		for i, e := range p.intValues {
			key, val, err := pair(e)
			if err != nil {
				return
			}
			n, err := value.AsInt64(key)
			if err != nil {
				return
			}
			if !yield(fmt.Sprintf("[%d]", i), dalipp.Stringf("%d:%s", n, r.Render(val))) {
				return
			}
		}
	}
}

func (p propertyMapPrinter) DisplayHint() dalipp.Hint { return dalipp.HintArray }

func pair(e value.Value) (first, second value.Value, err error) {
	first, err = e.Field("first")
	if err != nil {
		return nil, nil, err
	}
	second, err = e.Field("second")
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// propertyMetadataPrinter prints Internal::PropertyMetadata.
type propertyMetadataPrinter struct{ v value.Value }

func newPropertyMetadata(_ string, v value.Value) (dalipp.Printer, error) {
	return propertyMetadataPrinter{v: v}, nil
}

func (p propertyMetadataPrinter) ToString(r dalipp.Renderer) (dalipp.Text, error) {
	val, err := p.v.Field("value")
	if err != nil {
		return dalipp.NoText, err
	}
	idx, err := p.v.Field("componentIndex")
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.Stringf("value = %s, componentIndex=%s", r.Render(val), r.Render(idx)), nil
}

// customPropertyMetadataPrinter prints Internal::CustomPropertyMetadata.
type customPropertyMetadataPrinter struct{ v value.Value }

func newCustomPropertyMetadata(_ string, v value.Value) (dalipp.Printer, error) {
	return customPropertyMetadataPrinter{v: v}, nil
}

func (p customPropertyMetadataPrinter) ToString(r dalipp.Renderer) (dalipp.Text, error) {
	name, err := p.v.Field("name")
	if err != nil {
		return dalipp.NoText, err
	}
	key, err := intField(p.v, "key")
	if err != nil {
		return dalipp.NoText, err
	}
	child, err := intField(p.v, "childPropertyIndex")
	if err != nil {
		return dalipp.NoText, err
	}
	val, err := p.v.Field("value")
	if err != nil {
		return dalipp.NoText, err
	}
	idx, err := p.v.Field("componentIndex")
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.Stringf("(name = %s, key = %d, childPropertyIndex = %d, value = %s, componentIndex=%s)",
		r.Render(name), key, child, r.Render(val), r.Render(idx)), nil
}
