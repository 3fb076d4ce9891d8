package printers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// Test fixtures laid out the way the printers read DALi objects.

var (
	intType    = value.Int("int")
	floatType  = value.Float("float")
	charType   = value.Int("char")
	stringType = value.String("std::string")
)

func num(n int64) *value.Node { return value.NewScalar(intType, n) }

func flt(f float64) *value.Node { return value.NewScalar(floatType, f) }

func str(s string) *value.Node { return value.NewScalar(stringType, s) }

// cstr builds a char pointer to s.
func cstr(s string) *value.Node {
	return value.NewPointer(value.NewScalar(charType, int64(0)).WithAddress(0x7000)).WithScalar(s)
}

func vec2(ns Namespace, x, y float64) *value.Node {
	return value.Object(ns.Qualify("Vector2")).Set("x", flt(x)).Set("y", flt(y))
}

func vec4(ns Namespace, x, y, z, w float64) *value.Node {
	return value.Object(ns.Qualify("Vector4")).
		Set("x", flt(x)).Set("y", flt(y)).Set("z", flt(z)).Set("w", flt(w))
}

// Property::Type tags in declaration order.
const (
	tagNone    = 0
	tagBoolean = 1
	tagFloat   = 2
	tagInteger = 3
	tagVector2 = 4
	tagVector4 = 6
	tagMatrix3 = 7
	tagRect    = 9
	tagRot     = 10
	tagString  = 11
	tagArray   = 12
	tagMap     = 13
)

// propValue builds a Property::Value whose implementation holds tag and payload.
func propValue(ns Namespace, tag int64, payload *value.Node) *value.Node {
	dbg := value.Object(ns.Qualify("DebugPropertyValue")).
		Set("type", value.NewScalar(value.Enum(ns.Qualify("Property::Type"), nil), tag)).
		Set("value", payload)
	return value.Object(ns.Qualify("Property::Value")).Set("mImpl", value.NewPointer(dbg))
}

// propArray builds a Property::Array of the given values.
func propArray(ns Namespace, elems ...*value.Node) *value.Node {
	impl := value.NewArray(value.Struct(ns.Qualify("Property::Value")), elems...)
	return value.Object(ns.Qualify("Property::Array")).Set("mImpl", value.NewPointer(impl))
}

type strEntry struct {
	key string
	val *value.Node
}

type intEntry struct {
	key int64
	val *value.Node
}

// propMap builds a Property::Map with string keyed and int keyed entries.
func propMap(ns Namespace, strs []strEntry, ints []intEntry) *value.Node {
	pairType := value.Struct("std::pair<std::string const, " + ns.Qualify("Property::Value") + ">")
	var strPairs, intPairs []*value.Node
	for _, e := range strs {
		strPairs = append(strPairs, value.Object(pairType.Name()).Set("first", str(e.key)).Set("second", e.val))
	}
	for _, e := range ints {
		intPairs = append(intPairs, value.Object(pairType.Name()).Set("first", num(e.key)).Set("second", e.val))
	}
	impl := value.Object(ns.Qualify("DebugPropertyValueMap")).
		Set("stringValues", value.NewArray(pairType, strPairs...)).
		Set("intValues", value.NewArray(pairType, intPairs...))
	return value.Object(ns.Qualify("Property::Map")).Set("mImpl", value.NewPointer(impl))
}

// handle builds a handle-like object of typeName pointing at obj.
func handle(typeName string, obj *value.Node) *value.Node {
	return value.Object(typeName).Set("mObjectHandle",
		value.Object("IntrusivePtr<BaseObject>").Set("mPtr", value.NewPointer(obj)))
}

// newHost installs the registry of ns into a fresh host.
func newHost(t *testing.T, ns Namespace) *dalipp.Host {
	t.Helper()
	h := dalipp.NewHost()
	_, err := Install(h, ns)
	require.NoError(t, err)
	return h
}

// render renders v with the printers of ns.
func render(t *testing.T, ns Namespace, v value.Value) string {
	t.Helper()
	return newHost(t, ns).Render(context.Background(), v)
}
