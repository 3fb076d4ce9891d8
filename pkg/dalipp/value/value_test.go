package value_test

import (
	"testing"

	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicTypeName(t *testing.T) {
	vec := value.Struct("Dali::Vector2")
	tests := []struct {
		name string
		typ  value.Type
		want string
	}{
		{"struct", vec, "Dali::Vector2"},
		{"reference", value.ReferenceTo(vec), "Dali::Vector2"},
		{"typedef chain", value.Typedef("B", value.Typedef("A", vec)), "Dali::Vector2"},
		{"reference to typedef", value.ReferenceTo(value.Typedef("A", vec)), "Dali::Vector2"},
		{"const qualified", value.Struct("const Dali::Vector3"), "Dali::Vector3"},
		{"trailing const", value.Struct("Dali::Vector3 const"), "Dali::Vector3"},
		{"templated", value.Struct("Dali::Vector<int>"), "Dali::Vector<int>"},
		{"enum", value.Enum("Dali::Property::Type", nil), "Dali::Property::Type"},
		{"pointer has no tag", value.PointerTo(vec), ""},
		{"builtin has no tag", value.Int("int"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, value.BasicTypeName(tt.typ))
		})
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []value.Kind{value.KindStruct, value.KindPointer, value.KindMethodPtr, value.KindVoid} {
		got, ok := value.ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}

	_, ok := value.ParseKind("nope")
	assert.False(t, ok)
	assert.Equal(t, "unknown", value.Kind(99).String())
}

func TestNodeField(t *testing.T) {
	f := value.Float("float")
	v := value.Object("Dali::Vector2").
		Set("x", value.NewScalar(f, 1.5)).
		Set("y", value.Unreadable(f))

	t.Run("readable member", func(t *testing.T) {
		x, err := v.Field("x")
		require.NoError(t, err)
		got, err := value.AsFloat64(x)
		require.NoError(t, err)
		assert.Equal(t, 1.5, got)
	})

	t.Run("unreadable member", func(t *testing.T) {
		_, err := v.Field("y")
		require.Error(t, err)
		assert.ErrorIs(t, err, value.ErrUnreadable)

		var fe *value.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "y", fe.Field)
		assert.Equal(t, "Dali::Vector2", fe.Type)
	})

	t.Run("missing member", func(t *testing.T) {
		_, err := v.Field("z")
		assert.ErrorIs(t, err, value.ErrNoField)
	})

	t.Run("declared but not populated", func(t *testing.T) {
		typ := value.Struct("S", value.Member("a", value.Int("int")))
		_, err := value.NewStruct(typ).Field("a")
		assert.ErrorIs(t, err, value.ErrUnreadable)
	})

	t.Run("members are declared in order", func(t *testing.T) {
		fields := v.Type().Fields()
		require.Len(t, fields, 2)
		assert.Equal(t, "x", fields[0].Name)
		assert.Equal(t, "y", fields[1].Name)
	})
}

func TestNodePointer(t *testing.T) {
	target := value.Object("Dali::Internal::Actor").
		Set("mId", value.NewScalar(value.Int("int"), 7))
	ptr := value.NewPointer(target).WithAddress(0x1000)

	t.Run("field through pointer", func(t *testing.T) {
		id, err := ptr.Field("mId")
		require.NoError(t, err)
		n, err := value.AsInt64(id)
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
	})

	t.Run("dereference", func(t *testing.T) {
		got, err := ptr.Dereference()
		require.NoError(t, err)
		assert.Equal(t, "Dali::Internal::Actor", value.TypeName(got))
	})

	t.Run("null", func(t *testing.T) {
		null := value.NewPointer(nil)
		assert.True(t, null.IsNull())
		_, err := null.Dereference()
		assert.ErrorIs(t, err, value.ErrNullPointer)
		_, err = null.Field("mId")
		assert.ErrorIs(t, err, value.ErrNullPointer)
	})

	t.Run("not a pointer", func(t *testing.T) {
		_, err := target.Dereference()
		assert.ErrorIs(t, err, value.ErrNotPointer)
	})

	t.Run("dynamic type follows pointee", func(t *testing.T) {
		derived := value.Struct("Dali::Internal::CustomActor")
		obj := value.Object("Dali::BaseObject").WithDynamicType(derived)
		p := value.NewPointer(obj)
		dyn := p.DynamicType()
		require.NotNil(t, dyn)
		assert.Equal(t, value.KindPointer, dyn.Kind())
		assert.Equal(t, "Dali::Internal::CustomActor", dyn.Target().Name())
	})
}

func TestNodeReinterpretAs(t *testing.T) {
	vec2 := value.Struct("Dali::Vector2")
	payload := value.Object("blob").
		Set("x", value.NewScalar(value.Float("float"), 3)).
		Set("y", value.NewScalar(value.Float("float"), 4))

	t.Run("struct to pointer", func(t *testing.T) {
		p, err := payload.ReinterpretAs(value.PointerTo(vec2))
		require.NoError(t, err)
		target, err := p.Dereference()
		require.NoError(t, err)
		assert.Equal(t, "Dali::Vector2", value.TypeName(target))
		x, err := target.Field("x")
		require.NoError(t, err)
		f, err := value.AsFloat64(x)
		require.NoError(t, err)
		assert.Equal(t, 3.0, f)
	})

	t.Run("pointer to pointer retypes pointee", func(t *testing.T) {
		p := value.NewPointer(payload)
		cast, err := p.ReinterpretAs(value.PointerTo(vec2))
		require.NoError(t, err)
		target, err := cast.Dereference()
		require.NoError(t, err)
		assert.Equal(t, "Dali::Vector2", value.TypeName(target))
		assert.Equal(t, "blob", value.TypeName(payload), "original must be untouched")
	})

	t.Run("scalar keeps payload", func(t *testing.T) {
		n := value.NewScalar(value.Int("long int"), 42)
		cast, err := n.ReinterpretAs(value.Int("int"))
		require.NoError(t, err)
		got, err := value.AsInt64(cast)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
	})

	t.Run("unreadable", func(t *testing.T) {
		_, err := value.Unreadable(vec2).ReinterpretAs(vec2)
		assert.ErrorIs(t, err, value.ErrUnreadable)
	})
}

func TestNodeElements(t *testing.T) {
	i := value.Int("int")
	arr := value.NewArray(i, value.NewScalar(i, 1), value.NewScalar(i, 2))

	elems, err := arr.Elements()
	require.NoError(t, err)
	require.Len(t, elems, 2)

	ptr := value.NewPointer(arr)
	elems, err = ptr.Elements()
	require.NoError(t, err)
	assert.Len(t, elems, 2)

	_, err = value.Unreadable(i).Elements()
	assert.ErrorIs(t, err, value.ErrUnreadable)
}

func TestTypeTable(t *testing.T) {
	tt := value.NewTypeTable()
	vec := value.Struct("Dali::Vector3")
	tt.Define(vec)

	got, err := tt.LookupType("Dali::Vector3")
	require.NoError(t, err)
	assert.Same(t, vec, got)

	ptr, err := tt.LookupType("Dali::Vector3 *")
	require.NoError(t, err)
	assert.Equal(t, value.KindPointer, ptr.Kind())
	assert.Same(t, vec, ptr.Target())

	_, err = tt.LookupType("const int")
	assert.NoError(t, err)

	_, err = tt.LookupType("Nope")
	assert.ErrorIs(t, err, value.ErrTypeNotFound)
}

func TestBindPropagates(t *testing.T) {
	tt := value.NewTypeTable()
	child := value.NewScalar(value.Int("int"), 1)
	root := value.Object("Root").Set("a", child)

	assert.NotSame(t, tt, root.Types())
	root.Bind(tt)
	assert.Same(t, tt, root.Types())
	assert.Same(t, tt, child.Types())
}

func TestConversions(t *testing.T) {
	i := value.Int("int")

	n, err := value.AsInt64(value.NewScalar(i, uint8(3)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	b, err := value.AsBool(value.NewScalar(i, 2))
	require.NoError(t, err)
	assert.True(t, b)

	_, err = value.AsInt64(value.NewScalar(value.Float("float"), 1.25))
	assert.Error(t, err)

	_, err = value.AsString(value.Object("S"))
	assert.ErrorIs(t, err, value.ErrUnreadable)

	s, err := value.AsString(value.NewPointer(nil).WithScalar("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
}

func TestFieldPath(t *testing.T) {
	actor := value.Object("Dali::Internal::Actor").
		Set("mName", value.NewScalar(value.String("std::string"), "root"))
	handle := value.Object("Dali::Handle").
		Set("mObjectHandle", value.Object("Dali::IntrusivePtr").Set("mPtr", value.NewPointer(actor)))

	got, err := value.FieldPath(handle, "mObjectHandle", "mPtr", "mName")
	require.NoError(t, err)
	s, err := value.AsString(got)
	require.NoError(t, err)
	assert.Equal(t, "root", s)

	_, err = value.FieldPath(handle, "mObjectHandle", "missing")
	assert.ErrorIs(t, err, value.ErrNoField)
}
