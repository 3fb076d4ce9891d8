package snapshot

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

const sceneYAML = `
types:
  - name: Dali::Property::Type
    enum:
      Dali::Property::BOOLEAN: 1
      Dali::Property::INTEGER: 3
  - name: Dali::Vector<int>
    template_args: [int]
values:
  - name: position
    type: Dali::Vector2
    fields:
      - {name: x, type: float, value: 1.5}
      - {name: y, type: float, value: 2}
  - name: parent
    type: Dali::Actor *
    address: 0x40
    pointer:
      type: Dali::Actor
      address: 0x1000
      dynamic_type: Dali::Internal::Layer
      fields:
        - {name: _vptr, type: "void *", is_null: true, artificial: true}
        - base: true
          type: Dali::Handle
          fields:
            - {name: mId, type: int, value: 7}
        - {name: mName, type: "char *", value: root}
  - name: ids
    type: Dali::Vector<int>
    fields:
      - name: mData
        type: int *
        pointer:
          type: "int [2]"
          elements:
            - {type: int, value: 1}
            - {type: int, value: 2}
  - name: tag
    type: Dali::Property::Type
    value: 3
  - name: gone
    type: float
    unreadable: true
`

// TestDecode_YAML verifies a document builds the described value trees.
func TestDecode_YAML(t *testing.T) {
	snap, err := Decode([]byte(sceneYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, snap.Values, 5)

	t.Run("struct", func(t *testing.T) {
		pos, ok := snap.Value("position")
		require.True(t, ok)
		assert.Equal(t, "Dali::Vector2", pos.Type().Name())

		y, err := value.FieldPath(pos, "y")
		require.NoError(t, err)
		f, err := value.AsFloat64(y)
		require.NoError(t, err)
		assert.Equal(t, 2.0, f)
	})

	t.Run("pointer", func(t *testing.T) {
		parent, _ := snap.Value("parent")
		assert.Equal(t, value.KindPointer, parent.Type().Kind())
		assert.Equal(t, uint64(0x40), parent.Address())
		assert.Equal(t, uint64(0x1000), value.PointerValue(parent))
		assert.Equal(t, "Dali::Internal::Layer *", parent.DynamicType().Name())

		obj, err := parent.Dereference()
		require.NoError(t, err)
		fields := obj.Type().Fields()
		require.Len(t, fields, 3)
		assert.True(t, fields[0].Artificial)
		assert.True(t, fields[1].BaseClass)
		assert.Equal(t, "Dali::Handle", fields[1].Name)

		id, err := value.FieldPath(obj, "Dali::Handle", "mId")
		require.NoError(t, err)
		n, err := value.AsInt64(id)
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)

		name, err := value.FieldPath(obj, "mName")
		require.NoError(t, err)
		s, err := value.AsString(name)
		require.NoError(t, err)
		assert.Equal(t, "root", s)
	})

	t.Run("template args and arrays", func(t *testing.T) {
		ids, _ := snap.Value("ids")
		arg, err := ids.Type().TemplateArgument(0)
		require.NoError(t, err)
		assert.Equal(t, "int", arg.Name())

		data, err := ids.Field("mData")
		require.NoError(t, err)
		elems, err := data.Elements()
		require.NoError(t, err)
		assert.Len(t, elems, 2)
	})

	t.Run("declared enum", func(t *testing.T) {
		tag, _ := snap.Value("tag")
		assert.Equal(t, value.KindEnum, tag.Type().Kind())
		declared, err := tag.Types().LookupType("Dali::Property::Type")
		require.NoError(t, err)
		v, ok := declared.EnumValue("Dali::Property::INTEGER")
		assert.True(t, ok)
		assert.Equal(t, int64(3), v)
	})

	t.Run("unreadable", func(t *testing.T) {
		gone, _ := snap.Value("gone")
		_, ok := gone.Scalar()
		assert.False(t, ok)
	})
}

// TestDecode_JSON verifies JSON numbers are coerced to the record kind.
func TestDecode_JSON(t *testing.T) {
	data := `{"values": [
		{"name": "count", "type": "int", "value": 42},
		{"name": "ratio", "value": 0.25},
		{"name": "flag", "type": "bool", "value": 1},
		{"name": "empty", "type": "Dali::Actor *", "is_null": true}
	]}`
	snap, err := Decode([]byte(data), FormatJSON)
	require.NoError(t, err)

	count, _ := snap.Value("count")
	s, _ := count.Scalar()
	assert.Equal(t, int64(42), s)

	ratio, _ := snap.Value("ratio")
	assert.Equal(t, value.KindFloat, ratio.Type().Kind())

	flag, _ := snap.Value("flag")
	b, err := value.AsBool(flag)
	require.NoError(t, err)
	assert.True(t, b)

	empty, _ := snap.Value("empty")
	assert.True(t, empty.IsNull())
	assert.Equal(t, "Dali::Actor *", empty.Type().Name())
}

// TestDecode_JSONNumbers verifies JSON numbers infer the same kinds as YAML
// and whole floats outside int64 are rejected.
func TestDecode_JSONNumbers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		kind  value.Kind
		want  any
	}{
		{"integer", `7`, value.KindInt, int64(7)},
		{"negative integer", `-7`, value.KindInt, int64(-7)},
		{"beyond int64", `18446744073709551615`, value.KindInt, uint64(18446744073709551615)},
		{"fraction", `7.5`, value.KindFloat, 7.5},
		{"exponent", `1e3`, value.KindFloat, 1000.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromJSON, err := Decode([]byte(`{"values": [{"name": "n", "value": `+tt.value+`}]}`), FormatJSON)
			require.NoError(t, err)
			v, _ := fromJSON.Value("n")
			assert.Equal(t, tt.kind, v.Type().Kind())
			s, _ := v.Scalar()
			assert.Equal(t, tt.want, s)

			fromYAML, err := Decode([]byte("values: [{name: n, value: "+tt.value+"}]"), FormatYAML)
			require.NoError(t, err)
			y, _ := fromYAML.Value("n")
			assert.Equal(t, y.Type().Kind(), v.Type().Kind())
		})
	}

	for _, big := range []string{`1e19`, `-1e19`, `9.3e18`} {
		_, err := Decode([]byte(`{"values": [{"name": "n", "type": "int", "value": `+big+`}]}`), FormatJSON)
		assert.Error(t, err, big)
	}
}

// TestConvert_IntRange verifies whole floats convert only inside int64.
func TestConvert_IntRange(t *testing.T) {
	got, err := convert(-9223372036854775808.0, value.KindInt)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), got)

	got, err = convert(4096.0, value.KindInt)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), got)

	for _, x := range []float64{9223372036854775808.0, 1e300, math.Inf(1), -1e19} {
		_, err := convert(x, value.KindInt)
		assert.Error(t, err, x)
	}
}

// TestDecode_Errors verifies malformed documents are rejected.
func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no values", `values: []`},
		{"unnamed value", `values: [{type: int, value: 1}]`},
		{"unknown kind", `values: [{name: a, type: int, kind: blob, value: 1}]`},
		{"missing payload", `values: [{name: a, type: int}]`},
		{"bad payload", `values: [{name: a, type: int, value: nope}]`},
		{"unnamed field", `values: [{name: a, type: S, fields: [{type: int, value: 1}]}]`},
		{"unnamed type", `types: [{enum: {A: 1}}]
values: [{name: a, type: int, value: 1}]`},
		{"syntax", `values: [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatYAML)
			assert.Error(t, err)
		})
	}

	_, err := Decode([]byte(`values: []`), FormatYAML)
	assert.ErrorIs(t, err, ErrNoValues)

	_, err = Decode(nil, Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// TestEncode_Only verifies a single value can be re-encoded and decoded
// with the shared type declarations.
func TestEncode_Only(t *testing.T) {
	snap, err := Decode([]byte(sceneYAML), FormatYAML)
	require.NoError(t, err)

	doc, err := snap.Document.Only("tag")
	require.NoError(t, err)
	require.Len(t, doc.Values, 1)
	assert.Len(t, doc.Types, 2)

	data, err := Encode(doc, FormatJSON)
	require.NoError(t, err)

	again, err := Decode(data, FormatJSON)
	require.NoError(t, err)
	tag, ok := again.Value("tag")
	require.True(t, ok)
	n, err := value.AsInt64(tag)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	_, err = snap.Document.Only("missing")
	assert.ErrorIs(t, err, ErrValueNotFound)
}

// TestFormatFromPath verifies extension detection.
func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml": FormatYAML, "b.YML": FormatYAML, "c.json": FormatJSON,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatFromPath("d.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// TestLoadFile verifies loading from disk.
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0o600))

	snap, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, snap.Values, 5)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

// TestWatch verifies the snapshot is reloaded after a write.
func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`values: [{name: a, type: int, value: 1}]`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []int64
	)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 10*time.Millisecond, func(s *Snapshot, err error) {
			if err != nil {
				return
			}
			v, _ := s.Value("a")
			n, _ := value.AsInt64(v)
			mu.Lock()
			seen = append(seen, n)
			mu.Unlock()
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`values: [{name: a, type: int, value: 2}]`), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 1 && seen[len(seen)-1] == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
