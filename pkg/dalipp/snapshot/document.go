package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Sentinel errors for snapshot operations.
var (
	// ErrUnsupportedFormat indicates a file extension or format name that
	// is neither YAML nor JSON.
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")

	// ErrNoValues indicates a document without any values.
	ErrNoValues = errors.New("snapshot has no values")

	// ErrValueNotFound indicates a lookup by name failed.
	ErrValueNotFound = errors.New("snapshot value not found")
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
}

// Document is the serialized form of a snapshot.
type Document struct {
	Types  []TypeRecord `yaml:"types,omitempty" json:"types,omitempty"`
	Values []Record     `yaml:"values" json:"values"`
}

// TypeRecord declares a type the values refer to by name.
type TypeRecord struct {
	Name string `yaml:"name" json:"name"`
	// Enum lists enumerators; a non-empty map makes the type an enum.
	Enum map[string]int64 `yaml:"enum,omitempty" json:"enum,omitempty"`
	// TemplateArgs names the template arguments of a class template
	// instance, in order.
	TemplateArgs []string `yaml:"template_args,omitempty" json:"template_args,omitempty"`
}

// Record is one value, or one member of a value.
type Record struct {
	// Name is the variable name for top-level values and the member name
	// for fields. Base-class records may leave it empty.
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Type        string `yaml:"type" json:"type"`
	Kind        string `yaml:"kind,omitempty" json:"kind,omitempty"`
	DynamicType string `yaml:"dynamic_type,omitempty" json:"dynamic_type,omitempty"`
	Address     uint64 `yaml:"address,omitempty" json:"address,omitempty"`

	// Value is the scalar payload, or the string a char pointer refers to.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`

	Null       bool `yaml:"is_null,omitempty" json:"is_null,omitempty"`
	Unreadable bool `yaml:"unreadable,omitempty" json:"unreadable,omitempty"`
	Base       bool `yaml:"base,omitempty" json:"base,omitempty"`
	Artificial bool `yaml:"artificial,omitempty" json:"artificial,omitempty"`

	Pointer  *Record  `yaml:"pointer,omitempty" json:"pointer,omitempty"`
	Fields   []Record `yaml:"fields,omitempty" json:"fields,omitempty"`
	Elements []Record `yaml:"elements,omitempty" json:"elements,omitempty"`
}

// UnmarshalJSON decodes a record keeping whole numbers as int64, the way
// YAML decodes them.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var p plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil {
		return err
	}
	if n, ok := p.Value.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			p.Value = i
		} else if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			p.Value = u
		} else if f, err := n.Float64(); err == nil {
			p.Value = f
		} else {
			return fmt.Errorf("record %q: value %s: %w", p.Name, n, err)
		}
	}
	*r = Record(p)
	return nil
}

// Only returns a document holding the shared types and the single value
// named name.
func (d Document) Only(name string) (Document, error) {
	for _, rec := range d.Values {
		if rec.Name == name {
			return Document{Types: d.Types, Values: []Record{rec}}, nil
		}
	}
	return Document{}, fmt.Errorf("%q: %w", name, ErrValueNotFound)
}
