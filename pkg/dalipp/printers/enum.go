package printers

import "github.com/randalmurphal/dalipp/pkg/dalipp/value"

// enumSpec describes a DALi enum and its declaration order.
type enumSpec struct {
	// typeName is the enum's name relative to the namespace.
	typeName string
	// scope qualifies enumerator names, as a debugger reports them.
	scope string
	names []string
}

// propertyType is Property::Type.
var propertyType = enumSpec{
	typeName: "Property::Type",
	scope:    "Property",
	names: []string{
		"NONE", "BOOLEAN", "FLOAT", "INTEGER", "VECTOR2", "VECTOR3", "VECTOR4",
		"MATRIX3", "MATRIX", "RECTANGLE", "ROTATION", "STRING", "ARRAY", "MAP", "EXTENTS",
	},
}

// treeNodeType is Toolkit::TreeNode::NodeType.
var treeNodeType = enumSpec{
	typeName: "Toolkit::TreeNode::NodeType",
	scope:    "Toolkit::TreeNode",
	names:    []string{"IS_NULL", "OBJECT", "ARRAY", "STRING", "INTEGER", "FLOAT", "BOOLEAN"},
}

// name maps tag to its enumerator name. Enumerators the program declares
// take precedence over the declaration order.
func (e enumSpec) name(v value.Value, ns Namespace, tag int64) (string, bool) {
	var declared value.Type
	if t, err := v.Types().LookupType(ns.Qualify(e.typeName)); err == nil {
		declared = t
	}
	for i, n := range e.names {
		if e.value(declared, ns, n, int64(i)) == tag {
			return n, true
		}
	}
	return "", false
}

func (e enumSpec) value(declared value.Type, ns Namespace, name string, fallback int64) int64 {
	if declared == nil {
		return fallback
	}
	if v, ok := declared.EnumValue(ns.Qualify(e.scope + "::" + name)); ok {
		return v
	}
	if v, ok := declared.EnumValue(name); ok {
		return v
	}
	return fallback
}
