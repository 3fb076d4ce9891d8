package printers

import (
	"strconv"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// treeNodePrinter prints a Toolkit::TreeNode as "{ name:..., value:... }".
type treeNodePrinter struct {
	v  value.Value
	ns Namespace
}

func treeNodeFactory(ns Namespace) dalipp.Factory {
	return func(_ string, v value.Value) (dalipp.Printer, error) {
		return treeNodePrinter{v: v, ns: ns}, nil
	}
}

func (p treeNodePrinter) ToString(dalipp.Renderer) (dalipp.Text, error) {
	tag, err := intField(p.v, "mType")
	if err != nil {
		return dalipp.NoText, err
	}

	name := "{ name:"
	nameVal, err := p.v.Field("mName")
	if err != nil {
		return dalipp.NoText, err
	}
	if nameVal.IsNull() {
		name += "None, "
	} else {
		s, err := value.AsString(nameVal)
		if err != nil {
			return dalipp.NoText, err
		}
		name += strconv.Quote(s) + ", "
	}

	kind, _ := treeNodeType.name(p.v, p.ns, tag)
	switch kind {
	case "IS_NULL":
		return dalipp.String(name + "value:NULL}"), nil
	case "STRING":
		s, err := value.FieldPath(p.v, "mStringValue")
		if err != nil {
			return dalipp.NoText, err
		}
		str, err := value.AsString(s)
		if err != nil {
			return dalipp.NoText, err
		}
		return dalipp.String(name + "value:" + strconv.Quote(str) + "}"), nil
	case "INTEGER":
		n, err := intField(p.v, "mIntValue")
		if err != nil {
			return dalipp.NoText, err
		}
		return dalipp.Stringf("%svalue:%d }", name, n), nil
	case "FLOAT":
		f, err := floatField(p.v, "mFloatValue")
		if err != nil {
			return dalipp.NoText, err
		}
		return dalipp.Stringf("%svalue:%f }", name, f), nil
	case "BOOLEAN":
		n, err := intField(p.v, "mIntValue")
		if err != nil {
			return dalipp.NoText, err
		}
		if n != 0 {
			return dalipp.String(name + "value:true }"), nil
		}
		return dalipp.String(name + "value:false }"), nil
	}
	return dalipp.String(name + "value:OTHER }"), nil
}
