package printers

import (
	"fmt"
	"iter"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// vectorContainerPrinter prints Dali::Vector<T> as "Count:N" with one child
// per item. Null pointer items are shown as 0.
type vectorContainerPrinter struct {
	items []value.Value
}

func newVector(_ string, v value.Value) (dalipp.Printer, error) {
	data, err := v.Field("mData")
	if err != nil {
		return nil, err
	}
	if data.IsNull() {
		return vectorContainerPrinter{}, nil
	}
	items, err := data.Elements()
	if err != nil {
		return nil, err
	}
	if itemType, err := v.Type().TemplateArgument(0); err == nil {
		items = retype(items, itemType)
	}
	return vectorContainerPrinter{items: items}, nil
}

// retype views each item as t when the item's own type is unknown.
func retype(items []value.Value, t value.Type) []value.Value {
	out := make([]value.Value, len(items))
	for i, it := range items {
		out[i] = it
		if it.Type() != nil {
			continue
		}
		if cast, err := it.ReinterpretAs(t); err == nil {
			out[i] = cast
		}
	}
	return out
}

func (p vectorContainerPrinter) ToString(dalipp.Renderer) (dalipp.Text, error) {
	return dalipp.Stringf("Count:%d", len(p.items)), nil
}

func (p vectorContainerPrinter) Children(dalipp.Renderer) iter.Seq2[string, dalipp.Text] {
	return func(yield func(string, dalipp.Text) bool) {
		for i, it := range p.items {
			text := dalipp.ValueText(it)
			if t := it.Type(); t != nil && t.Kind() == value.KindPointer && it.IsNull() {
				text = dalipp.String("0")
			}
			if !yield(fmt.Sprintf("[%d]", i), text) {
				return
			}
		}
	}
}
