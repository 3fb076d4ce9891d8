package printers

import (
	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// objectPtr returns mObjectHandle.mPtr, the pointer to the internal object.
func objectPtr(v value.Value) (value.Value, error) {
	return value.FieldPath(v, "mObjectHandle", "mPtr")
}

// unwrapCustomActor returns the class a handle really refers to: custom
// actors report the class of their user implementation.
func unwrapCustomActor(ns Namespace, ptr value.Value) (value.Type, error) {
	target := dynamicTarget(ptr)
	customName := ns.Qualify("Internal::CustomActor")
	if target == nil || target.Name() != customName {
		return target, nil
	}
	custom, err := ptr.ReinterpretAs(value.PointerTo(lookupType(ptr, customName)))
	if err != nil {
		return nil, err
	}
	impl, err := value.FieldPath(custom, "mImpl", "mPtr")
	if err != nil {
		return nil, err
	}
	return dynamicTarget(impl), nil
}

// handlePrinter prints "Handle(address) => object".
type handlePrinter struct {
	v  value.Value
	ns Namespace
}

func handleFactory(ns Namespace) dalipp.Factory {
	return func(_ string, v value.Value) (dalipp.Printer, error) {
		return handlePrinter{v: v, ns: ns}, nil
	}
}

func (p handlePrinter) ToString(r dalipp.Renderer) (dalipp.Text, error) {
	ptr, err := objectPtr(p.v)
	if err != nil {
		return dalipp.NoText, err
	}
	head := "Handle(" + hexAddr(p.v.Address()) + ") => "

	if p.ns == DaliVk {
		// The toolkit prints the object itself rather than its class. Only
		// Handle resolves here, so the cast always applies.
		if dyn := ptr.DynamicType(); dyn != nil {
			if cast, err := ptr.ReinterpretAs(dyn); err == nil {
				ptr = cast
			}
		}
		obj, err := ptr.Dereference()
		if err != nil {
			return dalipp.NoText, err
		}
		return dalipp.String(head + r.Render(obj)), nil
	}

	class, err := unwrapCustomActor(p.ns, ptr)
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.String(head + typeString(class)), nil
}

// actorPrinter prints an actor's class, name, node id and node.
type actorPrinter struct {
	v  value.Value
	ns Namespace
}

func actorFactory(ns Namespace) dalipp.Factory {
	return func(_ string, v value.Value) (dalipp.Printer, error) {
		return actorPrinter{v: v, ns: ns}, nil
	}
}

func (p actorPrinter) ToString(r dalipp.Renderer) (dalipp.Text, error) {
	ptr, err := objectPtr(p.v)
	if err != nil {
		return dalipp.NoText, err
	}
	internal, err := ptr.ReinterpretAs(value.PointerTo(lookupType(ptr, p.ns.Qualify("Internal::Actor"))))
	if err != nil {
		return dalipp.NoText, err
	}
	if p.ns == DaliVk {
		return p.toolkitString(internal, r)
	}

	name, err := internal.Field("mName")
	if err != nil {
		return dalipp.NoText, err
	}
	class, err := unwrapCustomActor(p.ns, ptr)
	if err != nil {
		return dalipp.NoText, err
	}
	node, err := internal.Field("mNode")
	if err != nil {
		return dalipp.NoText, err
	}
	id, err := intField(node, "mId")
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.Stringf("[%s %s(%d) %s %s]",
		typeString(class), r.Render(name), id, typeString(node.DynamicType()), hexAddr(node.Address())), nil
}

// toolkitString prints "[name(id) Node:0x...]".
func (p actorPrinter) toolkitString(internal value.Value, r dalipp.Renderer) (dalipp.Text, error) {
	actor, err := internal.Dereference()
	if err != nil {
		return dalipp.NoText, err
	}
	name, err := actor.Field("mName")
	if err != nil {
		return dalipp.NoText, err
	}
	id, err := intField(actor, "mId")
	if err != nil {
		return dalipp.NoText, err
	}
	node, err := actor.Field("mNode")
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.Stringf("[%s(%d) Node:%s]", r.Render(name), id, hexAddr(value.PointerValue(node))), nil
}

// materialPrinter prints a material through its object handle.
type materialPrinter struct{ v value.Value }

func newMaterial(_ string, v value.Value) (dalipp.Printer, error) {
	return materialPrinter{v: v}, nil
}

func (p materialPrinter) ToString(dalipp.Renderer) (dalipp.Text, error) {
	h, err := p.v.Field("mObjectHandle")
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.ValueText(h), nil
}
