package dalipp

import (
	"context"
	"iter"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/dalipp/pkg/dalipp/observability"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// GenericName is the name of the generic structural printer.
const GenericName = "Generic"

// genericHeader is the display text of the generic printer.
const genericHeader = "Generic object with the following members:"

// Members yields the readable members of v as (qualified name, value) pairs.
//
// Artificial, unnamed, untyped, function, method and void members are
// skipped. Base-class subobjects that have members of their own are
// flattened as "Base :: member". A member that cannot be read is skipped
// and reported to onSkip, which may be nil.
//
// Each range over the result starts a fresh traversal.
func Members(v value.Value, onSkip func(field string, err error)) iter.Seq2[string, value.Value] {
	return func(yield func(string, value.Value) bool) {
		walkMembers(v, "", onSkip, yield)
	}
}

func walkMembers(v value.Value, prefix string, onSkip func(string, error), yield func(string, value.Value) bool) bool {
	if v == nil || v.Type() == nil {
		return true
	}
	for _, f := range v.Type().Fields() {
		if !printable(f) {
			continue
		}
		fv, err := v.Field(f.Name)
		if err != nil {
			if onSkip != nil {
				onSkip(prefix+f.Name, err)
			}
			continue
		}
		if f.BaseClass && len(f.Type.Fields()) > 0 {
			if !walkMembers(fv, prefix+f.Name+" :: ", onSkip, yield) {
				return false
			}
			continue
		}
		if !yield(prefix+f.Name, fv) {
			return false
		}
	}
	return true
}

func printable(f value.FieldDesc) bool {
	if f.Artificial || f.Name == "" || f.Type == nil {
		return false
	}
	k := f.Type.Kind()
	return !k.IsCallable() && k != value.KindVoid
}

// genericPrinter dumps the members of any struct value.
type genericPrinter struct {
	v        value.Value
	typeName string
	reg      *Registry
}

// newGeneric is the factory of the generic entry.
func (r *Registry) newGeneric(typeName string, v value.Value) (Printer, error) {
	return &genericPrinter{v: v, typeName: typeName, reg: r}, nil
}

// ToString implements Printer.
func (g *genericPrinter) ToString(Renderer) (Text, error) {
	return String(genericHeader), nil
}

// Children implements ChildrenPrinter.
func (g *genericPrinter) Children(r Renderer) iter.Seq2[string, Text] {
	ctx := context.Background()
	if cr, ok := r.(interface{ Context() context.Context }); ok {
		ctx = cr.Context()
	}
	onSkip := func(field string, err error) {
		observability.LogFieldSkipped(g.reg.opts.logger, g.typeName, field, err)
		g.reg.opts.metrics.RecordFieldSkipped(ctx, g.typeName)
		g.reg.opts.spans.AddSpanEvent(ctx, "dalipp.field.skipped",
			attribute.String("type.name", g.typeName),
			attribute.String("field", field),
		)
	}
	return func(yield func(string, Text) bool) {
		for name, fv := range Members(g.v, onSkip) {
			if !yield(name, ValueText(fv)) {
				return
			}
		}
	}
}
