package dalipp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/randalmurphal/dalipp/pkg/dalipp/observability"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// formatter is a source of printers: a Registry or a Host.
type formatter interface {
	// format renders v. ok is false when no printer applies.
	format(ctx context.Context, v value.Value, rend *renderer) (out Output, ok bool, err error)
}

// renderer renders nested values through a formatter, one level deeper
// than its parent.
type renderer struct {
	ctx      context.Context
	src      formatter
	depth    int
	maxDepth int
	// logger reports printer failures that fall back to the default
	// representation. Nil when the source logs its own failures.
	logger *slog.Logger
}

// Compile-time interface check.
var _ Renderer = (*renderer)(nil)

func newRenderer(ctx context.Context, src formatter, maxDepth int, logger *slog.Logger) *renderer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &renderer{ctx: ctx, src: src, maxDepth: maxDepth, logger: logger}
}

// withContext returns a copy of r that renders under ctx.
func (r *renderer) withContext(ctx context.Context) *renderer {
	cp := *r
	cp.ctx = ctx
	return &cp
}

// Context returns the context of the rendering pass.
func (r *renderer) Context() context.Context { return r.ctx }

// Render implements Renderer.
func (r *renderer) Render(v value.Value) string {
	if v == nil {
		return "<nil>"
	}
	if r.depth >= r.maxDepth {
		return "{...}"
	}
	child := &renderer{ctx: r.ctx, src: r.src, depth: r.depth + 1, maxDepth: r.maxDepth, logger: r.logger}

	out, ok, err := r.src.format(r.ctx, v, child)
	if err != nil {
		r.logFailure(v, err)
	}
	if err == nil && ok && !out.Empty() {
		return out.String()
	}
	return defaultString(v, child)
}

func (r *renderer) logFailure(v value.Value, err error) {
	typeName, printer := value.BasicTypeName(v.Type()), ""
	var fe *FormatError
	if errors.As(err, &fe) {
		typeName, printer = fe.TypeName, fe.Printer
	}
	observability.LogFormatError(r.logger, typeName, printer, err)
}

// collectOutput runs p to completion. Panics inside the printer are
// returned as *PanicError.
func collectOutput(name string, p Printer, rend Renderer) (out Output, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = Output{}
			err = &PanicError{Printer: name, Value: rec, Stack: string(debug.Stack())}
		}
	}()

	out.Printer = name
	text, err := p.ToString(rend)
	if err != nil {
		return Output{}, err
	}
	if !text.IsEmpty() {
		out.Text = text.resolve(rend)
		out.HasText = true
	}
	if hp, ok := p.(HintPrinter); ok {
		out.Hint = hp.DisplayHint()
	}
	if cp, ok := p.(ChildrenPrinter); ok {
		for label, t := range cp.Children(rend) {
			out.Children = append(out.Children, Child{Label: label, Text: t.resolve(rend)})
		}
	}
	return out, nil
}

// defaultString renders v the way a debugger does without a printer.
func defaultString(v value.Value, rend *renderer) string {
	t := v.Type()
	for t != nil && t.Kind() == value.KindTypedef {
		t = t.Target()
	}
	kind := value.KindStruct
	if t != nil {
		kind = t.Kind()
	}

	switch kind {
	case value.KindPointer:
		return pointerString(v, t)
	case value.KindReference:
		inner, err := v.Dereference()
		if err != nil {
			return "<optimized out>"
		}
		return rend.Render(inner)
	}

	if s, ok := v.Scalar(); ok {
		if kind == value.KindEnum {
			if name, ok := enumeratorName(t, s); ok {
				return name
			}
		}
		return ScalarString(s)
	}

	if kind == value.KindArray {
		return elementsString(v, rend)
	}
	if kind == value.KindStruct && t != nil {
		return structString(v, t, rend)
	}
	return "<optimized out>"
}

// ScalarString formats a leaf payload: strings quoted, floats in %g style,
// integers in decimal.
func ScalarString(s any) string {
	switch x := s.(type) {
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func pointerString(v value.Value, t value.Type) string {
	if v.IsNull() {
		return "0x0"
	}
	addr := fmt.Sprintf("0x%x", value.PointerValue(v))
	if s, ok := v.Scalar(); ok {
		if str, isStr := s.(string); isStr {
			return addr + " " + strconv.Quote(str)
		}
	}
	return fmt.Sprintf("(%s) %s", t.Name(), addr)
}

func enumeratorName(t value.Type, s any) (string, bool) {
	lister, ok := t.(interface{ Enumerators() map[string]int64 })
	if !ok {
		return "", false
	}
	n, ok := s.(int64)
	if !ok {
		if u, isU := s.(uint64); isU {
			n, ok = int64(u), true
		}
	}
	if !ok {
		return "", false
	}
	for name, val := range lister.Enumerators() {
		if val == n {
			return name, true
		}
	}
	return "", false
}

func elementsString(v value.Value, rend *renderer) string {
	elems, err := v.Elements()
	if err != nil {
		return "<optimized out>"
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = rend.Render(e)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func structString(v value.Value, t value.Type, rend *renderer) string {
	var parts []string
	for _, f := range t.Fields() {
		if f.Artificial || f.Name == "" {
			continue
		}
		if f.Type != nil && f.Type.Kind().IsCallable() {
			continue
		}
		label := f.Name
		if f.BaseClass {
			label = "<" + f.Name + ">"
		}
		fv, err := v.Field(f.Name)
		if err != nil {
			parts = append(parts, label+" = <optimized out>")
			continue
		}
		parts = append(parts, label+" = "+rend.Render(fv))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
