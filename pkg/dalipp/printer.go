package dalipp

import (
	"fmt"
	"iter"
	"strings"

	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// Hint tells the caller how to lay out a printer's children.
type Hint string

// Display hints.
const (
	HintNone  Hint = ""
	HintArray Hint = "array"
)

// Text is the display text of a printer: a literal string, a value the
// caller renders with its own printers, or nothing.
type Text struct {
	str string
	val value.Value
	set bool
}

// NoText is the zero Text: the printer contributes no display string.
var NoText = Text{}

// String returns a literal Text.
func String(s string) Text {
	return Text{str: s, set: true}
}

// Stringf returns a formatted literal Text.
func Stringf(format string, args ...any) Text {
	return String(fmt.Sprintf(format, args...))
}

// ValueText returns a Text that is rendered by looking up v's printer.
func ValueText(v value.Value) Text {
	return Text{val: v, set: v != nil}
}

// IsEmpty reports whether the Text carries nothing.
func (t Text) IsEmpty() bool { return !t.set }

// Value returns the value to render, if the Text holds one.
func (t Text) Value() (value.Value, bool) { return t.val, t.val != nil }

// Literal returns the literal string of the Text.
func (t Text) Literal() string { return t.str }

// resolve turns the Text into a display string.
func (t Text) resolve(r Renderer) string {
	if t.val != nil {
		return r.Render(t.val)
	}
	return t.str
}

// Renderer renders nested values with the printers of the current session.
type Renderer interface {
	Render(v value.Value) string
}

// Printer formats one value.
type Printer interface {
	// ToString returns the display text of the value.
	ToString(r Renderer) (Text, error)
}

// ChildrenPrinter is implemented by printers with expandable output.
// Each call starts a fresh traversal.
type ChildrenPrinter interface {
	Children(r Renderer) iter.Seq2[string, Text]
}

// HintPrinter is implemented by printers that request a layout.
type HintPrinter interface {
	DisplayHint() Hint
}

// Factory builds a printer for a value whose basic type name is typeName.
type Factory func(typeName string, v value.Value) (Printer, error)

// Child is one rendered (label, text) pair of structured output.
type Child struct {
	Label string
	Text  string
}

// Output is the rendered result of one printer invocation.
type Output struct {
	// Printer is the name of the entry that produced the output.
	Printer  string
	Text     string
	HasText  bool
	Children []Child
	Hint     Hint
}

// Empty reports whether the output carries neither text nor children.
// Disabled printers produce empty output.
func (o Output) Empty() bool {
	return !o.HasText && len(o.Children) == 0
}

// String assembles the output the way a debugger displays it:
// "text = {children}".
func (o Output) String() string {
	if len(o.Children) == 0 {
		return o.Text
	}

	var b strings.Builder
	if o.HasText {
		b.WriteString(o.Text)
		b.WriteString(" = ")
	}
	b.WriteByte('{')
	switch o.Hint {
	case HintArray:
		for i, c := range o.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Text)
		}
	default:
		for i, c := range o.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Label + " = " + c.Text)
		}
	}
	b.WriteByte('}')
	return b.String()
}
