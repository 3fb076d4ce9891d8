package printers

import (
	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// vectorPrinter prints Vector2, Vector3 and Vector4.
type vectorPrinter struct {
	v      value.Value
	format string
	fields []string
}

func newVector2(_ string, v value.Value) (dalipp.Printer, error) {
	return vectorPrinter{v: v, format: "<%.6g, %.6g>", fields: []string{"x", "y"}}, nil
}

func newVector3(_ string, v value.Value) (dalipp.Printer, error) {
	return vectorPrinter{v: v, format: "<%.6g, %.6g, %.6g>", fields: []string{"x", "y", "z"}}, nil
}

func newVector4(_ string, v value.Value) (dalipp.Printer, error) {
	return vectorPrinter{v: v, format: "<%.6g, %.6g, %.6g, %.6g>", fields: []string{"x", "y", "z", "w"}}, nil
}

func (p vectorPrinter) ToString(dalipp.Renderer) (dalipp.Text, error) {
	args, err := floats(p.v, p.fields...)
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.Stringf(p.format, args...), nil
}

type quaternionPrinter struct{ v value.Value }

func newQuaternion(_ string, v value.Value) (dalipp.Printer, error) {
	return quaternionPrinter{v: v}, nil
}

func (p quaternionPrinter) ToString(dalipp.Renderer) (dalipp.Text, error) {
	vec, err := p.v.Field("mVector")
	if err != nil {
		return dalipp.NoText, err
	}
	args, err := floats(vec, "x", "y", "z", "w")
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.Stringf("<(%.6g, %.6g, %.6g) w=%.6g>", args...), nil
}

type matrixPrinter struct{ v value.Value }

func newMatrix(_ string, v value.Value) (dalipp.Printer, error) {
	return matrixPrinter{v: v}, nil
}

func (p matrixPrinter) ToString(r dalipp.Renderer) (dalipp.Text, error) {
	m, err := p.v.Field("mMatrix")
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.String("[ " + r.Render(m) + " ]"), nil
}

type matrix3Printer struct{ v value.Value }

func newMatrix3(_ string, v value.Value) (dalipp.Printer, error) {
	return matrix3Printer{v: v}, nil
}

func (p matrix3Printer) ToString(dalipp.Renderer) (dalipp.Text, error) {
	m, err := p.v.Field("mElements")
	if err != nil {
		return dalipp.NoText, err
	}
	return dalipp.ValueText(m), nil
}
