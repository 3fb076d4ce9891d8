package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	// Update the package-level tracer
	tracer = otel.Tracer("dalipp")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func attrString(attrs []attribute.KeyValue, key string) string {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value.AsString()
		}
	}
	return ""
}

func TestStartFormatSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("creates span with registry and type", func(t *testing.T) {
		_, span := sm.StartFormatSpan(context.Background(), "libdali", "Dali::Vector2")
		require.NotNil(t, span)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "dalipp.format", spans[0].Name)
		assert.Equal(t, "libdali", attrString(spans[0].Attributes, "registry"))
		assert.Equal(t, "Dali::Vector2", attrString(spans[0].Attributes, "type.name"))
	})

	t.Run("nested spans share a trace", func(t *testing.T) {
		exporter.Reset()

		ctx, parent := sm.StartFormatSpan(context.Background(), "libdali", "Dali::Property::Value")
		_, child := sm.StartFormatSpan(ctx, "libdali", "Dali::Vector3")
		child.End()
		parent.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)
		assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
		assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	})
}

func TestStartCaptureSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	_, span := NewSpanManager().StartCaptureSpan(context.Background(), "save", "sess-1")
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "dalipp.capture.save", spans[0].Name)
	assert.Equal(t, "sess-1", attrString(spans[0].Attributes, "session.id"))
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("records error status", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartFormatSpan(context.Background(), "libdali", "Dali::Actor")
		sm.EndSpanWithError(span, errors.New("printer failed"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "printer failed", spans[0].Status.Description)
		assert.NotEmpty(t, spans[0].Events)
	})

	t.Run("ok status without error", func(t *testing.T) {
		exporter.Reset()
		_, span := sm.StartFormatSpan(context.Background(), "libdali", "Dali::Actor")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
	})

	t.Run("nil span is ignored", func(t *testing.T) {
		assert.NotPanics(t, func() { EndSpanWithError(nil, errors.New("x")) })
	})
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	ctx, span := NewSpanManager().StartFormatSpan(context.Background(), "libdali", "GenericThing")
	AddSpanEvent(ctx, "field.skipped", attribute.String("field", "mGone"))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "field.skipped", spans[0].Events[0].Name)

	assert.NotPanics(t, func() {
		AddSpanEvent(context.Background(), "no span")
	})
}
