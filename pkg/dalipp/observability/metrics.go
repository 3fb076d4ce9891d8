package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records printer metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordResolve records one type-name resolution and how it matched
	// ("exact", "template", "generic" or "none").
	RecordResolve(ctx context.Context, registry, match string)

	// RecordFormat records a printer invocation with its duration and error status.
	RecordFormat(ctx context.Context, printer string, duration time.Duration, err error)

	// RecordFieldSkipped records a member omitted because it could not be read.
	RecordFieldSkipped(ctx context.Context, typeName string)

	// RecordCapture records a stored value capture.
	RecordCapture(ctx context.Context, sessionID string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	resolutions   metric.Int64Counter
	formatLatency metric.Float64Histogram
	formatErrors  metric.Int64Counter
	fieldsSkipped metric.Int64Counter
	captureSize   metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("dalipp")

	resolutions, err := meter.Int64Counter("dalipp.resolve.total",
		metric.WithDescription("Number of type name resolutions"),
	)
	if err != nil {
		return nil, err
	}

	formatLatency, err := meter.Float64Histogram("dalipp.format.latency_ms",
		metric.WithDescription("Printer invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	formatErrors, err := meter.Int64Counter("dalipp.format.errors",
		metric.WithDescription("Number of failed printer invocations"),
	)
	if err != nil {
		return nil, err
	}

	fieldsSkipped, err := meter.Int64Counter("dalipp.fields.skipped",
		metric.WithDescription("Number of unreadable members left out of structured output"),
	)
	if err != nil {
		return nil, err
	}

	captureSize, err := meter.Int64Histogram("dalipp.capture.size_bytes",
		metric.WithDescription("Captured value size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		resolutions:   resolutions,
		formatLatency: formatLatency,
		formatErrors:  formatErrors,
		fieldsSkipped: fieldsSkipped,
		captureSize:   captureSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordResolve records a resolution.
func (m *otelMetrics) RecordResolve(ctx context.Context, registry, match string) {
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", registry),
		attribute.String("match", match),
	))
}

// RecordFormat records a printer invocation.
func (m *otelMetrics) RecordFormat(ctx context.Context, printer string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("printer", printer))

	m.formatLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.formatErrors.Add(ctx, 1, attrs)
	}
}

// RecordFieldSkipped records a skipped member.
func (m *otelMetrics) RecordFieldSkipped(ctx context.Context, typeName string) {
	m.fieldsSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("type_name", typeName)))
}

// RecordCapture records a capture save.
func (m *otelMetrics) RecordCapture(ctx context.Context, sessionID string, sizeBytes int64) {
	m.captureSize.Record(ctx, sizeBytes, metric.WithAttributes(attribute.String("session_id", sessionID)))
}
