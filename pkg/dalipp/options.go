package dalipp

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/dalipp/pkg/dalipp/observability"
)

// DefaultGenericMarker routes type names containing it to the generic
// structural printer.
const DefaultGenericMarker = "Generic"

// DefaultMaxDepth bounds how deep nested values are rendered.
const DefaultMaxDepth = 8

// options holds registry configuration.
type options struct {
	genericMarker string
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	cacheTTL      time.Duration
	maxDepth      int
}

// defaultOptions returns the default registry configuration.
func defaultOptions() options {
	return options{
		genericMarker: DefaultGenericMarker,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
		maxDepth:      DefaultMaxDepth,
	}
}

// Option configures a Registry.
type Option func(*options)

// WithGenericMarker sets the substring that routes a type name to the
// generic structural printer. An empty marker disables the fallback.
// Default: "Generic"
func WithGenericMarker(marker string) Option {
	return func(o *options) {
		o.genericMarker = marker
	}
}

// WithLogger enables structured logging of resolutions, skipped fields and
// printer failures.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
//	r := dalipp.New("libdali", dalipp.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		if enabled {
			o.metrics = observability.NewMetricsRecorder()
		} else {
			o.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans using the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(o *options) {
		if enabled {
			o.spans = observability.NewSpanManager()
		} else {
			o.spans = observability.NoopSpanManager{}
		}
	}
}

// WithResolveCache memoizes type name resolution for ttl. Zero disables
// the cache.
func WithResolveCache(ttl time.Duration) Option {
	return func(o *options) {
		if ttl >= 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithMaxDepth limits how many levels of nested values Render expands.
// Default: 8
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}
