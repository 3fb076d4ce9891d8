// Package observability provides structured logging, metrics and tracing
// for printer resolution and formatting.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with registry and type_name fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "libdali", "Dali::Vector2")
//	enriched.Debug("formatting") // includes registry, type_name
func EnrichLogger(logger *slog.Logger, registry, typeName string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("registry", registry),
		slog.String("type_name", typeName),
	)
}

// LogResolve logs a successful printer resolution.
func LogResolve(logger *slog.Logger, typeName, printer, match string) {
	if logger == nil {
		return
	}
	logger.Debug("printer resolved",
		slog.String("type_name", typeName),
		slog.String("printer", printer),
		slog.String("match", match),
	)
}

// LogResolveMiss logs a type name no printer matched.
func LogResolveMiss(logger *slog.Logger, typeName string) {
	if logger == nil {
		return
	}
	logger.Debug("no printer for type",
		slog.String("type_name", typeName),
	)
}

// LogFieldSkipped logs a member left out of structured output because it
// could not be read.
func LogFieldSkipped(logger *slog.Logger, typeName, field string, err error) {
	if logger == nil {
		return
	}
	logger.Debug("field skipped",
		slog.String("type_name", typeName),
		slog.String("field", field),
		slog.String("error", err.Error()),
	)
}

// LogFormatError logs a printer failure (non-fatal: the value falls back to
// its default representation).
func LogFormatError(logger *slog.Logger, typeName, printer string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("printer failed",
		slog.String("type_name", typeName),
		slog.String("printer", printer),
		slog.String("error", err.Error()),
	)
}

// LogCapture logs a stored value capture.
func LogCapture(logger *slog.Logger, sessionID, name string, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("value captured",
		slog.String("session_id", sessionID),
		slog.String("name", name),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogCaptureError logs a capture store failure.
func LogCaptureError(logger *slog.Logger, sessionID, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("capture failed",
		slog.String("session_id", sessionID),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time.
//
// Example:
//
//	done := TimedOperation()
//	// ... format ...
//	elapsed := done()
func TimedOperation() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
