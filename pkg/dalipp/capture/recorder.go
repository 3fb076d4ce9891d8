package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randalmurphal/dalipp/pkg/dalipp/observability"
	"github.com/randalmurphal/dalipp/pkg/dalipp/snapshot"
	"github.com/randalmurphal/dalipp/pkg/dalipp/value"
)

// Renderer renders a value with the installed printers.
// *dalipp.Host and *dalipp.Registry satisfy it.
type Renderer interface {
	Render(ctx context.Context, v value.Value) string
}

// Recorder saves snapshot values to a Store and replays them.
type Recorder struct {
	store    Store
	renderer Renderer
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRenderer renders values at capture and replay time.
func WithRenderer(r Renderer) RecorderOption {
	return func(rec *Recorder) {
		rec.renderer = r
	}
}

// WithLogger sets the logger for capture events.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(rec *Recorder) {
		rec.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics for captures.
func WithMetrics(enabled bool) RecorderOption {
	return func(rec *Recorder) {
		if enabled {
			rec.metrics = observability.NewMetricsRecorder()
		} else {
			rec.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry spans for store operations.
func WithTracing(enabled bool) RecorderOption {
	return func(rec *Recorder) {
		if enabled {
			rec.spans = observability.NewSpanManager()
		} else {
			rec.spans = observability.NoopSpanManager{}
		}
	}
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	rec := &Recorder{
		store:   store,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(rec)
	}
	return rec
}

// Record saves every value of snap under sessionID and returns how many
// were stored.
func (r *Recorder) Record(ctx context.Context, sessionID string, snap *snapshot.Snapshot) (n int, err error) {
	ctx, span := r.spans.StartCaptureSpan(ctx, "record", sessionID)
	defer func() { r.spans.EndSpanWithError(span, err) }()

	for _, nv := range snap.Values {
		c, err := New(sessionID, snap.Document, nv.Name)
		if err != nil {
			return n, err
		}
		if r.renderer != nil {
			c.WithRendered(r.renderer.Render(ctx, nv.Value))
		}
		data, err := c.Marshal()
		if err != nil {
			return n, fmt.Errorf("marshal %s: %w", nv.Name, err)
		}
		if err := r.store.Save(sessionID, c.Name, c.TypeName, data); err != nil {
			observability.LogCaptureError(r.logger, sessionID, "save", err)
			return n, err
		}
		observability.LogCapture(r.logger, sessionID, c.Name, len(data))
		r.metrics.RecordCapture(ctx, sessionID, int64(len(data)))
		n++
	}
	return n, nil
}

// Replayed is a value rebuilt from the store.
type Replayed struct {
	Info    Info
	Capture *Capture
	Value   value.Value
	// Rendered is the value rendered with the current printers; empty
	// without a renderer.
	Rendered string
}

// Replay rebuilds every value of a session in capture order.
func (r *Recorder) Replay(ctx context.Context, sessionID string) (out []Replayed, err error) {
	ctx, span := r.spans.StartCaptureSpan(ctx, "replay", sessionID)
	defer func() {
		r.spans.EndSpanWithError(span, err)
		if err != nil {
			observability.LogCaptureError(r.logger, sessionID, "replay", err)
		}
	}()

	infos, err := r.store.List(sessionID)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		data, err := r.store.Load(sessionID, info.Name)
		if err != nil {
			return nil, err
		}
		c, err := Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("decode capture %s: %w", info.Name, err)
		}
		nv, err := c.Value()
		if err != nil {
			return nil, err
		}
		rep := Replayed{Info: info, Capture: c, Value: nv.Value}
		if r.renderer != nil {
			rep.Rendered = r.renderer.Render(ctx, nv.Value)
		}
		out = append(out, rep)
	}
	return out, nil
}

// Delete removes the named captures of a session, or the whole session when
// no names are given. Names that were never captured are ignored. It
// returns how many captures were removed.
func (r *Recorder) Delete(ctx context.Context, sessionID string, names ...string) (n int, err error) {
	_, span := r.spans.StartCaptureSpan(ctx, "delete", sessionID)
	defer func() {
		r.spans.EndSpanWithError(span, err)
		if err != nil {
			observability.LogCaptureError(r.logger, sessionID, "delete", err)
		}
	}()

	infos, err := r.store.List(sessionID)
	if err != nil {
		return 0, err
	}
	if len(names) == 0 {
		if err := r.store.DeleteSession(sessionID); err != nil {
			return 0, err
		}
		return len(infos), nil
	}

	present := make(map[string]bool, len(infos))
	for _, info := range infos {
		present[info.Name] = true
	}
	for _, name := range names {
		if !present[name] {
			continue
		}
		if err := r.store.Delete(sessionID, name); err != nil {
			return n, err
		}
		delete(present, name)
		n++
	}
	return n, nil
}
