package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/capture"
	"github.com/randalmurphal/dalipp/pkg/dalipp/printers"
)

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// NewLogger builds the slog logger described by c.Log, writing to w.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Log.Format {
	case LogJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case LogText, "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", c.Log.Format)
}

// RegistryOptions returns the registry options described by c.
func (c Config) RegistryOptions(logger *slog.Logger) []dalipp.Option {
	return []dalipp.Option{
		dalipp.WithGenericMarker(c.GenericMarker),
		dalipp.WithLogger(logger),
		dalipp.WithMetrics(c.Telemetry.Metrics),
		dalipp.WithTracing(c.Telemetry.Tracing),
		dalipp.WithResolveCache(c.CacheTTL),
		dalipp.WithMaxDepth(c.MaxDepth),
	}
}

// NewHost builds and installs the configured registries, then disables
// the configured printers.
func (c Config) NewHost(logger *slog.Logger) (*dalipp.Host, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	h := dalipp.NewHost(dalipp.WithHostLogger(logger), dalipp.WithHostMaxDepth(c.MaxDepth))
	for _, name := range c.Registries {
		ns, err := printers.ParseNamespace(name)
		if err != nil {
			return nil, err
		}
		if _, err := printers.Install(h, ns, c.RegistryOptions(logger)...); err != nil {
			return nil, err
		}
	}
	for _, d := range c.Disabled {
		if err := disable(h, d); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// disable turns off "Type" in every registry that has it, or "registry:Type"
// in one registry.
func disable(h *dalipp.Host, spec string) error {
	typeName := spec
	// Type names contain "::"; only a single colon scopes to a registry.
	regName, rest, found := strings.Cut(spec, ":")
	scoped := found && !strings.HasPrefix(rest, ":")
	if scoped {
		typeName = rest
	}

	matched := false
	for _, r := range h.Registries() {
		if scoped && r.Name() != regName {
			continue
		}
		if !r.Has(typeName) {
			continue
		}
		if err := r.SetEnabled(typeName, false); err != nil {
			return err
		}
		matched = true
	}
	if !matched {
		return &dalipp.FormatError{TypeName: typeName, Printer: spec, Err: dalipp.ErrUnknownPrinter}
	}
	return nil
}

// OpenStore opens the configured capture store.
func (c Config) OpenStore() (capture.Store, error) {
	switch c.Capture.Driver {
	case DriverMemory:
		return capture.NewMemoryStore(), nil
	case DriverSQLite:
		return capture.NewSQLiteStore(c.Capture.Path)
	}
	return nil, fmt.Errorf("capture.driver: %q: %w", c.Capture.Driver, ErrInvalid)
}
