package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/printers"
)

// Capture store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Log formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// ErrInvalid indicates a configuration value out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the dalipp configuration.
type Config struct {
	// Registries to install, in lookup order. Accepts registry names
	// ("libdali") and namespaces ("Dali").
	Registries []string
	// GenericMarker routes names containing it to the generic printer.
	GenericMarker string
	// Disabled lists printers disabled at startup, either "Type" for every
	// registry or "registry:Type" for one.
	Disabled []string
	MaxDepth int
	// CacheTTL memoizes type resolution; zero disables the cache.
	CacheTTL  time.Duration
	Log       LogConfig
	Capture   CaptureConfig
	Telemetry TelemetryConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Format string
	Level  string
}

// CaptureConfig selects the capture store.
type CaptureConfig struct {
	Driver string
	Path   string
}

// TelemetryConfig toggles OpenTelemetry instrumentation.
type TelemetryConfig struct {
	Metrics bool
	Tracing bool
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Registries:    []string{printers.LibDali, printers.LibDaliVk},
		GenericMarker: dalipp.DefaultGenericMarker,
		MaxDepth:      dalipp.DefaultMaxDepth,
		Log:           LogConfig{Format: LogText, Level: "info"},
		Capture:       CaptureConfig{Driver: DriverSQLite, Path: "dalipp.db"},
	}
}

// FromMap builds a Config from nested maps, as produced by a YAML decoder or
// viper's AllSettings. Missing keys keep their defaults.
func FromMap(data map[string]any) Config {
	def := Default()
	v := NewValues(data)
	logv, capv, telv := v.Sub("log"), v.Sub("capture"), v.Sub("telemetry")

	return Config{
		Registries:    v.StringSlice("registries", def.Registries),
		GenericMarker: v.String("generic_marker", def.GenericMarker),
		Disabled:      v.StringSlice("disabled", def.Disabled),
		MaxDepth:      v.Int("max_depth", def.MaxDepth),
		CacheTTL:      v.Duration("cache_ttl", def.CacheTTL),
		Log: LogConfig{
			Format: logv.String("format", def.Log.Format),
			Level:  logv.String("level", def.Log.Level),
		},
		Capture: CaptureConfig{
			Driver: capv.String("driver", def.Capture.Driver),
			Path:   capv.String("path", def.Capture.Path),
		},
		Telemetry: TelemetryConfig{
			Metrics: telv.Bool("metrics", def.Telemetry.Metrics),
			Tracing: telv.Bool("tracing", def.Telemetry.Tracing),
		},
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if len(c.Registries) == 0 {
		errs = append(errs, fmt.Errorf("registries: at least one is required: %w", ErrInvalid))
	}
	for _, name := range c.Registries {
		if _, err := printers.ParseNamespace(name); err != nil {
			errs = append(errs, fmt.Errorf("registries: %v: %w", err, ErrInvalid))
		}
	}
	for _, d := range c.Disabled {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, fmt.Errorf("disabled: empty printer name: %w", ErrInvalid))
		}
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth: must be positive, got %d: %w", c.MaxDepth, ErrInvalid))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl: must not be negative: %w", ErrInvalid))
	}
	switch c.Log.Format {
	case LogText, LogJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format: %q: %w", c.Log.Format, ErrInvalid))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %v: %w", err, ErrInvalid))
	}
	switch c.Capture.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Capture.Path == "" {
			errs = append(errs, fmt.Errorf("capture.path: required for sqlite: %w", ErrInvalid))
		}
	default:
		errs = append(errs, fmt.Errorf("capture.driver: %q: %w", c.Capture.Driver, ErrInvalid))
	}
	return errors.Join(errs...)
}
