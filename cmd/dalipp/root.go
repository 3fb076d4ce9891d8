package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/randalmurphal/dalipp/pkg/dalipp"
	"github.com/randalmurphal/dalipp/pkg/dalipp/capture"
	"github.com/randalmurphal/dalipp/pkg/dalipp/config"
)

// app carries the state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "dalipp",
		Short: "Pretty-print DALi values",
		Long: `Render DALi toolkit values the way the debugger pretty-printers do.

Values are read from snapshot documents (YAML or JSON) that describe a
value tree with its types. Rendered values can be recorded into a capture
store and replayed later with the current printers.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./dalipp.yaml or ~/.config/dalipp/config.yaml)")
	flags.StringSliceP("registry", "r", nil, "registries to install, in lookup order")
	flags.StringSlice("disable", nil, `printers to disable ("Type" or "registry:Type")`)
	flags.Int("max-depth", dalipp.DefaultMaxDepth, "maximum nesting depth for nested rendering")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.String("capture-driver", "", "capture store driver (memory, sqlite)")
	flags.String("capture-path", "", "capture database path")

	// Bind flags to viper
	_ = a.v.BindPFlag("registries", flags.Lookup("registry"))
	_ = a.v.BindPFlag("disabled", flags.Lookup("disable"))
	_ = a.v.BindPFlag("max_depth", flags.Lookup("max-depth"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("capture.driver", flags.Lookup("capture-driver"))
	_ = a.v.BindPFlag("capture.path", flags.Lookup("capture-path"))

	root.AddCommand(
		newPrintCmd(a),
		newResolveCmd(a),
		newListCmd(a),
		newCaptureCmd(a),
		newReplayCmd(a),
		newSessionsCmd(a),
		newServeCmd(a),
	)
	return root
}

// init loads configuration from defaults, the config file, the environment
// and flags, in increasing precedence.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	defaults := config.Default()
	a.v.SetDefault("registries", defaults.Registries)
	a.v.SetDefault("generic_marker", defaults.GenericMarker)
	a.v.SetDefault("max_depth", defaults.MaxDepth)
	a.v.SetDefault("cache_ttl", defaults.CacheTTL)
	a.v.SetDefault("log.format", defaults.Log.Format)
	a.v.SetDefault("log.level", defaults.Log.Level)
	a.v.SetDefault("capture.driver", defaults.Capture.Driver)
	a.v.SetDefault("capture.path", defaults.Capture.Path)
	a.v.SetDefault("telemetry.metrics", defaults.Telemetry.Metrics)
	a.v.SetDefault("telemetry.tracing", defaults.Telemetry.Tracing)

	a.v.SetEnvPrefix("DALIPP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// Config lookup order:
		// 1. ./dalipp.yaml
		// 2. ~/.config/dalipp/config.yaml
		if _, err := os.Stat("dalipp.yaml"); err == nil {
			a.v.SetConfigFile("dalipp.yaml")
		} else {
			home, _ := os.UserHomeDir()
			a.v.AddConfigPath(filepath.Join(home, ".config", "dalipp"))
			a.v.SetConfigName("config")
			a.v.SetConfigType("yaml")
		}
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	a.cfg = config.FromMap(a.v.AllSettings())
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	logger, err := a.cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded config", slog.String("path", used))
	}
	return nil
}

// host builds the configured Host.
func (a *app) host() (*dalipp.Host, error) {
	return a.cfg.NewHost(a.logger)
}

// recorder opens the capture store and wraps it in a Recorder rendering
// with h. The caller closes the returned store.
func (a *app) recorder(h *dalipp.Host) (*capture.Recorder, capture.Store, error) {
	store, err := a.cfg.OpenStore()
	if err != nil {
		return nil, nil, err
	}
	opts := []capture.RecorderOption{
		capture.WithLogger(a.logger),
		capture.WithMetrics(a.cfg.Telemetry.Metrics),
		capture.WithTracing(a.cfg.Telemetry.Tracing),
	}
	if h != nil {
		opts = append(opts, capture.WithRenderer(h))
	}
	return capture.NewRecorder(store, opts...), store, nil
}
