/*
Package config loads dalipp settings from YAML, JSON or nested maps and
turns them into a ready Host, logger and capture store.

# File Format

	registries: [libdali, libdali-toolkit-vk]
	generic_marker: Generic
	disabled:
	  - Dali::Vector<int>              # every registry
	  - libdali:Dali::Property::Map    # one registry
	max_depth: 8
	cache_ttl: 5m
	log:
	  format: json     # text | json
	  level: debug
	capture:
	  driver: sqlite   # memory | sqlite
	  path: dalipp.db
	telemetry:
	  metrics: true
	  tracing: false

Missing keys keep the values from Default. Values wraps the decoded maps
with typed accessors that fall back to a default on missing keys or type
mismatches, so durations may be given as "30s" or as a number of seconds.

# Usage

	cfg, err := config.FromFile("dalipp.yaml")
	if err != nil {
	    return err
	}
	if err := cfg.Validate(); err != nil {
	    return err
	}
	logger, _ := cfg.NewLogger(os.Stderr)
	host, err := cfg.NewHost(logger)
*/
package config
