// Package config provides configuration management for the waypoint proxy.
//
// This package handles loading, validating and watching configuration from
// YAML files with environment variable overrides. A configuration file is
// optional: with no file the defaults describe a proxy on :8090 with 16
// workers and an admin listener on 127.0.0.1:8091.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("waypoint.yaml")
//
//  2. From an optional YAML file with environment variable overrides:
//     cfg, err := config.Load("waypoint.yaml")
//     cfg, err := config.Load("") // defaults + environment
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention WAYPOINT_SECTION_FIELD.
// For example:
//
//	WAYPOINT_PROXY_LISTEN_ADDRESS=":3128"
//	WAYPOINT_PROXY_WORKERS=64
//	WAYPOINT_ADMIN_LISTEN_ADDRESS="127.0.0.1:9091"
//	WAYPOINT_JOURNAL_ENABLED=true
//	WAYPOINT_TELEMETRY_LOGGING_LEVEL=debug
//
// Environment variables always take precedence over file-based values.
// Values that fail to parse are ignored.
//
// # Validation
//
// Validate collects every problem into a ValidationError so a bad file is
// reported in one pass:
//
//	if err := config.Validate(cfg); err != nil {
//	    var verr config.ValidationError
//	    if errors.As(err, &verr) {
//	        for _, fe := range verr.Errors {
//	            fmt.Println(fe.Field, fe.Message)
//	        }
//	    }
//	}
//
// # Hot Reload
//
// Watcher observes the configuration file with fsnotify and hands each
// successfully reloaded Config to a callback after a short debounce. Only
// settings that can change at runtime (the log level) are applied by the
// caller; listener addresses and the worker count require a restart.
package config
