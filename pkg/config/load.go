package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// Fields missing from the file keep their defaults. The configuration is
// validated but not modified by environment variables; use Load for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from an optional YAML file and applies
// environment variable overrides. An empty path yields the defaults.
//
// The loading sequence is:
// 1. Start from defaults
// 2. Decode the YAML file, if any
// 3. Apply environment variable overrides
// 4. Validate final configuration
func Load(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format WAYPOINT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Proxy overrides
	envString("WAYPOINT_PROXY_LISTEN_ADDRESS", &cfg.Proxy.ListenAddress)
	envInt("WAYPOINT_PROXY_WORKERS", &cfg.Proxy.Workers)
	envDuration("WAYPOINT_PROXY_READ_TIMEOUT", &cfg.Proxy.ReadTimeout)
	envDuration("WAYPOINT_PROXY_WRITE_TIMEOUT", &cfg.Proxy.WriteTimeout)
	envDuration("WAYPOINT_PROXY_UPSTREAM_READ_TIMEOUT", &cfg.Proxy.UpstreamReadTimeout)
	envDuration("WAYPOINT_PROXY_DIAL_TIMEOUT", &cfg.Proxy.DialTimeout)
	envInt("WAYPOINT_PROXY_BUFFER_SIZE", &cfg.Proxy.BufferSize)
	envInt("WAYPOINT_PROXY_BACKLOG_WARN", &cfg.Proxy.BacklogWarn)

	// Admin overrides
	envString("WAYPOINT_ADMIN_LISTEN_ADDRESS", &cfg.Admin.ListenAddress)
	envDuration("WAYPOINT_ADMIN_IDLE_TIMEOUT", &cfg.Admin.IdleTimeout)

	// Resolver overrides
	envBool("WAYPOINT_RESOLVER_CACHE_ENABLED", &cfg.Resolver.CacheEnabled)
	envDuration("WAYPOINT_RESOLVER_CACHE_TTL", &cfg.Resolver.CacheTTL)

	// Journal overrides
	envBool("WAYPOINT_JOURNAL_ENABLED", &cfg.Journal.Enabled)
	envString("WAYPOINT_JOURNAL_DRIVER", &cfg.Journal.Driver)
	envString("WAYPOINT_JOURNAL_PATH", &cfg.Journal.Path)
	envDuration("WAYPOINT_JOURNAL_RETENTION", &cfg.Journal.Retention)
	envString("WAYPOINT_JOURNAL_PRUNE_SCHEDULE", &cfg.Journal.PruneSchedule)

	// Telemetry overrides
	envString("WAYPOINT_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("WAYPOINT_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envString("WAYPOINT_TELEMETRY_LOGGING_FILE", &cfg.Telemetry.Logging.File)
	envBool("WAYPOINT_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("WAYPOINT_TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	envString("WAYPOINT_TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("WAYPOINT_TELEMETRY_HEALTH_ENABLED", &cfg.Telemetry.Health.Enabled)
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
