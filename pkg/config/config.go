package config

import "time"

// Config is the root configuration structure for the waypoint proxy.
type Config struct {
	// Proxy contains the forward proxy listener and relay settings.
	Proxy ProxyConfig `yaml:"proxy"`

	// Admin contains the statistics query listener settings.
	Admin AdminConfig `yaml:"admin"`

	// Resolver contains upstream name resolution settings.
	Resolver ResolverConfig `yaml:"resolver"`

	// Journal contains the optional session journal settings.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains logging, metrics and health check settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains configuration for the forward proxy.
type ProxyConfig struct {
	// ListenAddress is the address the proxy accepts clients on.
	// Default: ":8090"
	ListenAddress string `yaml:"listen_address"`

	// Workers is the fixed number of sessions serviced concurrently.
	// Excess connections wait in the queue.
	// Default: 16
	Workers int `yaml:"workers"`

	// ReadTimeout bounds each read from a client.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds each write to a client.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// UpstreamReadTimeout bounds each read from an origin server.
	// Default: 30s
	UpstreamReadTimeout time.Duration `yaml:"upstream_read_timeout"`

	// DialTimeout bounds the connect to an origin server.
	// Default: 30s
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// BufferSize is the per-direction read buffer. Reads never exceed 8192
	// bytes regardless of this value.
	// Default: 8192
	BufferSize int `yaml:"buffer_size"`

	// BacklogWarn is the queue depth at which readiness reports degraded.
	// Default: 1024
	BacklogWarn int `yaml:"backlog_warn"`
}

// AdminConfig contains configuration for the admin query listener.
type AdminConfig struct {
	// ListenAddress should stay on loopback; the protocol is unauthenticated.
	// Default: "127.0.0.1:8091"
	ListenAddress string `yaml:"listen_address"`

	// IdleTimeout closes an admin connection that sends nothing for this
	// long. Zero disables the timeout.
	// Default: 0
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// ResolverConfig contains configuration for origin name resolution.
type ResolverConfig struct {
	// CacheEnabled memoises successful lookups per host.
	// Default: false
	CacheEnabled bool `yaml:"cache_enabled"`

	// CacheTTL is how long a resolved address is reused.
	// Default: 30s
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// CleanupInterval is how often expired entries are purged.
	// Default: 5m
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// JournalConfig contains configuration for the SQLite session journal.
type JournalConfig struct {
	// Enabled turns on session journaling.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the database/sql driver.
	// Options: "sqlite" (modernc.org/sqlite), "sqlite3" (mattn/go-sqlite3)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// Buffer is the number of entries queued for the async writer.
	// Entries are dropped when it is full.
	// Default: 1024
	Buffer int `yaml:"buffer"`

	// Retention is the age after which entries are pruned.
	// Default: 168h
	Retention time.Duration `yaml:"retention"`

	// PruneSchedule is a cron expression for the pruning job.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Health contains health check configuration.
	Health HealthConfig `yaml:"health"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// File writes logs to a rotating file instead of stdout.
	// Default: "" (stdout)
	File string `yaml:"file"`

	// MaxSizeMB is the size at which the log file rotates.
	// Default: 100
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	// Default: 5
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is how long rotated files are kept.
	// Default: 14
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files.
	// Default: true
	Compress bool `yaml:"compress"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the telemetry HTTP listener (metrics and health).
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "waypoint"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "proxy"
	Subsystem string `yaml:"subsystem"`

	// SessionDurationBuckets defines histogram buckets for session
	// duration in seconds.
	SessionDurationBuckets []float64 `yaml:"session_duration_buckets"`
}

// HealthConfig contains health check configuration.
type HealthConfig struct {
	// Enabled serves liveness and readiness endpoints on the telemetry
	// listener.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// LivenessPath is the liveness endpoint.
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// ReadinessPath is the readiness endpoint.
	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`
}
