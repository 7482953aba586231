package config

import "time"

// Default values for configuration fields.
const (
	// Proxy defaults
	DefaultListenAddress       = ":8090"
	DefaultWorkers             = 16
	DefaultReadTimeout         = 30 * time.Second
	DefaultWriteTimeout        = 60 * time.Second
	DefaultUpstreamReadTimeout = 30 * time.Second
	DefaultDialTimeout         = 30 * time.Second
	DefaultBufferSize          = 8192
	DefaultBacklogWarn         = 1024

	// Admin defaults
	DefaultAdminListenAddress = "127.0.0.1:8091"

	// Resolver defaults
	DefaultResolverCacheEnabled    = false
	DefaultResolverCacheTTL        = 30 * time.Second
	DefaultResolverCleanupInterval = 5 * time.Minute

	// Journal defaults
	DefaultJournalEnabled       = false
	DefaultJournalDriver        = "sqlite"
	DefaultJournalPath          = "data/journal.db"
	DefaultJournalBuffer        = 1024
	DefaultJournalRetention     = 7 * 24 * time.Hour
	DefaultJournalPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultLoggingMaxSizeMB     = 100
	DefaultLoggingMaxBackups    = 5
	DefaultLoggingMaxAgeDays    = 14
	DefaultLoggingCompress      = true
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultPrometheusPath       = "/metrics"
	DefaultMetricsNamespace     = "waypoint"
	DefaultMetricsSubsystem     = "proxy"
	DefaultHealthEnabled        = true
	DefaultHealthLivenessPath   = "/health"
	DefaultHealthReadinessPath  = "/ready"
)

// DefaultSessionDurationBuckets spans quick misses to long-lived tunnels.
var DefaultSessionDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 300}

// Default returns a Config with every field set to its default, including
// boolean switches. LoadConfig decodes YAML on top of it so switches left
// out of a file keep their defaults.
func Default() *Config {
	cfg := &Config{
		Resolver: ResolverConfig{CacheEnabled: DefaultResolverCacheEnabled},
		Journal:  JournalConfig{Enabled: DefaultJournalEnabled},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Compress: DefaultLoggingCompress},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Health:  HealthConfig{Enabled: DefaultHealthEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any non-boolean fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Proxy defaults
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.Workers == 0 {
		cfg.Proxy.Workers = DefaultWorkers
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Proxy.WriteTimeout == 0 {
		cfg.Proxy.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Proxy.UpstreamReadTimeout == 0 {
		cfg.Proxy.UpstreamReadTimeout = DefaultUpstreamReadTimeout
	}
	if cfg.Proxy.DialTimeout == 0 {
		cfg.Proxy.DialTimeout = DefaultDialTimeout
	}
	if cfg.Proxy.BufferSize == 0 {
		cfg.Proxy.BufferSize = DefaultBufferSize
	}
	if cfg.Proxy.BacklogWarn == 0 {
		cfg.Proxy.BacklogWarn = DefaultBacklogWarn
	}

	// Admin defaults
	if cfg.Admin.ListenAddress == "" {
		cfg.Admin.ListenAddress = DefaultAdminListenAddress
	}

	// Resolver defaults
	if cfg.Resolver.CacheTTL == 0 {
		cfg.Resolver.CacheTTL = DefaultResolverCacheTTL
	}
	if cfg.Resolver.CleanupInterval == 0 {
		cfg.Resolver.CleanupInterval = DefaultResolverCleanupInterval
	}

	// Journal defaults
	if cfg.Journal.Driver == "" {
		cfg.Journal.Driver = DefaultJournalDriver
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Journal.Buffer == 0 {
		cfg.Journal.Buffer = DefaultJournalBuffer
	}
	if cfg.Journal.Retention == 0 {
		cfg.Journal.Retention = DefaultJournalRetention
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultJournalPruneSchedule
	}

	// Logging defaults
	logging := &cfg.Telemetry.Logging
	if logging.Level == "" {
		logging.Level = DefaultLoggingLevel
	}
	if logging.Format == "" {
		logging.Format = DefaultLoggingFormat
	}
	if logging.MaxSizeMB == 0 {
		logging.MaxSizeMB = DefaultLoggingMaxSizeMB
	}
	if logging.MaxBackups == 0 {
		logging.MaxBackups = DefaultLoggingMaxBackups
	}
	if logging.MaxAgeDays == 0 {
		logging.MaxAgeDays = DefaultLoggingMaxAgeDays
	}

	// Metrics defaults
	metrics := &cfg.Telemetry.Metrics
	if metrics.ListenAddress == "" {
		metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if metrics.Path == "" {
		metrics.Path = DefaultPrometheusPath
	}
	if metrics.Namespace == "" {
		metrics.Namespace = DefaultMetricsNamespace
	}
	if metrics.Subsystem == "" {
		metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(metrics.SessionDurationBuckets) == 0 {
		metrics.SessionDurationBuckets = append([]float64(nil), DefaultSessionDurationBuckets...)
	}

	// Health defaults
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultHealthLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultHealthReadinessPath
	}
}
