package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "proxy.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProxy(&cfg.Proxy)...)
	errs = append(errs, validateAdmin(&cfg.Admin)...)
	errs = append(errs, validateResolver(&cfg.Resolver)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateProxy(cfg *ProxyConfig) []FieldError {
	var errs []FieldError

	errs = append(errs, validateAddress("proxy.listen_address", cfg.ListenAddress)...)

	if cfg.Workers <= 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.workers",
			Message: "worker count must be positive",
		})
	}

	timeouts := []struct {
		field string
		value int64
	}{
		{"proxy.read_timeout", int64(cfg.ReadTimeout)},
		{"proxy.write_timeout", int64(cfg.WriteTimeout)},
		{"proxy.upstream_read_timeout", int64(cfg.UpstreamReadTimeout)},
		{"proxy.dial_timeout", int64(cfg.DialTimeout)},
	}
	for _, to := range timeouts {
		if to.value < 0 {
			errs = append(errs, FieldError{
				Field:   to.field,
				Message: "timeout must not be negative",
			})
		}
	}

	if cfg.BufferSize < 512 {
		errs = append(errs, FieldError{
			Field:   "proxy.buffer_size",
			Message: "buffer size must be at least 512 bytes",
		})
	}
	if cfg.BacklogWarn < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.backlog_warn",
			Message: "backlog warning threshold must not be negative",
		})
	}

	return errs
}

func validateAdmin(cfg *AdminConfig) []FieldError {
	errs := validateAddress("admin.listen_address", cfg.ListenAddress)

	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "admin.idle_timeout",
			Message: "idle timeout must not be negative",
		})
	}

	return errs
}

func validateResolver(cfg *ResolverConfig) []FieldError {
	var errs []FieldError

	if cfg.CacheEnabled && cfg.CacheTTL <= 0 {
		errs = append(errs, FieldError{
			Field:   "resolver.cache_ttl",
			Message: "cache TTL must be positive when the cache is enabled",
		})
	}
	if cfg.CleanupInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "resolver.cleanup_interval",
			Message: "cleanup interval must not be negative",
		})
	}

	return errs
}

func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.Driver != "sqlite" && cfg.Driver != "sqlite3" {
		errs = append(errs, FieldError{
			Field:   "journal.driver",
			Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.Driver),
		})
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "journal.path",
			Message: "journal path is required when the journal is enabled",
		})
	}
	if cfg.Buffer <= 0 {
		errs = append(errs, FieldError{
			Field:   "journal.buffer",
			Message: "buffer must be positive",
		})
	}
	if cfg.Retention < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.retention",
			Message: "retention must not be negative",
		})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "journal.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Logging.File != "" && cfg.Logging.MaxSizeMB <= 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.max_size_mb",
			Message: "max size must be positive when logging to a file",
		})
	}

	if cfg.Metrics.Enabled || cfg.Health.Enabled {
		errs = append(errs, validateAddress("telemetry.metrics.listen_address", cfg.Metrics.ListenAddress)...)
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	if cfg.Health.Enabled {
		if !strings.HasPrefix(cfg.Health.LivenessPath, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.liveness_path",
				Message: "liveness path must start with '/'",
			})
		}
		if !strings.HasPrefix(cfg.Health.ReadinessPath, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.health.readiness_path",
				Message: "readiness path must start with '/'",
			})
		}
	}

	return errs
}

func validateAddress(field, addr string) []FieldError {
	if addr == "" {
		return []FieldError{{Field: field, Message: "listen address is required"}}
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return []FieldError{{Field: field, Message: fmt.Sprintf("invalid listen address %q: %v", addr, err)}}
	}
	return nil
}
