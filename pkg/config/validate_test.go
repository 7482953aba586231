package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"empty listen address", func(c *Config) { c.Proxy.ListenAddress = "" }, "proxy.listen_address"},
		{"listen address without port", func(c *Config) { c.Proxy.ListenAddress = "localhost" }, "proxy.listen_address"},
		{"zero workers", func(c *Config) { c.Proxy.Workers = 0 }, "proxy.workers"},
		{"negative read timeout", func(c *Config) { c.Proxy.ReadTimeout = -1 }, "proxy.read_timeout"},
		{"negative dial timeout", func(c *Config) { c.Proxy.DialTimeout = -1 }, "proxy.dial_timeout"},
		{"tiny buffer", func(c *Config) { c.Proxy.BufferSize = 16 }, "proxy.buffer_size"},
		{"bad admin address", func(c *Config) { c.Admin.ListenAddress = "8091" }, "admin.listen_address"},
		{"negative admin idle timeout", func(c *Config) { c.Admin.IdleTimeout = -1 }, "admin.idle_timeout"},
		{"cache without ttl", func(c *Config) {
			c.Resolver.CacheEnabled = true
			c.Resolver.CacheTTL = 0
		}, "resolver.cache_ttl"},
		{"unknown journal driver", func(c *Config) {
			c.Journal.Enabled = true
			c.Journal.Driver = "postgres"
		}, "journal.driver"},
		{"bad prune schedule", func(c *Config) {
			c.Journal.Enabled = true
			c.Journal.PruneSchedule = "every night"
		}, "journal.prune_schedule"},
		{"bad log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"relative metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"relative readiness path", func(c *Config) { c.Telemetry.Health.ReadinessPath = "ready" }, "telemetry.health.readiness_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on %q, got %v", tt.wantField, verr.Errors)
			}
		})
	}
}

func TestValidate_DisabledJournalSkipsChecks(t *testing.T) {
	cfg := Default()
	cfg.Journal.Driver = "postgres"

	if err := Validate(cfg); err != nil {
		t.Errorf("disabled journal should not be validated, got %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Proxy.Workers = 0
	cfg.Proxy.ListenAddress = ""
	cfg.Telemetry.Logging.Level = "nope"

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  ValidationError
		want string
	}{
		{"no errors", ValidationError{}, "configuration validation failed"},
		{
			"single error",
			ValidationError{Errors: []FieldError{{Field: "proxy.workers", Message: "worker count must be positive"}}},
			"configuration validation failed: proxy.workers: worker count must be positive",
		},
		{
			"multiple errors",
			ValidationError{Errors: []FieldError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}},
			"with 2 errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); !strings.Contains(got, tt.want) {
				t.Errorf("Error() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
