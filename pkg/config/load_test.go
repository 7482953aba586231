package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waypoint.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
proxy:
  listen_address: "0.0.0.0:3128"
  workers: 32
  read_timeout: "10s"

admin:
  listen_address: "127.0.0.1:9191"

journal:
  enabled: true
  driver: "sqlite3"
  path: "./journal.db"

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Proxy.ListenAddress != "0.0.0.0:3128" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:3128", cfg.Proxy.ListenAddress)
	}
	if cfg.Proxy.Workers != 32 {
		t.Errorf("expected 32 workers, got %d", cfg.Proxy.Workers)
	}
	if cfg.Proxy.ReadTimeout != 10*time.Second {
		t.Errorf("expected read timeout 10s, got %v", cfg.Proxy.ReadTimeout)
	}
	if cfg.Proxy.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Proxy.WriteTimeout)
	}
	if cfg.Admin.ListenAddress != "127.0.0.1:9191" {
		t.Errorf("expected admin address %q, got %q", "127.0.0.1:9191", cfg.Admin.ListenAddress)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Driver != "sqlite3" {
		t.Errorf("unexpected journal config %+v", cfg.Journal)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics should be disabled by the file")
	}
	if !cfg.Telemetry.Health.Enabled {
		t.Error("health should keep its default when omitted")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "proxy:\n  workers: [1, 2\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
proxy:
  workers: -1
telemetry:
  logging:
    level: "loud"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(verr.Errors), verr.Errors)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Proxy.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address, got %q", cfg.Proxy.ListenAddress)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "proxy:\n  workers: 8\n")

	t.Setenv("WAYPOINT_PROXY_WORKERS", "64")
	t.Setenv("WAYPOINT_PROXY_DIAL_TIMEOUT", "5s")
	t.Setenv("WAYPOINT_ADMIN_LISTEN_ADDRESS", "127.0.0.1:7000")
	t.Setenv("WAYPOINT_JOURNAL_ENABLED", "true")
	t.Setenv("WAYPOINT_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Proxy.Workers != 64 {
		t.Errorf("expected 64 workers, got %d", cfg.Proxy.Workers)
	}
	if cfg.Proxy.DialTimeout != 5*time.Second {
		t.Errorf("expected dial timeout 5s, got %v", cfg.Proxy.DialTimeout)
	}
	if cfg.Admin.ListenAddress != "127.0.0.1:7000" {
		t.Errorf("expected admin address override, got %q", cfg.Admin.ListenAddress)
	}
	if !cfg.Journal.Enabled {
		t.Error("expected journal enabled by environment")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoad_InvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("WAYPOINT_PROXY_WORKERS", "many")
	t.Setenv("WAYPOINT_PROXY_READ_TIMEOUT", "soon")
	t.Setenv("WAYPOINT_JOURNAL_ENABLED", "maybe")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Proxy.Workers != DefaultWorkers {
		t.Errorf("expected default workers, got %d", cfg.Proxy.Workers)
	}
	if cfg.Proxy.ReadTimeout != DefaultReadTimeout {
		t.Errorf("expected default read timeout, got %v", cfg.Proxy.ReadTimeout)
	}
	if cfg.Journal.Enabled {
		t.Error("unparseable boolean must not enable the journal")
	}
}

func TestLoad_EnvValidation(t *testing.T) {
	t.Setenv("WAYPOINT_PROXY_WORKERS", "0")

	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error after overrides")
	}
}
