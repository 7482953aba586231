package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, level, format string) (*Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: level, Format: format, Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { logger.Shutdown() })
	return logger, buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid JSON config", Config{Level: "info", Format: "json"}, false},
		{"valid text config", Config{Level: "debug", Format: "text"}, false},
		{"valid console config", Config{Level: "warn", Format: "console"}, false},
		{"defaults", Config{}, false},
		{"invalid log level", Config{Level: "invalid", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "invalid"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if logger != nil {
				defer logger.Shutdown()
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*Logger, string)
		wantLog   bool
	}{
		{"debug level logs debug", "debug", func(l *Logger, msg string) { l.Debug(msg) }, true},
		{"info level filters debug", "info", func(l *Logger, msg string) { l.Debug(msg) }, false},
		{"info level logs info", "info", func(l *Logger, msg string) { l.Info(msg) }, true},
		{"warn level filters info", "warn", func(l *Logger, msg string) { l.Info(msg) }, false},
		{"warn level logs warn", "warn", func(l *Logger, msg string) { l.Warn(msg) }, true},
		{"error level filters warn", "error", func(l *Logger, msg string) { l.Warn(msg) }, false},
		{"error level logs error", "error", func(l *Logger, msg string) { l.Error(msg) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(t, tt.logLevel, "json")

			tt.logMethod(logger, "test message")

			hasLog := strings.Contains(buf.String(), "test message")
			if hasLog != tt.wantLog {
				t.Errorf("Log filtering failed: got log=%v, want log=%v, output=%s",
					hasLog, tt.wantLog, buf.String())
			}
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, "info", "json")
	child := logger.With("component", "relay")

	child.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("Debug message logged at info level: %s", buf.String())
	}

	if err := logger.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	if logger.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want debug", logger.Level())
	}

	child.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("Derived logger did not pick up the new level: %s", buf.String())
	}

	if err := logger.SetLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
	if logger.Level() != slog.LevelDebug {
		t.Error("Failed SetLevel must not change the level")
	}
}

func TestLogger_StructuredFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "info", "json")

	logger.Info("request",
		"server", "example.com:80",
		"request_line", "GET /foo HTTP/1.1",
		"bytes", 42,
	)

	for _, field := range []string{"request", "server", "example.com:80", "GET /foo HTTP/1.1", "42"} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("Expected field %q not found in output: %s", field, buf.String())
		}
	}
}

func TestLogger_WithContext(t *testing.T) {
	logger, buf := newBufferLogger(t, "info", "json")

	ctx := WithSessionID(context.Background(), "sess-456")
	ctx = WithClient(ctx, "10.0.0.7:51234")

	logger.WithContext(ctx).Info("test message")

	for _, field := range []string{"session_id", "sess-456", "client", "10.0.0.7:51234"} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("Expected field %q not found in output: %s", field, buf.String())
		}
	}

	if logger.WithContext(context.Background()) != logger {
		t.Error("WithContext without fields should return the same logger")
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug", "json")
	ctx := WithSessionID(context.Background(), "sess-789")

	tests := []struct {
		name   string
		method func()
		level  string
	}{
		{"DebugContext", func() { logger.DebugContext(ctx, "debug message") }, "DEBUG"},
		{"InfoContext", func() { logger.InfoContext(ctx, "info message") }, "INFO"},
		{"WarnContext", func() { logger.WarnContext(ctx, "warn message") }, "WARN"},
		{"ErrorContext", func() { logger.ErrorContext(ctx, "error message") }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.method()

			output := buf.String()
			if !strings.Contains(output, "sess-789") {
				t.Errorf("Context session_id not found in %s output: %s", tt.name, output)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("Level %s not found in output: %s", tt.level, output)
			}
		})
	}
}

func TestLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "text", "console"} {
		t.Run(format, func(t *testing.T) {
			logger, buf := newBufferLogger(t, "info", format)
			logger.Info("test message", "key", "value")

			if !strings.Contains(buf.String(), "test message") {
				t.Errorf("Message not found in %s output: %s", format, buf.String())
			}
		})
	}
}

func TestLogger_AddSource(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", AddSource: true, Writer: buf})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Shutdown()

	logger.Info("test message")

	if !strings.Contains(buf.String(), "source") {
		t.Errorf("Source field not found in output: %s", buf.String())
	}
}

func TestLogger_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy.log")
	logger, err := New(Config{Level: "info", Format: "json", File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("written to file")
	if err := logger.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("Log file missing message: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"debug", false},
		{"DEBUG", false},
		{"info", false},
		{"", false},
		{"warn", false},
		{"warning", false},
		{"error", false},
		{"invalid", true},
		{"trace", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"json", false},
		{"", false},
		{"text", false},
		{"console", false},
		{"CONSOLE", false},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
