// Package logging provides structured logging for the proxy.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging in JSON, text and console formats
//   - Rotating log files through lumberjack
//   - Context-aware logging with session IDs and client addresses
//   - A level that can be changed at runtime (config hot reload)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    File:   "/var/log/waypoint/proxy.log",
//	})
//
//	ctx = logging.WithSessionID(ctx, job.ID)
//	logger.InfoContext(ctx, "request",
//	    "server", "example.com:80",
//	    "request_line", "GET /foo HTTP/1.1",
//	)
//
//	logger.SetLevel("debug")
//
// # Sinks
//
// Output goes to Config.Writer when set, otherwise to a lumberjack rotating
// file when Config.File is set, otherwise to stdout. Shutdown closes the
// rotating file.
package logging
