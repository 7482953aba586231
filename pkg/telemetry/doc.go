// Package telemetry groups the proxy's observability packages.
//
//   - logging: slog-based structured logging with rotating file output
//   - metrics: Prometheus collector for sessions, bytes, queue and workers
//   - health: liveness and readiness checks served over HTTP
//   - middleware: request ID, access log and recovery for the telemetry listener
//
// The telemetry listener is separate from the proxy and admin listeners and
// is disabled when both metrics and health are turned off.
package telemetry
