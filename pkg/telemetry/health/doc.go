// Package health provides liveness and readiness endpoints for the proxy's
// telemetry listener.
//
// Liveness only reports that the process is serving HTTP. Readiness runs
// every registered component check concurrently, each bounded by a timeout,
// and reports 503 when any of them fails. The proxy registers checks for the
// worker pool, the queue backlog and, when enabled, the session journal.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("queue", health.ThresholdCheck("queue depth", depthFn, 1024))
//	checker.Mount(mux, "/health", "/ready")
package health
