// Package middleware wraps the telemetry HTTP listener with request IDs,
// access logging and panic recovery.
//
// Handlers are composed outermost first:
//
//	handler = middleware.Chain(mux, logger)
package middleware
