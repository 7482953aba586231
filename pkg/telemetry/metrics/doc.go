// Package metrics provides Prometheus metrics collection for the proxy.
//
// # Overview
//
// The collector owns a private Prometheus registry and records:
//
//   - Session metrics: sessions by outcome, active sessions, session duration
//   - Traffic metrics: parsed requests by method, responses by status code,
//     relayed bytes by direction
//   - Engine metrics: queue depth and busy workers (sampled on scrape)
//   - Resolver cache hits and misses, dropped journal entries
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RegisterQueueDepth(func() float64 { return float64(q.Len()) })
//
//	collector.SessionStarted()
//	defer collector.SessionFinished(metrics.OutcomeOK, time.Since(start))
//
//	http.Handle("/metrics", collector.Handler())
//
// Every method is safe on a nil *Collector, so components can run without
// metrics in tests.
//
// # Cardinality
//
// Method and status labels come from client and origin bytes. A
// CardinalityLimiter caps the distinct label values; overflow is recorded
// under "other".
package metrics
