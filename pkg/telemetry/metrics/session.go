package metrics

import (
	"mercator-hq/waypoint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SessionMetrics tracks proxy session lifecycles.
//
// Metrics:
//   - waypoint_proxy_sessions_total: Finished sessions by outcome
//   - waypoint_proxy_sessions_active: Sessions currently being relayed
//   - waypoint_proxy_session_duration_seconds: Session duration histogram
type SessionMetrics struct {
	total    *prometheus.CounterVec
	active   prometheus.Gauge
	duration prometheus.Histogram
}

// NewSessionMetrics creates and registers session metrics with the provided registry.
func NewSessionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SessionMetrics {
	sm := &SessionMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sessions_total",
				Help:      "Total number of proxy sessions by outcome",
			},
			[]string{"outcome"},
		),

		active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sessions_active",
				Help:      "Number of sessions currently being relayed",
			},
		),

		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "session_duration_seconds",
				Help:      "Duration of proxy sessions in seconds",
				Buckets:   cfg.SessionDurationBuckets,
			},
		),
	}

	registry.MustRegister(sm.total, sm.active, sm.duration)

	return sm
}

// TrafficMetrics tracks what flows through the relay.
//
// Metrics:
//   - waypoint_proxy_requests_total: Parsed client request lines by method
//   - waypoint_proxy_responses_total: Origin status lines by code
//   - waypoint_proxy_relayed_bytes_total: Relayed bytes by direction
type TrafficMetrics struct {
	requests  *prometheus.CounterVec
	responses *prometheus.CounterVec
	bytes     *prometheus.CounterVec
}

// NewTrafficMetrics creates and registers traffic metrics with the provided registry.
func NewTrafficMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *TrafficMetrics {
	tm := &TrafficMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of parsed client requests by method",
			},
			[]string{"method"},
		),

		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "responses_total",
				Help:      "Total number of origin responses by status code",
			},
			[]string{"status"},
		),

		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "relayed_bytes_total",
				Help:      "Total bytes relayed by direction",
			},
			[]string{"direction"},
		),
	}

	registry.MustRegister(tm.requests, tm.responses, tm.bytes)

	return tm
}
