package metrics

import (
	"strconv"
	"sync"
	"time"

	"mercator-hq/waypoint/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Session outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeBadRequest = "bad_request"
	OutcomeBadGateway = "bad_gateway"
	OutcomeAborted    = "aborted"
)

// Relay directions.
const (
	DirectionUpstream   = "upstream"
	DirectionDownstream = "downstream"
)

// otherLabel replaces label values past the cardinality limit.
const otherLabel = "other"

// Collector records proxy metrics into a Prometheus registry.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	sessionMetrics *SessionMetrics
	trafficMetrics *TrafficMetrics

	resolverCache *prometheus.CounterVec
	journalDrops  prometheus.Counter

	methodLimiter *CardinalityLimiter
	statusLimiter *CardinalityLimiter
}

// NewCollector creates a collector with the specified configuration and
// registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.SessionDurationBuckets) == 0 {
		cfg.SessionDurationBuckets = config.DefaultSessionDurationBuckets
	}

	c := &Collector{
		config:        cfg,
		registry:      registry,
		methodLimiter: NewCardinalityLimiter(32),
		statusLimiter: NewCardinalityLimiter(128),
	}

	c.sessionMetrics = NewSessionMetrics(cfg, registry)
	c.trafficMetrics = NewTrafficMetrics(cfg, registry)

	c.resolverCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "resolver_cache_total",
			Help:      "Resolver cache lookups by result",
		},
		[]string{"result"},
	)
	c.journalDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "journal_dropped_total",
		Help:      "Session journal entries dropped because the write buffer was full",
	})
	registry.MustRegister(c.resolverCache, c.journalDrops)

	return c
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// SessionStarted marks a session as active.
func (c *Collector) SessionStarted() {
	if !c.enabled() {
		return
	}
	c.sessionMetrics.active.Inc()
}

// SessionFinished records a completed session and its duration.
func (c *Collector) SessionFinished(outcome string, duration time.Duration) {
	if !c.enabled() {
		return
	}
	c.sessionMetrics.active.Dec()
	c.sessionMetrics.total.WithLabelValues(outcome).Inc()
	c.sessionMetrics.duration.Observe(duration.Seconds())
}

// RecordRequest counts one parsed client request line.
func (c *Collector) RecordRequest(method string) {
	if !c.enabled() {
		return
	}
	if !c.methodLimiter.Allow(method) {
		method = otherLabel
	}
	c.trafficMetrics.requests.WithLabelValues(method).Inc()
}

// RecordResponse counts one origin status line. Unparseable codes are
// recorded as "unknown".
func (c *Collector) RecordResponse(status int) {
	if !c.enabled() {
		return
	}
	label := "unknown"
	if status > 0 {
		label = strconv.Itoa(status)
		if !c.statusLimiter.Allow(label) {
			label = otherLabel
		}
	}
	c.trafficMetrics.responses.WithLabelValues(label).Inc()
}

// AddBytes adds n relayed bytes in direction.
func (c *Collector) AddBytes(direction string, n int) {
	if !c.enabled() || n <= 0 {
		return
	}
	c.trafficMetrics.bytes.WithLabelValues(direction).Add(float64(n))
}

// RecordResolverCache counts a resolver cache lookup.
func (c *Collector) RecordResolverCache(hit bool) {
	if !c.enabled() {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.resolverCache.WithLabelValues(result).Inc()
}

// RecordJournalDrop counts a journal entry dropped on a full buffer.
func (c *Collector) RecordJournalDrop() {
	if !c.enabled() {
		return
	}
	c.journalDrops.Inc()
}

// RegisterQueueDepth exposes the work queue depth, sampled on each scrape.
func (c *Collector) RegisterQueueDepth(fn func() float64) {
	c.registerGaugeFunc("queue_depth", "Accepted connections waiting for a worker", fn)
}

// RegisterBusyWorkers exposes the number of workers serving a session.
func (c *Collector) RegisterBusyWorkers(fn func() float64) {
	c.registerGaugeFunc("workers_busy", "Workers currently serving a session", fn)
}

// RegisterWorkers exposes the fixed worker pool size.
func (c *Collector) RegisterWorkers(fn func() float64) {
	c.registerGaugeFunc("workers", "Size of the worker pool", fn)
}

func (c *Collector) registerGaugeFunc(name, help string, fn func() float64) {
	if !c.enabled() {
		return
	}
	c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: c.config.Namespace,
		Subsystem: c.config.Subsystem,
		Name:      name,
		Help:      help,
	}, fn))
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of distinct label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value may be used as a label: it is already known
// or the limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[value]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
