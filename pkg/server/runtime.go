package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/waypoint/pkg/config"
	"mercator-hq/waypoint/pkg/journal"
	"mercator-hq/waypoint/pkg/proxy"
	"mercator-hq/waypoint/pkg/queue"
	"mercator-hq/waypoint/pkg/stats"
	"mercator-hq/waypoint/pkg/telemetry/health"
	"mercator-hq/waypoint/pkg/telemetry/logging"
	"mercator-hq/waypoint/pkg/telemetry/metrics"
)

// Runtime holds the process-wide components. It is built once at startup
// and passed explicitly to everything that needs it.
type Runtime struct {
	Config    *config.Config
	Logger    *logging.Logger
	Stats     *stats.Aggregator
	Queue     *queue.Queue[*proxy.Job]
	Collector *metrics.Collector
	Health    *health.Checker

	// Journal fields are nil unless the journal is enabled.
	Journal   *journal.Store
	Writer    *journal.Writer
	Scheduler *journal.Scheduler
}

// NewRuntime builds the shared components from cfg. The journal database is
// opened here so a bad path fails startup.
func NewRuntime(cfg *config.Config, logger *logging.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("runtime requires a configuration")
	}
	if logger == nil {
		return nil, errors.New("runtime requires a logger")
	}

	rt := &Runtime{
		Config: cfg,
		Logger: logger,
		Stats:  stats.NewAggregator(),
		Queue:  queue.New[*proxy.Job](),
		Health: health.New(health.DefaultCheckTimeout),
	}

	if cfg.Telemetry.Metrics.Enabled {
		rt.Collector = metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
		rt.Collector.RegisterQueueDepth(func() float64 { return float64(rt.Queue.Len()) })
	}

	rt.Health.RegisterCheck("queue", health.ThresholdCheck("queue depth", rt.Queue.Len, cfg.Proxy.BacklogWarn))

	if cfg.Journal.Enabled {
		store, err := journal.Open(cfg.Journal.Driver, cfg.Journal.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("open session journal: %w", err)
		}
		rt.Journal = store
		rt.Writer = journal.NewWriter(store, cfg.Journal.Buffer, rt.Collector, logger)
		rt.Scheduler = journal.NewScheduler(store, cfg.Journal.Retention, cfg.Journal.PruneSchedule, logger)
		rt.Health.RegisterCheck("journal", store.Ping)
	}

	return rt, nil
}

// Recorder returns the journal writer, or nil when journaling is disabled.
func (rt *Runtime) Recorder() proxy.Recorder {
	if rt.Writer == nil {
		return nil
	}
	return rt.Writer
}

// Start launches background jobs owned by the runtime.
func (rt *Runtime) Start(ctx context.Context) error {
	if rt.Scheduler != nil {
		if err := rt.Scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start journal pruning: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the journal.
func (rt *Runtime) Close() error {
	if rt.Scheduler != nil {
		rt.Scheduler.Stop()
	}
	if rt.Writer != nil {
		rt.Writer.Close()
	}
	if rt.Journal != nil {
		return rt.Journal.Close()
	}
	return nil
}
