package server

import (
	"net/http"

	"mercator-hq/waypoint/pkg/telemetry/health"
	"mercator-hq/waypoint/pkg/telemetry/middleware"
)

// Build information reported on /version; set by cmd/waypoint.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// telemetryHandler builds the telemetry mux, or returns nil when neither
// metrics nor health endpoints are enabled.
func (s *Server) telemetryHandler() http.Handler {
	cfg := s.rt.Config.Telemetry
	if !cfg.Metrics.Enabled && !cfg.Health.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	if cfg.Metrics.Enabled && s.rt.Collector != nil {
		mux.Handle(cfg.Metrics.Path, s.rt.Collector.Handler())
	}
	if cfg.Health.Enabled {
		s.rt.Health.Mount(mux, cfg.Health.LivenessPath, cfg.Health.ReadinessPath)
		mux.HandleFunc("/version", health.VersionHandler(Version, GitCommit, BuildDate))
	}
	return middleware.Chain(mux, s.rt.Logger.Slog().With("component", "telemetry"))
}
