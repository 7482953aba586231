package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/waypoint/pkg/admin"
	"mercator-hq/waypoint/pkg/proxy"
	"mercator-hq/waypoint/pkg/workers"
)

// maxAcceptBackoff caps the sleep after repeated transient accept errors.
const maxAcceptBackoff = time.Second

// Server runs the proxy listener, worker pool, admin listener and optional
// telemetry listener.
type Server struct {
	rt        *Runtime
	relay     *proxy.Relay
	pool      *workers.Pool[*proxy.Job]
	admin     *admin.Server
	telemetry *http.Server

	mu          sync.Mutex
	listener    net.Listener
	telemetryLn net.Listener
	running     bool

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a server around rt.
func New(rt *Runtime) (*Server, error) {
	cfg := rt.Config

	dialer := proxy.NewDialer(cfg.Resolver, cfg.Proxy.DialTimeout, rt.Collector)
	relay := proxy.NewRelay(proxy.OptionsFromConfig(cfg.Proxy), dialer, rt.Stats, rt.Collector,
		rt.Logger.With("component", "relay"), rt.Recorder())

	pool, err := workers.New(cfg.Proxy.Workers, rt.Queue, relay.Serve, rt.Logger.Slog())
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	s := &Server{
		rt:    rt,
		relay: relay,
		pool:  pool,
		admin: admin.NewServer(&cfg.Admin, rt.Stats, rt.Logger.With("component", "admin")),
	}

	if rt.Collector != nil {
		rt.Collector.RegisterBusyWorkers(func() float64 { return float64(pool.Busy()) })
		rt.Collector.RegisterWorkers(func() float64 { return float64(pool.Size()) })
	}
	rt.Health.RegisterCheck("workers", s.checkWorkers)

	if handler := s.telemetryHandler(); handler != nil {
		s.telemetry = &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return s, nil
}

// Listen binds every listener so address errors surface before serving.
func (s *Server) Listen() error {
	cfg := s.rt.Config

	ln, err := net.Listen("tcp", cfg.Proxy.ListenAddress)
	if err != nil {
		return fmt.Errorf("proxy listen on %s: %w", cfg.Proxy.ListenAddress, err)
	}

	if err := s.admin.Listen(); err != nil {
		ln.Close()
		return err
	}

	var telemetryLn net.Listener
	if s.telemetry != nil {
		telemetryLn, err = net.Listen("tcp", cfg.Telemetry.Metrics.ListenAddress)
		if err != nil {
			ln.Close()
			s.admin.Close()
			return fmt.Errorf("telemetry listen on %s: %w", cfg.Telemetry.Metrics.ListenAddress, err)
		}
	}

	s.mu.Lock()
	s.listener = ln
	s.telemetryLn = telemetryLn
	s.mu.Unlock()
	return nil
}

// Addr returns the proxy listener address.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// AdminAddr returns the admin listener address.
func (s *Server) AdminAddr() net.Addr {
	return s.admin.Addr()
}

// TelemetryAddr returns the telemetry listener address, or nil when
// metrics and health are both disabled.
func (s *Server) TelemetryAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.telemetryLn == nil {
		return nil
	}
	return s.telemetryLn.Addr()
}

// Serve starts the workers and the auxiliary listeners, then runs the
// accept loop until ctx is done or Shutdown is called. Listen must be
// called first.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	if ln == nil {
		s.mu.Unlock()
		return errors.New("server is not listening")
	}
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.running = true
	telemetryLn := s.telemetryLn
	s.mu.Unlock()

	if err := s.rt.Start(ctx); err != nil {
		return err
	}

	s.pool.Start(ctx)

	go func() {
		if err := s.admin.Serve(ctx); err != nil {
			s.rt.Logger.Error("Admin server stopped", "error", err)
		}
	}()

	if telemetryLn != nil {
		go func() {
			if err := s.telemetry.Serve(telemetryLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.rt.Logger.Error("Telemetry server stopped", "error", err)
			}
		}()
		s.rt.Logger.Info("Telemetry listening", "address", telemetryLn.Addr().String())
	}

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.rt.Logger.Info("Proxy listening",
		"address", ln.Addr().String(),
		"workers", s.pool.Size(),
	)
	return s.acceptLoop(ln)
}

func (s *Server) acceptLoop(ln net.Listener) error {
	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if isTemporary(err) {
				backoff = nextBackoff(backoff)
				s.rt.Logger.Warn("Accept failed, retrying", "error", err, "backoff", backoff.String())
				time.Sleep(backoff)
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}
		backoff = 0

		job := proxy.NewJob(conn)
		if !s.rt.Queue.Push(job) {
			conn.Close()
			return nil
		}
	}
}

// Shutdown closes the listeners, stops the workers once their current
// session ends, closes connections still queued and flushes the journal.
// Sessions still running when ctx expires are abandoned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.shutdownErr = s.shutdown(ctx)
	})
	return s.shutdownErr
}

func (s *Server) shutdown(ctx context.Context) error {
	logger := s.rt.Logger
	logger.Info("Shutting down")

	var errs []error

	s.mu.Lock()
	ln, started := s.listener, s.running
	s.mu.Unlock()

	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("close proxy listener: %w", err))
		}
	}
	if err := s.admin.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		errs = append(errs, fmt.Errorf("close admin listener: %w", err))
	}
	if s.telemetry != nil {
		if err := s.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
	}

	s.rt.Queue.Close()
	for _, job := range s.rt.Queue.Drain() {
		job.Conn.Close()
	}

	if started {
		done := make(chan struct{})
		go func() {
			s.pool.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			logger.Warn("Abandoning in-flight sessions", "busy", s.pool.Busy())
		}
	}

	if err := s.rt.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close runtime: %w", err))
	}

	logger.Info("Shutdown complete")
	return errors.Join(errs...)
}

func (s *Server) checkWorkers(ctx context.Context) error {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	if !running {
		return errors.New("worker pool not started")
	}
	if n := s.pool.Running(); n < s.pool.Size() {
		return fmt.Errorf("%d of %d workers running", n, s.pool.Size())
	}
	return nil
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	d *= 2
	if d > maxAcceptBackoff {
		d = maxAcceptBackoff
	}
	return d
}

// isTemporary matches accept errors such as EMFILE that clear on their own.
func isTemporary(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}
