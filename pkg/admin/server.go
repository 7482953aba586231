package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"mercator-hq/waypoint/pkg/config"
	"mercator-hq/waypoint/pkg/stats"
	"mercator-hq/waypoint/pkg/telemetry/logging"
)

// maxLine caps one command line; longer lines end the connection.
const maxLine = 4096

// Server answers statistics queries for one client at a time.
type Server struct {
	config *config.AdminConfig
	stats  *stats.Aggregator
	logger *logging.Logger

	mu       sync.Mutex
	listener net.Listener
	conn     net.Conn
	closed   bool
}

// NewServer creates an admin server over agg.
func NewServer(cfg *config.AdminConfig, agg *stats.Aggregator, logger *logging.Logger) *Server {
	return &Server{
		config: cfg,
		stats:  agg,
		logger: logger,
	}
}

// Listen binds the admin address. It is separate from Serve so bind errors
// surface before the process reports itself started.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("admin listen on %s: %w", s.config.ListenAddress, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		ln.Close()
		return net.ErrClosed
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts and serves connections serially until Close is called or
// ctx is done. It returns nil on a requested shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("admin server is not listening")
	}

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	s.logger.Info("Admin server listening", "address", ln.Addr().String())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("Admin accept failed", "error", err)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}
		s.handle(conn)
		s.track(nil)
	}
}

// Close stops the listener and drops the connection being served.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	if s.conn != nil {
		s.conn.Close()
	}
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conn != nil && s.closed {
		return false
	}
	s.conn = conn
	return true
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Info("Admin client connected", "client", remote)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), maxLine)

	for {
		if s.config.IdleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.config.IdleTimeout))
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				s.logger.Debug("Admin read ended", "client", remote, "error", err)
			}
			return
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		quit, err := Execute(conn, s.stats, line)
		if err != nil {
			s.logger.Debug("Admin write failed", "client", remote, "error", err)
			return
		}
		if quit {
			s.logger.Info("Admin client disconnected", "client", remote)
			return
		}
	}
}
