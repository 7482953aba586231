package proxy

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"mercator-hq/waypoint/pkg/config"
	"mercator-hq/waypoint/pkg/httpmsg"
	"mercator-hq/waypoint/pkg/stats"
	"mercator-hq/waypoint/pkg/telemetry/logging"
	"mercator-hq/waypoint/pkg/telemetry/metrics"
)

// Options holds the per-operation timeouts and buffer size of a Relay.
type Options struct {
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	UpstreamReadTimeout time.Duration
	BufferSize          int
}

// OptionsFromConfig extracts relay options from the proxy configuration.
func OptionsFromConfig(cfg config.ProxyConfig) Options {
	return Options{
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		UpstreamReadTimeout: cfg.UpstreamReadTimeout,
		BufferSize:          cfg.BufferSize,
	}
}

// Relay services proxy sessions. One Relay is shared by every worker.
type Relay struct {
	opts      Options
	dialer    *Dialer
	stats     *stats.Aggregator
	collector *metrics.Collector
	logger    *logging.Logger
	recorder  Recorder
}

// NewRelay creates a Relay. collector and recorder may be nil.
func NewRelay(opts Options, dialer *Dialer, agg *stats.Aggregator, collector *metrics.Collector, logger *logging.Logger, recorder Recorder) *Relay {
	if opts.BufferSize <= 0 || opts.BufferSize > httpmsg.MaxChunkSize {
		opts.BufferSize = httpmsg.MaxChunkSize
	}
	if dialer == nil {
		dialer = NewDialer(config.ResolverConfig{}, config.DefaultDialTimeout, collector)
	}
	if logger == nil {
		logger, _ = logging.New(logging.Config{Writer: io.Discard})
	}

	return &Relay{
		opts:      opts,
		dialer:    dialer,
		stats:     agg,
		collector: collector,
		logger:    logger,
		recorder:  recorder,
	}
}

// Serve relays job until both directions finish. The client connection is
// always closed when Serve returns.
func (r *Relay) Serve(ctx context.Context, job *Job) {
	start := time.Now()
	ctx = logging.WithSessionID(ctx, job.ID)
	ctx = logging.WithClient(ctx, job.Client())
	logger := r.logger.WithContext(ctx)

	sess := newSession(job, r.stats, r.collector, logger)
	outcome := metrics.OutcomeOK

	r.collector.SessionStarted()
	defer func() {
		end := time.Now()
		r.collector.SessionFinished(outcome, end.Sub(start))
		if r.recorder != nil {
			r.recorder.Record(sess.Summary(outcome, start, end))
		}
	}()

	client := job.Conn
	buf := make([]byte, r.opts.BufferSize)

	r.armRead(client, r.opts.ReadTimeout)
	req, rest, err := httpmsg.ReadClient(client, buf, sess)
	if err != nil || !req.ClientRequest {
		outcome = metrics.OutcomeBadRequest
		if err != nil {
			logger.Debug("Rejecting client", "error", err)
		}
		r.reject(client, 400)
		return
	}

	target, err := r.dialer.Dial(ctx, req.Host, req.Port)
	if err != nil {
		if !IsUpstreamFailure(err) {
			outcome = metrics.OutcomeAborted
			logger.Info("Session abandoned before connect", "server", req.Address(), "error", err)
			client.Close()
			return
		}
		outcome = metrics.OutcomeBadGateway
		logger.Warn("Upstream unavailable", "server", req.Address(), "error", err)
		r.reject(client, 502)
		return
	}

	logLegEnd(logger, r.forwardRequest(target, req, rest, sess))

	done := make(chan struct{})
	go func() {
		defer close(done)
		logLegEnd(logger, r.downstream(target, client, sess))
	}()

	logLegEnd(logger, r.upstream(client, target, buf, sess))
	<-done
}

// logLegEnd logs why a relay direction stopped. Expired deadlines are
// reported at info; other closes are routine.
func logLegEnd(logger *logging.Logger, err error) {
	if err == nil {
		return
	}
	var te *TransportError
	if errors.As(err, &te) && te.Timeout() {
		logger.Info("Relay timed out", "direction", te.Direction, "op", te.Op)
		return
	}
	logger.Debug("Relay closed", "error", err)
}

// upstream copies client chunks to the origin until the client side fails,
// then sends the closing 400 and closes the origin connection.
func (r *Relay) upstream(client, target net.Conn, buf []byte, sess *Session) error {
	defer target.Close()

	var err error
	for {
		r.armRead(client, r.opts.ReadTimeout)
		req, rest, rerr := httpmsg.ReadClient(client, buf, sess)
		if rerr != nil {
			err = transportErr(metrics.DirectionUpstream, "read", rerr)
			break
		}

		if req.ClientRequest {
			err = r.forwardRequest(target, req, rest, sess)
		} else {
			err = r.write(target, rest, sess.addUp)
		}
		if err != nil {
			break
		}
	}

	r.armWrite(client, r.opts.WriteTimeout)
	_ = WriteErrorPage(client, 400)
	return err
}

// downstream copies origin chunks to the client until either fails, then
// closes the client connection.
func (r *Relay) downstream(target, client net.Conn, sess *Session) error {
	defer client.Close()

	buf := make([]byte, r.opts.BufferSize)
	for {
		r.armRead(target, r.opts.UpstreamReadTimeout)
		chunk, err := httpmsg.ReadServer(target, buf, sess)
		if err != nil {
			return transportErr(metrics.DirectionDownstream, "read", err)
		}

		r.armWrite(client, r.opts.WriteTimeout)
		if _, err := client.Write(chunk); err != nil {
			return transportErr(metrics.DirectionDownstream, "write", err)
		}
		sess.addDown(len(chunk))
	}
}

// forwardRequest writes the normalised request line followed by the rest of
// the chunk.
func (r *Relay) forwardRequest(target net.Conn, req *httpmsg.Request, rest []byte, sess *Session) error {
	out := make([]byte, 0, len(req.Method)+len(req.Path)+len(req.Version)+4+len(rest))
	out = append(out, req.RequestLine()...)
	out = append(out, "\r\n"...)
	out = append(out, rest...)
	return r.write(target, out, sess.addUp)
}

func (r *Relay) write(target net.Conn, p []byte, count func(int)) error {
	if len(p) == 0 {
		return nil
	}
	n, err := target.Write(p)
	count(n)
	if err != nil {
		return transportErr(metrics.DirectionUpstream, "write", err)
	}
	return nil
}

func (r *Relay) reject(client net.Conn, code int) {
	r.armWrite(client, r.opts.WriteTimeout)
	_ = WriteErrorPage(client, code)
	client.Close()
}

func (r *Relay) armRead(conn net.Conn, d time.Duration) {
	if d > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(d))
	}
}

func (r *Relay) armWrite(conn net.Conn, d time.Duration) {
	if d > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(d))
	}
}

func transportErr(direction, op string, err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	var parseErr *httpmsg.ParseError
	if errors.As(err, &parseErr) {
		op = "parse"
	}
	return &TransportError{Direction: direction, Op: op, Err: err}
}
