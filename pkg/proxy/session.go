package proxy

import (
	"sync"
	"sync/atomic"
	"time"

	"mercator-hq/waypoint/pkg/httpmsg"
	"mercator-hq/waypoint/pkg/stats"
	"mercator-hq/waypoint/pkg/telemetry/logging"
	"mercator-hq/waypoint/pkg/telemetry/metrics"
)

// Summary describes a finished session.
type Summary struct {
	SessionID   string
	ClientIP    string
	ClientPort  int
	Host        string
	Port        uint16
	RequestLine string

	// Status is the last status code seen from the origin, 0 if none.
	Status int

	BytesUp   int64
	BytesDown int64
	Outcome   string
	Start     time.Time
	End       time.Time
}

// Recorder receives one Summary per finished session. Record must not block.
type Recorder interface {
	Record(Summary)
}

// Session is the per-connection state shared by the two relay directions.
// It implements httpmsg.Observer.
type Session struct {
	job       *Job
	stats     *stats.Aggregator
	collector *metrics.Collector
	logger    *logging.Logger

	// mu guards the fields below; the reverse direction reads lastRequest
	// while the forward direction replaces it.
	mu          sync.Mutex
	host        string
	port        uint16
	server      string
	lastRequest string

	lastStatus atomic.Int64
	bytesUp    atomic.Int64
	bytesDown  atomic.Int64
}

var _ httpmsg.Observer = (*Session)(nil)

func newSession(job *Job, agg *stats.Aggregator, collector *metrics.Collector, logger *logging.Logger) *Session {
	return &Session{
		job:       job,
		stats:     agg,
		collector: collector,
		logger:    logger,
	}
}

// ObserveRequest records a parsed client request.
func (s *Session) ObserveRequest(req *httpmsg.Request, chunk []byte) {
	if s.stats != nil {
		s.stats.RecordRequest(req.Host, chunk)
	}
	s.collector.RecordRequest(req.Method)

	line := req.RequestLine()
	s.mu.Lock()
	s.host = req.Host
	s.port = req.Port
	s.server = req.Address()
	s.lastRequest = line
	s.mu.Unlock()

	s.logger.Info("request",
		"client", s.job.Client(),
		"server", req.Address(),
		"request", line,
	)
}

// ObserveResponse records a status line from the origin.
func (s *Session) ObserveResponse(status int, chunk []byte) {
	if s.stats != nil {
		s.stats.RecordResponse(status, chunk)
	}
	s.collector.RecordResponse(status)
	if status > 0 {
		s.lastStatus.Store(int64(status))
	}

	s.mu.Lock()
	server, line := s.server, s.lastRequest
	s.mu.Unlock()

	s.logger.Info("response",
		"client", s.job.Client(),
		"server", server,
		"status", status,
		"text", httpmsg.StatusText(status),
		"request", line,
	)
}

func (s *Session) addUp(n int) {
	s.bytesUp.Add(int64(n))
	s.collector.AddBytes(metrics.DirectionUpstream, n)
}

func (s *Session) addDown(n int) {
	s.bytesDown.Add(int64(n))
	s.collector.AddBytes(metrics.DirectionDownstream, n)
}

// Summary captures the session for the journal.
func (s *Session) Summary(outcome string, start, end time.Time) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Summary{
		SessionID:   s.job.ID,
		ClientIP:    s.job.ClientIP,
		ClientPort:  s.job.ClientPort,
		Host:        s.host,
		Port:        s.port,
		RequestLine: s.lastRequest,
		Status:      int(s.lastStatus.Load()),
		BytesUp:     s.bytesUp.Load(),
		BytesDown:   s.bytesDown.Load(),
		Outcome:     outcome,
		Start:       start,
		End:         end,
	}
}
