package journal

import (
	"time"

	"github.com/google/uuid"

	"mercator-hq/waypoint/pkg/proxy"
)

// Entry is one journaled session.
type Entry struct {
	ID          string
	SessionID   string
	ClientIP    string
	ClientPort  int
	Host        string
	Port        int
	RequestLine string
	Status      int
	BytesUp     int64
	BytesDown   int64
	Outcome     string
	Start       time.Time
	End         time.Time
}

// EntryFromSummary builds an entry with a fresh ID.
func EntryFromSummary(s proxy.Summary) *Entry {
	return &Entry{
		ID:          uuid.NewString(),
		SessionID:   s.SessionID,
		ClientIP:    s.ClientIP,
		ClientPort:  s.ClientPort,
		Host:        s.Host,
		Port:        int(s.Port),
		RequestLine: s.RequestLine,
		Status:      s.Status,
		BytesUp:     s.BytesUp,
		BytesDown:   s.BytesDown,
		Outcome:     s.Outcome,
		Start:       s.Start,
		End:         s.End,
	}
}

// Duration returns how long the session lasted.
func (e *Entry) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
