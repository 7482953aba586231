package proxy

import (
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Job is one accepted client connection waiting for a worker.
type Job struct {
	// ID correlates the log lines, metrics and journal entry of a session.
	ID string

	// Accepted is when the listener returned the connection.
	Accepted time.Time

	Conn       net.Conn
	ClientIP   string
	ClientPort int
}

// NewJob wraps an accepted connection.
func NewJob(conn net.Conn) *Job {
	job := &Job{
		ID:       uuid.NewString(),
		Accepted: time.Now(),
		Conn:     conn,
	}

	if addr := conn.RemoteAddr(); addr != nil {
		host, port, err := net.SplitHostPort(addr.String())
		if err == nil {
			job.ClientIP = host
			job.ClientPort, _ = strconv.Atoi(port)
		} else {
			job.ClientIP = addr.String()
		}
	}
	return job
}

// Client returns the client endpoint as ip:port.
func (j *Job) Client() string {
	return net.JoinHostPort(j.ClientIP, strconv.Itoa(j.ClientPort))
}
