package proxy

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// ResolveError indicates that the origin hostname had no usable IPv4 address.
type ResolveError struct {
	Host string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Host, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// DialError indicates that the origin refused or timed out the connect.
type DialError struct {
	Address string
	Err     error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("dial %s: %v", e.Address, e.Err)
}

func (e *DialError) Unwrap() error {
	return e.Err
}

// TransportError ends one relay direction. It is logged and never surfaced
// to the client.
type TransportError struct {
	// Direction is "upstream" (client to origin) or "downstream".
	Direction string

	// Op is "read" or "write".
	Op string

	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Direction, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the direction ended on an expired deadline.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, os.ErrDeadlineExceeded)
}

// IsUpstreamFailure reports whether err should be answered with 502.
func IsUpstreamFailure(err error) bool {
	var resolveErr *ResolveError
	var dialErr *DialError
	return errors.As(err, &resolveErr) || errors.As(err, &dialErr)
}
