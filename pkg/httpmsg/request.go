package httpmsg

import (
	"bytes"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is used when the Host header carries no port.
const DefaultPort = 80

// MethodConnect keeps its request target unmodified.
const MethodConnect = "CONNECT"

var requestMarker = []byte(" HTTP/1.")

// Request describes one parsed request line, or a passthrough chunk when
// ClientRequest is false.
type Request struct {
	Method  string
	Path    string
	Version string

	// Host is the hostname from the Host header with any port removed.
	Host string
	Port uint16

	// ClientRequest is true when the chunk carried a parsed request line.
	ClientRequest bool
}

// RequestLine renders the request line without its terminator.
func (r *Request) RequestLine() string {
	return r.Method + " " + r.Path + " " + r.Version
}

// Address returns host:port for dialing.
func (r *Request) Address() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(int(r.Port)))
}

// ParseRequest parses one chunk read from a client.
//
// A chunk without a request line marker yields a zero Request (ClientRequest
// false) and the whole chunk as rest. Otherwise the request line is parsed
// and rest is every byte after its terminating LF, aliasing chunk. Absolute
// form targets are reduced to origin form unless the method is CONNECT.
func ParseRequest(chunk []byte) (*Request, []byte, error) {
	if !bytes.Contains(chunk, requestMarker) {
		return &Request{}, chunk, nil
	}

	c := newCursor(chunk)

	method := c.takeWhile(isUpper)
	if len(method) == 0 {
		return nil, nil, parseErr(ErrMissingMethod, c.pos)
	}
	if !c.consume(' ') {
		return nil, nil, parseErr(ErrMalformedLine, c.pos)
	}

	path := c.takeWhile(isToken)
	if len(path) == 0 {
		return nil, nil, parseErr(ErrMissingPath, c.pos)
	}
	if !c.consume(' ') {
		return nil, nil, parseErr(ErrMalformedLine, c.pos)
	}

	version := c.takeWhile(isToken)
	if len(version) == 0 {
		return nil, nil, parseErr(ErrMissingVersion, c.pos)
	}
	if !c.skipLine() {
		return nil, nil, parseErr(ErrMalformedLine, c.pos)
	}
	rest := c.rest()

	hostHeader, ok := HeaderValue(rest, "Host")
	if !ok || hostHeader == "" {
		return nil, nil, parseErr(ErrMissingHost, c.pos)
	}

	req := &Request{
		Method:        string(method),
		Path:          string(path),
		Version:       string(version),
		Host:          hostHeader,
		Port:          DefaultPort,
		ClientRequest: true,
	}

	if req.Method != MethodConnect {
		if i := strings.Index(req.Path, hostHeader); i >= 0 {
			origin := stripPort(req.Path[i+len(hostHeader):])
			if origin == "" {
				return nil, nil, parseErr(ErrEmptyOriginPath, c.pos)
			}
			req.Path = origin
		}
	}

	if strings.Contains(hostHeader, ":") {
		host, port, err := net.SplitHostPort(hostHeader)
		if err != nil {
			return nil, nil, parseErr(ErrInvalidPort, c.pos)
		}
		n, err := strconv.ParseUint(port, 10, 16)
		if err != nil || n == 0 {
			return nil, nil, parseErr(ErrInvalidPort, c.pos)
		}
		req.Host = host
		req.Port = uint16(n)
	}

	return req, rest, nil
}

// stripPort drops a ":digits" prefix left behind when the request target
// names a port the Host header omitted.
func stripPort(s string) string {
	if len(s) < 2 || s[0] != ':' || !isDigit(s[1]) {
		return s
	}
	i := 1
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[i:]
}
