// Package testnet provides loopback listeners for tests.
package testnet

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// Listen opens a loopback TCP listener closed at test cleanup.
func Listen(t testing.TB) net.Listener {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	return ln
}

// FreePort returns a loopback port with nothing listening on it.
func FreePort(t testing.TB) int {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

// Origin is a loopback server that records the request head of every
// connection and answers with a fixed response.
type Origin struct {
	Addr string
	Port int

	mu       sync.Mutex
	requests []string
}

// NewOrigin starts an origin that replies with response and then closes
// each connection.
func NewOrigin(t testing.TB, response string) *Origin {
	t.Helper()

	ln := Listen(t)
	o := &Origin{
		Addr: ln.Addr().String(),
		Port: ln.Addr().(*net.TCPAddr).Port,
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go o.serve(conn, response)
		}
	}()
	return o
}

func (o *Origin) serve(conn net.Conn, response string) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	head, err := ReadHead(bufio.NewReader(conn))
	if err != nil {
		return
	}
	o.mu.Lock()
	o.requests = append(o.requests, head)
	o.mu.Unlock()

	_, _ = io.WriteString(conn, response)
}

// Requests returns the request heads received so far.
func (o *Origin) Requests() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.requests...)
}

// ReadHead reads lines up to and including the blank line ending a header
// block and returns them joined.
func ReadHead(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		line, err := r.ReadString('\n')
		sb.WriteString(line)
		if err != nil {
			return sb.String(), err
		}
		if line == "\r\n" || line == "\n" {
			return sb.String(), nil
		}
	}
}
