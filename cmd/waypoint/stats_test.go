package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"mercator-hq/waypoint/internal/testnet"
	"mercator-hq/waypoint/pkg/admin"
	"mercator-hq/waypoint/pkg/config"
	"mercator-hq/waypoint/pkg/stats"
	"mercator-hq/waypoint/pkg/telemetry/logging"
)

func startAdmin(t *testing.T) string {
	t.Helper()

	agg := stats.NewAggregator()
	for host, n := range map[string]int{"a.example": 3, "b.example": 1, "c.example": 2} {
		for i := 0; i < n; i++ {
			agg.RecordRequest(host, []byte("GET / HTTP/1.1\r\nHost: "+host+"\r\n\r\n"))
		}
	}
	agg.RecordResponse(200, []byte("HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\n"))
	agg.RecordResponse(404, []byte("HTTP/1.1 404 Not Found\r\n\r\n"))

	logger, err := logging.New(logging.Config{Writer: io.Discard})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}

	srv := admin.NewServer(&config.AdminConfig{ListenAddress: "127.0.0.1:0"}, agg, logger)
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go srv.Serve(context.Background())
	t.Cleanup(func() { srv.Close() })
	return srv.Addr().String()
}

func TestQueryAdmin(t *testing.T) {
	addr := startAdmin(t)

	tests := []struct {
		command string
		want    string
	}{
		{command: "top 2", want: "a.example\nc.example\n"},
		{command: "status count", want: "200 OK: 1\n404 Not Found: 1\n"},
		{command: "type count", want: "text/html: 1\n"},
		{command: "hello", want: "Bad Request\n"},
		{command: "exit", want: ""},
	}

	// The admin server is serial, so each query also proves the previous
	// connection was released.
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			var out bytes.Buffer
			if err := queryAdmin(&out, addr, tt.command, 5*time.Second); err != nil {
				t.Fatalf("queryAdmin() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("reply = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestQueryAdmin_PacketLengthStats(t *testing.T) {
	addr := startAdmin(t)

	var out bytes.Buffer
	if err := queryAdmin(&out, addr, "packet length stats", 5*time.Second); err != nil {
		t.Fatalf("queryAdmin() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "Packet length received from servers(mean, std): (") {
		t.Errorf("line 0 = %q", lines[0])
	}
}

func TestQueryAdmin_ConnectionRefused(t *testing.T) {
	addr := fmt.Sprintf("127.0.0.1:%d", testnet.FreePort(t))

	err := queryAdmin(io.Discard, addr, "top 1", time.Second)
	if err == nil {
		t.Fatal("queryAdmin() error = nil, want connection error")
	}
	if !strings.Contains(err.Error(), "connect to admin") {
		t.Errorf("error = %v, want connect failure", err)
	}
}
