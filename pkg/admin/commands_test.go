package admin

import (
	"bytes"
	"fmt"
	"testing"

	"mercator-hq/waypoint/pkg/stats"
)

func response(status int, contentType string) []byte {
	return fmt.Appendf(nil, "HTTP/1.1 %d X\r\nContent-Type: %s\r\nContent-Length: 4\r\n\r\nbody", status, contentType)
}

func seededAggregator() *stats.Aggregator {
	agg := stats.NewAggregator()

	for host, n := range map[string]int{"a.example": 3, "b.example": 1, "c.example": 2} {
		for i := 0; i < n; i++ {
			agg.RecordRequest(host, []byte("GET / HTTP/1.1\r\nHost: "+host+"\r\n\r\n"))
		}
	}

	agg.RecordResponse(200, response(200, "text/html"))
	agg.RecordResponse(404, response(404, "image/png"))
	agg.RecordResponse(200, response(200, "text/html; charset=utf-8"))
	agg.RecordResponse(200, response(200, "application/json"))
	return agg
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     string
		wantQuit bool
	}{
		{
			name: "status count",
			line: "status count",
			want: "200 OK: 3\n404 Not Found: 1\n",
		},
		{
			name: "type count",
			line: "type count",
			want: "text/plain: 1\ntext/html: 2\nimage/png: 1\n",
		},
		{
			name: "top two",
			line: "top 2",
			want: "a.example\nc.example\n",
		},
		{
			name: "top more than known",
			line: "top 10",
			want: "a.example\nc.example\nb.example\n",
		},
		{
			name: "top without count",
			line: "top",
			want: "",
		},
		{
			name: "top with garbage count",
			line: "top many",
			want: "",
		},
		{
			name: "top negative count",
			line: "top -3",
			want: "",
		},
		{
			name: "top with trailing text",
			line: "top 1 please",
			want: "a.example\n",
		},
		{
			name: "substring match",
			line: "please stop 1",
			want: "",
		},
		{
			name:     "exit",
			line:     "exit",
			want:     "Bye\n",
			wantQuit: true,
		},
		{
			name: "top wins over exit",
			line: "exit top",
			want: "",
		},
		{
			name: "unknown",
			line: "hello",
			want: "Bad Request\n",
		},
		{
			name: "empty",
			line: "",
			want: "Bad Request\n",
		},
	}

	agg := seededAggregator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			quit, err := Execute(&buf, agg, tt.line)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if quit != tt.wantQuit {
				t.Errorf("quit = %v, want %v", quit, tt.wantQuit)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Execute(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestExecute_PacketLengthStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if _, err := Execute(&buf, stats.NewAggregator(), "packet length stats"); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		want := "Packet length received from servers(mean, std): (0.000000, 0.000000)\n" +
			"Packet length received from clients(mean, std): (0.000000, 0.000000)\n" +
			"Body length received from servers(mean, std): (0.000000, 0.000000)\n"
		if got := buf.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("populated", func(t *testing.T) {
		agg := seededAggregator()
		snap := agg.Snapshot()

		var buf bytes.Buffer
		if _, err := Execute(&buf, agg, "packet length stats"); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		want := fmt.Sprintf("Packet length received from servers(mean, std): (%f, %f)\n"+
			"Packet length received from clients(mean, std): (%f, %f)\n"+
			"Body length received from servers(mean, std): (%f, %f)\n",
			snap.ServerPacketLength.Mean(), snap.ServerPacketLength.StdDev(),
			snap.ClientPacketLength.Mean(), snap.ClientPacketLength.StdDev(),
			snap.ServerBodyLength.Mean(), snap.ServerBodyLength.StdDev())
		if got := buf.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if snap.ServerBodyLength.Mean() != 4 {
			t.Errorf("body mean = %v, want 4", snap.ServerBodyLength.Mean())
		}
	})
}

func TestTopCount(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"top 5", 5},
		{"top  7", 7},
		{"top +2", 2},
		{"top 3x", 3},
		{"top", 0},
		{"top x", 0},
		{"top -1", 0},
		{" top 4", 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := topCount(tt.line); got != tt.want {
				t.Errorf("topCount(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestExecute_StatusOutsideTable(t *testing.T) {
	agg := stats.NewAggregator()
	agg.RecordResponse(204, []byte("HTTP/1.1 204 No Content\r\n\r\n"))
	agg.RecordResponse(503, []byte("HTTP/1.1 503 Service Unavailable\r\n\r\n"))
	agg.RecordResponse(503, []byte("HTTP/1.1 503 Service Unavailable\r\n\r\n"))

	var buf bytes.Buffer
	if _, err := Execute(&buf, agg, CmdStatusCount); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := "204 Internal Server Error: 1\n503 Internal Server Error: 2\n"
	if buf.String() != want {
		t.Errorf("status count = %q, want %q", buf.String(), want)
	}
}
