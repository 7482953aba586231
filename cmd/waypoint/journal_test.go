package main

import (
	"bytes"
	"testing"
	"time"

	"mercator-hq/waypoint/pkg/cli"
	"mercator-hq/waypoint/pkg/journal"
)

func TestEntriesTable(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entries := []*journal.Entry{
		{
			SessionID:   "s1",
			ClientIP:    "10.0.0.1",
			ClientPort:  5000,
			Host:        "example.com",
			Port:        80,
			RequestLine: "GET /foo HTTP/1.1",
			Status:      200,
			BytesUp:     40,
			BytesDown:   120,
			Outcome:     "ok",
			Start:       start,
			End:         start.Add(1500 * time.Millisecond),
		},
		{
			SessionID:  "s2",
			ClientIP:   "10.0.0.2",
			ClientPort: 5001,
			Outcome:    "bad_request",
			Start:      start,
			End:        start,
		},
	}

	table := entriesTable(entries)
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}

	first := table.Records()[0]
	checks := map[string]string{
		"session":  "s1",
		"client":   "10.0.0.1:5000",
		"host":     "example.com:80",
		"status":   "200",
		"up":       "40",
		"down":     "120",
		"ended":    "2026-01-02T03:04:06Z",
		"duration": "1.5s",
	}
	for col, want := range checks {
		if first[col] != want {
			t.Errorf("%s = %q, want %q", col, first[col], want)
		}
	}

	second := table.Records()[1]
	if second["host"] != "-" {
		t.Errorf("host = %q, want %q", second["host"], "-")
	}
	if second["status"] != "" {
		t.Errorf("status = %q, want empty", second["status"])
	}
}

func TestEntriesTable_CSV(t *testing.T) {
	var out bytes.Buffer
	if err := cli.NewFormatter(cli.FormatCSV).FormatTo(&out, entriesTable(nil)); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	want := "session,client,host,request,status,up,down,outcome,ended,duration\n"
	if out.String() != want {
		t.Errorf("csv = %q, want %q", out.String(), want)
	}
}
