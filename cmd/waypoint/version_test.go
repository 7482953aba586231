package main

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"mercator-hq/waypoint/pkg/server"
)

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
}

func TestVersionCommandOutput(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "0.1.0-test"
	GitCommit = "abc123"

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)
	versionCmd.Run(versionCmd, nil)

	got := out.String()
	for _, want := range []string{
		"Waypoint 0.1.0-test\n",
		"Git Commit: abc123\n",
		"Go Version: " + runtime.Version(),
		runtime.GOOS + "/" + runtime.GOARCH,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("version output missing %q:\n%s", want, got)
		}
	}
}

func TestPublishBuildInfo(t *testing.T) {
	origVersion, origDate := Version, BuildDate
	defer func() { Version, BuildDate = origVersion, origDate }()

	Version = "9.9.9"
	BuildDate = "2026-10-15"
	publishBuildInfo()

	if server.Version != "9.9.9" {
		t.Errorf("server.Version = %q, want %q", server.Version, "9.9.9")
	}
	if server.BuildDate != "2026-10-15" {
		t.Errorf("server.BuildDate = %q, want %q", server.BuildDate, "2026-10-15")
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"run": false, "stats": false, "journal": false, "validate": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
