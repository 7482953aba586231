package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/waypoint/pkg/cli"
	"mercator-hq/waypoint/pkg/config"
	"mercator-hq/waypoint/pkg/journal"
	"mercator-hq/waypoint/pkg/telemetry/logging"
)

var journalFlags struct {
	limit  int
	format string
	before time.Duration
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the session journal",
	Long: `Inspect the session journal written by a proxy with journal.enabled set.

The journal holds one row per finished session. It is only read here; the
running proxy's in-memory statistics are not affected.

Examples:
  # Show the 20 most recent sessions
  waypoint journal recent --config config.yaml --limit 20

  # Export as CSV
  waypoint journal recent --format csv > sessions.csv

  # Delete sessions older than a day
  waypoint journal prune --older-than 24h`,
}

var journalRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent sessions",
	RunE:  journalRecent,
}

var journalCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of journaled sessions",
	RunE:  journalCount,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions older than the retention period",
	RunE:  journalPrune,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRecentCmd, journalCountCmd, journalPruneCmd)

	journalRecentCmd.Flags().IntVarP(&journalFlags.limit, "limit", "n", 20, "number of sessions to list")
	journalRecentCmd.Flags().StringVarP(&journalFlags.format, "format", "f", "text", "output format: text, json, csv")
	journalPruneCmd.Flags().DurationVar(&journalFlags.before, "older-than", 0, "age cutoff (default journal.retention)")
}

// openJournal opens the journal named by the configuration. Store logs are
// discarded so command output stays clean.
func openJournal() (*journal.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Config{Level: "error", Format: "text", Writer: io.Discard})
	if err != nil {
		return nil, nil, err
	}

	store, err := journal.Open(cfg.Journal.Driver, cfg.Journal.Path, logger)
	if err != nil {
		return nil, nil, cli.NewCommandError("journal", err)
	}
	return store, cfg, nil
}

func journalRecent(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(journalFlags.format)
	if err != nil {
		return cli.NewConfigError("format", err.Error())
	}

	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), journalFlags.limit)
	if err != nil {
		return cli.NewCommandError("journal recent", err)
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), entriesTable(entries))
}

// entriesTable lays entries out newest first.
func entriesTable(entries []*journal.Entry) *cli.Table {
	t := &cli.Table{Headers: []string{
		"session", "client", "host", "request", "status", "up", "down", "outcome", "ended", "duration",
	}}
	for _, e := range entries {
		status := ""
		if e.Status > 0 {
			status = strconv.Itoa(e.Status)
		}
		t.Append(
			e.SessionID,
			fmt.Sprintf("%s:%d", e.ClientIP, e.ClientPort),
			hostPort(e.Host, e.Port),
			e.RequestLine,
			status,
			strconv.FormatInt(e.BytesUp, 10),
			strconv.FormatInt(e.BytesDown, 10),
			e.Outcome,
			e.End.UTC().Format(time.RFC3339),
			e.Duration().Round(time.Millisecond).String(),
		)
	}
	return t
}

func hostPort(host string, port int) string {
	if host == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d", host, port)
}

func journalCount(cmd *cobra.Command, args []string) error {
	store, _, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Count(cmd.Context())
	if err != nil {
		return cli.NewCommandError("journal count", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}

func journalPrune(cmd *cobra.Command, args []string) error {
	store, cfg, err := openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	age := journalFlags.before
	if age <= 0 {
		age = cfg.Journal.Retention
	}
	if age <= 0 {
		return cli.NewConfigError("journal.retention", "no retention configured; pass --older-than")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	removed, err := store.Prune(ctx, time.Now().Add(-age))
	if err != nil {
		return cli.NewCommandError("journal prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d sessions older than %s\n", removed, age)
	return nil
}
