package main

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/waypoint/pkg/admin"
	"mercator-hq/waypoint/pkg/cli"
)

var statsFlags struct {
	address string
	timeout time.Duration
}

var statsCmd = &cobra.Command{
	Use:   "stats <command...>",
	Short: "Query a running proxy's statistics",
	Long: `Send one admin command to a running proxy and print the reply.

Commands:
  packet length stats   mean and standard deviation of packet and body lengths
  type count            responses per MIME category
  status count          responses per status code
  top <k>               the k most requested hosts

Examples:
  waypoint stats status count
  waypoint stats top 5
  waypoint stats --admin 127.0.0.1:3129 type count`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsFlags.address, "admin", "a", "", "admin address (default from config)")
	statsCmd.Flags().DurationVar(&statsFlags.timeout, "timeout", 5*time.Second, "connection timeout")
}

func runStats(cmd *cobra.Command, args []string) error {
	addr := statsFlags.address
	if addr == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		addr = cfg.Admin.ListenAddress
	}

	if err := queryAdmin(cmd.OutOrStdout(), addr, strings.Join(args, " "), statsFlags.timeout); err != nil {
		return cli.NewCommandError("stats", err)
	}
	return nil
}

// queryAdmin sends command followed by exit, and copies the reply to w
// without the closing farewell line.
func queryAdmin(w io.Writer, addr, command string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("connect to admin at %s: %w", addr, err)
	}
	defer conn.Close()

	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}

	// The server handles one line at a time, so both lines can be sent
	// up front and the reply read until the connection closes.
	if _, err := fmt.Fprintf(conn, "%s\n%s\n", command, admin.CmdExit); err != nil {
		return fmt.Errorf("send command: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == admin.ReplyBye {
			return nil
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read reply: %w", err)
	}
	return nil
}
