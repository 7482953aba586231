package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/waypoint/pkg/cli"
	"mercator-hq/waypoint/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "waypoint",
	Short: "Waypoint - forward HTTP proxy with traffic statistics",
	Long: `Waypoint is a forward HTTP proxy that relays client requests to their
origin servers and keeps running statistics about the traffic it carries.

Statistics are served on a loopback admin port as plain text:
  - Packet and body length mean and standard deviation
  - Response counts by MIME category and by status code
  - Most requested hosts`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code matching the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration named by --config, with environment
// overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	return cfg, nil
}
