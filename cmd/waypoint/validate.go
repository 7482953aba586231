package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file with environment overrides applied and
report every invalid field.

Examples:
  waypoint validate --config /etc/waypoint/config.yaml
  WAYPOINT_PROXY_WORKERS=0 waypoint validate`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Configuration valid")
	if verbose {
		fmt.Fprintf(out, "  proxy:    %s (%d workers)\n", cfg.Proxy.ListenAddress, cfg.Proxy.Workers)
		fmt.Fprintf(out, "  admin:    %s\n", cfg.Admin.ListenAddress)
		if cfg.Journal.Enabled {
			fmt.Fprintf(out, "  journal:  %s (%s)\n", cfg.Journal.Path, cfg.Journal.Driver)
		} else {
			fmt.Fprintln(out, "  journal:  disabled")
		}
		if cfg.Telemetry.Metrics.Enabled {
			fmt.Fprintf(out, "  metrics:  %s%s\n", cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path)
		}
	}
	return nil
}
