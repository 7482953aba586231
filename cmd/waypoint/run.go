package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/waypoint/pkg/cli"
	"mercator-hq/waypoint/pkg/config"
	"mercator-hq/waypoint/pkg/server"
	"mercator-hq/waypoint/pkg/telemetry/logging"
)

// shutdownTimeout bounds how long in-flight sessions may finish on exit.
const shutdownTimeout = 10 * time.Second

var runFlags struct {
	listenAddress string
	adminAddress  string
	workers       int
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the proxy",
	Long: `Start the forward proxy and the admin statistics listener.

Examples:
  # Start with defaults
  waypoint run

  # Start with a config file; log level changes are applied on save
  waypoint run --config /etc/waypoint/config.yaml

  # Override listen addresses and pool size
  waypoint run --listen :3128 --admin 127.0.0.1:3129 --workers 32

  # Validate configuration without starting
  waypoint run --dry-run`,
	RunE: runProxy,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override proxy listen address")
	runCmd.Flags().StringVar(&runFlags.adminAddress, "admin", "", "override admin listen address")
	runCmd.Flags().IntVarP(&runFlags.workers, "workers", "w", 0, "override worker pool size")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runProxy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyRunFlags(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	logger, err := newLogger(cfg.Telemetry.Logging)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	defer logger.Shutdown()

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	return serve(ctx, cfg, logger, out)
}

// applyRunFlags applies command-line overrides and revalidates.
func applyRunFlags(cfg *config.Config) error {
	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.adminAddress != "" {
		cfg.Admin.ListenAddress = runFlags.adminAddress
	}
	if runFlags.workers != 0 {
		cfg.Proxy.Workers = runFlags.workers
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		AddSource:  cfg.AddSource,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
}

// serve runs the proxy until ctx is canceled or a listener fails.
func serve(ctx context.Context, cfg *config.Config, logger *logging.Logger, out io.Writer) error {
	publishBuildInfo()

	rt, err := server.NewRuntime(cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	srv, err := server.New(rt)
	if err != nil {
		rt.Close()
		return cli.NewCommandError("run", err)
	}
	if err := srv.Listen(); err != nil {
		rt.Close()
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintf(out, "Waypoint %s\n", Version)
	fmt.Fprintf(out, "✓ Proxy listening on %s (%d workers)\n", srv.Addr(), cfg.Proxy.Workers)
	fmt.Fprintf(out, "✓ Admin listening on %s\n", srv.AdminAddr())
	if addr := srv.TelemetryAddr(); addr != nil {
		fmt.Fprintf(out, "✓ Telemetry listening on %s\n", addr)
	}
	if cfg.Journal.Enabled {
		fmt.Fprintf(out, "✓ Session journal at %s\n", cfg.Journal.Path)
	}

	watchReloads(ctx, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	var serveErr error
	select {
	case <-ctx.Done():
		fmt.Fprintln(out, "\nShutting down...")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
		serveErr = errors.Join(serveErr, err)
	}

	if serveErr != nil {
		return cli.NewCommandError("run", serveErr)
	}
	fmt.Fprintln(out, "✓ Proxy stopped")
	return nil
}

// watchReloads applies the log level from the config file when it changes
// on disk or when SIGHUP arrives. Other settings need a restart.
func watchReloads(ctx context.Context, logger *logging.Logger) {
	if cfgFile == "" {
		return
	}

	apply := func(cfg *config.Config) {
		if err := logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
			logger.Warn("Ignoring reloaded log level", "error", err)
			return
		}
		logger.Info("Log level applied", "level", cfg.Telemetry.Logging.Level)
	}

	watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval, logger.Slog())
	if err != nil {
		logger.Warn("Config watcher disabled", "error", err)
	} else {
		go func() {
			defer watcher.Stop()
			if err := watcher.Watch(ctx, apply); err != nil {
				logger.Warn("Config watcher stopped", "error", err)
			}
		}()
	}

	hup, stopHup := cli.NotifyReload()
	go func() {
		defer stopHup()
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				cfg, err := config.Load(cfgFile)
				if err != nil {
					logger.Error("Config reload failed", "error", err)
					continue
				}
				apply(cfg)
			}
		}
	}()
}
