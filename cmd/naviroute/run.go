package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"naviroute/gateway/pkg/cli"
	"naviroute/gateway/pkg/config"
	"naviroute/gateway/pkg/server"
	"naviroute/gateway/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the naviroute server",
	Long: `Start the naviroute server with the specified configuration.

The backend is chosen by server.type. With "api" the POI client, the routing
engine and, when enabled, the Redis cache and the route journal are started
before the listener opens; any failure among them aborts startup.

Examples:
  # Start with default config
  naviroute run

  # Start with custom config and secrets from a dotenv file
  naviroute run --config /etc/naviroute/config.yaml --env-file /etc/naviroute/env

  # Override listen address
  naviroute run --listen 0.0.0.0:8080

  # Validate config without starting server
  naviroute run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Redact:    cfg.Telemetry.Logging.Redact,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	fmt.Fprintf(out, "Naviroute v%s\n", Version)
	fmt.Fprintf(out, "Loading configuration from: %s\n", cfgFile)

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("shutdown incomplete", "error", err)
		}
	}()

	if cfg.Watch.Enabled {
		watcher, err := config.NewWatcher(cfgFile, cfg.Watch.Debounce, a.reload)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				slog.Warn("config watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	srv := server.NewServer(cfg, a.backend, server.Options{
		Metrics: a.collector,
		Health:  a.checker,
		Version: versionInfo(),
	})

	fmt.Fprintf(out, "✓ %s backend ready\n", a.backend.Kind)
	fmt.Fprintf(out, "✓ Listening on %s\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s\n", cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}
