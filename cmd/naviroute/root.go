package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"naviroute/gateway/pkg/cli"
	"naviroute/gateway/pkg/config"
)

var (
	// Global flags
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "naviroute",
	Short: "Naviroute - navigation-request gateway",
	Long: `Naviroute is an HTTP gateway in front of a native routing engine.

Depending on server.type it runs as:
  - api:   route requests (protobuf or JSON) with POI resolution and caching
  - file:  a read-only directory listing
  - proxy: a forwarder to a static or per-request upstream`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file loaded before NAVIROUTE_* overrides")
}

// loadConfig loads the process-wide configuration from --config after the
// optional --env-file.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return config.GetConfig(), nil
}
