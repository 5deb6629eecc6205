package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"naviroute/gateway/pkg/cli"
	"naviroute/gateway/pkg/config"
)

var validateFlags struct {
	output string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file with NAVIROUTE_* overrides applied and report
every validation error.

Examples:
  # Validate the default config.yaml
  naviroute validate

  # Validate with secrets from a dotenv file, as JSON
  naviroute validate --config prod.yaml --env-file prod.env --output json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format: text, json")
}

type fieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validateResult struct {
	Path       string         `json:"path"`
	Valid      bool           `json:"valid"`
	ServerType string         `json:"server_type,omitempty"`
	Listen     string         `json:"listen_address,omitempty"`
	Errors     []fieldProblem `json:"errors,omitempty"`
}

func (r validateResult) String() string {
	var sb strings.Builder
	if r.Valid {
		fmt.Fprintf(&sb, "✓ %s is valid\n", r.Path)
		fmt.Fprintf(&sb, "  server type: %s\n", r.ServerType)
		fmt.Fprintf(&sb, "  listen:      %s\n", r.Listen)
		return sb.String()
	}

	fmt.Fprintf(&sb, "✗ %s is invalid (%d errors)\n", r.Path, len(r.Errors))
	for _, p := range r.Errors {
		if p.Field == "" {
			fmt.Fprintf(&sb, "  - %s\n", p.Message)
			continue
		}
		fmt.Fprintf(&sb, "  - %s: %s\n", p.Field, p.Message)
	}
	return sb.String()
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.output)
	if err != nil {
		return err
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	result := checkConfigFile(cfgFile)
	if err := cli.Write(cmd.OutOrStdout(), format, result); err != nil {
		return err
	}
	if !result.Valid {
		return cli.NewConfigError("", fmt.Sprintf("%s failed validation", cfgFile))
	}
	return nil
}

// checkConfigFile loads path without touching the process-wide
// configuration.
func checkConfigFile(path string) validateResult {
	result := validateResult{Path: path}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				result.Errors = append(result.Errors, fieldProblem{Field: fe.Field, Message: fe.Message})
			}
		} else {
			result.Errors = append(result.Errors, fieldProblem{Message: err.Error()})
		}
		return result
	}

	result.Valid = true
	result.ServerType = cfg.Server.Type
	result.Listen = cfg.Server.ListenAddress
	return result
}
