package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"naviroute/gateway/pkg/cli"
	"naviroute/gateway/pkg/telemetry/health"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

var versionFlags struct {
	output string
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including Git commit and build date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(versionFlags.output)
		if err != nil {
			return err
		}
		return cli.Write(cmd.OutOrStdout(), format, newVersionOutput())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFlags.output, "output", "o", "text", "output format: text, json")
}

// versionInfo is the build information served on /version.
func versionInfo() health.VersionInfo {
	return health.VersionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
		GoVersion: runtime.Version(),
	}
}

type versionOutput struct {
	health.VersionInfo
	Platform string `json:"platform"`
}

func newVersionOutput() versionOutput {
	return versionOutput{
		VersionInfo: versionInfo(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (v versionOutput) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Naviroute %s\n", v.Version)
	fmt.Fprintf(&sb, "Git Commit: %s\n", v.Commit)
	fmt.Fprintf(&sb, "Build Date: %s\n", v.BuildTime)
	fmt.Fprintf(&sb, "Go Version: %s\n", v.GoVersion)
	fmt.Fprintf(&sb, "OS/Arch: %s\n", v.Platform)
	return sb.String()
}
