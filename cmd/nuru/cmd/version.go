package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// VersionInfo holds version information for JSON output.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Example: `  nuru version
  nuru version --output json`,
		RunE: runVersion,
	}
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := VersionInfo{Version: Version, BuildDate: BuildDate, GitCommit: GitCommit}
	if outputFormat == "json" {
		return outputJSON(cmd, info)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "nuru %s (built %s, commit %s)\n", info.Version, info.BuildDate, info.GitCommit)
	return nil
}
