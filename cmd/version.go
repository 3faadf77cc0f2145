// file: cmd/version.go
// version: 1.0.0
// guid: 8d3a1f5c-6b92-4e07-a1c4-2f9e7b5d0c68

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/jdfalk/kitfinder/cmd.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "kitfinder %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		return err
	},
}
