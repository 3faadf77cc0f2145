// file: cmd/config.go
// version: 1.0.0
// guid: 3a7f0e9b-c52d-4168-9e4a-b0d6f8c2a157

package cmd

import (
	"fmt"

	"github.com/jdfalk/kitfinder/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current settings to a config file",
	Long: `Write the effective settings (defaults, flags and environment) to a YAML
config file. The admin password is never written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			var err error
			if path, err = config.DefaultConfigPath(); err != nil {
				return err
			}
		}

		if err := config.SaveConfigToFile(config.AppConfig, path, force); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
		return err
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configInitCmd.Flags().String("path", "", "file to write (default is $HOME/"+config.DefaultConfigName+")")
	configCmd.AddCommand(configInitCmd)
}
