// internal/cli/config.go
package quantbench

import (
	"github.com/spf13/cobra"
)

// configCmd represents the 'config' command group for inspecting configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Group commands for inspecting configuration",
	Long:  `The 'config' command groups subcommands that inspect how quantbench merged its configuration file, flags and defaults.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
