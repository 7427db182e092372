// internal/cli/config_show.go
package quantbench

import (
	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/spf13/cobra"
)

// configShowCmd prints the effective configuration after file, flag and
// default merging, so a sweep can be reproduced from what it reports.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration the other commands would run with, ensuring the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		if cfg == nil {
			cfg = &appconfig.Config{}
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), *cfg)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
