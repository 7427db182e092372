// internal/cli/report.go
package quantbench

import (
	"github.com/mwiater/quantbench/internal/report"
	"github.com/spf13/cobra"
)

// reportCmd joins the persisted benchmark and perplexity tables and renders
// the comparison charts. It never launches a subprocess, so it works on any
// machine that has the CSV tables.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render comparison charts from the persisted result tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return report.RunReport(GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
