// internal/cli/pipeline.go
package quantbench

import (
	"github.com/mwiater/quantbench/internal/benchmark"
	"github.com/mwiater/quantbench/internal/perplexity"
	"github.com/mwiater/quantbench/internal/prepare"
	"github.com/mwiater/quantbench/internal/report"
	"github.com/spf13/cobra"
)

// pipelineCmd chains prepare, bench, perplexity and report over one config
// snapshot. The chain stops at the first stage that fails: a later stage
// cannot produce anything meaningful from a partial predecessor.
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run prepare, bench, perplexity and report back to back",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if err := prepare.RunPrepare(cmd.Context(), cfg); err != nil {
			return err
		}
		if err := benchmark.RunBenchmarks(cmd.Context(), cfg); err != nil {
			return err
		}
		if err := perplexity.RunPerplexity(cmd.Context(), cfg); err != nil {
			return err
		}
		return report.RunReport(cfg)
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
}
