// internal/cli/bench.go
package quantbench

import (
	"github.com/mwiater/quantbench/internal/benchmark"
	"github.com/spf13/cobra"
)

// benchCmd runs the throughput sweep: every configured quantization against
// every prompt in the prompt list.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark every configured quantization against the prompt list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return benchmark.RunBenchmarks(cmd.Context(), GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
}
