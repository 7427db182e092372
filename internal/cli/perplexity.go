// internal/cli/perplexity.go
package quantbench

import (
	"github.com/mwiater/quantbench/internal/perplexity"
	"github.com/spf13/cobra"
)

// perplexityCmd scores every configured quantization against the shared
// reference corpus, downloading the corpus first when it is missing.
var perplexityCmd = &cobra.Command{
	Use:   "perplexity",
	Short: "Score every configured quantization against the reference corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		return perplexity.RunPerplexity(cmd.Context(), GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(perplexityCmd)
}
