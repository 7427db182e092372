// internal/cli/prepare.go
package quantbench

import (
	"github.com/mwiater/quantbench/internal/prepare"
	"github.com/spf13/cobra"
)

// prepareCmd materializes the quantization matrix: snapshot download, F16
// conversion and one llama-quantize pass per configured type.
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Download, convert and quantize the configured model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return prepare.RunPrepare(cmd.Context(), GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}
