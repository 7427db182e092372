// internal/benchmark/table.go
package benchmark

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/quantbench/internal/metrics"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	tableRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	tableRuleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// PrintSummaries renders one line per benchmarked variant.
func PrintSummaries(out io.Writer, summaries []metrics.Summary) {
	header := fmt.Sprintf("%-28s %8s %10s %10s %10s %12s", "Model", "Prompts", "Mean TPS", "Min TPS", "Max TPS", "RAM (MB)")
	fmt.Fprintln(out, tableHeaderStyle.Render(header))
	fmt.Fprintln(out, tableRuleStyle.Render(strings.Repeat("-", len(header))))
	for _, s := range summaries {
		row := fmt.Sprintf("%-28s %8d %10.2f %10.2f %10.2f %12.1f",
			s.Model, s.PromptCount, s.MeanTokensPerSecond, s.MinTokensPerSecond, s.MaxTokensPerSecond, s.MeanRuntimeRAMMB)
		fmt.Fprintln(out, tableRowStyle.Render(row))
	}
}
