// internal/perplexity/command.go
package perplexity

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/llamacpp"
	"github.com/mwiater/quantbench/internal/logging"
	"github.com/mwiater/quantbench/internal/results"
)

var newRunner = llamacpp.NewRunner

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	tableRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	tableRuleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// RunPerplexity is the CLI entry point for quality scoring. It ensures the
// reference corpus is present, scores every configured variant, and appends
// one row per variant to the perplexity table.
func RunPerplexity(ctx context.Context, cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tools := llamacpp.ResolveToolset(cfg.LlamaCppRoot)
	if err := tools.Verify(); err != nil {
		return err
	}

	corpusPath := cfg.CorpusPath()
	if err := EnsureCorpus(corpusPath); err != nil {
		return err
	}

	sessionID := uuid.NewString()
	logging.LogRunStart("Perplexity", sessionID, len(cfg.Variants()))
	logging.LogEvent("Scoring against corpus %s", corpusPath)

	store := results.NewStore(cfg.ResultsDirPath())
	driver := Driver{
		Tools:     tools,
		Runner:    newRunner(),
		Params:    cfg.Perplexity,
		GPULayers: cfg.Run.GPULayers,
	}

	var rows []results.PerplexityRow
	var failed []string
	for _, variant := range cfg.Variants() {
		if _, err := os.Stat(variant.GGUFPath); err != nil {
			if !cfg.ContinueOnError {
				return fmt.Errorf("GGUF not found for %s at %s (run 'quantbench prepare' first)", variant.Label, variant.GGUFPath)
			}
			color.Yellow("GGUF not found for %s at %s, skipping.", variant.Label, variant.GGUFPath)
			logging.LogWarning("GGUF not found for %s at %s", variant.Label, variant.GGUFPath)
			failed = append(failed, variant.Label)
			continue
		}

		ppl, err := driver.Compute(ctx, variant, corpusPath)
		if err != nil {
			if !cfg.ContinueOnError {
				return err
			}
			color.Red("Perplexity failed for %s: %v", variant.Label, err)
			logging.LogWarning("perplexity failed for %s: %v", variant.Label, err)
			failed = append(failed, variant.Label)
			continue
		}

		row := results.PerplexityRow{Model: variant.Label, PPL: ppl}
		// Persistence failures are never skipped: losing rows silently
		// would defeat the append-only table.
		if err := store.AppendPerplexity(row); err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return fmt.Errorf("no variant produced a perplexity score (%d failed)", len(failed))
	}

	PrintResults(os.Stdout, rows)
	logging.LogEvent("Perplexity results saved to %s", store.PerplexitiesPath())
	if len(failed) > 0 {
		color.Yellow("Completed with failures: %s", strings.Join(failed, ", "))
	}

	return nil
}

// PrintResults renders one line per scored variant, lowest perplexity
// meaning highest fidelity.
func PrintResults(out io.Writer, rows []results.PerplexityRow) {
	header := fmt.Sprintf("%-28s %12s", "Model", "PPL")
	fmt.Fprintln(out, tableHeaderStyle.Render(header))
	fmt.Fprintln(out, tableRuleStyle.Render(strings.Repeat("-", len(header))))
	for _, r := range rows {
		fmt.Fprintln(out, tableRowStyle.Render(fmt.Sprintf("%-28s %12.4f", r.Model, r.PPL)))
	}
}
