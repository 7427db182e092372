// internal/report/command.go
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/logging"
	"github.com/mwiater/quantbench/internal/results"
	"github.com/mwiater/quantbench/internal/util"
)

var (
	insightHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	insightRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	insightRuleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// RunReport reads the persisted tables back, renders the comparison charts
// into the plots directory, and prints a short readout. It launches no
// subprocess, so neither the toolset nor a configured model is required.
func RunReport(cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}

	store := results.NewStore(cfg.ResultsDirPath())

	bench, err := store.ReadBenchmarks()
	if err != nil {
		return fmt.Errorf("benchmark table unavailable, run 'quantbench bench' first: %w", err)
	}
	if len(bench) == 0 {
		return fmt.Errorf("benchmark table %s has no rows", store.BenchmarksPath())
	}

	ppls, err := store.ReadPerplexities()
	if err != nil {
		return fmt.Errorf("perplexity table unavailable, run 'quantbench perplexity' first: %w", err)
	}
	if len(ppls) == 0 {
		return fmt.Errorf("perplexity table %s has no rows", store.PerplexitiesPath())
	}

	rows, err := Join(Aggregate(bench), ppls)
	if err != nil {
		return err
	}

	plotsDir := cfg.PlotsDirPath()
	if err := os.MkdirAll(plotsDir, 0o755); err != nil {
		return fmt.Errorf("could not create plots directory %q: %w", plotsDir, err)
	}

	for _, def := range chartDefs {
		page, err := renderChart(def.Title, def.Subtitle, def.XLabel, def.YLabel, def.Points(rows))
		if err != nil {
			return fmt.Errorf("could not render %s: %w", def.File, err)
		}
		path := filepath.Join(plotsDir, def.File)
		if err := util.WriteFile(path, []byte(page)); err != nil {
			return fmt.Errorf("could not write %s: %w", path, err)
		}
		logging.LogEvent("Chart written to %s", path)
	}

	PrintInsights(os.Stdout, rows)
	logging.LogEvent("Report rendered %d charts for %d models to %s", len(chartDefs), len(rows), plotsDir)
	return nil
}

// PrintInsights names the fastest variant, the best quality, and the best
// quality-per-MB trade-off across the joined rows.
func PrintInsights(out io.Writer, rows []ComparisonRow) {
	fastest := rows[0]
	quality := rows[0]
	for _, r := range rows[1:] {
		if r.MeanTPS > fastest.MeanTPS {
			fastest = r
		}
		if r.PPL < quality.PPL {
			quality = r
		}
	}

	header := fmt.Sprintf("%-14s %-28s %14s", "Comparison", "Model", "Value")
	fmt.Fprintln(out, insightHeaderStyle.Render(header))
	fmt.Fprintln(out, insightRuleStyle.Render(strings.Repeat("-", len(header))))
	fmt.Fprintln(out, insightRowStyle.Render(fmt.Sprintf("%-14s %-28s %11.2f tok/s", "Fastest", fastest.Model, fastest.MeanTPS)))
	fmt.Fprintln(out, insightRowStyle.Render(fmt.Sprintf("%-14s %-28s %13.4f PPL", "Best quality", quality.Model, quality.PPL)))
	if tradeoff, ok := bestTradeoff(rows); ok {
		fmt.Fprintln(out, insightRowStyle.Render(fmt.Sprintf("%-14s %-28s %10.3g (1/PPL)/MB", "Trade-off", tradeoff.Model, tradeoffScore(tradeoff))))
	}
}

// bestTradeoff picks the model getting the most quality out of each MB of
// runtime RAM. Models without both signals are not candidates.
func bestTradeoff(rows []ComparisonRow) (ComparisonRow, bool) {
	var best ComparisonRow
	found := false
	for _, r := range rows {
		if r.PPL <= 0 || r.MeanRAMMB <= 0 {
			continue
		}
		if !found || tradeoffScore(r) > tradeoffScore(best) {
			best = r
			found = true
		}
	}
	return best, found
}

func tradeoffScore(r ComparisonRow) float64 {
	return 1 / (r.PPL * r.MeanRAMMB)
}
