package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/results"
)

func testConfig(t *testing.T) *appconfig.Config {
	t.Helper()
	cfg := &appconfig.Config{
		Model:   appconfig.ModelSpec{HFRepo: "acme/tiny-llm"},
		DataDir: filepath.Join(t.TempDir(), "data"),
	}
	cfg.ApplyDefaults()
	return cfg
}

func seedTables(t *testing.T, cfg *appconfig.Config) {
	t.Helper()
	store := results.NewStore(cfg.ResultsDirPath())
	err := store.AppendBenchmarks([]results.BenchmarkRow{
		{Model: "tiny-llm.F16", PromptID: 1, TPS: 12, RuntimeRAMMB: 4000, NumParamsB: 1.1},
		{Model: "tiny-llm.F16", PromptID: 2, TPS: 14, RuntimeRAMMB: 4000, NumParamsB: 1.1},
		{Model: "tiny-llm.Q2_K", PromptID: 1, TPS: 45, RuntimeRAMMB: 900, NumParamsB: 1.1},
	})
	if err != nil {
		t.Fatalf("seed benchmarks: %v", err)
	}
	for _, row := range []results.PerplexityRow{
		{Model: "tiny-llm.F16", PPL: 10.5},
		{Model: "tiny-llm.Q2_K", PPL: 21.0},
	} {
		if err := store.AppendPerplexity(row); err != nil {
			t.Fatalf("seed perplexity: %v", err)
		}
	}
}

func TestRunReportRendersEveryChart(t *testing.T) {
	cfg := testConfig(t)
	seedTables(t, cfg)

	if err := RunReport(cfg); err != nil {
		t.Fatalf("RunReport: %v", err)
	}

	for _, name := range []string{"ppl_vs_tps.html", "inv_ppl_vs_ram.html", "ram_vs_params.html"} {
		path := filepath.Join(cfg.PlotsDirPath(), name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("chart %s not rendered: %v", name, err)
		}
		page := string(data)
		if !strings.Contains(page, "tiny-llm.F16") || !strings.Contains(page, "tiny-llm.Q2_K") {
			t.Fatalf("chart %s is missing model labels", name)
		}
		if !strings.Contains(page, "new Chart(") {
			t.Fatalf("chart %s is missing the Chart.js bootstrap", name)
		}
	}
}

func TestRunReportRequiresBothTables(t *testing.T) {
	cfg := testConfig(t)

	err := RunReport(cfg)
	if err == nil {
		t.Fatal("expected error without a benchmark table")
	}
	if !strings.Contains(err.Error(), "quantbench bench") {
		t.Fatalf("error should point at the bench command, got: %v", err)
	}

	store := results.NewStore(cfg.ResultsDirPath())
	if err := store.AppendBenchmarks([]results.BenchmarkRow{{Model: "tiny-llm.F16", PromptID: 1, TPS: 12}}); err != nil {
		t.Fatalf("seed benchmarks: %v", err)
	}

	err = RunReport(cfg)
	if err == nil {
		t.Fatal("expected error without a perplexity table")
	}
	if !strings.Contains(err.Error(), "quantbench perplexity") {
		t.Fatalf("error should point at the perplexity command, got: %v", err)
	}
}

func TestRunReportEmptyJoinIsError(t *testing.T) {
	cfg := testConfig(t)
	store := results.NewStore(cfg.ResultsDirPath())
	if err := store.AppendBenchmarks([]results.BenchmarkRow{{Model: "tiny-llm.F16", PromptID: 1, TPS: 12}}); err != nil {
		t.Fatalf("seed benchmarks: %v", err)
	}
	if err := store.AppendPerplexity(results.PerplexityRow{Model: "other.Q8_0", PPL: 7}); err != nil {
		t.Fatalf("seed perplexity: %v", err)
	}

	if err := RunReport(cfg); err == nil {
		t.Fatal("expected error for a join with no overlap")
	}
}

func TestPrintInsights(t *testing.T) {
	rows := []ComparisonRow{
		{Model: "tiny-llm.F16", MeanTPS: 12, MeanRAMMB: 4000, PPL: 10.5},
		{Model: "tiny-llm.Q4_K_M", MeanTPS: 30, MeanRAMMB: 1500, PPL: 12.0},
		{Model: "tiny-llm.Q2_K", MeanTPS: 45, MeanRAMMB: 900, PPL: 21.0},
	}

	var buf bytes.Buffer
	PrintInsights(&buf, rows)
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want header, rule and three insights:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "tiny-llm.Q2_K") {
		t.Fatalf("fastest line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "tiny-llm.F16") {
		t.Fatalf("best quality line = %q", lines[3])
	}
	// 1/(12*1500) beats both 1/(10.5*4000) and 1/(21*900).
	if !strings.Contains(lines[4], "tiny-llm.Q4_K_M") {
		t.Fatalf("trade-off line = %q", lines[4])
	}
}
