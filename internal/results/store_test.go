// internal/results/store_test.go
package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendBenchmarksWritesHeaderOnce(t *testing.T) {
	store := NewStore(t.TempDir())

	first := []BenchmarkRow{{Model: "tiny.F16", PromptID: 1, LoadSeconds: 0.5, EvalSeconds: 2.0, TPS: 42.5, OutputTokens: 128, RuntimeRAMMB: 900, NumParamsB: 1.1}}
	if err := store.AppendBenchmarks(first); err != nil {
		t.Fatalf("first append: %v", err)
	}
	second := []BenchmarkRow{{Model: "tiny.Q4_K_M", PromptID: 1, LoadSeconds: 0.3, EvalSeconds: 1.2, TPS: 61.0, OutputTokens: 128, RuntimeRAMMB: 450, NumParamsB: 1.1}}
	if err := store.AppendBenchmarks(second); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(store.BenchmarksPath())
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	content := string(data)
	if strings.Count(content, "Model,PromptID") != 1 {
		t.Fatalf("expected exactly one header, got:\n%s", content)
	}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Model,PromptID,Load_s,Eval_s,TPS,OutputTokens,RuntimeRAM_MB,NumParams_B" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
}

func TestBenchmarksRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	rows := []BenchmarkRow{
		{Model: "tiny.F16", PromptID: 1, LoadSeconds: 0.5, EvalSeconds: 2.0, TPS: 42.5, OutputTokens: 128, RuntimeRAMMB: 900.25, NumParamsB: 1.1},
		{Model: "tiny.F16", PromptID: 2, LoadSeconds: 0.6, EvalSeconds: 2.1, TPS: 40.0, OutputTokens: 128, RuntimeRAMMB: 900.25, NumParamsB: 1.1},
	}
	if err := store.AppendBenchmarks(rows); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := store.ReadBenchmarks()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0] != rows[0] {
		t.Fatalf("row mismatch:\n got %+v\nwant %+v", got[0], rows[0])
	}
	if got[1].TPS != 40.0 || got[1].PromptID != 2 {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
}

func TestReadBenchmarksSkipsCorruptRows(t *testing.T) {
	store := NewStore(t.TempDir())
	table := strings.Join([]string{
		"Model,PromptID,Load_s,Eval_s,TPS,OutputTokens,RuntimeRAM_MB,NumParams_B",
		"tiny.F16,1,0.5,2.0,42.5,128,900,1.1",
		"tiny.F16,not-a-number,0.5,2.0,42.5,128,900,1.1",
		"tiny.F16,2,0.6",
		"tiny.Q8_0,1,0.4,1.8,55.1,128,700,1.1",
	}, "\n") + "\n"
	if err := os.WriteFile(store.BenchmarksPath(), []byte(table), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}

	rows, err := store.ReadBenchmarks()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 good rows, got %d", len(rows))
	}
	if rows[0].Model != "tiny.F16" || rows[1].Model != "tiny.Q8_0" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestReadBenchmarksTreatsEmptyParamsAsZero(t *testing.T) {
	store := NewStore(t.TempDir())
	table := "Model,PromptID,Load_s,Eval_s,TPS,OutputTokens,RuntimeRAM_MB,NumParams_B\n" +
		"tiny.F16,1,0.5,2.0,42.5,128,900,\n"
	if err := os.WriteFile(store.BenchmarksPath(), []byte(table), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}

	rows, err := store.ReadBenchmarks()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 || rows[0].NumParamsB != 0 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestPerplexityRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.AppendPerplexity(PerplexityRow{Model: "tiny.Q2_K", PPL: 20.4334}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.AppendPerplexity(PerplexityRow{Model: "tiny.F16", PPL: 14.2}); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows, err := store.ReadPerplexities()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Model != "tiny.Q2_K" || rows[0].PPL != 20.4334 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}

	data, err := os.ReadFile(store.PerplexitiesPath())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if strings.Count(string(data), "Model,PPL") != 1 {
		t.Fatalf("expected one header:\n%s", data)
	}
}

func TestReadBenchmarksMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "results"))
	if _, err := store.ReadBenchmarks(); err == nil {
		t.Fatal("expected error for missing table")
	}
}
