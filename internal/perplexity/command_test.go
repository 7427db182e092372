package perplexity

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/llamacpp"
	"github.com/mwiater/quantbench/internal/results"
)

// writeToolset lays down placeholder llama.cpp tools so Verify passes.
func writeToolset(t *testing.T, root string) llamacpp.Toolset {
	t.Helper()
	tools := llamacpp.ResolveToolset(root)
	if err := os.MkdirAll(filepath.Dir(tools.CLI), 0o755); err != nil {
		t.Fatalf("mkdir tool dir: %v", err)
	}
	for _, path := range []string{tools.CLI, tools.Perplexity, tools.Quantize} {
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatalf("write tool %s: %v", path, err)
		}
	}
	if err := os.WriteFile(tools.ConvertScript, []byte("# converter\n"), 0o644); err != nil {
		t.Fatalf("write convert script: %v", err)
	}
	return tools
}

func testConfig(t *testing.T, llamaRoot string) *appconfig.Config {
	t.Helper()
	base := t.TempDir()
	cfg := &appconfig.Config{
		LlamaCppRoot: llamaRoot,
		Model:        appconfig.ModelSpec{HFRepo: "acme/tiny-llm", ParamsBillions: 1.1},
		Quants:       []string{"Q4_K_M", "Q2_K"},
		DataDir:      filepath.Join(base, "data"),
		ModelsDir:    filepath.Join(base, "models"),
		PromptFile:   filepath.Join(base, "prompt.txt"),
	}
	cfg.ApplyDefaults()
	return cfg
}

func seedCorpus(t *testing.T, cfg *appconfig.Config) {
	t.Helper()
	path := cfg.CorpusPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir corpus dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("reference text\n"), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
}

func seedGGUF(t *testing.T, variant appconfig.Variant) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(variant.GGUFPath), 0o755); err != nil {
		t.Fatalf("mkdir models dir: %v", err)
	}
	if err := os.WriteFile(variant.GGUFPath, []byte("GGUF"), 0o644); err != nil {
		t.Fatalf("write gguf: %v", err)
	}
}

func TestRunPerplexityAppendsRowPerVariant(t *testing.T) {
	tools := writeToolset(t, t.TempDir())
	cfg := testConfig(t, tools.Root)
	seedCorpus(t, cfg)
	for _, variant := range cfg.Variants() {
		seedGGUF(t, variant)
	}

	runner := &fakeRunner{output: "counting batches...\nperplexity = 12.5\n"}
	orig := newRunner
	newRunner = func() llamacpp.Runner { return runner }
	defer func() { newRunner = orig }()

	if err := RunPerplexity(context.Background(), cfg); err != nil {
		t.Fatalf("RunPerplexity: %v", err)
	}

	rows, err := results.NewStore(cfg.ResultsDirPath()).ReadPerplexities()
	if err != nil {
		t.Fatalf("read perplexities: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Model != "tiny-llm.Q4_K_M" || rows[1].Model != "tiny-llm.Q2_K" {
		t.Fatalf("row order = %q, %q", rows[0].Model, rows[1].Model)
	}
	for _, row := range rows {
		if row.PPL != 12.5 {
			t.Fatalf("PPL = %v, want 12.5", row.PPL)
		}
	}
	if len(runner.calls) != 2 {
		t.Fatalf("runner invoked %d times, want 2", len(runner.calls))
	}
}

func TestRunPerplexityMissingGGUFFatalByDefault(t *testing.T) {
	tools := writeToolset(t, t.TempDir())
	cfg := testConfig(t, tools.Root)
	seedCorpus(t, cfg)
	// No GGUF files on disk.

	orig := newRunner
	newRunner = func() llamacpp.Runner { return &fakeRunner{output: "perplexity = 9.9\n"} }
	defer func() { newRunner = orig }()

	err := RunPerplexity(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for missing GGUF")
	}
	if !strings.Contains(err.Error(), "GGUF not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunPerplexityContinueOnErrorSkipsMissingVariant(t *testing.T) {
	tools := writeToolset(t, t.TempDir())
	cfg := testConfig(t, tools.Root)
	cfg.ContinueOnError = true
	seedCorpus(t, cfg)
	seedGGUF(t, cfg.Variants()[1]) // only Q2_K exists

	runner := &fakeRunner{output: "perplexity = 21.75\n"}
	orig := newRunner
	newRunner = func() llamacpp.Runner { return runner }
	defer func() { newRunner = orig }()

	if err := RunPerplexity(context.Background(), cfg); err != nil {
		t.Fatalf("RunPerplexity: %v", err)
	}

	rows, err := results.NewStore(cfg.ResultsDirPath()).ReadPerplexities()
	if err != nil {
		t.Fatalf("read perplexities: %v", err)
	}
	if len(rows) != 1 || rows[0].Model != "tiny-llm.Q2_K" {
		t.Fatalf("rows = %+v, want one Q2_K row", rows)
	}
}

func TestRunPerplexityAllVariantsFailing(t *testing.T) {
	tools := writeToolset(t, t.TempDir())
	cfg := testConfig(t, tools.Root)
	cfg.ContinueOnError = true
	seedCorpus(t, cfg)
	// No GGUF files: every variant is skipped.

	orig := newRunner
	newRunner = func() llamacpp.Runner { return &fakeRunner{output: "perplexity = 9.9\n"} }
	defer func() { newRunner = orig }()

	err := RunPerplexity(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error when no variant produced a score")
	}
	if !strings.Contains(err.Error(), "no variant produced") {
		t.Fatalf("unexpected error: %v", err)
	}
}
