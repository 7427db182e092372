// internal/benchmark/command.go
package benchmark

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/llamacpp"
	"github.com/mwiater/quantbench/internal/logging"
	"github.com/mwiater/quantbench/internal/metrics"
	"github.com/mwiater/quantbench/internal/results"
)

var newRunner = llamacpp.NewRunner

// RunBenchmarks is the CLI entry point for the benchmark matrix. It runs
// every configured variant against the prompt list, appends rows to the
// results table, and prints a per-variant summary.
func RunBenchmarks(ctx context.Context, cfg *appconfig.Config) error {
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

	prompts, err := LoadPrompts(cfg.PromptFilePath())
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()
	logging.LogRunStart("Benchmark", sessionID, len(cfg.Variants()))

	store := results.NewStore(cfg.ResultsDirPath())
	driver := Driver{
		Tools:           tools,
		Runner:          newRunner(),
		Params:          cfg.Run,
		NumParamsB:      cfg.Model.ParamsBillions,
		ContinueOnError: cfg.ContinueOnError,
	}

	var summaries []metrics.Summary
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

		res, err := driver.Run(ctx, variant, prompts)
		if err != nil {
			if !cfg.ContinueOnError {
				return fmt.Errorf("benchmark %s: %w", variant.Label, err)
			}
			color.Red("Benchmark failed for %s: %v", variant.Label, err)
			logging.LogWarning("benchmark failed for %s: %v", variant.Label, err)
			failed = append(failed, variant.Label)
			continue
		}

		// Persistence failures are never skipped: losing rows silently
		// would defeat the append-only table.
		if err := store.AppendBenchmarks(res.Rows); err != nil {
			return err
		}
		summaries = append(summaries, res.Summary)
		logging.LogEvent("Summary for %s: %.2f tok/s mean over %d prompts (load %.2fs, eval %.2fs, RAM %.0f MB)",
			res.Summary.Model, res.Summary.MeanTokensPerSecond, res.Summary.PromptCount,
			res.Summary.MeanLoadSeconds, res.Summary.MeanEvalSeconds, res.Summary.MeanRuntimeRAMMB)
	}

	if len(summaries) == 0 {
		return fmt.Errorf("no variant produced results (%d failed)", len(failed))
	}

	PrintSummaries(os.Stdout, summaries)
	logging.LogEvent("Results saved to %s", store.BenchmarksPath())
	if len(failed) > 0 {
		color.Yellow("Completed with failures: %s", strings.Join(failed, ", "))
	}

	return nil
}
