// internal/benchmark/benchmark.go
// Package benchmark drives llama-cli across the quantization matrix and
// turns its captured console output into persisted measurements.
package benchmark

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/llamacpp"
	"github.com/mwiater/quantbench/internal/logging"
	"github.com/mwiater/quantbench/internal/metrics"
	"github.com/mwiater/quantbench/internal/results"
	"github.com/mwiater/quantbench/internal/util"
)

// Driver benchmarks model variants one prompt at a time. It shells out
// through Runner, so tests can substitute canned llama-cli output.
type Driver struct {
	Tools           llamacpp.Toolset
	Runner          llamacpp.Runner
	Params          appconfig.RunParams
	NumParamsB      float64
	ContinueOnError bool
}

// VariantResult carries one variant's per-prompt rows and its aggregate.
type VariantResult struct {
	RunID   string
	Variant appconfig.Variant
	Rows    []results.BenchmarkRow
	Summary metrics.Summary
}

// Run benchmarks one variant across every prompt. With ContinueOnError a
// failing prompt is logged and skipped, and the run only errors once every
// prompt has failed. Without it the first failure aborts the run.
func (d Driver) Run(ctx context.Context, variant appconfig.Variant, prompts []string) (VariantResult, error) {
	res := VariantResult{
		RunID:   uuid.NewString(),
		Variant: variant,
	}

	logging.LogEvent("Benchmark run %s: %s across %d prompts", res.RunID, variant.Label, len(prompts))

	var records []metrics.Record
	for i, prompt := range prompts {
		promptID := i + 1
		args := d.cliArgs(variant.GGUFPath, prompt)

		logging.LogToolCall("QB->TOOL", "llama-cli", variant.Label, args)
		out, err := d.Runner.CombinedText(ctx, d.Tools.CLI, args)
		if err != nil {
			if !d.ContinueOnError {
				return res, fmt.Errorf("prompt %d: %w", promptID, err)
			}
			color.Yellow("Prompt %d failed for %s, continuing: %v", promptID, variant.Label, err)
			logging.LogWarning("prompt %d failed for %s: %v", promptID, variant.Label, err)
			continue
		}

		rec := metrics.ParseBenchmarkOutput(out)
		logging.LogToolCall("TOOL->QB", "llama-cli", variant.Label, rec)
		if rec.CoreSignalsAbsent() {
			color.Yellow("Prompt %d for %s produced no recognizable metrics; recording zeros.", promptID, variant.Label)
			logging.LogWarning("unparsed llama-cli output for %s prompt %d: %s", variant.Label, promptID, util.TruncateRunes(out, 2000))
		}

		records = append(records, rec)
		res.Rows = append(res.Rows, results.BenchmarkRow{
			Model:        variant.Label,
			PromptID:     promptID,
			LoadSeconds:  rec.LoadSeconds,
			EvalSeconds:  rec.EvalSeconds,
			TPS:          rec.TokensPerSecond,
			OutputTokens: rec.OutputTokens,
			RuntimeRAMMB: rec.RuntimeRAMMB,
			NumParamsB:   d.NumParamsB,
		})
	}

	if len(res.Rows) == 0 {
		return res, fmt.Errorf("no prompt completed for %s", variant.Label)
	}

	summary, err := metrics.Summarize(variant.Label, records)
	if err != nil {
		return res, err
	}
	res.Summary = summary

	return res, nil
}

// cliArgs builds the llama-cli invocation. Flag order is fixed so logged
// command lines stay diffable across runs; -ngl and -t are omitted at
// zero so the engine defaults apply.
func (d Driver) cliArgs(ggufPath, prompt string) []string {
	args := []string{
		"-m", ggufPath,
		"-p", prompt,
		"-n", strconv.Itoa(d.Params.MaxTokens),
		"-c", strconv.Itoa(d.Params.ContextSize),
		"--temp", strconv.FormatFloat(d.Params.Temperature, 'f', -1, 64),
		"--ignore-eos",
		"--no-warmup",
		"-no-cnv",
	}
	if d.Params.GPULayers > 0 {
		args = append(args, "-ngl", strconv.Itoa(d.Params.GPULayers))
	}
	if d.Params.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(d.Params.Threads))
	}
	return args
}
