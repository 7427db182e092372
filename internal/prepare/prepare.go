// internal/prepare/prepare.go
// Package prepare builds the quantization matrix a benchmark run measures:
// it downloads a Hugging Face snapshot, converts it to F16 GGUF, and
// quantizes that artifact into each configured type.
package prepare

import (
	"context"
	"fmt"
	"os"

	"github.com/mwiater/quantbench/internal/llamacpp"
	"github.com/mwiater/quantbench/internal/logging"
)

const (
	defaultPythonBin = "python3"
	defaultHFCLIBin  = "huggingface-cli"
)

// Pipeline runs the three preparation stages through the shared Runner
// boundary. Every stage skips work whose artifact already exists, so
// re-running prepare is cheap.
type Pipeline struct {
	Tools     llamacpp.Toolset
	Runner    llamacpp.Runner
	PythonBin string
	HFCLIBin  string
}

// NewPipeline returns a Pipeline using the stock python3 and
// huggingface-cli executables from PATH.
func NewPipeline(tools llamacpp.Toolset, runner llamacpp.Runner) Pipeline {
	return Pipeline{
		Tools:     tools,
		Runner:    runner,
		PythonBin: defaultPythonBin,
		HFCLIBin:  defaultHFCLIBin,
	}
}

// Download fetches the model snapshot into snapshotDir via huggingface-cli.
// A non-empty snapshot directory counts as already downloaded.
func (p Pipeline) Download(ctx context.Context, repo, snapshotDir string) error {
	if entries, err := os.ReadDir(snapshotDir); err == nil && len(entries) > 0 {
		logging.LogEvent("Snapshot %s exists, skipping download.", snapshotDir)
		return nil
	}

	args := []string{"download", repo, "--local-dir", snapshotDir}
	logging.LogToolCall("QB->TOOL", "huggingface-cli", repo, args)
	if _, err := p.Runner.CombinedText(ctx, p.HFCLIBin, args); err != nil {
		return fmt.Errorf("download of %s: %w", repo, err)
	}
	logging.LogEvent("Downloaded %s to %s", repo, snapshotDir)
	return nil
}

// ConvertToF16 turns the snapshot into an F16 GGUF via llama.cpp's
// conversion script.
func (p Pipeline) ConvertToF16(ctx context.Context, snapshotDir, f16Path string) error {
	if _, err := os.Stat(f16Path); err == nil {
		logging.LogEvent("F16 artifact %s exists, skipping conversion.", f16Path)
		return nil
	}

	args := []string{p.Tools.ConvertScript, snapshotDir, "--outfile", f16Path, "--outtype", "f16"}
	logging.LogToolCall("QB->TOOL", "convert_hf_to_gguf", f16Path, args)
	if _, err := p.Runner.CombinedText(ctx, p.PythonBin, args); err != nil {
		return fmt.Errorf("conversion of %s: %w", snapshotDir, err)
	}
	logging.LogEvent("Converted %s to %s", snapshotDir, f16Path)
	return nil
}

// Quantize derives one quantized GGUF from the F16 artifact.
func (p Pipeline) Quantize(ctx context.Context, f16Path, outPath, quantType string) error {
	if _, err := os.Stat(outPath); err == nil {
		logging.LogEvent("Quantized artifact %s exists, skipping.", outPath)
		return nil
	}

	args := []string{f16Path, outPath, quantType}
	logging.LogToolCall("QB->TOOL", "llama-quantize", outPath, args)
	if _, err := p.Runner.CombinedText(ctx, p.Tools.Quantize, args); err != nil {
		return fmt.Errorf("quantization to %s: %w", quantType, err)
	}
	logging.LogEvent("Quantized %s to %s", quantType, outPath)
	return nil
}
