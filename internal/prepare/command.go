// internal/prepare/command.go
package prepare

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/llamacpp"
	"github.com/mwiater/quantbench/internal/logging"
)

var newRunner = llamacpp.NewRunner

// RunPrepare is the CLI entry point for the preparation pipeline. Unlike
// bench and perplexity there is no continue-on-error mode: a variant the
// pipeline could not produce would poison every later comparison, so any
// stage failure is fatal.
func RunPrepare(ctx context.Context, cfg *appconfig.Config) error {
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

	if err := os.MkdirAll(cfg.ModelsDirPath(), 0o755); err != nil {
		return fmt.Errorf("could not create models directory %q: %w", cfg.ModelsDirPath(), err)
	}

	pipeline := NewPipeline(tools, newRunner())

	if err := pipeline.Download(ctx, cfg.Model.HFRepo, cfg.SnapshotDirPath()); err != nil {
		return err
	}

	f16Path := cfg.F16GGUFPath()
	if err := pipeline.ConvertToF16(ctx, cfg.SnapshotDirPath(), f16Path); err != nil {
		return err
	}

	for _, variant := range cfg.Variants() {
		if variant.Quant == "F16" {
			// The conversion artifact already is the F16 variant.
			continue
		}
		if err := pipeline.Quantize(ctx, f16Path, variant.GGUFPath, variant.Quant); err != nil {
			return err
		}
	}

	color.Green("Prepared %d variants of %s.", len(cfg.Variants()), cfg.ModelName())
	logging.LogEvent("Prepared %d variants of %s under %s", len(cfg.Variants()), cfg.ModelName(), cfg.ModelsDirPath())
	return nil
}
