// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
	"strings"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the effective configuration after defaults and flag
// overrides have been applied. With Debug set it also pretty-prints the
// raw struct.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Model Repo:        %s\n", cfg.Model.HFRepo)
	fmt.Fprintf(out, "  Model Name:        %s\n", cfg.ModelName())
	fmt.Fprintf(out, "  Params (B):        %g\n", cfg.Model.ParamsBillions)
	fmt.Fprintf(out, "  Quants:            %s\n", strings.Join(cfg.QuantTypes(), ", "))
	fmt.Fprintf(out, "  llama.cpp Root:    %s\n", cfg.LlamaCppRoot)
	if cfg.Run.Preset != "" {
		fmt.Fprintf(out, "  Run Preset:        %s\n", cfg.Run.Preset)
	}
	fmt.Fprintf(out, "  Context Size:      %d\n", cfg.Run.ContextSize)
	fmt.Fprintf(out, "  Max Tokens:        %d\n", cfg.Run.MaxTokens)
	fmt.Fprintf(out, "  GPU Layers:        %d\n", cfg.Run.GPULayers)
	fmt.Fprintf(out, "  Temperature:       %g\n", cfg.Run.Temperature)
	if cfg.Run.Threads > 0 {
		fmt.Fprintf(out, "  Threads:           %d\n", cfg.Run.Threads)
	}
	fmt.Fprintf(out, "  PPL Context Size:  %d\n", cfg.Perplexity.ContextSize)
	fmt.Fprintf(out, "  PPL Batch Size:    %d\n", cfg.Perplexity.BatchSize)
	fmt.Fprintf(out, "  Prompt File:       %s\n", cfg.PromptFilePath())
	fmt.Fprintf(out, "  Data Dir:          %s\n", cfg.DataDirPath())
	fmt.Fprintf(out, "  Models Dir:        %s\n", cfg.ModelsDirPath())
	fmt.Fprintf(out, "  Continue On Error: %v\n", cfg.ContinueOnError)
	fmt.Fprintf(out, "  Debug:             %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:          %s\n", cfg.LogFilePath())

	if cfg.Debug {
		fmt.Fprintln(out)
		pp.Fprintln(out, cfg)
	}
}
