// scripts/llamacpp_integration_check.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/llamacpp"
	"github.com/mwiater/quantbench/internal/metrics"
)

func main() {
	configPath := flag.String("config", appconfig.DefaultConfigPath, "Path to config JSON")
	rootDir := flag.String("root", "", "Override llama.cpp root directory")
	ggufPath := flag.String("gguf", "", "GGUF file for the generation smoke run (skipped when empty)")
	prompt := flag.String("prompt", "The quick brown fox", "Prompt for the smoke run")
	timeout := flag.Duration("timeout", 2*time.Minute, "Smoke run timeout")
	flag.Parse()

	tools, err := resolveTools(*configPath, *rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Target root: %s\n\n", tools.Root)

	if err := checkTools(tools); err != nil {
		fmt.Fprintf(os.Stderr, "toolset check failed: %v\n", err)
	}

	if *ggufPath == "" {
		fmt.Println("No --gguf given, skipping generation smoke run.")
		return
	}
	if err := smokeRun(tools, *ggufPath, *prompt, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "smoke run failed: %v\n", err)
	}
}

func resolveTools(configPath, overrideRoot string) (llamacpp.Toolset, error) {
	if overrideRoot != "" {
		return llamacpp.ResolveToolset(overrideRoot), nil
	}
	if _, err := os.Stat(configPath); err != nil {
		// No config is fine for a preflight: probe the default root.
		return llamacpp.ResolveToolset(""), nil
	}
	cfg, err := appconfig.Load(configPath)
	if err != nil {
		return llamacpp.Toolset{}, err
	}
	return llamacpp.ResolveToolset(cfg.LlamaCppRoot), nil
}

func checkTools(tools llamacpp.Toolset) error {
	fmt.Println("== toolset ==")
	checks := []struct {
		name string
		path string
	}{
		{"llama-cli", tools.CLI},
		{"llama-perplexity", tools.Perplexity},
		{"llama-quantize", tools.Quantize},
		{"convert_hf_to_gguf.py", tools.ConvertScript},
	}
	for _, check := range checks {
		if _, err := os.Stat(check.path); err != nil {
			fmt.Printf("  %-22s MISSING  %s\n", check.name, check.path)
			continue
		}
		fmt.Printf("  %-22s ok       %s\n", check.name, check.path)
	}
	fmt.Println()
	return tools.Verify()
}

func smokeRun(tools llamacpp.Toolset, gguf, prompt string, timeout time.Duration) error {
	fmt.Println("== llama-cli smoke run ==")
	args := []string{
		"-m", gguf,
		"-p", prompt,
		"-n", "16",
		"-c", "512",
		"--temp", "0",
		"--ignore-eos",
		"--no-warmup",
		"-no-cnv",
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := llamacpp.NewRunner().CombinedText(ctx, tools.CLI, args)
	if err != nil {
		return err
	}

	rec := metrics.ParseBenchmarkOutput(out)
	fmt.Printf("Load time:   %.3f s\n", rec.LoadSeconds)
	fmt.Printf("Eval time:   %.3f s\n", rec.EvalSeconds)
	fmt.Printf("Tokens:      %d\n", rec.OutputTokens)
	fmt.Printf("Tok/s:       %.2f\n", rec.TokensPerSecond)
	fmt.Printf("Runtime RAM: %.1f MB\n", rec.RuntimeRAMMB)
	fmt.Println()

	if rec.CoreSignalsAbsent() {
		return fmt.Errorf("no generation metrics recognized in llama-cli output")
	}
	return nil
}
