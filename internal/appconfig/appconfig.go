// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwiater/quantbench/internal/util"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "quantbench.config.json"
	// defaultLlamaCppRoot is where a source build of llama.cpp usually lives.
	defaultLlamaCppRoot = "~/llama.cpp"
	// defaultDataDir holds results, plots and downloaded corpora.
	defaultDataDir = "data"
	// defaultModelsDir holds model snapshots and GGUF artifacts.
	defaultModelsDir = "models"
	// defaultPromptFile is the newline-delimited benchmark prompt list.
	defaultPromptFile = "prompt.txt"
	// defaultContextSize is the inference context window in tokens.
	defaultContextSize = 4096
	// defaultMaxTokens caps generation length per prompt.
	defaultMaxTokens = 256
	// defaultPPLContextSize is the context window used by llama-perplexity.
	defaultPPLContextSize = 2048
	// defaultPPLBatchSize is the batch size used by llama-perplexity.
	defaultPPLBatchSize = 256
)

// DefaultQuants are the quantization types prepared and benchmarked when
// the config does not narrow them down. F16 is the conversion artifact
// the quantized variants derive from.
var DefaultQuants = []string{"F16", "Q8_0", "Q4_K_M", "Q2_K"}

// KnownQuants are the quantization types llama-quantize can produce that
// quantbench accepts in a config.
var KnownQuants = []string{"F16", "Q8_0", "Q6_K", "Q5_K_M", "Q4_K_M", "Q4_0", "Q3_K_M", "Q2_K"}

// Config represents the top-level application configuration.
type Config struct {
	LlamaCppRoot    string           `json:"llamaCppRoot,omitempty"`
	Model           ModelSpec        `json:"model"`
	Quants          []string         `json:"quants,omitempty"`
	Run             RunParams        `json:"run"`
	Perplexity      PerplexityParams `json:"perplexity"`
	PromptFile      string           `json:"promptFile,omitempty"`
	DataDir         string           `json:"dataDir,omitempty"`
	ModelsDir       string           `json:"modelsDir,omitempty"`
	ContinueOnError bool             `json:"continueOnError"`
	Debug           bool             `json:"debug"`
	LogFile         string           `json:"logFile,omitempty"`
	ConfigPath      string           `json:"-"`
}

// ModelSpec identifies the Hugging Face model the quantization matrix is
// built from.
type ModelSpec struct {
	HFRepo         string  `json:"hfRepo"`
	Name           string  `json:"name,omitempty"`
	ParamsBillions float64 `json:"paramsBillions"`
}

// RunParams are the llama-cli invocation knobs shared by every benchmark
// run. A zero temperature means greedy decoding. Preset names a baseline
// from templates.go; explicit values override it.
type RunParams struct {
	Preset      string  `json:"preset,omitempty"`
	ContextSize int     `json:"contextSize,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
	GPULayers   int     `json:"gpuLayers,omitempty"`
	Temperature float64 `json:"temperature"`
	Threads     int     `json:"threads,omitempty"`
}

// PerplexityParams are the llama-perplexity invocation knobs. GPU layers
// are shared with RunParams.
type PerplexityParams struct {
	ContextSize int `json:"contextSize,omitempty"`
	BatchSize   int `json:"batchSize,omitempty"`
}

// Variant is one quantization of the configured model.
type Variant struct {
	Label    string
	Quant    string
	GGUFPath string
}

// ApplyDefaults fills zero-valued knobs with their documented defaults.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.LlamaCppRoot) == "" {
		c.LlamaCppRoot = defaultLlamaCppRoot
	}
	if len(c.Quants) == 0 {
		c.Quants = append([]string(nil), DefaultQuants...)
	}
	applyRunPreset(c)
	if c.Perplexity.ContextSize <= 0 {
		c.Perplexity.ContextSize = defaultPPLContextSize
	}
	if c.Perplexity.BatchSize <= 0 {
		c.Perplexity.BatchSize = defaultPPLBatchSize
	}
	if strings.TrimSpace(c.PromptFile) == "" {
		c.PromptFile = defaultPromptFile
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = defaultDataDir
	}
	if strings.TrimSpace(c.ModelsDir) == "" {
		c.ModelsDir = defaultModelsDir
	}
}

// Validate checks the semantic constraints that must hold before any
// subprocess is launched.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Model.HFRepo) == "" {
		return errors.New("config must name a model.hfRepo")
	}
	if c.Model.ParamsBillions < 0 {
		return errors.New("model.paramsBillions cannot be negative")
	}
	for _, q := range c.QuantTypes() {
		if !knownQuant(q) {
			return fmt.Errorf("unknown quant type %q (known: %s)", q, strings.Join(KnownQuants, ", "))
		}
	}
	if !knownPreset(c.Run.Preset) {
		return fmt.Errorf("unknown run.preset %q (known: %s)", c.Run.Preset, strings.Join(KnownPresets, ", "))
	}
	if c.Run.ContextSize < 0 {
		return errors.New("run.contextSize cannot be negative")
	}
	if c.Run.MaxTokens < 0 {
		return errors.New("run.maxTokens cannot be negative")
	}
	if c.Run.GPULayers < 0 || c.Run.GPULayers > 999 {
		return errors.New("run.gpuLayers out of range (0..999)")
	}
	if c.Run.Temperature < 0 || c.Run.Temperature > 2 {
		return errors.New("run.temperature out of range (0..2)")
	}
	if c.Run.Threads < 0 || c.Run.Threads > 1024 {
		return errors.New("run.threads out of range (0..1024)")
	}
	if c.Perplexity.ContextSize < 0 {
		return errors.New("perplexity.contextSize cannot be negative")
	}
	if c.Perplexity.BatchSize < 0 {
		return errors.New("perplexity.batchSize cannot be negative")
	}
	return nil
}

func knownQuant(q string) bool {
	for _, k := range KnownQuants {
		if q == k {
			return true
		}
	}
	return false
}

// ModelName returns the configured short name, deriving one from the
// repo's last path segment when unset.
func (c Config) ModelName() string {
	if name := strings.TrimSpace(c.Model.Name); name != "" {
		return name
	}
	repo := c.Model.HFRepo
	if i := strings.LastIndex(repo, "/"); i >= 0 {
		repo = repo[i+1:]
	}
	return util.Slugify(repo)
}

// QuantTypes returns the configured quantization types, falling back to
// the default matrix.
func (c Config) QuantTypes() []string {
	if len(c.Quants) > 0 {
		return c.Quants
	}
	return DefaultQuants
}

// Variants lists the quantized GGUF artifacts of the configured model, in
// quant order. Labels double as the model key in persisted results.
func (c Config) Variants() []Variant {
	name := c.ModelName()
	variants := make([]Variant, 0, len(c.QuantTypes()))
	for _, q := range c.QuantTypes() {
		variants = append(variants, Variant{
			Label:    name + "." + q,
			Quant:    q,
			GGUFPath: filepath.Join(c.ModelsDirPath(), name+"."+q+".gguf"),
		})
	}
	return variants
}

// F16GGUFPath is the conversion artifact every quantized variant derives
// from. It exists even when F16 is not among the benchmarked quants.
func (c Config) F16GGUFPath() string {
	return filepath.Join(c.ModelsDirPath(), c.ModelName()+".F16.gguf")
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "quantbench.log"
}

// DataDirPath returns the expanded data directory.
func (c Config) DataDirPath() string {
	dir := c.DataDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultDataDir
	}
	return util.ExpandHome(dir)
}

// ModelsDirPath returns the expanded models directory.
func (c Config) ModelsDirPath() string {
	dir := c.ModelsDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultModelsDir
	}
	return util.ExpandHome(dir)
}

// ResultsDirPath holds the accumulated CSV tables.
func (c Config) ResultsDirPath() string {
	return filepath.Join(c.DataDirPath(), "results")
}

// PlotsDirPath holds rendered comparison charts.
func (c Config) PlotsDirPath() string {
	return filepath.Join(c.DataDirPath(), "plots")
}

// CorpusPath is the local location of the perplexity reference corpus.
func (c Config) CorpusPath() string {
	return filepath.Join(c.DataDirPath(), "corpora", "wikitext2", "wiki.test.raw")
}

// PromptFilePath returns the expanded prompt list location.
func (c Config) PromptFilePath() string {
	path := c.PromptFile
	if strings.TrimSpace(path) == "" {
		path = defaultPromptFile
	}
	return util.ExpandHome(path)
}

// SnapshotDirPath is where the Hugging Face snapshot of the configured
// model is downloaded.
func (c Config) SnapshotDirPath() string {
	return filepath.Join(c.ModelsDirPath(), strings.ReplaceAll(c.Model.HFRepo, "/", "__"))
}
