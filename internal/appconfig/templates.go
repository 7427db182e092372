// internal/appconfig/templates.go
package appconfig

import "strings"

// PresetName identifies a run-parameter preset.
type PresetName string

const (
	// PresetGreedy pins temperature to zero so every variant decodes the
	// same continuation. Cross-quant numbers only line up when sampling
	// noise is out of the picture, so this is the default.
	PresetGreedy PresetName = "greedy"
	// PresetBalanced mirrors llama-cli's stock sampling temperature.
	PresetBalanced PresetName = "balanced"
	// PresetCreative trades determinism for longer, hotter generations.
	PresetCreative PresetName = "creative"
)

// KnownPresets lists the run presets a config may name.
var KnownPresets = []string{string(PresetGreedy), string(PresetBalanced), string(PresetCreative)}

// ParamsForPreset selects a run-parameter preset by name.
// Behavior:
//   - empty string => Greedy (default)
//   - unknown string => Greedy (default)
func ParamsForPreset(name string) RunParams {
	n := normalizePresetName(name)

	switch PresetName(n) {
	case PresetBalanced:
		return DefaultBalancedParams()
	case PresetCreative:
		return DefaultCreativeParams()
	case PresetGreedy:
		fallthrough
	default:
		return DefaultGreedyParams()
	}
}

// DefaultGreedyParams is the default preset when none is set in the config.
func DefaultGreedyParams() RunParams {
	return RunParams{
		ContextSize: defaultContextSize,
		MaxTokens:   defaultMaxTokens,
		Temperature: 0.0, // greedy decode
	}
}

// DefaultBalancedParams mirrors llama-cli's stock sampling.
func DefaultBalancedParams() RunParams {
	return RunParams{
		ContextSize: defaultContextSize,
		MaxTokens:   defaultMaxTokens,
		Temperature: 0.7,
	}
}

// DefaultCreativeParams is tuned for stylistic variance, useful when
// eyeballing generation quality per quant rather than timing it.
func DefaultCreativeParams() RunParams {
	return RunParams{
		ContextSize: defaultContextSize,
		MaxTokens:   512,
		Temperature: 1.1,
	}
}

// applyRunPreset fills the unset run knobs from the named preset.
// Explicit positive values in the config always win over the preset.
func applyRunPreset(config *Config) {
	preset := ParamsForPreset(config.Run.Preset)
	if config.Run.ContextSize <= 0 {
		config.Run.ContextSize = preset.ContextSize
	}
	if config.Run.MaxTokens <= 0 {
		config.Run.MaxTokens = preset.MaxTokens
	}
	if config.Run.Temperature <= 0 {
		config.Run.Temperature = preset.Temperature
	}
}

func normalizePresetName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func knownPreset(name string) bool {
	if strings.TrimSpace(name) == "" {
		return true
	}
	n := normalizePresetName(name)
	for _, k := range KnownPresets {
		if n == k {
			return true
		}
	}
	return false
}
