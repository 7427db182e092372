// internal/metrics/summary.go
package metrics

import "fmt"

// Summary is the per-model aggregate of one benchmark run.
type Summary struct {
	Model               string  `json:"model"`
	PromptCount         int     `json:"prompt_count"`
	MeanLoadSeconds     float64 `json:"mean_load_s"`
	MeanEvalSeconds     float64 `json:"mean_eval_s"`
	MeanTokensPerSecond float64 `json:"mean_tokens_per_second"`
	MeanRuntimeRAMMB    float64 `json:"mean_runtime_ram_mb"`
	MinTokensPerSecond  float64 `json:"min_tokens_per_second"`
	MaxTokensPerSecond  float64 `json:"max_tokens_per_second"`
}

// Summarize reduces one run's records to unweighted arithmetic means.
// Zero-valued records still count toward the denominator. An empty slice
// is an error: the driver guarantees at least one record per run.
func Summarize(model string, records []Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, fmt.Errorf("no records to summarize for model %s", model)
	}

	s := Summary{Model: model, PromptCount: len(records)}
	s.MinTokensPerSecond = records[0].TokensPerSecond
	s.MaxTokensPerSecond = records[0].TokensPerSecond

	var load, eval, tps, ram float64
	for _, rec := range records {
		load += rec.LoadSeconds
		eval += rec.EvalSeconds
		tps += rec.TokensPerSecond
		ram += rec.RuntimeRAMMB

		if rec.TokensPerSecond < s.MinTokensPerSecond {
			s.MinTokensPerSecond = rec.TokensPerSecond
		}
		if rec.TokensPerSecond > s.MaxTokensPerSecond {
			s.MaxTokensPerSecond = rec.TokensPerSecond
		}
	}

	count := float64(len(records))
	s.MeanLoadSeconds = load / count
	s.MeanEvalSeconds = eval / count
	s.MeanTokensPerSecond = tps / count
	s.MeanRuntimeRAMMB = ram / count

	return s, nil
}
