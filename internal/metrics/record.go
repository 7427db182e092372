// internal/metrics/record.go
// Package metrics turns the console output of llama.cpp tools into numeric
// records and reduces per-prompt records into per-model summaries.
package metrics

// Record holds the metrics recovered from one inference invocation. Every
// field defaults to zero when its pattern is absent from the captured
// output; a Record is never partial.
type Record struct {
	LoadSeconds     float64 `json:"load_s"`
	EvalSeconds     float64 `json:"eval_s"`
	OutputTokens    int     `json:"output_tokens"`
	TokensPerSecond float64 `json:"tokens_per_second"`
	ModelRAMMB      float64 `json:"model_ram_mb"`
	KVCacheMB       float64 `json:"kv_cache_mb"`
	RuntimeRAMMB    float64 `json:"runtime_ram_mb"`
}

// CoreSignalsAbsent reports whether the generation-phase signals are all
// missing at once, which usually means the engine's output format and the
// parser have drifted apart.
func (r Record) CoreSignalsAbsent() bool {
	return r.TokensPerSecond == 0 && r.OutputTokens == 0
}
