// internal/metrics/parse.go
package metrics

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	loadTimeRe  = regexp.MustCompile(`load time\s*=\s*([\d.]+)\s*ms`)
	evalTimeRe  = regexp.MustCompile(`eval time\s*=\s*([\d.]+)\s*ms`)
	tokenRateRe = regexp.MustCompile(`([\d.]+)\s*(?:tok/s|tokens per second)`)
	runCountRe  = regexp.MustCompile(`/\s*(\d+)\s*runs`)
	modelSizeRe = regexp.MustCompile(`model size\s*=\s*([\d.]+)\s*MB`)
	kvCacheRe   = regexp.MustCompile(`KV cache\s*=\s*([\d.]+)\s*MB`)
	pplRe       = regexp.MustCompile(`\bperplexity\s*=\s*([0-9]+(?:\.[0-9]+)?)\b`)
)

// ErrPerplexityNotFound indicates the perplexity scalar was absent from an
// otherwise captured output. There is no safe zero-default for it.
var ErrPerplexityNotFound = errors.New("no perplexity value found in output")

// ParseBenchmarkOutput scans the combined stdout and stderr of one
// llama-cli invocation and returns a Record. The parser never fails:
// unmatched or malformed fields stay at their zero defaults.
//
// Timings are reported by the engine in milliseconds and stored in
// seconds. The generation-phase line shares the "eval time" keyword with
// the prompt-processing line, so the first line that lacks "prompt eval"
// wins and later matches are ignored.
func ParseBenchmarkOutput(text string) Record {
	var rec Record

	if v, ok := matchFloat(loadTimeRe, text); ok {
		rec.LoadSeconds = v / 1000.0
	}

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "eval time") || strings.Contains(line, "prompt eval") {
			continue
		}
		if v, ok := matchFloat(evalTimeRe, line); ok {
			rec.EvalSeconds = v / 1000.0
		}
		if v, ok := matchFloat(tokenRateRe, line); ok {
			rec.TokensPerSecond = v
		}
		if m := runCountRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				rec.OutputTokens = n
			}
		}
		break
	}

	modelMB, modelOK := matchFloat(modelSizeRe, text)
	if modelOK {
		rec.ModelRAMMB = modelMB
	}
	kvMB, kvOK := matchFloat(kvCacheRe, text)
	if kvOK {
		rec.KVCacheMB = kvMB
	}
	if modelOK && kvOK {
		rec.RuntimeRAMMB = modelMB + kvMB
	}

	return rec
}

// ParsePerplexityOutput extracts the single perplexity scalar from the
// combined output of a llama-perplexity invocation. A missing value is an
// error, never a zero result.
func ParsePerplexityOutput(text string) (float64, error) {
	m := pplRe.FindStringSubmatch(text)
	if m == nil {
		return 0, ErrPerplexityNotFound
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse perplexity value %q: %w", m[1], err)
	}
	return v, nil
}

// matchFloat returns the first capture group of re as a float. A match
// that does not parse as a float counts as no match.
func matchFloat(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
