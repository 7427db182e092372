// internal/perplexity/perplexity.go
// Package perplexity scores model variants with llama-perplexity over a
// shared reference corpus.
package perplexity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwiater/quantbench/internal/appconfig"
	"github.com/mwiater/quantbench/internal/llamacpp"
	"github.com/mwiater/quantbench/internal/logging"
	"github.com/mwiater/quantbench/internal/metrics"
	"github.com/mwiater/quantbench/internal/util"
)

// CorpusURL is the WikiText-2 raw test set, the standard reference text
// for language-model perplexity.
const CorpusURL = "https://huggingface.co/datasets/wikitext/resolve/main/wikitext-2-raw-v1/wiki.test.raw"

// corpusURL is a var so tests can point EnsureCorpus at a local server.
var corpusURL = CorpusURL

// EnsureCorpus makes sure the reference corpus exists at path, downloading
// it on first use. Check-then-fetch is not atomic: two processes racing on
// a first run may both download. Serialize first use or pre-seed the file.
func EnsureCorpus(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	logging.LogEvent("Reference corpus not found, downloading WikiText-2 to %s", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create corpus directory: %w", err)
	}
	if err := fetchCorpus(path, corpusURL); err != nil {
		return err
	}
	logging.LogEvent("Reference corpus downloaded to %s", path)
	return nil
}

// fetchCorpus downloads url to path verbatim. No checksum is verified;
// the corpus is reference text, not executable input.
func fetchCorpus(path, url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("could not download corpus from %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("corpus download from %s returned %s", url, resp.Status)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create corpus file %q: %w", path, err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		// A partial file would satisfy the exists-check on the next run.
		_ = os.Remove(path)
		return fmt.Errorf("could not write corpus file %q: %w", path, err)
	}
	return file.Close()
}

// Driver computes perplexity for model variants, one llama-perplexity
// invocation per variant. It shells out through Runner, so tests can
// substitute canned output.
type Driver struct {
	Tools     llamacpp.Toolset
	Runner    llamacpp.Runner
	Params    appconfig.PerplexityParams
	GPULayers int
}

// Compute runs llama-perplexity for one variant against the corpus and
// returns the single scalar. A missing scalar is an error: unlike the
// benchmark metrics there is no safe zero-default for perplexity.
func (d Driver) Compute(ctx context.Context, variant appconfig.Variant, corpusPath string) (float64, error) {
	args := d.pplArgs(variant.GGUFPath, corpusPath)

	logging.LogToolCall("QB->TOOL", "llama-perplexity", variant.Label, args)
	out, err := d.Runner.CombinedText(ctx, d.Tools.Perplexity, args)
	if err != nil {
		return 0, fmt.Errorf("perplexity for %s: %w", variant.Label, err)
	}

	ppl, err := metrics.ParsePerplexityOutput(out)
	if err != nil {
		return 0, fmt.Errorf("%s: %w (output tail: %s)", variant.Label, err, util.TruncateRunes(strings.TrimSpace(out), 500))
	}
	logging.LogToolCall("TOOL->QB", "llama-perplexity", variant.Label, map[string]float64{"perplexity": ppl})

	return ppl, nil
}

// pplArgs builds the llama-perplexity invocation. Flag order is fixed;
// -ngl is omitted at zero so the engine default (CPU-only) applies.
func (d Driver) pplArgs(ggufPath, corpusPath string) []string {
	args := []string{
		"-m", ggufPath,
		"-f", corpusPath,
		"-c", strconv.Itoa(d.Params.ContextSize),
		"-b", strconv.Itoa(d.Params.BatchSize),
	}
	if d.GPULayers > 0 {
		args = append(args, "-ngl", strconv.Itoa(d.GPULayers))
	}
	return args
}
