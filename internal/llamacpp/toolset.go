// internal/llamacpp/toolset.go
// Package llamacpp locates the llama.cpp toolchain and runs its binaries,
// returning their combined console output.
package llamacpp

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mwiater/quantbench/internal/util"
)

// DefaultRoot is where a source build of llama.cpp usually lives.
const DefaultRoot = "~/llama.cpp"

// Toolset holds the resolved paths of the llama.cpp tools quantbench
// drives. Resolution only lays out paths; existence is checked by Verify.
type Toolset struct {
	Root          string
	CLI           string
	Perplexity    string
	Quantize      string
	ConvertScript string
}

// ResolveToolset expands root and lays out the fixed tool locations of a
// llama.cpp source build.
func ResolveToolset(root string) Toolset {
	if root == "" {
		root = DefaultRoot
	}
	root = util.ExpandHome(root)
	bin := filepath.Join(root, "build", "bin")
	return Toolset{
		Root:          root,
		CLI:           filepath.Join(bin, binName("llama-cli")),
		Perplexity:    filepath.Join(bin, binName("llama-perplexity")),
		Quantize:      filepath.Join(bin, binName("llama-quantize")),
		ConvertScript: filepath.Join(root, "convert_hf_to_gguf.py"),
	}
}

// Verify confirms every tool exists. It runs before any subprocess is
// launched so a broken installation fails fast with the offending path.
func (t Toolset) Verify() error {
	for _, path := range []string{t.CLI, t.Perplexity, t.Quantize, t.ConvertScript} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("llama.cpp tool not found at %s (is the root built?)", path)
			}
			return fmt.Errorf("could not stat llama.cpp tool %s: %w", path, err)
		}
	}
	return nil
}

func binName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
