// internal/benchmark/prompts.go
package benchmark

import (
	"fmt"
	"os"
	"strings"
)

// LoadPrompts reads the newline-delimited prompt list. Blank lines are
// skipped; an empty list is an error because a run without prompts would
// silently produce no rows.
func LoadPrompts(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read prompt file %q: %w", path, err)
	}

	var prompts []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		prompts = append(prompts, line)
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("prompt file %q contains no prompts", path)
	}

	return prompts, nil
}
