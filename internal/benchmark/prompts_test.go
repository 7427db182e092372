package benchmark

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadPromptsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	content := "Explain entropy.\n\nWrite a haiku about RAM.\n   \nSummarize TCP.\nCount to ten.\n\nName three rivers.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write prompt file: %v", err)
	}

	prompts, err := LoadPrompts(path)
	if err != nil {
		t.Fatalf("LoadPrompts: %v", err)
	}
	want := []string{
		"Explain entropy.",
		"Write a haiku about RAM.",
		"Summarize TCP.",
		"Count to ten.",
		"Name three rivers.",
	}
	if !reflect.DeepEqual(prompts, want) {
		t.Fatalf("prompts = %q, want %q", prompts, want)
	}
}

func TestLoadPromptsEmptyFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("\n  \n\t\n"), 0o644); err != nil {
		t.Fatalf("write prompt file: %v", err)
	}

	if _, err := LoadPrompts(path); err == nil {
		t.Fatal("expected error for a prompt file with no prompts")
	}
}

func TestLoadPromptsMissingFileIsError(t *testing.T) {
	if _, err := LoadPrompts(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for a missing prompt file")
	}
}
