// internal/util/util_test.go
package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	data := []byte("test payload")

	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("unexpected file contents: got %q want %q", got, data)
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "ascii truncation", in: "helloworld", max: 5, want: "hello…"},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんにち…"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Model:One":           "model_one",
		"  Model Two  ":       "model-two",
		"Model--Three!!":      "model-three",
		"__Mixed__Case__":     "mixed__case",
		"TinyLlama-1.1B-Chat": "tinyllama-1.1b-chat",
		"org/Repo-Name":       "org-repo-name",
	}
	for input, expected := range cases {
		if got := Slugify(input); got != expected {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, expected)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory available: %v", err)
	}

	if got := ExpandHome("~"); got != home {
		t.Fatalf("ExpandHome(~)=%q want %q", got, home)
	}
	if got := ExpandHome("~/llama.cpp"); got != filepath.Join(home, "llama.cpp") {
		t.Fatalf("ExpandHome(~/llama.cpp)=%q", got)
	}
	if got := ExpandHome("/absolute/path"); got != "/absolute/path" {
		t.Fatalf("absolute path changed: %q", got)
	}
	if got := ExpandHome("relative/path"); got != "relative/path" {
		t.Fatalf("relative path changed: %q", got)
	}
	if got := ExpandHome("~user/other"); !strings.HasPrefix(got, "~user") {
		t.Fatalf("expected ~user form untouched, got %q", got)
	}
}
