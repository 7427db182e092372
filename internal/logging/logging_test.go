package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "quantbench.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogToolCall("qb->tool", "llama-cli", "model.Q4_K_M", map[string]any{"prompt": 1})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[QB->TOOL]") {
		t.Fatalf("expected tool call marker, got: %s", content)
	}
	if !strings.Contains(content, "model=model.Q4_K_M") {
		t.Fatalf("expected model label, got: %s", content)
	}
}

func TestRunStartAndWarning(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "quantbench.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	LogRunStart("Benchmark", "run-123", 4)
	LogWarning("no metrics for %s", "model.Q2_K")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Benchmark run run-123: 4 variants") {
		t.Fatalf("expected run start line, got: %s", content)
	}
	if !strings.Contains(content, "WARN: no metrics for model.Q2_K") {
		t.Fatalf("expected warning line, got: %s", content)
	}
}

func TestBuildToolMessageDefaults(t *testing.T) {
	msg := buildToolMessage(" qb->tool ", " ", "", map[string]any{"ok": true})
	if !strings.Contains(msg, "[QB->TOOL]") {
		t.Fatalf("expected uppercased direction, got: %s", msg)
	}
	if !strings.Contains(msg, "tool=unknown") {
		t.Fatalf("expected default tool, got: %s", msg)
	}
	if !strings.Contains(msg, "model=unknown") {
		t.Fatalf("expected default model, got: %s", msg)
	}
	if !strings.Contains(msg, "payload={\"ok\":true}") {
		t.Fatalf("expected payload json, got: %s", msg)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}
