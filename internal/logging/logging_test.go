package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithoutDebugWritesWarningsToStderr(t *testing.T) {
	var buf bytes.Buffer
	setup, err := New(Options{Stderr: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if setup.Enabled {
		t.Fatal("expected file logging disabled")
	}
	setup.Logger.Info("session.create")
	setup.Logger.Warn("render.rasterize_failed", "error", "boom")
	out := buf.String()
	if strings.Contains(out, "session.create") {
		t.Error("expected info to be filtered")
	}
	if !strings.Contains(out, "render.rasterize_failed") {
		t.Errorf("expected warning in output, got %q", out)
	}
}

func TestNewDebugWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	setup, err := New(Options{Dir: dir, Debug: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	setup.Logger.Debug("session.create", "session_id", "abc")
	if err := setup.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if setup.Path != filepath.Join(dir, "slidesmith.log") {
		t.Errorf("unexpected path %s", setup.Path)
	}
	data, err := os.ReadFile(setup.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"session.create"`) || !strings.Contains(string(data), `"session_id":"abc"`) {
		t.Errorf("unexpected log contents %s", data)
	}
}

func TestSummarizeArgs(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := SummarizeArgs(map[string]any{
		"base64_string": "aGVsbG8=",
		"text":          long,
		"slide_index":   float64(2),
		"data":          []any{[]any{"a"}},
	}).(map[string]any)

	if got["base64_string"] != "<8 bytes>" {
		t.Errorf("expected payload summary, got %v", got["base64_string"])
	}
	if s := got["text"].(string); !strings.HasSuffix(s, "...(300 bytes)") {
		t.Errorf("expected truncated text, got %q", s)
	}
	if got["slide_index"] != float64(2) {
		t.Errorf("expected number untouched, got %v", got["slide_index"])
	}
	if _, ok := got["data"].([]any); !ok {
		t.Errorf("expected non-string payload key kept, got %T", got["data"])
	}
}
