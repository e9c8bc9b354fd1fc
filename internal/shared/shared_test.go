package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello")
	if buf.Len() == 0 {
		t.Error("expected log output to reach the writer")
	}

	if NewLogger(nil) == nil {
		t.Error("expected a default logger with a nil writer")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sndx.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Info("hello")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(content) == 0 {
		t.Error("expected log output in the file")
	}
}

func TestGenerateState(t *testing.T) {
	a := GenerateState()
	b := GenerateState()

	if a == "" || b == "" {
		t.Fatal("expected non-empty state tokens")
	}
	if a == b {
		t.Error("expected unique state tokens")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"n": 1}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(compact) != `{"n":1}` {
		t.Errorf("unexpected compact output: %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if !bytes.Contains(pretty, []byte("\n")) {
		t.Error("expected indented output")
	}
}

func TestOpenBrowser(t *testing.T) {
	original := getRuntime
	defer func() { getRuntime = original }()

	getRuntime = func() string { return "plan9" }

	if err := OpenBrowser("https://example.com"); err == nil {
		t.Error("expected error on an unsupported platform")
	}
}
