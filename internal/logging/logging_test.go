package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_TextToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(Options{Level: "debug"}, &buf)
	defer func() { _ = closer.Close() }()

	logger.Debug("hello", "k", "v")
	if out := buf.String(); !strings.Contains(out, "msg=hello") || !strings.Contains(out, "k=v") {
		t.Fatalf("output = %q", out)
	}
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rolo.log")
	logger, closer := New(Options{File: path, Format: "JSON"}, nil)
	logger.Info("written", "n", 1)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &entry); err != nil {
		t.Fatalf("log line is not json: %q", raw)
	}
	if entry["msg"] != "written" {
		t.Fatalf("entry = %#v", entry)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(Options{Level: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("output = %q", out)
	}
}

func TestNew_BadOptionsFallBackWithWarning(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(Options{Level: "loud", Format: "xml"}, &buf)
	logger.Info("after")

	out := buf.String()
	for _, want := range []string{"could not parse logger format", "could not parse logger level", "msg=after"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestNew_DevNullDiscards(t *testing.T) {
	logger, closer := New(Options{File: os.DevNull}, nil)
	logger.Error("nothing")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
