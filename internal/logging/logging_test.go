package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf, Options{Prefix: "test"}))

	logger.Debug("hidden")
	logger.Info("session created", "session_id", "sess_1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "session created") || !strings.Contains(out, "sess_1") {
		t.Errorf("missing info line: %q", out)
	}

	buf.Reset()
	debug := slog.New(New(&buf, Options{Debug: true}))
	debug.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}

func TestSetupFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "tui.log")
	closeLog, err := Setup(Options{File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	slog.Info("written to file")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file missing line: %q", data)
	}
}
