package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dohr-michael/quickprompt/internal/reveal"
	"github.com/dohr-michael/quickprompt/internal/texts"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
	// This is a JSONC comment
	"gateway": {
		"host": "0.0.0.0",
		"port": 9999,
	},
	"texts": {
		"file": "${{ .Env.QP_TEXTS_FILE }}",
		"timeout": "3s",
	},
	"reveal": {"mode": "char", "interval": "20ms"},
	"timers": {"idle": "500ms"},
	/* block comments work too */
	"session": {"language": "German", "seed": 42},
}`)
	t.Setenv("QP_TEXTS_FILE", "/data/texts.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Gateway.Host != "0.0.0.0" {
		t.Errorf("expected host 0.0.0.0, got %s", cfg.Gateway.Host)
	}
	if cfg.Gateway.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Gateway.Port)
	}
	src := cfg.TextsSource()
	if src.File != "/data/texts.yaml" || src.Timeout != 3*time.Second {
		t.Errorf("unexpected texts source %+v", src)
	}
	if opts := cfg.RevealOptions(); opts.Mode != reveal.ModeChar || opts.Interval != 20*time.Millisecond {
		t.Errorf("unexpected reveal options %+v", opts)
	}
	timers := cfg.PromptTimers()
	if timers.Idle != 500*time.Millisecond || timers.Loading != time.Second {
		t.Errorf("unexpected timers %+v", timers)
	}
	if cfg.Language() != texts.LanguageGerman || cfg.Session.Seed != 42 {
		t.Errorf("unexpected session %+v", cfg.Session)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QUICKPROMPT_PATH", "/tmp/qp-test")
	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Gateway.Host != "127.0.0.1" {
		t.Errorf("expected default host 127.0.0.1, got %s", cfg.Gateway.Host)
	}
	if cfg.Gateway.Port != 18430 {
		t.Errorf("expected default port 18430, got %d", cfg.Gateway.Port)
	}
	if cfg.Events.BufferSize != 1024 {
		t.Errorf("expected default buffer 1024, got %d", cfg.Events.BufferSize)
	}
	if cfg.Texts.URL != texts.DefaultURL {
		t.Errorf("expected default texts url, got %s", cfg.Texts.URL)
	}
	if opts := cfg.RevealOptions(); opts.Mode != reveal.ModeWord {
		t.Errorf("expected word mode, got %s", opts.Mode)
	}
	timers := cfg.PromptTimers()
	if timers.Idle != 2*time.Second || timers.Loading != time.Second || timers.SuccessClear != 3*time.Second {
		t.Errorf("unexpected default timers %+v", timers)
	}
	if cfg.Language() != texts.LanguageEnglish {
		t.Errorf("expected english, got %s", cfg.Language())
	}
	if cfg.TUI.LogFile != "/tmp/qp-test/logs/tui.log" {
		t.Errorf("unexpected log file %s", cfg.TUI.LogFile)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.jsonc"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got %v", err)
	}
	if cfg.Gateway.Port != Default().Gateway.Port {
		t.Errorf("expected default port, got %d", cfg.Gateway.Port)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, `{
		"gateway": {"port": 70000},
		"reveal": {"mode": "sentence"},
		"timers": {"loading": "-1s"},
		"session": {"language": "fr"}
	}`)

	_, err := Load(path)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	for _, want := range []string{"gateway.port", "reveal.mode", "timers.loading", "session.language"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadSyntaxError(t *testing.T) {
	_, err := Load(writeConfig(t, `{"gateway": `))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("expected a parse error, got %v", err)
	}
}

func TestExpandEnvTemplates(t *testing.T) {
	t.Setenv("TEST_KEY", "my-secret")
	result := expandEnvTemplates(`{"key": "${{ .Env.TEST_KEY }}"}`)
	expected := `{"key": "my-secret"}`
	if result != expected {
		t.Errorf("expected %s, got %s", expected, result)
	}
}
