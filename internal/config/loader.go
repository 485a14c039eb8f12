package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/tailscale/hujson"

	"github.com/dohr-michael/quickprompt/internal/texts"
)

var envTemplateRe = regexp.MustCompile(`\$\{\{\s*\.Env\.(\w+)\s*\}\}`)

// Load reads a JSONC config file, expands ${{ .Env.VAR }} templates,
// unmarshals it into Config, applies defaults and validates the result.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := Parse(data, &cfg); err != nil {
			return nil, err
		}
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes JSONC bytes into cfg without applying defaults.
func Parse(data []byte, cfg *Config) error {
	// Expand environment variable templates (before standardizing, since templates are in strings)
	expanded := expandEnvTemplates(string(data))

	std, err := hujson.Standardize([]byte(expanded))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := json.Unmarshal(std, cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// expandEnvTemplates replaces ${{ .Env.VAR }} with the env var value.
func expandEnvTemplates(s string) string {
	return envTemplateRe.ReplaceAllStringFunc(s, func(match string) string {
		parts := envTemplateRe.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		return os.Getenv(parts[1])
	})
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Gateway.Host == "" {
		cfg.Gateway.Host = "127.0.0.1"
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = 18430
	}
	if cfg.Events.BufferSize == 0 {
		cfg.Events.BufferSize = 1024
	}
	if cfg.Texts.URL == "" {
		cfg.Texts.URL = texts.DefaultURL
	}
	if cfg.Texts.Timeout == 0 {
		cfg.Texts.Timeout = Duration(10 * time.Second)
	}
	if cfg.Reveal.Mode == "" {
		cfg.Reveal.Mode = "word"
	}
	if cfg.Timers.Idle == 0 {
		cfg.Timers.Idle = Duration(2 * time.Second)
	}
	if cfg.Timers.Loading == 0 {
		cfg.Timers.Loading = Duration(time.Second)
	}
	if cfg.Timers.SuccessClear == 0 {
		cfg.Timers.SuccessClear = Duration(3 * time.Second)
	}
	if cfg.Session.Language == "" {
		cfg.Session.Language = string(texts.DefaultLanguage)
	}
	if cfg.TUI.LogFile == "" {
		cfg.TUI.LogFile = filepath.Join(QuickpromptPath(), "logs", "tui.log")
	}
}
