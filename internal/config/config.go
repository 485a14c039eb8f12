// Package config loads the quickprompt configuration file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dohr-michael/quickprompt/internal/prompt"
	"github.com/dohr-michael/quickprompt/internal/reveal"
	"github.com/dohr-michael/quickprompt/internal/texts"
)

var ErrInvalid = errors.New("invalid config")

// Config is the root configuration for quickprompt.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Events  EventsConfig  `json:"events"`
	Texts   TextsConfig   `json:"texts"`
	Reveal  RevealConfig  `json:"reveal"`
	Timers  TimersConfig  `json:"timers"`
	Session SessionConfig `json:"session"`
	TUI     TUIConfig     `json:"tui"`
}

// GatewayConfig holds the gateway server settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// TextsConfig says where the predefined texts come from. File wins over URL.
type TextsConfig struct {
	URL     string   `json:"url"`
	File    string   `json:"file,omitempty"`
	Timeout Duration `json:"timeout"`
}

// RevealConfig sets the token boundary ("word" or "char") and cadence.
// A zero interval picks the mode's default.
type RevealConfig struct {
	Mode     string   `json:"mode"`
	Interval Duration `json:"interval,omitempty"`
}

// TimersConfig holds the fixed delays of a session.
type TimersConfig struct {
	Idle         Duration `json:"idle"`
	Loading      Duration `json:"loading"`
	SuccessClear Duration `json:"success_clear"`
}

// SessionConfig holds per-session defaults.
type SessionConfig struct {
	Language string `json:"language"`
	Seed     uint64 `json:"seed,omitempty"` // 0 = random topic picks
}

// TUIConfig configures the terminal client.
type TUIConfig struct {
	LogFile string `json:"log_file"`
	ASCII   bool   `json:"ascii,omitempty"` // plain glyphs for limited terminals
}

// Validate reports every invalid field in one error wrapping ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Gateway.Port < 0 || c.Gateway.Port > 65535 {
		add("gateway.port %d out of range", c.Gateway.Port)
	}
	if c.Events.BufferSize <= 0 {
		add("events.buffer_size must be positive, got %d", c.Events.BufferSize)
	}
	if c.Texts.URL == "" && c.Texts.File == "" {
		add("texts: url or file is required")
	}
	if c.Texts.Timeout < 0 {
		add("texts.timeout must not be negative")
	}
	if _, err := reveal.ParseMode(c.Reveal.Mode); err != nil {
		add("reveal.mode: %w", err)
	}
	if c.Reveal.Interval < 0 {
		add("reveal.interval must not be negative")
	}
	for name, d := range map[string]Duration{
		"timers.idle":          c.Timers.Idle,
		"timers.loading":       c.Timers.Loading,
		"timers.success_clear": c.Timers.SuccessClear,
	} {
		if d < 0 {
			add("%s must not be negative", name)
		}
	}
	if _, err := texts.ParseLanguage(c.Session.Language); err != nil {
		add("session.language: %w", err)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// TextsSource returns where to load the predefined texts from.
func (c *Config) TextsSource() texts.Source {
	return texts.Source{URL: c.Texts.URL, File: c.Texts.File, Timeout: c.Texts.Timeout.Duration()}
}

// RevealOptions returns the engine options. The config must be valid.
func (c *Config) RevealOptions() reveal.Options {
	mode, _ := reveal.ParseMode(c.Reveal.Mode)
	return reveal.Options{Mode: mode, Interval: c.Reveal.Interval.Duration()}
}

// PromptTimers returns the session delays.
func (c *Config) PromptTimers() prompt.Timers {
	return prompt.Timers{
		Idle:         c.Timers.Idle.Duration(),
		Loading:      c.Timers.Loading.Duration(),
		SuccessClear: c.Timers.SuccessClear.Duration(),
	}
}

// Language returns the default session language. The config must be valid.
func (c *Config) Language() texts.Language {
	lang, _ := texts.ParseLanguage(c.Session.Language)
	return lang
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
