// Package logging installs the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	clog "github.com/charmbracelet/log"
)

// Options configures Setup.
type Options struct {
	// Prefix is shown before every line, e.g. "gateway".
	Prefix string
	Debug  bool
	// File, when set, receives the log instead of stderr. The terminal UI
	// owns stdout and stderr, so it logs to a file.
	File string
}

// New returns a charmbracelet/log logger writing to w.
func New(w io.Writer, opts Options) *clog.Logger {
	logger := clog.NewWithOptions(w, clog.Options{
		Prefix:          opts.Prefix,
		Level:           clog.InfoLevel,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}
	return logger
}

// Setup makes a charmbracelet/log handler the slog default. The returned
// function closes the log file, if any.
func Setup(opts Options) (func() error, error) {
	var w io.Writer = os.Stderr
	closer := func() error { return nil }

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return closer, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closer = f.Close
	}

	slog.SetDefault(slog.New(New(w, opts)))
	return closer, nil
}
