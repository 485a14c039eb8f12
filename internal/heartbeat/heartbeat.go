// Package heartbeat lets the CLI find a running quickprompt gateway.
package heartbeat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Status represents the liveness state of the gateway.
type Status string

const (
	StatusAlive Status = "alive"
	StatusStale Status = "stale"
	StatusDead  Status = "dead"
)

// DefaultInterval is how often a Writer refreshes the file.
const DefaultInterval = 30 * time.Second

// Heartbeat is the data written to the heartbeat file.
type Heartbeat struct {
	PID         int       `json:"pid"`
	Address     string    `json:"address"`
	StartedAt   time.Time `json:"started_at"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      string    `json:"uptime"`
	Sessions    int       `json:"sessions"`
	TextsLoaded bool      `json:"texts_loaded"`
}

// Stats is the live part of a heartbeat.
type Stats struct {
	Sessions    int
	TextsLoaded bool
}

// Options configures a Writer.
type Options struct {
	Path string
	// Address is the gateway base URL clients should dial.
	Address  string
	Interval time.Duration
	// Stats is sampled on every write; may be nil.
	Stats func() Stats
}

// Writer periodically writes a heartbeat file to disk.
type Writer struct {
	opts    Options
	started time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWriter creates a heartbeat writer. A zero interval means DefaultInterval.
func NewWriter(opts Options) *Writer {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Writer{opts: opts}
}

// Start writes the first heartbeat and keeps refreshing it in the background.
func (w *Writer) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return nil
	}

	w.started = time.Now()
	if err := os.MkdirAll(filepath.Dir(w.opts.Path), 0o755); err != nil {
		return fmt.Errorf("create heartbeat dir: %w", err)
	}
	if err := w.write(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.opts.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_ = w.write()
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop stops writing and removes the heartbeat file.
func (w *Writer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel == nil {
		return
	}

	w.cancel()
	<-w.done
	w.cancel = nil

	os.Remove(w.opts.Path)
}

func (w *Writer) write() error {
	hb := Heartbeat{
		PID:       os.Getpid(),
		Address:   w.opts.Address,
		StartedAt: w.started,
		Timestamp: time.Now(),
		Uptime:    time.Since(w.started).Truncate(time.Second).String(),
	}
	if w.opts.Stats != nil {
		s := w.opts.Stats()
		hb.Sessions = s.Sessions
		hb.TextsLoaded = s.TextsLoaded
	}

	data, err := json.MarshalIndent(hb, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal heartbeat: %w", err)
	}

	// tmp + rename so readers never see a partial file
	tmp := w.opts.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write heartbeat: %w", err)
	}
	if err := os.Rename(tmp, w.opts.Path); err != nil {
		return fmt.Errorf("write heartbeat: %w", err)
	}
	return nil
}

// Check reads a heartbeat file and returns the liveness status.
// maxAge determines how old a heartbeat can be before it's considered stale.
func Check(path string, maxAge time.Duration) (Status, *Heartbeat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StatusDead, nil, nil
		}
		return StatusDead, nil, fmt.Errorf("read heartbeat: %w", err)
	}

	var hb Heartbeat
	if err := json.Unmarshal(data, &hb); err != nil {
		return StatusDead, nil, fmt.Errorf("unmarshal heartbeat: %w", err)
	}

	if time.Since(hb.Timestamp) > maxAge {
		return StatusStale, &hb, nil
	}
	return StatusAlive, &hb, nil
}
