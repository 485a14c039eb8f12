package heartbeat

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWriteReadCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat.json")

	w := NewWriter(Options{
		Path:    path,
		Address: "http://127.0.0.1:18430",
		Stats:   func() Stats { return Stats{Sessions: 3, TextsLoaded: true} },
	})
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	status, hb, err := Check(path, 2*time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != StatusAlive {
		t.Errorf("expected alive, got %s", status)
	}
	if hb == nil {
		t.Fatal("expected heartbeat, got nil")
	}
	if hb.PID != os.Getpid() {
		t.Errorf("PID: got %d, want %d", hb.PID, os.Getpid())
	}
	if hb.Address != "http://127.0.0.1:18430" || hb.Sessions != 3 || !hb.TextsLoaded {
		t.Errorf("unexpected heartbeat %+v", hb)
	}
}

func TestWriterRefreshesStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat.json")

	var sessions atomic.Int64
	w := NewWriter(Options{
		Path:     path,
		Interval: 10 * time.Millisecond,
		Stats:    func() Stats { return Stats{Sessions: int(sessions.Load())} },
	})
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	sessions.Store(2)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, hb, err := Check(path, time.Minute)
		if err == nil && hb != nil && hb.Sessions == 2 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("heartbeat never picked up the new session count")
}

func TestStaleDetection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat.json")

	old := Heartbeat{
		PID:       os.Getpid(),
		StartedAt: time.Now().Add(-2 * time.Hour),
		Timestamp: time.Now().Add(-1 * time.Hour),
		Uptime:    "1h0m0s",
	}
	data, _ := json.Marshal(old)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	status, hb, err := Check(path, 30*time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != StatusStale {
		t.Errorf("expected stale, got %s", status)
	}
	if hb == nil {
		t.Fatal("expected heartbeat, got nil")
	}
}

func TestDeadDetection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat.json")

	status, hb, err := Check(path, 2*time.Minute)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status != StatusDead {
		t.Errorf("expected dead, got %s", status)
	}
	if hb != nil {
		t.Errorf("expected nil heartbeat, got %+v", hb)
	}
}

func TestStopRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeat.json")

	w := NewWriter(Options{Path: path})
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected heartbeat file to be removed after Stop")
	}
}
