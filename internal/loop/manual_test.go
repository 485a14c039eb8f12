package loop

import (
	"testing"
	"time"
)

func TestManualOrdering(t *testing.T) {
	m := NewManual()
	var got []string

	m.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(20 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected order after 20ms: %v", got)
	}

	m.Advance(10 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Fatalf("unexpected order after 30ms: %v", got)
	}
	if m.Now() != 30*time.Millisecond {
		t.Errorf("expected now=30ms, got %s", m.Now())
	}
}

func TestManualEveryAndCancel(t *testing.T) {
	m := NewManual()
	ticks := 0
	var h *Handle
	h = m.Every(10*time.Millisecond, func() {
		ticks++
		if ticks == 3 {
			h.Cancel()
		}
	})

	m.Advance(100 * time.Millisecond)
	if ticks != 3 {
		t.Errorf("expected 3 ticks, got %d", ticks)
	}
	if m.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", m.Pending())
	}
}

func TestManualTaskArmsTask(t *testing.T) {
	m := NewManual()
	var at []time.Duration

	m.AfterFunc(10*time.Millisecond, func() {
		at = append(at, m.Now())
		m.AfterFunc(5*time.Millisecond, func() { at = append(at, m.Now()) })
	})

	m.Advance(50 * time.Millisecond)
	if len(at) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(at))
	}
	if at[0] != 10*time.Millisecond || at[1] != 15*time.Millisecond {
		t.Errorf("unexpected run times: %v", at)
	}
}

func TestManualCancelledNeverRuns(t *testing.T) {
	m := NewManual()
	ran := false
	h := m.AfterFunc(0, func() { ran = true })
	h.Cancel()
	m.Advance(time.Second)
	if ran {
		t.Error("cancelled task ran")
	}
}
