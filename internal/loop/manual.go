package loop

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler driven by Advance. Tasks run on the
// goroutine calling Advance, in due-time order, ties broken by arming order.
type Manual struct {
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	when     time.Duration
	interval time.Duration
	seq      uint64
	fn       func()
	handle   *Handle
}

// NewManual returns a manual clock positioned at zero.
func NewManual() *Manual {
	return &Manual{}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) *Handle {
	return m.arm(d, 0, fn)
}

func (m *Manual) Every(d time.Duration, fn func()) *Handle {
	if d <= 0 {
		d = time.Millisecond
	}
	return m.arm(d, d, fn)
}

func (m *Manual) arm(d, interval time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	m.seq++
	h := &Handle{repeat: interval > 0}
	m.timers = append(m.timers, &manualTimer{
		when:     m.now + d,
		interval: interval,
		seq:      m.seq,
		fn:       fn,
		handle:   h,
	})
	return h
}

// Advance moves the clock forward by d, running every task that falls due.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.next(target)
		if t == nil {
			break
		}
		m.now = t.when
		if t.interval > 0 {
			t.when += t.interval
		} else {
			m.remove(t)
		}
		if t.handle.fire() {
			t.fn()
		}
	}
	m.now = target
}

// Pending returns the number of armed, uncancelled tasks.
func (m *Manual) Pending() int {
	m.prune()
	return len(m.timers)
}

func (m *Manual) next(target time.Duration) *manualTimer {
	m.prune()
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].when != m.timers[j].when {
			return m.timers[i].when < m.timers[j].when
		}
		return m.timers[i].seq < m.timers[j].seq
	})
	if len(m.timers) == 0 || m.timers[0].when > target {
		return nil
	}
	return m.timers[0]
}

func (m *Manual) prune() {
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.handle.Cancelled() {
			kept = append(kept, t)
		}
	}
	m.timers = kept
}

func (m *Manual) remove(target *manualTimer) {
	for i, t := range m.timers {
		if t == target {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return
		}
	}
}
