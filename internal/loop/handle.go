package loop

import "sync/atomic"

// Handle is the cancellation token of a scheduled task.
// A nil *Handle is valid and behaves as an already finished task.
type Handle struct {
	cancelled atomic.Bool
	fired     atomic.Bool
	repeat    bool
	stop      func()
}

// Cancel prevents any further run of the task. It reports whether the task
// was still pending (an interval task is pending until cancelled).
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}
	if h.cancelled.Swap(true) {
		return false
	}
	if h.stop != nil {
		h.stop()
	}
	return !h.fired.Load()
}

// Cancelled reports whether Cancel has been called.
func (h *Handle) Cancelled() bool {
	return h != nil && h.cancelled.Load()
}

// Active reports whether the task may still run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled.Load() && !h.fired.Load()
}

// fire marks a one-shot task as run. It returns false when the task was
// cancelled before its callback reached the loop.
func (h *Handle) fire() bool {
	if h.cancelled.Load() {
		return false
	}
	if !h.repeat {
		h.fired.Store(true)
	}
	return true
}
