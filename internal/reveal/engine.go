// Package reveal progressively discloses a precomputed string, token by
// token, on a fixed cadence.
package reveal

import (
	"strings"
	"time"

	"github.com/dohr-michael/quickprompt/internal/loop"
)

// Options configures the token boundary and cadence.
type Options struct {
	Mode     Mode
	Interval time.Duration
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeWord
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval(o.Mode)
	}
	return o
}

// Callbacks receive engine progress. Both are optional.
type Callbacks struct {
	// OnToken is called after each token with the text revealed so far.
	OnToken func(output string)
	// OnDone is called once the last token has been shown. completed is
	// false when Stop ran first, in which case the caller already owns the
	// resulting state.
	OnDone func(completed bool)
}

// Engine reveals one text at a time. It is not safe for concurrent use:
// every method and callback runs on the scheduler's loop.
type Engine struct {
	sched loop.Scheduler
	opts  Options

	handle  *loop.Handle
	gen     uint64
	tokens  []string
	next    int
	output  strings.Builder
	stopped bool
}

// New returns an idle engine.
func New(sched loop.Scheduler, opts Options) *Engine {
	return &Engine{sched: sched, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Start begins revealing text. A reveal already in flight is cancelled
// without running its completion.
func (e *Engine) Start(text string, cb Callbacks) {
	e.handle.Cancel()

	e.gen++
	gen := e.gen
	e.tokens = Tokenize(text, e.opts.Mode)
	e.next = 0
	e.output.Reset()
	e.stopped = false

	e.handle = e.sched.Every(e.opts.Interval, func() {
		e.tick(gen, cb)
	})
}

func (e *Engine) tick(gen uint64, cb Callbacks) {
	if gen != e.gen {
		return
	}

	if e.next < len(e.tokens) {
		e.output.WriteString(e.tokens[e.next])
		e.next++
		if cb.OnToken != nil {
			cb.OnToken(e.output.String())
		}
		return
	}

	e.handle.Cancel()
	e.handle = nil
	if cb.OnDone != nil {
		cb.OnDone(!e.stopped)
	}
}

// Stop cancels the reveal in flight, keeping what was already shown.
// It reports whether a reveal was active.
func (e *Engine) Stop() bool {
	active := e.handle.Cancel()
	e.handle = nil
	e.stopped = true
	return active
}

// Active reports whether a reveal is in flight.
func (e *Engine) Active() bool {
	return e.handle.Active()
}

// Progress returns how many tokens have been shown out of the total.
func (e *Engine) Progress() (shown, total int) {
	return e.next, len(e.tokens)
}

// Output returns the text revealed so far.
func (e *Engine) Output() string {
	return e.output.String()
}
