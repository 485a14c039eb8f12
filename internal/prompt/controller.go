// Package prompt implements the AI prompt button: a four-state machine that
// drives a reveal engine, a menu of canned revisions, and a simulated
// spell-check indicator.
package prompt

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/dohr-michael/quickprompt/internal/loop"
	"github.com/dohr-michael/quickprompt/internal/reveal"
	"github.com/dohr-michael/quickprompt/internal/texts"
)

var (
	ErrMenuClosed   = errors.New("revise menu is not open")
	ErrUnknownItem  = errors.New("unknown menu item")
	ErrSendDisabled = errors.New("send is disabled while text is generating")
)

// SentMessage is the toast shown when the output is sent.
const SentMessage = "Text sent"

// TextSource is the read side of the predefined texts. *texts.Dataset
// implements it, including as a nil pointer.
type TextSource interface {
	Text(v texts.Variant, lang texts.Language, key string) (string, error)
	Keys(lang texts.Language) ([]string, error)
	Candidates(lang texts.Language, key string) []string
}

// Timers holds the fixed delays of the demo.
type Timers struct {
	// Idle moves generating to revise, independent of the reveal.
	Idle time.Duration
	// Loading is the simulated latency before an action reveals text.
	Loading time.Duration
	// SuccessClear resets a success indicator.
	SuccessClear time.Duration
}

// DefaultTimers returns the standard delays.
func DefaultTimers() Timers {
	return Timers{
		Idle:         2 * time.Second,
		Loading:      time.Second,
		SuccessClear: 3 * time.Second,
	}
}

// Options configures a Controller. Texts, Scheduler and Surface are required.
type Options struct {
	Texts     TextSource
	Scheduler loop.Scheduler
	Surface   Surface
	Reveal    reveal.Options
	Timers    Timers
	Language  texts.Language
	// Pick chooses a topic key; defaults to a uniform random choice.
	Pick   func(keys []string) string
	Logger *slog.Logger
}

// RandomPicker returns a uniform picker. A zero seed uses the global source.
func RandomPicker(seed uint64) func(keys []string) string {
	if seed == 0 {
		return func(keys []string) string { return keys[rand.IntN(len(keys))] }
	}
	r := rand.New(rand.NewPCG(seed, seed))
	return func(keys []string) string { return keys[r.IntN(len(keys))] }
}

// Controller owns one session. Every method must run on the loop behind
// its Scheduler.
type Controller struct {
	texts   TextSource
	sched   loop.Scheduler
	surface Surface
	timers  Timers
	pick    func([]string) string
	log     *slog.Logger
	engine  *reveal.Engine

	view   View
	synced View

	idle    *loop.Handle
	loading *loop.Handle
	clear   *loop.Handle
}

// New returns a controller in the generate state and pushes the initial view
// to the surface.
func New(opts Options) *Controller {
	if opts.Language == "" {
		opts.Language = texts.DefaultLanguage
	}
	if opts.Timers == (Timers{}) {
		opts.Timers = DefaultTimers()
	}
	if opts.Pick == nil {
		opts.Pick = RandomPicker(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{
		texts:   opts.Texts,
		sched:   opts.Scheduler,
		surface: opts.Surface,
		timers:  opts.Timers,
		pick:    opts.Pick,
		log:     opts.Logger,
		engine:  reveal.New(opts.Scheduler, opts.Reveal),
		view: View{
			State:         StateGenerate,
			Language:      opts.Language,
			Validity:      ValidityNone,
			OutputEnabled: true,
			SendEnabled:   true,
			DialogOpen:    true,
		},
	}
	c.push(true)
	return c
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() View {
	v := c.view
	v.Label = v.State.Label()
	return v
}

// Click presses the main button.
func (c *Controller) Click() error {
	switch c.view.State {
	case StateGenerate:
		key, text, err := c.roll()
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		c.log.Debug("prompt generate", "key", key, "language", c.view.Language)
		c.view.State = StateGenerating
		c.view.TopicKey = key
		c.view.SendEnabled = false
		c.startIdle()
		c.load(func() { c.reveal(text) })

	case StateGenerating, StateReviseGenerating:
		c.log.Debug("prompt stop", "from", c.view.State)
		c.view.State = StateRevise
		c.stop()

	case StateRevise:
		c.view.MenuOpen = true
	}
	c.sync()
	return nil
}

// Choose runs a revise menu item. The menu must be open.
func (c *Controller) Choose(item MenuItem) error {
	if !c.view.MenuOpen {
		return ErrMenuClosed
	}

	lang, key := c.view.Language, c.view.TopicKey

	switch {
	case item == ItemRegenerate:
		newKey, text, err := c.roll()
		if err != nil {
			return fmt.Errorf("regenerate: %w", err)
		}
		c.view.TopicKey = newKey
		c.load(func() { c.generate(StateGenerating, text) })

	case item == ItemClearError:
		c.setValidity(ValidityNone)

	case item == ItemGenerateError:
		c.setValidity(ValidityError)

	case item == ItemFixSpelling:
		base, err := c.texts.Text(texts.VariantBase, lang, key)
		if err != nil {
			return fmt.Errorf("fix spelling: %w", err)
		}
		candidates := c.texts.Candidates(lang, key)
		c.load(func() { c.fixSpelling(candidates, base) })

	default:
		if v, ok := item.variant(); ok {
			text, err := c.texts.Text(v, lang, key)
			if err != nil {
				return fmt.Errorf("%s: %w", item, err)
			}
			c.load(func() { c.generate(StateReviseGenerating, text) })
			break
		}
		if l, ok := item.language(); ok {
			text, err := c.texts.Text(texts.VariantBase, l, key)
			if err != nil {
				return fmt.Errorf("%s: %w", item, err)
			}
			c.view.Language = l
			c.load(func() { c.generate(StateReviseGenerating, text) })
			break
		}
		return fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}

	c.log.Debug("prompt menu", "item", item, "key", c.view.TopicKey, "language", c.view.Language)
	c.view.MenuOpen = false
	c.sync()
	return nil
}

// CloseMenu dismisses the menu without choosing an item.
func (c *Controller) CloseMenu() {
	c.view.MenuOpen = false
	c.sync()
}

// Send hands the output off: a toast is shown and the output cleared.
// Sending an empty output does nothing.
func (c *Controller) Send() error {
	if !c.view.SendEnabled {
		return ErrSendDisabled
	}
	if c.view.Output == "" {
		return nil
	}
	c.surface.Toast(SentMessage)
	c.setValidity(ValidityNone)
	c.view.Output = ""
	c.view.Revealed, c.view.Total = 0, 0
	c.sync()
	return nil
}

// Acknowledge closes the acknowledgement dialog. OK and Cancel both close it.
func (c *Controller) Acknowledge(ok bool) {
	c.log.Debug("prompt dialog closed", "ok", ok)
	c.view.DialogOpen = false
	c.sync()
}

// Close cancels every pending timer. The controller must not be used afterwards.
func (c *Controller) Close() {
	c.engine.Stop()
	c.idle.Cancel()
	c.loading.Cancel()
	c.clear.Cancel()
}

// roll picks a fresh topic key and resolves its base text.
func (c *Controller) roll() (string, string, error) {
	keys, err := c.texts.Keys(c.view.Language)
	if err != nil {
		return "", "", err
	}
	key := c.pick(keys)
	text, err := c.texts.Text(texts.VariantBase, c.view.Language, key)
	if err != nil {
		return "", "", err
	}
	return key, text, nil
}

// load marks the output busy and runs fn after the loading delay. A newer
// load or a stop cancels the pending one.
func (c *Controller) load(fn func()) {
	c.loading.Cancel()
	c.view.Busy = true
	c.loading = c.sched.AfterFunc(c.timers.Loading, func() {
		c.loading = nil
		fn()
		c.view.Busy = false
		c.sync()
	})
}

func (c *Controller) generate(state State, text string) {
	c.view.State = state
	c.startIdle()
	c.reveal(text)
}

// startIdle arms the generating → revise transition. It runs independently
// of the reveal and replaces any transition already armed.
func (c *Controller) startIdle() {
	c.idle.Cancel()
	c.idle = c.sched.AfterFunc(c.timers.Idle, func() {
		c.idle = nil
		c.view.State = StateRevise
		c.sync()
	})
}

func (c *Controller) reveal(text string) {
	c.view.Output = ""
	c.view.OutputEnabled = false
	c.view.SendEnabled = false

	c.engine.Start(text, reveal.Callbacks{
		OnToken: func(out string) {
			c.view.Output = out
			c.view.OutputEnabled = false
			c.view.SendEnabled = false
			c.view.Revealed, c.view.Total = c.engine.Progress()
			c.sync()
		},
		OnDone: func(completed bool) {
			if completed {
				c.view.State = StateRevise
			}
			c.view.OutputEnabled = true
			c.view.SendEnabled = true
			c.sync()
		},
	})
	c.view.Revealed, c.view.Total = c.engine.Progress()
}

// stop cancels the reveal, the idle transition and any pending load, and
// hands the output back to the user.
func (c *Controller) stop() {
	c.engine.Stop()
	c.idle.Cancel()
	c.idle = nil
	c.loading.Cancel()
	c.loading = nil
	c.view.Busy = false
	c.view.OutputEnabled = true
	c.view.SendEnabled = true
}

func (c *Controller) fixSpelling(candidates []string, base string) {
	out := strings.TrimSpace(c.view.Output)
	if !slices.Contains(candidates, out) {
		c.log.Debug("prompt spelling rejected", "key", c.view.TopicKey)
		c.generate(StateGenerating, base)
		c.setValidity(ValidityError)
		return
	}

	c.setValidity(ValiditySuccess)
	c.clear = c.sched.AfterFunc(c.timers.SuccessClear, func() {
		c.clear = nil
		c.view.Validity = ValidityNone
		c.sync()
	})
}

// setValidity replaces the indicator and drops any pending auto-clear.
func (c *Controller) setValidity(v Validity) {
	c.clear.Cancel()
	c.clear = nil
	c.view.Validity = v
}

func (c *Controller) sync() {
	c.push(false)
}

// push sends the fields that changed since the last push to the surface.
func (c *Controller) push(all bool) {
	v, old := c.view, c.synced
	s := c.surface

	if all || v.State != old.State {
		s.SetButton(v.State)
	}
	if all || v.Language != old.Language || v.TopicKey != old.TopicKey {
		s.SetContext(v.Language, v.TopicKey)
	}
	if all || v.Output != old.Output {
		s.SetText(v.Output)
	}
	if all || v.Revealed != old.Revealed || v.Total != old.Total {
		s.SetProgress(v.Revealed, v.Total)
	}
	if all || v.OutputEnabled != old.OutputEnabled || v.SendEnabled != old.SendEnabled {
		s.SetEnabled(v.OutputEnabled, v.SendEnabled)
	}
	if all || v.Busy != old.Busy {
		s.SetBusy(v.Busy)
	}
	if all || v.Validity != old.Validity {
		s.SetValidity(v.Validity)
	}
	if all || v.MenuOpen != old.MenuOpen {
		var items []MenuItem
		if v.MenuOpen {
			items = MenuItems
		}
		s.SetMenu(v.MenuOpen, items)
	}
	if all || v.DialogOpen != old.DialogOpen {
		s.SetDialog(v.DialogOpen)
	}

	c.synced = v
	if f, ok := s.(Flusher); ok {
		f.Flush()
	}
}
