package prompt

import (
	"sync"

	"github.com/dohr-michael/quickprompt/internal/texts"
)

// Surface is what the controller needs from a user interface.
type Surface interface {
	SetButton(state State)
	SetContext(lang texts.Language, topicKey string)
	SetText(text string)
	SetProgress(revealed, total int)
	SetEnabled(output, send bool)
	SetBusy(busy bool)
	SetValidity(v Validity)
	SetMenu(open bool, items []MenuItem)
	SetDialog(open bool)
	Toast(message string)
}

// Flusher is implemented by surfaces that batch setter calls. The
// controller calls Flush once per synced change set.
type Flusher interface {
	Flush()
}

// ViewSurface assembles setter calls into View values. It is safe for
// concurrent use.
type ViewSurface struct {
	mu      sync.Mutex
	view    View
	dirty   bool
	onView  func(View)
	onToast func(string)
}

// NewViewSurface calls onView with the full view after each flushed change
// set, and onToast for every toast. Either may be nil.
func NewViewSurface(onView func(View), onToast func(string)) *ViewSurface {
	return &ViewSurface{onView: onView, onToast: onToast}
}

// View returns the last assembled view.
func (s *ViewSurface) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *ViewSurface) update(fn func(v *View)) {
	s.mu.Lock()
	fn(&s.view)
	s.dirty = true
	s.mu.Unlock()
}

func (s *ViewSurface) SetButton(state State) {
	s.update(func(v *View) {
		v.State = state
		v.Label = state.Label()
	})
}

func (s *ViewSurface) SetContext(lang texts.Language, topicKey string) {
	s.update(func(v *View) {
		v.Language = lang
		v.TopicKey = topicKey
	})
}

func (s *ViewSurface) SetText(text string) {
	s.update(func(v *View) { v.Output = text })
}

func (s *ViewSurface) SetProgress(revealed, total int) {
	s.update(func(v *View) {
		v.Revealed = revealed
		v.Total = total
	})
}

func (s *ViewSurface) SetEnabled(output, send bool) {
	s.update(func(v *View) {
		v.OutputEnabled = output
		v.SendEnabled = send
	})
}

func (s *ViewSurface) SetBusy(busy bool) {
	s.update(func(v *View) { v.Busy = busy })
}

func (s *ViewSurface) SetValidity(val Validity) {
	s.update(func(v *View) { v.Validity = val })
}

func (s *ViewSurface) SetMenu(open bool, _ []MenuItem) {
	s.update(func(v *View) { v.MenuOpen = open })
}

func (s *ViewSurface) SetDialog(open bool) {
	s.update(func(v *View) { v.DialogOpen = open })
}

func (s *ViewSurface) Toast(message string) {
	if s.onToast != nil {
		s.onToast(message)
	}
}

// Flush emits the assembled view if anything changed since the last flush.
func (s *ViewSurface) Flush() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	view := s.view
	s.mu.Unlock()

	if s.onView != nil {
		s.onView(view)
	}
}
