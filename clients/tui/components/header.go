package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/quickprompt/internal/prompt"
)

// Header shows the button state, the active language and topic, the busy
// marker and the validity badge.
type Header struct {
	width    int
	state    prompt.State
	language string
	topicKey string
	validity prompt.Validity
	busy     string
	ascii    bool
}

// NewHeader creates a new header component.
func NewHeader(ascii bool) *Header {
	return &Header{state: prompt.StateGenerate, validity: prompt.ValidityNone, ascii: ascii}
}

// SetView copies the fields the header shows.
func (h *Header) SetView(v prompt.View) {
	h.state = v.State
	h.language = string(v.Language)
	h.topicKey = v.TopicKey
	h.validity = v.Validity
}

// SetBusy sets the busy marker (a spinner frame), or clears it when empty.
func (h *Header) SetBusy(frame string) {
	h.busy = frame
}

func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	left := HeaderTitleStyle.Render("quickprompt") +
		HeaderStateStyle.Render(" · "+string(h.state))
	if h.language != "" {
		ctx := h.language
		if h.topicKey != "" {
			ctx += "/" + h.topicKey
		}
		left += HeaderContextStyle.Render(" · " + ctx)
	}

	var right strings.Builder
	if h.busy != "" {
		right.WriteString(HeaderBusyStyle.Render(h.busy + " loading "))
	}
	switch h.validity {
	case prompt.ValiditySuccess:
		right.WriteString(SuccessBadgeStyle.Render(h.badge("✓", "ok")))
	case prompt.ValidityError:
		right.WriteString(ErrorBadgeStyle.Render(h.badge("✗", "error")))
	}
	rightStr := right.String()

	padding := h.width - lipgloss.Width(left) - lipgloss.Width(rightStr) - 2
	if padding < 1 {
		padding = 1
	}

	content := left + HeaderStyle.Padding(0).Render(strings.Repeat(" ", padding)) + rightStr
	return HeaderStyle.Width(h.width).Render(content)
}

func (h *Header) badge(glyph, word string) string {
	if h.ascii {
		return "[" + word + "]"
	}
	return glyph + " " + word
}
