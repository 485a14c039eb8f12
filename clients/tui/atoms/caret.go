package atoms

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CaretBlinkMsg toggles the caret visibility.
type CaretBlinkMsg struct{}

// Caret blinks at the end of the output while text is being revealed.
type Caret struct {
	Visible bool
	glyph   string
	style   lipgloss.Style
}

// NewCaret creates a caret drawn with a full block, or "_" when ascii is set.
func NewCaret(color lipgloss.AdaptiveColor, ascii bool) Caret {
	glyph := "█"
	if ascii {
		glyph = "_"
	}
	return Caret{
		Visible: true,
		glyph:   glyph,
		style:   lipgloss.NewStyle().Foreground(color),
	}
}

// BlinkCmd schedules the next blink.
func BlinkCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return CaretBlinkMsg{}
	})
}

func (c Caret) Update(msg tea.Msg) (Caret, tea.Cmd) {
	if _, ok := msg.(CaretBlinkMsg); ok {
		c.Visible = !c.Visible
		return c, BlinkCmd()
	}
	return c, nil
}

func (c Caret) View() string {
	if c.Visible {
		return c.style.Render(c.glyph)
	}
	return " "
}
