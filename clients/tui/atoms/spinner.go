// Package atoms provides low-level TUI building blocks.
package atoms

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Spinner shows that the output is busy loading a revision.
type Spinner struct {
	Model  spinner.Model
	Active bool
}

// NewSpinner creates a spinner. ascii selects a pattern that renders on
// limited terminals.
func NewSpinner(color lipgloss.AdaptiveColor, ascii bool) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	if ascii {
		s.Spinner = spinner.Line
	}
	s.Style = lipgloss.NewStyle().Foreground(color)
	return Spinner{Model: s}
}

// Tick returns the spinner tick command.
func (s Spinner) Tick() tea.Cmd {
	return s.Model.Tick
}

// Update advances the spinner on its tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the current frame, or nothing while inactive.
func (s Spinner) View() string {
	if !s.Active {
		return ""
	}
	return s.Model.View()
}
