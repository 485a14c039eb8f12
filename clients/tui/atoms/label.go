package atoms

import "github.com/charmbracelet/lipgloss"

// Button renders a button label in brackets. A disabled button is drawn
// with the disabled style.
func Button(label string, style, disabled lipgloss.Style, enabled bool) string {
	text := "[ " + label + " ]"
	if !enabled {
		return disabled.Render(text)
	}
	return style.Render(text)
}
