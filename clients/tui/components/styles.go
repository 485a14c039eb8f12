// Package components provides reusable TUI components and styles.
package components

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// Color Palette - Single Source of Truth
// =============================================================================

const (
	ColorPrimary   = "#7C3AED" // Violet - button, headings
	ColorSecondary = "#10B981" // Green - success
	ColorAccent    = "#60A5FA" // Blue - language and topic
	ColorWarning   = "#F59E0B" // Amber - busy
	ColorError     = "#EF4444" // Red - errors

	ColorMuted      = "#6B7280"
	ColorBorder     = "#374151"
	ColorBackground = "#1F2937"
	ColorSurface    = "#1E293B" // header bg

	ColorText       = "#E5E7EB"
	ColorTextBright = "#FFFFFF"
)

var (
	Primary    = lipgloss.Color(ColorPrimary)
	Secondary  = lipgloss.Color(ColorSecondary)
	Accent     = lipgloss.Color(ColorAccent)
	Warning    = lipgloss.Color(ColorWarning)
	Error      = lipgloss.Color(ColorError)
	Muted      = lipgloss.Color(ColorMuted)
	Border     = lipgloss.Color(ColorBorder)
	Surface    = lipgloss.Color(ColorSurface)
	Text       = lipgloss.Color(ColorText)
	TextBright = lipgloss.Color(ColorTextBright)
)

// =============================================================================
// Header Styles
// =============================================================================

var (
	HeaderStyle = lipgloss.NewStyle().
			Background(Surface).
			Foreground(Text).
			Padding(0, 1)

	HeaderTitleStyle = lipgloss.NewStyle().
				Background(Surface).
				Foreground(Primary).
				Bold(true)

	HeaderStateStyle = lipgloss.NewStyle().
				Background(Surface).
				Foreground(TextBright)

	HeaderContextStyle = lipgloss.NewStyle().
				Background(Surface).
				Foreground(Accent)

	HeaderBusyStyle = lipgloss.NewStyle().
			Background(Surface).
			Foreground(Warning)
)

// =============================================================================
// Validity Badges
// =============================================================================

var (
	SuccessBadgeStyle = lipgloss.NewStyle().
				Background(Surface).
				Foreground(Secondary).
				Bold(true)

	ErrorBadgeStyle = lipgloss.NewStyle().
			Background(Surface).
			Foreground(Error).
			Bold(true)
)

// =============================================================================
// Menu Styles
// =============================================================================

var (
	MenuItemStyle = lipgloss.NewStyle().
			Foreground(Text)

	MenuSelectedStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(Muted)
)
