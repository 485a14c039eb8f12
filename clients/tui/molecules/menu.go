// Package molecules provides composite TUI widgets.
package molecules

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/quickprompt/internal/prompt"
)

// MenuStyles groups the menu styles.
type MenuStyles struct {
	Border   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
}

// Menu is the revise menu with a cursor.
type Menu struct {
	items  []prompt.MenuItem
	cursor int
	styles MenuStyles
	ascii  bool
}

// NewMenu creates a menu over items.
func NewMenu(items []prompt.MenuItem, styles MenuStyles, ascii bool) Menu {
	return Menu{items: items, styles: styles, ascii: ascii}
}

// Reset moves the cursor back to the first item.
func (m *Menu) Reset() { m.cursor = 0 }

func (m *Menu) Up() {
	if m.cursor > 0 {
		m.cursor--
		return
	}
	m.cursor = len(m.items) - 1
}

func (m *Menu) Down() {
	if m.cursor < len(m.items)-1 {
		m.cursor++
		return
	}
	m.cursor = 0
}

// Selected returns the item under the cursor.
func (m Menu) Selected() prompt.MenuItem {
	if len(m.items) == 0 {
		return ""
	}
	return m.items[m.cursor]
}

func (m Menu) View() string {
	pointer := "› "
	if m.ascii {
		pointer = "> "
	}
	var sb strings.Builder
	for i, item := range m.items {
		if i > 0 {
			sb.WriteString("\n")
		}
		if i == m.cursor {
			sb.WriteString(m.styles.Selected.Render(pointer + string(item)))
			continue
		}
		sb.WriteString(m.styles.Item.Render("  " + string(item)))
	}
	return m.styles.Border.Render(sb.String())
}
