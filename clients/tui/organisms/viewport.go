package organisms

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// OutputPane shows the session output, wrapped to its width and scrolled to
// the newest text.
type OutputPane struct {
	viewport viewport.Model
	text     string
	suffix   string
	width    int
	height   int
}

// NewOutputPane creates the output area.
func NewOutputPane(width, height int) OutputPane {
	vp := viewport.New(width, height)
	// The app owns every key; scrolling goes through PageUp/PageDown.
	vp.KeyMap = viewport.KeyMap{}
	vp.MouseWheelEnabled = false
	return OutputPane{
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// SetSize updates the pane dimensions.
func (o *OutputPane) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.viewport.Width = width
	o.viewport.Height = height
	o.refresh()
}

// SetText replaces the output. suffix is drawn after it (the reveal caret).
func (o *OutputPane) SetText(text, suffix string) {
	if text == o.text && suffix == o.suffix {
		return
	}
	o.text = text
	o.suffix = suffix
	o.refresh()
}

func (o *OutputPane) Text() string { return o.text }

func (o *OutputPane) PageUp() { o.viewport.PageUp() }

func (o *OutputPane) PageDown() { o.viewport.PageDown() }

func (o *OutputPane) refresh() {
	content := o.text + o.suffix
	if o.width > 0 {
		content = lipgloss.NewStyle().Width(o.width).Render(content)
	}
	o.viewport.SetContent(content)
	o.viewport.GotoBottom()
}

func (o OutputPane) Update(msg tea.Msg) (OutputPane, tea.Cmd) {
	var cmd tea.Cmd
	o.viewport, cmd = o.viewport.Update(msg)
	return o, cmd
}

func (o OutputPane) View() string {
	return o.viewport.View()
}
