package organisms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// InformationPanel displays the status bar: session, driver, language,
// topic, connection and mode.
type InformationPanel struct {
	sessionID string
	driver    string
	language  string
	topicKey  string
	connected bool
	connErr   error
	mode      Mode
	width     int
	style     lipgloss.Style
}

// NewInformationPanel creates a new status bar panel.
func NewInformationPanel(style lipgloss.Style, driver string) InformationPanel {
	return InformationPanel{
		style:  style,
		driver: driver,
	}
}

func (p *InformationPanel) SetSession(id string) { p.sessionID = id }

// SetContext updates the language and topic shown.
func (p *InformationPanel) SetContext(language, topicKey string) {
	p.language = language
	p.topicKey = topicKey
}

// SetConnected updates the connection state.
func (p *InformationPanel) SetConnected(connected bool, err error) {
	p.connected = connected
	p.connErr = err
}

func (p *InformationPanel) SetMode(mode Mode) { p.mode = mode }

func (p *InformationPanel) SetWidth(w int) { p.width = w }

func (p *InformationPanel) SessionID() string { return p.sessionID }

func (p *InformationPanel) Connected() bool { return p.connected }

func (p *InformationPanel) ConnErr() error { return p.connErr }

// View renders the status bar.
func (p InformationPanel) View() string {
	sid := strings.TrimPrefix(p.sessionID, "sess_")
	if sid == "" {
		sid = "-"
	}

	connStatus := "connected"
	if !p.connected {
		connStatus = "disconnected"
		if p.connErr != nil {
			connStatus += ": " + p.connErr.Error()
		}
	}

	ctx := p.language
	if p.topicKey != "" {
		ctx += "/" + p.topicKey
	}

	modeStr := ""
	if p.mode != ModeNormal {
		modeStr = " | " + p.mode.String()
	}

	bar := fmt.Sprintf(" sess:%s | %s | %s%s | %s ", sid, p.driver, ctx, modeStr, connStatus)
	return p.style.Width(p.width).Render(bar)
}
