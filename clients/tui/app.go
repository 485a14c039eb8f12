package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/quickprompt/clients/tui/atoms"
	"github.com/dohr-michael/quickprompt/clients/tui/components"
	"github.com/dohr-michael/quickprompt/clients/tui/molecules"
	"github.com/dohr-michael/quickprompt/clients/tui/organisms"
	"github.com/dohr-michael/quickprompt/internal/prompt"
)

const actionTimeout = 5 * time.Second

const dialogText = "This demo simulates AI text generation.\n" +
	"Texts are predefined; no model is involved."

// Options configures the App.
type Options struct {
	SessionID string
	View      prompt.View
	// ASCII replaces unicode glyphs for limited terminals.
	ASCII bool
}

// App is the main TUI application model.
// Architecture: HEADER | OUTPUT | BUTTON | MENU | HELP | STATUS
type App struct {
	header   *components.Header
	output   organisms.OutputPane
	info     organisms.InformationPanel
	menu     molecules.Menu
	spinner  atoms.Spinner
	caret    atoms.Caret
	progress progress.Model
	help     help.Model
	keys     KeyMap

	view     prompt.View
	showHelp bool
	toast    string
	toastSeq int
	lastErr  string
	width    int
	height   int
	quitting bool

	driver Driver
}

// NewApp creates the TUI for an opened session.
func NewApp(driver Driver, opts Options) *App {
	a := &App{
		header:   components.NewHeader(opts.ASCII),
		output:   organisms.NewOutputPane(80, 8),
		info:     organisms.NewInformationPanel(StatusBarStyle, driver.Name()),
		menu:     molecules.NewMenu(prompt.MenuItems, molecules.MenuStyles{Border: MenuBorderStyle, Item: components.MenuItemStyle, Selected: components.MenuSelectedStyle}, opts.ASCII),
		spinner:  atoms.NewSpinner(ColorBusy, opts.ASCII),
		caret:    atoms.NewCaret(ColorButton, opts.ASCII),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     DefaultKeyMap(),
		driver:   driver,
	}
	if opts.ASCII {
		a.progress = progress.New(progress.WithSolidFill("#7C3AED"), progress.WithoutPercentage(),
			progress.WithFillCharacters('#', '.'))
	}
	a.info.SetSession(opts.SessionID)
	a.info.SetConnected(true, nil)
	a.applyView(opts.View)
	return a
}

// Init starts the event listener and the animations.
func (a *App) Init() tea.Cmd {
	return tea.Batch(listen(a.driver.Messages()), a.spinner.Tick(), atoms.BlinkCmd())
}

// listen waits for the next driver message.
func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return DisconnectedMsg{}
		}
		return msg
	}
}

// Update handles messages and updates state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case ViewMsg:
		a.applyView(msg.View)
		return a, listen(a.driver.Messages())

	case ToastMsg:
		a.toastSeq++
		a.toast = msg.Message
		seq := a.toastSeq
		return a, tea.Batch(
			listen(a.driver.Messages()),
			tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} }),
		)

	case toastExpiredMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case SessionClosedMsg:
		a.info.SetConnected(false, fmt.Errorf("session closed: %s", msg.Reason))
		return a, listen(a.driver.Messages())

	case DisconnectedMsg:
		a.info.SetConnected(false, msg.Err)
		return a, nil

	case actionErrorMsg:
		a.lastErr = fmt.Sprintf("%s: %v", msg.action, msg.err)
		return a, nil

	case atoms.CaretBlinkMsg:
		var cmd tea.Cmd
		a.caret, cmd = a.caret.Update(msg)
		a.refreshOutput()
		return a, cmd
	}

	var cmd tea.Cmd
	a.spinner, cmd = a.spinner.Update(msg)
	a.header.SetBusy(a.spinner.View())
	return a, cmd
}

func (a *App) mode() organisms.Mode {
	switch {
	case a.view.DialogOpen:
		return organisms.ModeDialog
	case a.view.MenuOpen:
		return organisms.ModeMenu
	case a.showHelp:
		return organisms.ModeHelp
	default:
		return organisms.ModeNormal
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return a, tea.Quit
	}

	switch a.mode() {
	case organisms.ModeDialog:
		switch {
		case key.Matches(msg, a.keys.Confirm):
			return a, a.act("acknowledge", func(ctx context.Context) (prompt.View, error) {
				return a.driver.Acknowledge(ctx, true)
			})
		case key.Matches(msg, a.keys.Cancel):
			return a, a.act("acknowledge", func(ctx context.Context) (prompt.View, error) {
				return a.driver.Acknowledge(ctx, false)
			})
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit
		}

	case organisms.ModeMenu:
		switch {
		case key.Matches(msg, a.keys.Up):
			a.menu.Up()
		case key.Matches(msg, a.keys.Down):
			a.menu.Down()
		case key.Matches(msg, a.keys.Choose):
			item := a.menu.Selected()
			return a, a.act("choose", func(ctx context.Context) (prompt.View, error) {
				return a.driver.Choose(ctx, item)
			})
		case key.Matches(msg, a.keys.Back):
			return a, a.act("close menu", a.driver.CloseMenu)
		}

	case organisms.ModeHelp:
		if key.Matches(msg, a.keys.Help) || msg.String() == "esc" {
			a.showHelp = false
			a.info.SetMode(a.mode())
			return a, nil
		}
		if key.Matches(msg, a.keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}

	default:
		switch {
		case key.Matches(msg, a.keys.Click):
			a.lastErr = ""
			return a, a.act("click", a.driver.Click)
		case key.Matches(msg, a.keys.Send):
			a.lastErr = ""
			return a, a.act("send", a.driver.Send)
		case key.Matches(msg, a.keys.Help):
			a.showHelp = true
			a.info.SetMode(a.mode())
		case key.Matches(msg, a.keys.Quit):
			a.quitting = true
			return a, tea.Quit
		case msg.String() == "pgup":
			a.output.PageUp()
		case msg.String() == "pgdown":
			a.output.PageDown()
		}
	}
	return a, nil
}

// act runs a driver action off the update loop. The resulting view arrives
// as a ViewMsg; only failures come back from here.
func (a *App) act(name string, fn func(ctx context.Context) (prompt.View, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if _, err := fn(ctx); err != nil {
			return actionErrorMsg{action: name, err: err}
		}
		return nil
	}
}

func (a *App) applyView(v prompt.View) {
	menuToggled := v.MenuOpen != a.view.MenuOpen
	if v.MenuOpen && !a.view.MenuOpen {
		a.menu.Reset()
	}
	a.view = v
	if menuToggled && a.width > 0 {
		a.updateSizes()
	}
	a.header.SetView(v)
	a.info.SetContext(string(v.Language), v.TopicKey)
	a.info.SetMode(a.mode())
	a.spinner.Active = v.Busy
	a.header.SetBusy(a.spinner.View())
	a.refreshOutput()
}

func (a *App) refreshOutput() {
	suffix := ""
	if a.view.State.Generating() && a.view.Revealed < a.view.Total {
		suffix = a.caret.View()
	}
	a.output.SetText(a.view.Output, suffix)
}

func (a *App) updateSizes() {
	a.header.SetWidth(a.width)
	a.info.SetWidth(a.width)
	a.help.Width = a.width
	a.progress.Width = max(a.width-4, 10)

	// header + button + progress + toast + help + status + output borders
	fixed := 1 + 1 + 1 + 1 + 1 + 1 + 2
	if a.view.MenuOpen {
		fixed += len(prompt.MenuItems) + 2
	}
	outputHeight := max(a.height-fixed, 3)
	a.output.SetSize(max(a.width-4, 10), outputHeight)
}

// View renders the application.
func (a *App) View() string {
	if a.quitting {
		return "Bye!\n"
	}

	if a.view.DialogOpen {
		return a.dialogView()
	}
	if a.mode() == organisms.ModeHelp {
		body := components.RenderMarkdown(components.HelpMarkdown(), max(a.width-4, 40))
		return lipgloss.JoinVertical(lipgloss.Left, a.header.View(), body, a.info.View())
	}

	box := outputBorder(string(a.view.Validity), a.view.OutputEnabled).
		Width(max(a.width-2, 12)).
		Render(a.output.View())

	progressLine := ""
	if a.view.State.Generating() && a.view.Total > 0 {
		progressLine = a.progress.ViewAs(float64(a.view.Revealed) / float64(a.view.Total))
	}

	button := atoms.Button(a.view.State.Label(), ButtonStyle, MutedStyle, !a.view.Busy) +
		"  " + atoms.Button("Send", ButtonStyle, MutedStyle, a.view.SendEnabled && a.view.Output != "")

	parts := []string{a.header.View(), box, progressLine, button}
	if a.view.MenuOpen {
		parts = append(parts, a.menu.View())
	}

	notice := ""
	switch {
	case a.lastErr != "":
		notice = ErrorStyle.Render(components.TruncateString(a.lastErr, max(a.width-2, 20)))
	case a.toast != "":
		notice = ToastStyle.Render(a.toast)
	}
	parts = append(parts, notice, a.helpView(), a.info.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) helpView() string {
	switch a.mode() {
	case organisms.ModeMenu:
		return a.help.ShortHelpView(a.keys.menuHelp())
	case organisms.ModeDialog:
		return a.help.ShortHelpView(a.keys.dialogHelp())
	default:
		return a.help.View(a.keys)
	}
}

func (a *App) dialogView() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		ButtonStyle.Render("Acknowledgement"),
		"",
		dialogText,
		"",
		atoms.Button("OK", ButtonStyle, MutedStyle, true)+"  "+atoms.Button("Cancel", MutedStyle, MutedStyle, true),
		"",
		a.help.ShortHelpView(a.keys.dialogHelp()),
	)
	dialog := DialogStyle.Render(body)
	if a.width == 0 || a.height == 0 {
		return dialog
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, dialog)
}
