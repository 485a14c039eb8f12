package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/quickprompt/clients/tui/organisms"
	"github.com/dohr-michael/quickprompt/internal/prompt"
)

type fakeDriver struct {
	calls  []string
	chosen prompt.MenuItem
	err    error
	msgs   chan tea.Msg
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{msgs: make(chan tea.Msg, 8)}
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) Open(context.Context) (string, prompt.View, error) {
	return "sess_test", prompt.View{}, nil
}

func (d *fakeDriver) Messages() <-chan tea.Msg { return d.msgs }

func (d *fakeDriver) record(name string) (prompt.View, error) {
	d.calls = append(d.calls, name)
	return prompt.View{}, d.err
}

func (d *fakeDriver) Click(context.Context) (prompt.View, error) { return d.record("click") }
func (d *fakeDriver) Send(context.Context) (prompt.View, error)  { return d.record("send") }
func (d *fakeDriver) CloseMenu(context.Context) (prompt.View, error) {
	return d.record("close_menu")
}

func (d *fakeDriver) Choose(_ context.Context, item prompt.MenuItem) (prompt.View, error) {
	d.chosen = item
	return d.record("choose")
}

func (d *fakeDriver) Acknowledge(_ context.Context, ok bool) (prompt.View, error) {
	if ok {
		return d.record("ack_ok")
	}
	return d.record("ack_cancel")
}

func (d *fakeDriver) Close() error { return nil }

func press(t *testing.T, a *App, k tea.KeyMsg) tea.Msg {
	t.Helper()
	_, cmd := a.Update(k)
	if cmd == nil {
		return nil
	}
	return cmd()
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyHelp  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}
)

func initialView() prompt.View {
	return prompt.View{
		State:         prompt.StateGenerate,
		Label:         prompt.StateGenerate.Label(),
		Language:      "en",
		Validity:      prompt.ValidityNone,
		OutputEnabled: true,
		SendEnabled:   true,
		DialogOpen:    true,
	}
}

func TestDialogKeysAcknowledge(t *testing.T) {
	d := newFakeDriver()
	a := NewApp(d, Options{SessionID: "sess_test", View: initialView()})

	if a.mode() != organisms.ModeDialog {
		t.Fatalf("expected dialog mode, got %s", a.mode())
	}
	if !strings.Contains(a.View(), "Acknowledgement") {
		t.Error("dialog should be rendered")
	}

	press(t, a, keyEnter)
	press(t, a, keyEsc)
	if got := strings.Join(d.calls, ","); got != "ack_ok,ack_cancel" {
		t.Fatalf("unexpected calls %q", got)
	}
}

func TestNormalKeys(t *testing.T) {
	d := newFakeDriver()
	v := initialView()
	v.DialogOpen = false
	a := NewApp(d, Options{View: v})

	press(t, a, keyEnter)
	press(t, a, keyCtrlS)
	if got := strings.Join(d.calls, ","); got != "click,send" {
		t.Fatalf("unexpected calls %q", got)
	}

	press(t, a, keyHelp)
	if a.mode() != organisms.ModeHelp {
		t.Fatalf("expected help mode, got %s", a.mode())
	}
	press(t, a, keyEnter)
	if len(d.calls) != 2 {
		t.Error("enter must not press the button while help is shown")
	}
	press(t, a, keyEsc)
	if a.mode() != organisms.ModeNormal {
		t.Fatalf("expected normal mode, got %s", a.mode())
	}
}

func TestMenuNavigation(t *testing.T) {
	d := newFakeDriver()
	v := initialView()
	v.DialogOpen = false
	v.State = prompt.StateRevise
	a := NewApp(d, Options{View: v})

	v.MenuOpen = true
	a.Update(ViewMsg{View: v})
	if a.mode() != organisms.ModeMenu {
		t.Fatalf("expected menu mode, got %s", a.mode())
	}

	press(t, a, keyDown)
	press(t, a, keyEnter)
	if d.chosen != prompt.ItemBulleted {
		t.Errorf("expected %q, got %q", prompt.ItemBulleted, d.chosen)
	}

	press(t, a, keyEsc)
	if d.calls[len(d.calls)-1] != "close_menu" {
		t.Errorf("esc should close the menu, calls %v", d.calls)
	}

	// Reopening starts at the top again.
	v.MenuOpen = false
	a.Update(ViewMsg{View: v})
	v.MenuOpen = true
	a.Update(ViewMsg{View: v})
	press(t, a, keyEnter)
	if d.chosen != prompt.ItemRegenerate {
		t.Errorf("expected cursor reset to %q, got %q", prompt.ItemRegenerate, d.chosen)
	}
}

func TestActionErrorShown(t *testing.T) {
	d := newFakeDriver()
	d.err = errors.New("boom")
	v := initialView()
	v.DialogOpen = false
	a := NewApp(d, Options{View: v})

	msg := press(t, a, keyEnter)
	if _, ok := msg.(actionErrorMsg); !ok {
		t.Fatalf("expected actionErrorMsg, got %T", msg)
	}
	a.Update(msg)
	if !strings.Contains(a.View(), "click: boom") {
		t.Error("error should be rendered")
	}
}

func TestToastExpires(t *testing.T) {
	d := newFakeDriver()
	v := initialView()
	v.DialogOpen = false
	a := NewApp(d, Options{View: v})

	a.Update(ToastMsg{Message: prompt.SentMessage})
	if !strings.Contains(a.View(), prompt.SentMessage) {
		t.Fatal("toast should be rendered")
	}

	// A stale expiry leaves a newer toast in place.
	a.Update(ToastMsg{Message: "second"})
	a.Update(toastExpiredMsg{seq: 1})
	if a.toast != "second" {
		t.Fatalf("stale expiry cleared the toast")
	}
	a.Update(toastExpiredMsg{seq: 2})
	if a.toast != "" {
		t.Fatalf("toast should be cleared, got %q", a.toast)
	}
}

func TestViewRendersOutput(t *testing.T) {
	d := newFakeDriver()
	v := initialView()
	v.DialogOpen = false
	a := NewApp(d, Options{View: v})
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	v.State = prompt.StateRevise
	v.Output = "Hello world "
	v.Validity = prompt.ValidityError
	a.Update(ViewMsg{View: v})

	out := a.View()
	for _, want := range []string{"Hello world", "Revise", "error", "sess:"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDisconnectedShownInStatus(t *testing.T) {
	d := newFakeDriver()
	v := initialView()
	v.DialogOpen = false
	a := NewApp(d, Options{View: v})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 24})

	a.Update(DisconnectedMsg{Err: errors.New("gone")})
	if !strings.Contains(a.View(), "disconnected: gone") {
		t.Error("status bar should show the disconnect")
	}
}
