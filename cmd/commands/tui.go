package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dohr-michael/quickprompt/clients/tui"
	wsclient "github.com/dohr-michael/quickprompt/clients/ws"
	"github.com/dohr-michael/quickprompt/internal/events"
)

var errNotTerminal = errors.New("tui needs an interactive terminal")

// NewTUICommand returns the tui subcommand.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the interactive prompt button",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "gateway",
				Usage: "Drive a session on this gateway instead of running it in-process",
			},
			&cli.BoolFlag{
				Name:  "ascii",
				Usage: "Use plain glyphs for limited terminals",
			},
		},
		Action: runTUI,
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNotTerminal
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout belongs to the UI
	closeLog, err := setupLogging(cmd, "tui", cfg.TUI.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	var driver tui.Driver
	if cmd.IsSet("gateway") {
		url, err := wsclient.EndpointURL(cmd.String("gateway"))
		if err != nil {
			return err
		}
		driver = tui.NewRemoteDriver(url)
	} else {
		bus := events.NewBus(cfg.Events.BufferSize)
		defer bus.Close()
		driver = tui.NewLocalDriver(newManager(cfg, bus, loadTexts(ctx, cfg)), bus)
	}
	defer driver.Close()

	id, view, err := driver.Open(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	app := tui.NewApp(driver, tui.Options{
		SessionID: id,
		View:      view,
		ASCII:     cfg.TUI.ASCII || cmd.Bool("ascii"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
