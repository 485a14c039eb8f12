package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	wsclient "github.com/dohr-michael/quickprompt/clients/ws"
	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/prompt"
)

// NewPlayCommand returns the play subcommand.
func NewPlayCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Run a scripted session against a gateway and print each view",
		ArgsUsage: "<action>...\n\n" +
			"Actions: click, send, ok, cancel, close-menu, view,\n" +
			"         choose=<menu item>, wait=<duration>, settle",
		Flags: []cli.Flag{
			gatewayFlag(),
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall timeout",
				Value: time.Minute,
			},
		},
		Action: runPlay,
	}
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	closeLog, err := setupLogging(cmd, "play", "")
	if err != nil {
		return err
	}
	defer closeLog()

	actions := cmd.Args().Slice()
	if len(actions) == 0 {
		return fmt.Errorf("usage: quickprompt play <action>...")
	}
	steps := make([]step, 0, len(actions))
	for _, a := range actions {
		s, err := parseStep(a)
		if err != nil {
			return err
		}
		steps = append(steps, s)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	url, err := wsclient.EndpointURL(gatewayBase(cmd, cfg))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	client, err := wsclient.Dial(ctx, url)
	if err != nil {
		return fmt.Errorf("connect to gateway: %w", err)
	}
	defer client.Close()

	view, err := client.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	fmt.Fprintf(os.Stderr, "session: %s\n", client.SessionID())
	printView(os.Stdout, "open", view)
	defer client.CloseSession(context.Background())

	for _, s := range steps {
		view, err := s.run(ctx, client)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		printView(os.Stdout, s.name, view)
	}
	return nil
}

// step is one scripted action.
type step struct {
	name string
	run  func(ctx context.Context, c *wsclient.Client) (prompt.View, error)
}

func parseStep(arg string) (step, error) {
	name, value, _ := strings.Cut(arg, "=")
	s := step{name: arg}

	switch name {
	case "click":
		s.run = method((*wsclient.Client).Click)
	case "send":
		s.run = method((*wsclient.Client).Send)
	case "ok", "cancel":
		ok := name == "ok"
		s.run = func(ctx context.Context, c *wsclient.Client) (prompt.View, error) {
			return c.Acknowledge(ctx, ok)
		}
	case "close-menu":
		s.run = method((*wsclient.Client).CloseMenu)
	case "view":
		s.run = method((*wsclient.Client).View)
	case "choose":
		item, err := prompt.ParseMenuItem(value)
		if err != nil {
			return s, err
		}
		s.run = func(ctx context.Context, c *wsclient.Client) (prompt.View, error) {
			return c.Choose(ctx, string(item))
		}
	case "wait":
		d, err := time.ParseDuration(value)
		if err != nil {
			return s, fmt.Errorf("wait: %w", err)
		}
		s.run = func(ctx context.Context, c *wsclient.Client) (prompt.View, error) {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return prompt.View{}, ctx.Err()
			}
			return c.View(ctx)
		}
	case "settle":
		s.run = settle
	default:
		return s, fmt.Errorf("unknown action %q", arg)
	}
	return s, nil
}

// method adapts a client method expression to a step.
func method(fn func(*wsclient.Client, context.Context) (prompt.View, error)) func(context.Context, *wsclient.Client) (prompt.View, error) {
	return func(ctx context.Context, c *wsclient.Client) (prompt.View, error) {
		return fn(c, ctx)
	}
}

// settle waits until the session stops generating and is no longer busy.
func settle(ctx context.Context, c *wsclient.Client) (prompt.View, error) {
	view, err := c.View(ctx)
	if err != nil {
		return view, err
	}
	for view.State.Generating() || view.Busy {
		select {
		case frame, ok := <-c.Events():
			if !ok {
				return view, wsclient.ErrClosed
			}
			if p, ok := events.DecodePayload[events.ViewChangedPayload](frame.Payload); ok && frame.Event == string(events.EventViewChanged) {
				view = p.View
			}
		case <-time.After(250 * time.Millisecond):
			if view, err = c.View(ctx); err != nil {
				return view, err
			}
		case <-ctx.Done():
			return view, ctx.Err()
		}
	}
	return view, nil
}

func printView(w io.Writer, step string, v prompt.View) {
	fmt.Fprintf(w, "%-14s state=%s lang=%s topic=%s validity=%s busy=%t menu=%t dialog=%t\n",
		step, v.State, v.Language, orDash(v.TopicKey), v.Validity, v.Busy, v.MenuOpen, v.DialogOpen)
	if v.Output != "" {
		fmt.Fprintf(w, "%-14s %q\n", "", v.Output)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
