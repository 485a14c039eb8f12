package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/quickprompt/internal/sessions"
)

// NewSessionsCommand returns the sessions subcommand.
func NewSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Inspect the live sessions of a gateway",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List live sessions",
				Flags:  []cli.Flag{gatewayFlag()},
				Action: runSessionsList,
			},
		},
		DefaultCommand: "list",
	}
}

func runSessionsList(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var list []sessions.Info
	if err := getJSON(ctx, gatewayBase(cmd, cfg)+"/api/sessions", &list); err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tLANG\tTOPIC\tACTIONS\tUPDATED")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID,
			s.View.State,
			s.View.Language,
			orDash(s.View.TopicKey),
			s.Actions,
			s.UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}
