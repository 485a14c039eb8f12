package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/quickprompt/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "quickprompt",
		Usage: "A prompt button that pretends to generate text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			NewTUICommand(),
			NewGatewayCommand(),
			NewPlayCommand(),
			NewTextsCommand(),
			NewSessionsCommand(),
			NewStatusCommand(),
		},
	}
}
