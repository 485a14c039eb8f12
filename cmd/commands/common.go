package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/quickprompt/internal/config"
	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/heartbeat"
	"github.com/dohr-michael/quickprompt/internal/logging"
	"github.com/dohr-michael/quickprompt/internal/sessions"
	"github.com/dohr-michael/quickprompt/internal/texts"
)

// heartbeatMaxAge is how old a gateway heartbeat may be and still count.
const heartbeatMaxAge = 2 * heartbeat.DefaultInterval

// loadConfig reads the file named by --config.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// setupLogging installs the slog default for a command.
func setupLogging(cmd *cli.Command, prefix, file string) (func() error, error) {
	return logging.Setup(logging.Options{
		Prefix: prefix,
		Debug:  cmd.Bool("debug"),
		File:   file,
	})
}

// loadTexts loads the dataset once. A failure is logged and yields nil;
// sessions then report the missing texts when they look one up.
func loadTexts(ctx context.Context, cfg *config.Config) *texts.Dataset {
	src := cfg.TextsSource()
	dataset, err := texts.Load(ctx, src)
	if err != nil {
		slog.Warn("predefined texts not loaded", "source", src.String(), "error", err)
		return nil
	}
	if err := dataset.Validate(); err != nil {
		slog.Warn("predefined texts incomplete", "source", src.String(), "error", err)
	}
	slog.Info("predefined texts loaded", "source", src.String(), "languages", len(dataset.Languages()))
	return dataset
}

// newManager builds a session manager from the config.
func newManager(cfg *config.Config, bus *events.Bus, dataset *texts.Dataset) *sessions.Manager {
	return sessions.NewManager(sessions.Options{
		Texts:    dataset,
		Reveal:   cfg.RevealOptions(),
		Timers:   cfg.PromptTimers(),
		Language: cfg.Language(),
		Seed:     cfg.Session.Seed,
		Bus:      bus,
	})
}

// gatewayBase resolves the gateway base URL: the --gateway flag, then a
// live heartbeat, then the configured host and port.
func gatewayBase(cmd *cli.Command, cfg *config.Config) string {
	if cmd.IsSet("gateway") {
		return cmd.String("gateway")
	}
	status, hb, err := heartbeat.Check(config.HeartbeatPath(), heartbeatMaxAge)
	if err == nil && status == heartbeat.StatusAlive && hb.Address != "" {
		return hb.Address
	}
	return fmt.Sprintf("http://%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
}

func gatewayFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "gateway",
		Usage: "Gateway base URL (default: running gateway, then config)",
	}
}

// requestTimeout bounds one-shot HTTP calls to the gateway.
const requestTimeout = 5 * time.Second
