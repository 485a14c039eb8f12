package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/quickprompt/internal/config"
	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/gateway"
	"github.com/dohr-michael/quickprompt/internal/heartbeat"
)

// NewGatewayCommand returns the gateway subcommand.
func NewGatewayCommand() *cli.Command {
	return &cli.Command{
		Name:  "gateway",
		Usage: "Serve prompt sessions over HTTP and WebSocket",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runGateway,
	}
}

func runGateway(ctx context.Context, cmd *cli.Command) error {
	closeLog, err := setupLogging(cmd, "gateway", "")
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = int(cmd.Int("port"))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	dataset := loadTexts(ctx, cfg)
	manager := newManager(cfg, bus, dataset)

	server := gateway.NewServer(gateway.Options{
		Bus:     bus,
		Manager: manager,
		Dataset: dataset,
		Source:  cfg.TextsSource().String(),
		Host:    cfg.Gateway.Host,
		Port:    cfg.Gateway.Port,
	})

	hb := heartbeat.NewWriter(heartbeat.Options{
		Path:    config.HeartbeatPath(),
		Address: fmt.Sprintf("http://%s:%d", cfg.Gateway.Host, cfg.Gateway.Port),
		Stats: func() heartbeat.Stats {
			return heartbeat.Stats{Sessions: len(manager.List()), TextsLoaded: dataset != nil}
		},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	if err := hb.Start(); err != nil {
		slog.Warn("heartbeat disabled", "error", err)
	}
	defer hb.Stop()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
