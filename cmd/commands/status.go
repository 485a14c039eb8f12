package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/quickprompt/internal/config"
	"github.com/dohr-michael/quickprompt/internal/gateway"
	"github.com/dohr-michael/quickprompt/internal/heartbeat"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show quickprompt gateway status",
		Flags:  []cli.Flag{gatewayFlag()},
		Action: runStatus,
	}
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	status, hb, err := heartbeat.Check(config.HeartbeatPath(), heartbeatMaxAge)
	if err != nil {
		return fmt.Errorf("check heartbeat: %w", err)
	}

	switch status {
	case heartbeat.StatusAlive:
		fmt.Printf("Gateway: ALIVE (PID %d, uptime %s, %s)\n", hb.PID, hb.Uptime, hb.Address)
	case heartbeat.StatusStale:
		fmt.Printf("Gateway: STALE (PID %d, last heartbeat %s ago)\n",
			hb.PID, time.Since(hb.Timestamp).Truncate(time.Second))
	case heartbeat.StatusDead:
		fmt.Println("Gateway: NOT RUNNING")
	}

	if status != heartbeat.StatusAlive && !cmd.IsSet("gateway") {
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var health gateway.HealthStatus
	base := gatewayBase(cmd, cfg)
	if err := getJSON(ctx, base+"/api/health", &health); err != nil {
		fmt.Printf("Health: unreachable (%v)\n", err)
		return nil
	}
	texts := "not loaded"
	if health.TextsLoaded {
		texts = "loaded from " + health.TextsSource
	}
	fmt.Printf("Health: %s, %d session(s), texts %s\n", health.Status, health.Sessions, texts)
	return nil
}

// getJSON performs a GET against the gateway and decodes the JSON body.
func getJSON(ctx context.Context, url string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
