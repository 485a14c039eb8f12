// Command prompt_flow exercises a full prompt session against a running
// quickprompt gateway over WS.
//
// It acknowledges the dialog, generates a text, waits for the reveal to
// finish, applies a menu variant, then sends the text and checks the toast.
//
// Usage: prompt_flow -gateway ws://127.0.0.1:PORT/api/ws -item "Summarize"
//
// Exit codes:
//
//	0 = all checks passed
//	1 = a check failed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	wsclient "github.com/dohr-michael/quickprompt/clients/ws"
	"github.com/dohr-michael/quickprompt/internal/events"
	"github.com/dohr-michael/quickprompt/internal/prompt"
)

func main() {
	gatewayURL := flag.String("gateway", "ws://127.0.0.1:18420/api/ws", "Gateway WS URL")
	item := flag.String("item", string(prompt.ItemSummarize), "Menu item to apply after the first reveal")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, *gatewayURL, *item); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, gatewayURL, item string) error {
	// ── Step 1: Connect and open session ────────────────────────────────
	client, err := wsclient.Dial(ctx, gatewayURL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer client.Close()

	view, err := client.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	fmt.Printf("CHECK session opened: %s\n", client.SessionID())
	if !view.DialogOpen {
		return fmt.Errorf("expected the acknowledgement dialog on open")
	}

	// ── Step 2: Acknowledge and generate ────────────────────────────────
	if _, err := client.Acknowledge(ctx, true); err != nil {
		return fmt.Errorf("acknowledge: %w", err)
	}
	if _, err := client.Click(ctx); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	view, err = waitForView(ctx, client, func(v prompt.View) bool {
		return v.State == prompt.StateRevise && v.Output != ""
	})
	if err != nil {
		return fmt.Errorf("wait for reveal: %w", err)
	}
	fmt.Printf("CHECK text revealed: %d units, topic %s\n", view.Total, view.TopicKey)
	first := view.Output

	// ── Step 3: Open the menu and apply a variant ───────────────────────
	if _, err := client.Click(ctx); err != nil {
		return fmt.Errorf("open menu: %w", err)
	}
	if _, err := client.Choose(ctx, item); err != nil {
		return fmt.Errorf("choose %q: %w", item, err)
	}
	view, err = waitForView(ctx, client, func(v prompt.View) bool {
		return v.State == prompt.StateRevise && !v.Busy && v.Output != first
	})
	if err != nil {
		return fmt.Errorf("wait for %q: %w", item, err)
	}
	fmt.Printf("CHECK %s applied (validity %s)\n", item, view.Validity)

	// ── Step 4: Send and check the toast ────────────────────────────────
	if _, err := client.Send(ctx); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if err := waitForToast(ctx, client, prompt.SentMessage); err != nil {
		return fmt.Errorf("wait for toast: %w", err)
	}
	view, err = client.View(ctx)
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}
	if view.Output != "" {
		return fmt.Errorf("expected an empty output after send, got %q", view.Output)
	}
	fmt.Println("CHECK text sent and output cleared")

	// ── Step 5: Close ───────────────────────────────────────────────────
	if err := client.CloseSession(ctx); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	fmt.Println("PASS")
	return nil
}

func waitForView(ctx context.Context, client *wsclient.Client, done func(prompt.View) bool) (prompt.View, error) {
	for {
		select {
		case frame := <-client.Events():
			if events.EventType(frame.Event) != events.EventViewChanged {
				continue
			}
			payload, ok := events.DecodePayload[events.ViewChangedPayload](frame.Payload)
			if ok && done(payload.View) {
				return payload.View, nil
			}
		case <-client.Done():
			return prompt.View{}, client.Err()
		case <-ctx.Done():
			return prompt.View{}, ctx.Err()
		}
	}
}

func waitForToast(ctx context.Context, client *wsclient.Client, message string) error {
	for {
		select {
		case frame := <-client.Events():
			if events.EventType(frame.Event) != events.EventToastShown {
				continue
			}
			if payload, ok := events.DecodePayload[events.ToastPayload](frame.Payload); ok && payload.Message == message {
				return nil
			}
		case <-client.Done():
			return client.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
