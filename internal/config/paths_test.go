package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestQuickpromptPath_Default(t *testing.T) {
	t.Setenv("QUICKPROMPT_PATH", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	got := QuickpromptPath()
	want := filepath.Join(home, ".quickprompt")
	if got != want {
		t.Errorf("QuickpromptPath() = %q, want %q", got, want)
	}
}

func TestQuickpromptPath_EnvOverride(t *testing.T) {
	t.Setenv("QUICKPROMPT_PATH", "/tmp/custom-qp")

	if got := QuickpromptPath(); got != "/tmp/custom-qp" {
		t.Errorf("QuickpromptPath() = %q, want %q", got, "/tmp/custom-qp")
	}
	if got := ConfigPath(); got != "/tmp/custom-qp/config.jsonc" {
		t.Errorf("ConfigPath() = %q", got)
	}
	if got := DotenvPath(); got != "/tmp/custom-qp/.env" {
		t.Errorf("DotenvPath() = %q", got)
	}
	if got := HeartbeatPath(); got != "/tmp/custom-qp/heartbeat.json" {
		t.Errorf("HeartbeatPath() = %q", got)
	}
}
