package config

import (
	"os"
	"path/filepath"
)

// QuickpromptPath returns the root directory for quickprompt data.
// It uses $QUICKPROMPT_PATH if set, otherwise defaults to ~/.quickprompt.
func QuickpromptPath() string {
	if v := os.Getenv("QUICKPROMPT_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".quickprompt")
	}
	return filepath.Join(home, ".quickprompt")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(QuickpromptPath(), "config.jsonc")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(QuickpromptPath(), ".env")
}

// HeartbeatPath returns the path to the gateway heartbeat file.
func HeartbeatPath() string {
	return filepath.Join(QuickpromptPath(), "heartbeat.json")
}
