package config

import (
	_ "embed"
)

//go:embed defaults/tileview.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		View: ViewConfig{
			Background:   "#7f7f7f",
			Line:         "#000000",
			GridSize:     4,
			WindowPixels: 800,
			FontSize:     48,
			Labels:       "strict",
		},
		Window: WindowConfig{
			Title: "tileview",
			VSync: true,
			TPS:   60,
		},
		Terminal: TerminalConfig{
			FPS: 30,
		},
		Storage: StorageConfig{
			Record: true,
		},
		SSH: SSHConfig{
			Address:            ":2222",
			HostKey:            ".ssh/tileview_ed25519",
			IdleTimeoutMinutes: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
