package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/view"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded config differs from Default():\n got %+v\nwant %+v", cfg, Default())
	}
}

func TestParseOverridesOnlyGivenKeys(t *testing.T) {
	cfg, err := Parse([]byte("view:\n  grid_size: 6\n  labels: best_effort\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.View.GridSize != 6 {
		t.Errorf("grid_size = %d, want 6", cfg.View.GridSize)
	}
	if cfg.View.WindowPixels != 800 {
		t.Errorf("window_pixels = %d, want default 800", cfg.View.WindowPixels)
	}
	if cfg.SSH.Address != ":2222" {
		t.Errorf("ssh.address = %q, want default", cfg.SSH.Address)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero grid", func(c *Config) { c.View.GridSize = 0 }, "grid_size"},
		{"zero pixels", func(c *Config) { c.View.WindowPixels = 0 }, "window_pixels"},
		{"bad background", func(c *Config) { c.View.Background = "grey" }, "view.background"},
		{"bad line", func(c *Config) { c.View.Line = "#12" }, "view.line"},
		{"zero font", func(c *Config) { c.View.FontSize = 0 }, "font_size"},
		{"bad labels", func(c *Config) { c.View.Labels = "sometimes" }, "view.labels"},
		{"negative tps", func(c *Config) { c.Window.TPS = -1 }, "window.tps"},
		{"negative fps", func(c *Config) { c.Terminal.FPS = -1 }, "terminal.fps"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error %q does not mention %s", err, tc.field)
			}
		})
	}
}

func TestViewSettings(t *testing.T) {
	cfg := Default()
	cfg.View.Background = "#102030"
	cfg.View.Labels = "best_effort"

	vc, err := cfg.ViewSettings()
	if err != nil {
		t.Fatal(err)
	}
	want := view.Config{
		Background:   core.RGB{R: 0x10, G: 0x20, B: 0x30},
		Line:         core.Black,
		GridSize:     4,
		WindowPixels: 800,
		Labels:       view.LabelBestEffort,
	}
	if vc != want {
		t.Errorf("ViewSettings() = %+v, want %+v", vc, want)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("view:\n  grid_size: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.View.GridSize != 5 {
		t.Errorf("grid_size = %d, want 5", cfg.View.GridSize)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("view: [1, 2"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("malformed YAML should fail")
	}

}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(path, []byte("view:\n  grid_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("grid_size 0 should fail validation")
	}

	cfg.View.GridSize = 5
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after override = %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.View.GridSize = 7
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}
