// Package config provides YAML-based configuration loading for tileview.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/view"
)

// Config is the complete tileview configuration.
type Config struct {
	View     ViewConfig     `yaml:"view"`
	Window   WindowConfig   `yaml:"window"`
	Terminal TerminalConfig `yaml:"terminal"`
	Storage  StorageConfig  `yaml:"storage"`
	SSH      SSHConfig      `yaml:"ssh"`
	Log      LogConfig      `yaml:"log"`
}

// ViewConfig describes the board surface.
type ViewConfig struct {
	Background   string  `yaml:"background"` // "#rrggbb"
	Line         string  `yaml:"line"`
	GridSize     int     `yaml:"grid_size"`
	WindowPixels int     `yaml:"window_pixels"`
	FontPath     string  `yaml:"font_path"` // empty = embedded Go Mono Bold
	FontSize     float64 `yaml:"font_size"`
	Labels       string  `yaml:"labels"` // "strict" or "best_effort"
}

// WindowConfig configures the native window frontend.
type WindowConfig struct {
	Title string `yaml:"title"`
	VSync bool   `yaml:"vsync"`
	TPS   int    `yaml:"tps"` // Engine updates per second
}

// TerminalConfig configures the terminal frontend.
type TerminalConfig struct {
	FPS int `yaml:"fps"`
}

// StorageConfig configures the SQLite store.
type StorageConfig struct {
	DBPath string `yaml:"db_path"` // empty = ~/.tileview/tileview.db
	Record bool   `yaml:"record"`  // Record board states of every session
}

// SSHConfig configures `tileview serve`.
type SSHConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if _, err := core.ParseHex(c.View.Background); err != nil {
		errs = append(errs, fmt.Errorf("view.background: %w", err))
	}
	if _, err := core.ParseHex(c.View.Line); err != nil {
		errs = append(errs, fmt.Errorf("view.line: %w", err))
	}
	if c.View.GridSize < 1 {
		errs = append(errs, fmt.Errorf("view.grid_size must be at least 1, got %d", c.View.GridSize))
	}
	if c.View.WindowPixels < 1 {
		errs = append(errs, fmt.Errorf("view.window_pixels must be at least 1, got %d", c.View.WindowPixels))
	}
	if c.View.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("view.font_size must be positive, got %g", c.View.FontSize))
	}
	if _, err := view.ParseLabelPolicy(c.View.Labels); err != nil {
		errs = append(errs, fmt.Errorf("view.labels: %w", err))
	}
	if c.Window.TPS < 0 {
		errs = append(errs, fmt.Errorf("window.tps must not be negative, got %d", c.Window.TPS))
	}
	if c.Terminal.FPS < 0 {
		errs = append(errs, fmt.Errorf("terminal.fps must not be negative, got %d", c.Terminal.FPS))
	}
	if c.SSH.IdleTimeoutMinutes < 0 {
		errs = append(errs, fmt.Errorf("ssh.idle_timeout_minutes must not be negative, got %d", c.SSH.IdleTimeoutMinutes))
	}
	return errors.Join(errs...)
}

// ViewSettings converts the view section to a view.Config.
func (c Config) ViewSettings() (view.Config, error) {
	bg, err := core.ParseHex(c.View.Background)
	if err != nil {
		return view.Config{}, fmt.Errorf("view.background: %w", err)
	}
	line, err := core.ParseHex(c.View.Line)
	if err != nil {
		return view.Config{}, fmt.Errorf("view.line: %w", err)
	}
	labels, err := view.ParseLabelPolicy(c.View.Labels)
	if err != nil {
		return view.Config{}, fmt.Errorf("view.labels: %w", err)
	}
	return view.Config{
		Background:   bg,
		Line:         line,
		GridSize:     c.View.GridSize,
		WindowPixels: c.View.WindowPixels,
		Labels:       labels,
	}, nil
}
