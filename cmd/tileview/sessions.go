package main

import (
	"errors"
	"image"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/pipeline"
	"github.com/vovakirdan/tileview/internal/platform/tui"
	"github.com/vovakirdan/tileview/internal/storage"
)

// Preview boards are drawn small; the pane is only a few dozen cells wide.
const (
	previewPixels   = 128
	previewFontSize = 14
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse recorded sessions",
	Long: `Show recorded sessions in a table with a preview of the last board.

Controls:
  Up/Down/j/k - Navigate
  Enter       - Replay the session
  X           - Delete the session
  Q/Esc       - Quit`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openStore(appConfig)
		if err != nil {
			return err
		}
		defer store.Close()
		return browseSessions(store)
	},
}

// browseSessions shows the browser until the user quits, replaying every
// session picked with enter.
func browseSessions(store *storage.Store) error {
	if store == nil {
		return errors.New("sessions need the database")
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	previews := newPreviewCache()
	defer previews.Close()

	for {
		id, err := tui.RunSessions(store, previews.Render, width, height)
		if err != nil {
			return err
		}
		if id == 0 {
			return nil
		}
		if err := replayInTerminal(store, id); err != nil {
			return err
		}
	}
}

// previewCache keeps one small pipeline per grid size.
type previewCache struct {
	pipes map[int]*pipeline.Pipeline
}

func newPreviewCache() *previewCache {
	return &previewCache{pipes: make(map[int]*pipeline.Pipeline)}
}

func (c *previewCache) Render(gridSize int, state core.BoardState) (image.Image, error) {
	p, ok := c.pipes[gridSize]
	if !ok {
		cfg := appConfig
		cfg.View.GridSize = gridSize
		cfg.View.WindowPixels = previewPixels
		cfg.View.FontSize = previewFontSize
		var err error
		p, err = pipeline.New(cfg, screenLogger())
		if err != nil {
			return nil, err
		}
		c.pipes[gridSize] = p
	}
	return p.Render(state)
}

func (c *previewCache) Close() {
	for size, p := range c.pipes {
		if err := p.Close(); err != nil {
			screenLogger().Warn("cannot close preview pipeline", "grid", size, "error", err)
		}
	}
}
