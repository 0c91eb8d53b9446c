package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/games/t2048"
	"github.com/vovakirdan/tileview/internal/pipeline"
	"github.com/vovakirdan/tileview/internal/platform/tui"
	"github.com/vovakirdan/tileview/internal/raster"
	"github.com/vovakirdan/tileview/internal/registry"
	"github.com/vovakirdan/tileview/internal/storage"
)

var (
	flagLevel  int
	flagWatch  string
	flagMirror string
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play in the terminal",
	Long: `Play a board source in the terminal. Every board is drawn through the
tile view and shown as half-block cells. Without a game, a menu lists the
registered sources.

Controls:
  Arrows/WASD/hjkl - Move
  P                - Pause
  R                - Restart (after game over)
  Ctrl+S           - Save a PNG screenshot
  Q/Esc            - Quit

Examples:
  tileview play
  tileview play 2048 --level 3
  tileview play 2048_endless --grid 6
  tileview play 2048 --watch :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign start level for 2048 (1-10)")
	playCmd.Flags().StringVar(&flagWatch, "watch", "", "Stream frames to browsers on this address (e.g. :8080)")
	playCmd.Flags().StringVar(&flagMirror, "mirror", "", "Keep the latest frame in this PNG file")
}

func runPlay(_ *cobra.Command, args []string) error {
	store := openStoreOrWarn(appConfig)
	if store != nil {
		defer store.Close()
	}

	sinks, stopWatch, err := frameSinks()
	if err != nil {
		return err
	}
	defer stopWatch()

	if len(args) == 1 {
		game, err := createGame(args)
		if err != nil {
			return err
		}
		return playGame(game, store, sinks)
	}

	// Menu loop
	for {
		choice, item, err := tui.RunMenu(highScores(store))
		if err != nil {
			return err
		}

		switch choice {
		case tui.ChoicePlay:
			game, err := registry.Create(item.GameID)
			if err != nil {
				return err
			}
			if err := playGame(game, store, sinks); err != nil {
				return err
			}
		case tui.ChoiceSessions:
			if err := browseSessions(store); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// playGame runs one terminal game through a fresh pipeline.
func playGame(game registry.Game, store *storage.Store, sinks []raster.FrameSink) error {
	if flagLevel > 0 {
		if flagLevel > t2048.LevelCount() {
			return fmt.Errorf("level must be between 1 and %d", t2048.LevelCount())
		}
		t2048.SetStartLevel(flagLevel)
	}

	pipe, err := pipeline.New(appConfig, screenLogger(), sinks...)
	if err != nil {
		return err
	}
	defer pipe.Close()

	screenLogger().Debug("playing", "game", game.ID(), "grid", pipe.GridSize())
	return tui.Run(game, pipe, tui.PlayOptions{
		Runtime:       core.RuntimeConfig{TickRate: appConfig.Terminal.FPS, Seed: flagSeed},
		Store:         store,
		Record:        appConfig.Storage.Record,
		Origin:        "local",
		Logger:        screenLogger(),
		ScreenshotDir: tui.DefaultScreenshotDir(),
	})
}

// highScores returns the best score per source for the menu.
func highScores(store *storage.Store) map[string]int {
	best := make(map[string]int)
	if store == nil {
		return best
	}
	stats, err := store.GetAllGamesStats()
	if err != nil {
		logger.Warn("cannot load scores", "error", err)
		return best
	}
	for id, s := range stats {
		best[id] = s.HighScore
	}
	return best
}
