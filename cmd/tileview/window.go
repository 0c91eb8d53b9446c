package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/pipeline"
	"github.com/vovakirdan/tileview/internal/platform/window"
)

var windowCmd = &cobra.Command{
	Use:   "window [game]",
	Short: "Play in a native window",
	Long: `Open a native window of view.window_pixels square and play a board
source in it. The window follows the window section of the config (title,
vsync, tps).

Controls:
  Arrows/WASD/hjkl - Move
  P                - Pause
  R                - Restart (after game over)
  Q/Esc            - Quit

Examples:
  tileview window
  tileview window 2048_endless --grid 5
  tileview window --watch :8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().StringVar(&flagWatch, "watch", "", "Stream frames to browsers on this address (e.g. :8080)")
	windowCmd.Flags().StringVar(&flagMirror, "mirror", "", "Keep the latest frame in this PNG file")
}

func runWindow(_ *cobra.Command, args []string) error {
	game, err := createGame(args)
	if err != nil {
		return err
	}

	store := openStoreOrWarn(appConfig)
	if store != nil {
		defer store.Close()
	}

	sinks, stopWatch, err := frameSinks()
	if err != nil {
		return err
	}
	defer stopWatch()

	pipe, err := pipeline.New(appConfig, logger, sinks...)
	if err != nil {
		return err
	}
	defer pipe.Close()

	return window.Run(game, pipe, window.Options{
		Title:   appConfig.Window.Title,
		VSync:   appConfig.Window.VSync,
		TPS:     appConfig.Window.TPS,
		Runtime: core.RuntimeConfig{Seed: flagSeed},
		Store:   store,
		Record:  appConfig.Storage.Record,
		Origin:  "window",
		Logger:  logger,
	})
}
