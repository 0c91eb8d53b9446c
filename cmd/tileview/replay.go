package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileview/internal/config"
	"github.com/vovakirdan/tileview/internal/pipeline"
	"github.com/vovakirdan/tileview/internal/platform/tui"
	"github.com/vovakirdan/tileview/internal/raster"
	"github.com/vovakirdan/tileview/internal/storage"
)

var (
	flagReplayOut string
	flagReplayFPS int
)

var replayCmd = &cobra.Command{
	Use:   "replay <session-id>",
	Short: "Replay a recorded session",
	Long: `Play a recorded session back through the tile view. With --out, every
frame is re-rendered to a numbered PNG in the directory instead.

Examples:
  tileview replay 12
  tileview replay 12 --fps 2
  tileview replay 12 --out ./frames`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&flagReplayOut, "out", "", "Write frames as PNG files into this directory")
	replayCmd.Flags().IntVar(&flagReplayFPS, "fps", 4, "Playback speed in frames per second")
}

func runReplay(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid session ID %q", args[0])
	}

	store, err := openStore(appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagReplayOut != "" {
		return replayToPNG(store, id, flagReplayOut)
	}
	return replayInTerminal(store, id)
}

// sessionConfig returns the app config with the session's grid size.
func sessionConfig(sess *storage.Session) config.Config {
	cfg := appConfig
	cfg.View.GridSize = sess.GridSize
	return cfg
}

func replayInTerminal(store *storage.Store, id int64) error {
	sess, err := store.Session(id)
	if err != nil {
		return err
	}
	frames, err := store.Frames(id)
	if err != nil {
		return err
	}

	pipe, err := pipeline.New(sessionConfig(sess), screenLogger())
	if err != nil {
		return err
	}
	defer pipe.Close()

	return tui.RunReplay(pipe, *sess, frames, flagReplayFPS)
}

func replayToPNG(store *storage.Store, id int64, dir string) error {
	sess, err := store.Session(id)
	if err != nil {
		return err
	}
	frames, err := store.Frames(id)
	if err != nil {
		return err
	}

	pipe, err := pipeline.New(sessionConfig(sess), logger, raster.SequenceSink(dir))
	if err != nil {
		return err
	}
	defer pipe.Close()

	for _, f := range frames {
		if _, err := pipe.Render(f.State); err != nil {
			return fmt.Errorf("frame %d: %w", f.Seq, err)
		}
	}

	fmt.Printf("Wrote %d frames of session #%d to %s\n", len(frames), id, dir)
	return nil
}
