package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileview/internal/config"
	"github.com/vovakirdan/tileview/internal/platform/web"
	"github.com/vovakirdan/tileview/internal/raster"
	"github.com/vovakirdan/tileview/internal/registry"
	"github.com/vovakirdan/tileview/internal/storage"
)

// defaultGame is played when no source is named.
const defaultGame = "2048"

// dbPath resolves the configured database path.
func dbPath(cfg config.Config) (string, error) {
	if cfg.Storage.DBPath != "" {
		return cfg.Storage.DBPath, nil
	}
	dir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tileview.db"), nil
}

// openStore opens the database.
func openStore(cfg config.Config) (*storage.Store, error) {
	path, err := dbPath(cfg)
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// openStoreOrWarn opens the database for game commands, which keep working
// without storage.
func openStoreOrWarn(cfg config.Config) *storage.Store {
	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open database, scores will not be saved", "error", err)
		return nil
	}
	return store
}

// createGame resolves a source ID, falling back to defaultGame.
func createGame(args []string) (registry.Game, error) {
	id := defaultGame
	if len(args) > 0 {
		id = args[0]
	}
	if !registry.Exists(id) {
		return nil, fmt.Errorf("unknown game %q (run 'tileview list' to see available games)", id)
	}
	return registry.Create(id)
}

// frameSinks builds the extra frame sinks of the play and window commands:
// the --watch server and the --mirror file. The watch address is bound here,
// before any screen opens, so bind errors reach the user. stop shuts the
// server down.
func frameSinks() (sinks []raster.FrameSink, stop func(), err error) {
	stop = func() {}
	if flagMirror != "" {
		sinks = append(sinks, raster.PNGSink(flagMirror))
	}
	if flagWatch == "" {
		return sinks, stop, nil
	}

	ln, err := web.Listen(flagWatch)
	if err != nil {
		return nil, stop, err
	}
	hub := web.NewHub(screenLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := web.ServeListener(ctx, ln, hub); err != nil {
			screenLogger().Error("watch server failed", "address", flagWatch, "error", err)
		}
	}()
	return append(sinks, hub.Sink()), cancel, nil
}

// screenLogger is the logger for commands that own the terminal. Without
// --log-file their logs are dropped so the alternate screen stays intact.
func screenLogger() *log.Logger {
	if logFile != nil {
		return logger
	}
	return log.New(io.Discard)
}
