// tileview draws square number-tile boards through a raster view and shows
// them in the terminal, in a native window, over SSH, or as PNG files.
//
// Usage:
//
//	tileview list                - List board sources
//	tileview play [game]         - Play in the terminal (menu without a game)
//	tileview window [game]       - Play in a native window
//	tileview render --tiles ...  - Render one board to PNG
//	tileview sessions            - Browse recorded sessions
//	tileview replay <id>         - Replay a recorded session
//	tileview scores [game]       - Show high scores
//	tileview serve               - Start the SSH server
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.tileview/config.yaml)
//	--db <path>         - Database path (default: ~/.tileview/tileview.db)
//	--grid <n>          - Override view.grid_size
//	--seed <value>      - RNG seed for reproducible games
//	--log-level <level> - debug, info, warn or error
//	--log-file <path>   - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileview/internal/config"

	// Import sources to register them
	_ "github.com/vovakirdan/tileview/internal/games/t2048"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagGrid     int
	flagSeed     int64
	flagLogLevel string
	flagLogFile  string

	// Set by the root PersistentPreRunE
	appConfig config.Config
	logger    *log.Logger
	logFile   *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tileview",
	Short: "tileview - number-tile boards drawn through a raster view",
	Long: `tileview renders square boards of numbered tiles: a colored square per
tile, its value centered on top, and grid lines between cells.

Available commands:
  list      - Show all board sources
  play      - Play in the terminal
  window    - Play in a native window
  render    - Render one board to PNG
  sessions  - Browse recorded sessions
  replay    - Replay a recorded session
  scores    - View high scores
  serve     - Start SSH server for remote play

Examples:
  tileview play 2048
  tileview play 2048_endless --grid 5
  tileview window 2048
  tileview render --tiles "0,0,2 1,0,4 3,3,2048" --out board.png
  tileview serve`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (overrides storage.db_path)")
	rootCmd.PersistentFlags().IntVar(&flagGrid, "grid", 0, "Cells per board side (overrides view.grid_size)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides log.level)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the configuration, applies flag overrides and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	cfg = applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	logger, err = newLogger(cfg.Log.Level, flagLogFile)
	return err
}

// applyFlags overrides config values with the global flags that were set.
func applyFlags(cfg config.Config) config.Config {
	if flagGrid != 0 {
		cfg.View.GridSize = flagGrid
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// newLogger builds the process logger. Without a file, logs go to stderr.
func newLogger(level, path string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	out := os.Stderr
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	}

	return log.NewWithOptions(out, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "tileview",
	}), nil
}
