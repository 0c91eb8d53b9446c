package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileview/internal/registry"
	"github.com/vovakirdan/tileview/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top 10 high scores for a board source, or a summary of
every source when no game is given.

Examples:
  tileview scores
  tileview scores 2048`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := openStore(appConfig)
	if err != nil {
		return fmt.Errorf("cannot open scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printSummary(store)
	}

	gameID := args[0]
	game, err := createGame(args)
	if err != nil {
		return err
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tileview play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("cannot retrieve scores: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-16s  %-6s  %-8s  %-8s  %s\n", "Game", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-16s  %-6s  %-8s  %-8s  %s\n", "----", "-----", "----", "-------", "-----------")
	for _, id := range ids {
		s := stats[id]
		title := id
		if registry.Exists(id) {
			if g, err := registry.Create(id); err == nil {
				title = g.Title()
			}
		}
		fmt.Printf("  %-16s  %-6d  %-8d  %-8.0f  %s\n", title, s.GamesCount, s.HighScore, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
