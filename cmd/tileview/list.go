package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tileview/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all board sources",
	Long:  `Shows a list of all board sources registered in tileview.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No board sources available.")
		return
	}

	fmt.Println("Available board sources:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")

	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	fmt.Println()
	fmt.Println("Run 'tileview play <id>' to play in the terminal.")
}
