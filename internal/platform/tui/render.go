package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tileview/internal/core"
)

// styleFor maps a cell style to a lipgloss style.
func styleFor(s core.Style) lipgloss.Style {
	style := lipgloss.NewStyle()
	if s.HasFG {
		style = style.Foreground(lipgloss.Color(s.FG.Hex()))
	}
	if s.HasBG {
		style = style.Background(lipgloss.Color(s.BG.Hex()))
	}
	return style
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	styles := make(map[core.Style]lipgloss.Style)

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same style for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startStyle := cell.Style

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Style != startStyle {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if startStyle == (core.Style{}) {
				sb.WriteString(run.String())
				continue
			}
			style, ok := styles[startStyle]
			if !ok {
				style = styleFor(startStyle)
				styles[startStyle] = style
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
