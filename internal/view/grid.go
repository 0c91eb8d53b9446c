package view

import (
	"fmt"

	"github.com/vovakirdan/tileview/internal/core"
)

// GridGeometry holds the interior grid lines of a square board.
// Cell size uses truncating division, so a window that gridSize does not
// divide evenly keeps a margin on the right and bottom edges.
type GridGeometry struct {
	GridSize     int
	WindowPixels int
	CellPixels   int
	Segments     []core.Segment
}

// NewGridGeometry lays out the 2*(gridSize-1) lines separating the cells.
// The outer border is not part of the geometry.
func NewGridGeometry(gridSize, windowPixels int) (GridGeometry, error) {
	if gridSize < 1 {
		return GridGeometry{}, fmt.Errorf("%w: grid size %d, want at least 1", ErrConstruction, gridSize)
	}
	if windowPixels < 1 {
		return GridGeometry{}, fmt.Errorf("%w: window size %d, want at least 1", ErrConstruction, windowPixels)
	}

	cell := windowPixels / gridSize
	segments := make([]core.Segment, 0, 2*(gridSize-1))
	for i := 1; i < gridSize; i++ {
		p := cell * i
		segments = append(segments,
			core.Segment{From: core.Pt(0, p), To: core.Pt(windowPixels, p)},
			core.Segment{From: core.Pt(p, 0), To: core.Pt(p, windowPixels)},
		)
	}

	return GridGeometry{
		GridSize:     gridSize,
		WindowPixels: windowPixels,
		CellPixels:   cell,
		Segments:     segments,
	}, nil
}

// TileRect returns the pixel rectangle of the cell at column x, row y.
func (g GridGeometry) TileRect(x, y int) core.Rect {
	return core.NewRect(
		x*g.WindowPixels/g.GridSize,
		y*g.WindowPixels/g.GridSize,
		g.CellPixels,
		g.CellPixels,
	)
}
