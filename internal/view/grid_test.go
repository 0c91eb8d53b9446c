package view

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tileview/internal/core"
)

func TestGridSegmentCount(t *testing.T) {
	for n := 1; n <= 8; n++ {
		g, err := NewGridGeometry(n, 800)
		if err != nil {
			t.Fatalf("NewGridGeometry(%d, 800) failed: %v", n, err)
		}
		if want := 2 * (n - 1); len(g.Segments) != want {
			t.Errorf("grid size %d: got %d segments, want %d", n, len(g.Segments), want)
		}
	}
}

func TestGridSegmentPlacement(t *testing.T) {
	g, err := NewGridGeometry(4, 800)
	if err != nil {
		t.Fatalf("NewGridGeometry failed: %v", err)
	}

	expected := []core.Segment{
		{From: core.Pt(0, 200), To: core.Pt(800, 200)},
		{From: core.Pt(200, 0), To: core.Pt(200, 800)},
		{From: core.Pt(0, 400), To: core.Pt(800, 400)},
		{From: core.Pt(400, 0), To: core.Pt(400, 800)},
		{From: core.Pt(0, 600), To: core.Pt(800, 600)},
		{From: core.Pt(600, 0), To: core.Pt(600, 800)},
	}

	if len(g.Segments) != len(expected) {
		t.Fatalf("got %d segments, want %d", len(g.Segments), len(expected))
	}
	for i, seg := range expected {
		if g.Segments[i] != seg {
			t.Errorf("segment %d = %v, want %v", i, g.Segments[i], seg)
		}
	}
	if g.CellPixels != 200 {
		t.Errorf("CellPixels = %d, want 200", g.CellPixels)
	}
}

func TestGridTruncatesUnevenCells(t *testing.T) {
	g, err := NewGridGeometry(3, 800)
	if err != nil {
		t.Fatalf("NewGridGeometry failed: %v", err)
	}
	if g.CellPixels != 266 {
		t.Errorf("CellPixels = %d, want 266", g.CellPixels)
	}

	wantLines := []int{266, 266, 532, 532}
	for i, seg := range g.Segments {
		pos := seg.From.Y
		if i%2 == 1 {
			pos = seg.From.X
		}
		if pos != wantLines[i] {
			t.Errorf("segment %d at %d, want %d", i, pos, wantLines[i])
		}
	}

	// Tile origin uses x*W/N, not x*cell.
	if r := g.TileRect(2, 2); r != core.NewRect(533, 533, 266, 266) {
		t.Errorf("TileRect(2, 2) = %+v, want {533 533 266 266}", r)
	}
}

func TestGridTileRect(t *testing.T) {
	g, err := NewGridGeometry(4, 800)
	if err != nil {
		t.Fatalf("NewGridGeometry failed: %v", err)
	}

	tests := []struct {
		x, y int
		want core.Rect
	}{
		{0, 0, core.NewRect(0, 0, 200, 200)},
		{1, 2, core.NewRect(200, 400, 200, 200)},
		{3, 3, core.NewRect(600, 600, 200, 200)},
	}
	for _, tc := range tests {
		if got := g.TileRect(tc.x, tc.y); got != tc.want {
			t.Errorf("TileRect(%d, %d) = %+v, want %+v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestGridRejectsInvalidSizes(t *testing.T) {
	tests := []struct {
		name               string
		gridSize, windowPx int
	}{
		{"zero grid", 0, 800},
		{"negative grid", -2, 800},
		{"zero window", 4, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGridGeometry(tc.gridSize, tc.windowPx)
			if !errors.Is(err, ErrConstruction) {
				t.Errorf("NewGridGeometry(%d, %d) error = %v, want ErrConstruction", tc.gridSize, tc.windowPx, err)
			}
		})
	}
}
