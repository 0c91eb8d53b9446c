package view

import (
	"image"

	"github.com/vovakirdan/tileview/internal/core"
)

// Canvas is a drawable surface of fixed pixel size.
// Nothing drawn becomes visible until Present publishes the whole frame.
type Canvas interface {
	// SetDrawColor selects the color used by Clear, DrawLine and FillRect.
	SetDrawColor(c core.RGB)

	// Clear fills the entire surface with the draw color.
	Clear() error

	// DrawLine strokes a one pixel line between two points.
	DrawLine(from, to core.Point) error

	// FillRect fills a rectangle with the draw color.
	FillRect(r core.Rect) error

	// Blit copies img onto the surface, stretched to fill dst exactly.
	Blit(img image.Image, dst core.Rect) error

	// Present publishes the composed frame.
	Present() error
}

// TextRenderer rasterizes a short string with a fixed font and size.
// The returned image has a transparent background.
type TextRenderer interface {
	Render(text string, fg core.RGB) (image.Image, error)
}
