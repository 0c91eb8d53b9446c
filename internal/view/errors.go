package view

import "errors"

// Error categories returned by the view. Every error from New, Draw and Close
// wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrConstruction reports invalid configuration or missing collaborators.
	ErrConstruction = errors.New("view: construction failed")

	// ErrResource reports a text service failure, including a label
	// that could not be rasterized.
	ErrResource = errors.New("view: text resource failure")

	// ErrPresentation reports a canvas failure while drawing or presenting.
	ErrPresentation = errors.New("view: presentation failure")
)
