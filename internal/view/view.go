// Package view draws a tile-sliding puzzle board onto a canvas.
//
// A BoardView holds no game logic. Callers hand it a fresh core.BoardState with
// Update and then call Draw, which clears the surface, strokes the grid, fills
// and labels every tile, and presents the finished frame.
package view

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileview/internal/core"
)

// LabelColor is the glyph color of tile numerals.
var LabelColor = core.Black

// LabelPolicy decides what Draw does when a tile label cannot be rendered.
type LabelPolicy int

const (
	// LabelStrict aborts the whole Draw call.
	LabelStrict LabelPolicy = iota
	// LabelBestEffort keeps the filled rectangle, logs, and moves on.
	LabelBestEffort
)

// String returns the config spelling of the policy.
func (p LabelPolicy) String() string {
	switch p {
	case LabelStrict:
		return "strict"
	case LabelBestEffort:
		return "best_effort"
	default:
		return "unknown"
	}
}

// ParseLabelPolicy converts a config value to a LabelPolicy.
// An empty string selects LabelStrict.
func ParseLabelPolicy(s string) (LabelPolicy, error) {
	switch s {
	case "", "strict":
		return LabelStrict, nil
	case "best_effort", "best-effort":
		return LabelBestEffort, nil
	default:
		return LabelStrict, fmt.Errorf("unknown label policy %q (want strict or best_effort)", s)
	}
}

// Config is fixed for the lifetime of a BoardView.
type Config struct {
	Background   core.RGB
	Line         core.RGB
	GridSize     int // Cells per side
	WindowPixels int // Edge length of the square surface
	Labels       LabelPolicy
}

// Option customizes a BoardView.
type Option func(*BoardView)

// WithLogger sets the logger used for skipped labels.
func WithLogger(l *log.Logger) Option {
	return func(v *BoardView) {
		if l != nil {
			v.logger = l
		}
	}
}

// BoardView renders board snapshots. It owns its canvas and text renderer
// and is not safe for concurrent use.
type BoardView struct {
	canvas Canvas
	text   TextRenderer
	cfg    Config
	grid   GridGeometry
	state  core.BoardState
	logger *log.Logger
	closed bool
}

// New builds a view on the given canvas and text renderer.
// Ownership of both passes to the view; Close releases them.
func New(canvas Canvas, text TextRenderer, cfg Config, opts ...Option) (*BoardView, error) {
	if canvas == nil {
		return nil, fmt.Errorf("%w: no canvas", ErrConstruction)
	}
	if text == nil {
		return nil, fmt.Errorf("%w: no text renderer", ErrConstruction)
	}
	if cfg.Labels != LabelStrict && cfg.Labels != LabelBestEffort {
		return nil, fmt.Errorf("%w: label policy %d", ErrConstruction, cfg.Labels)
	}

	grid, err := NewGridGeometry(cfg.GridSize, cfg.WindowPixels)
	if err != nil {
		return nil, err
	}

	v := &BoardView{
		canvas: canvas,
		text:   text,
		cfg:    cfg,
		grid:   grid,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Config returns the view configuration.
func (v *BoardView) Config() Config {
	return v.cfg
}

// Grid returns the precomputed grid geometry.
func (v *BoardView) Grid() GridGeometry {
	return v.grid
}

// State returns a copy of the snapshot the next Draw will render.
func (v *BoardView) State() core.BoardState {
	return v.state.Clone()
}

// Update replaces the stored snapshot. The state is copied, so the caller
// may reuse its slice.
func (v *BoardView) Update(state core.BoardState) {
	v.state = state.Clone()
}

// Draw composes and presents one frame of the current snapshot.
func (v *BoardView) Draw() error {
	if v.closed {
		return fmt.Errorf("%w: view is closed", ErrPresentation)
	}

	v.canvas.SetDrawColor(v.cfg.Background)
	if err := v.canvas.Clear(); err != nil {
		return fmt.Errorf("%w: clear: %w", ErrPresentation, err)
	}

	v.canvas.SetDrawColor(v.cfg.Line)
	for _, seg := range v.grid.Segments {
		if err := v.canvas.DrawLine(seg.From, seg.To); err != nil {
			return fmt.Errorf("%w: grid line %v-%v: %w", ErrPresentation, seg.From, seg.To, err)
		}
	}

	for _, tile := range v.state {
		if err := v.drawTile(tile); err != nil {
			return err
		}
	}

	if err := v.canvas.Present(); err != nil {
		return fmt.Errorf("%w: present: %w", ErrPresentation, err)
	}
	return nil
}

func (v *BoardView) drawTile(tile core.Tile) error {
	rect := v.grid.TileRect(tile.X, tile.Y)

	v.canvas.SetDrawColor(MapValueToColor(tile.Value))
	if err := v.canvas.FillRect(rect); err != nil {
		return fmt.Errorf("%w: tile (%d,%d): %w", ErrPresentation, tile.X, tile.Y, err)
	}

	label, err := v.text.Render(strconv.FormatUint(uint64(tile.Value), 10), LabelColor)
	if err != nil {
		err = fmt.Errorf("%w: label %d at (%d,%d): %w", ErrResource, tile.Value, tile.X, tile.Y, err)
		if v.cfg.Labels == LabelBestEffort {
			v.logger.Warn("skipping tile label", "x", tile.X, "y", tile.Y, "value", tile.Value, "error", err)
			return nil
		}
		return err
	}

	if err := v.canvas.Blit(label, rect); err != nil {
		return fmt.Errorf("%w: label blit (%d,%d): %w", ErrPresentation, tile.X, tile.Y, err)
	}
	return nil
}

// Close releases the text renderer and canvas if they hold resources.
// Close is idempotent.
func (v *BoardView) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true

	var errs []error
	if c, ok := v.text.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: close text renderer: %w", ErrResource, err))
		}
	}
	if c, ok := v.canvas.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: close canvas: %w", ErrPresentation, err))
		}
	}
	return errors.Join(errs...)
}
