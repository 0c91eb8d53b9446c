// Package pipeline assembles the tile view with its raster canvas and glyph
// renderer, the stack every frontend draws through.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileview/internal/config"
	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/glyph"
	"github.com/vovakirdan/tileview/internal/raster"
	"github.com/vovakirdan/tileview/internal/view"
)

// Pipeline owns one BoardView and the services behind it. Render and Close
// are serialized, so a session may be closed from another goroutine.
type Pipeline struct {
	mu     sync.Mutex
	canvas *raster.Canvas
	view   *view.BoardView
}

// New builds a pipeline from the view section of cfg.
// Every presented frame is also handed to sinks.
func New(cfg config.Config, logger *log.Logger, sinks ...raster.FrameSink) (*Pipeline, error) {
	vc, err := cfg.ViewSettings()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", view.ErrConstruction, err)
	}

	text, err := glyph.Open(glyph.Options{FontPath: cfg.View.FontPath, Size: cfg.View.FontSize})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", view.ErrResource, err)
	}

	opts := make([]raster.Option, 0, len(sinks))
	for _, s := range sinks {
		opts = append(opts, raster.WithSink(s))
	}
	canvas, err := raster.New(vc.WindowPixels, opts...)
	if err != nil {
		text.Close()
		return nil, fmt.Errorf("%w: %w", view.ErrConstruction, err)
	}

	v, err := view.New(canvas, text, vc, view.WithLogger(logger))
	if err != nil {
		return nil, errors.Join(err, text.Close(), canvas.Close())
	}

	if logger != nil {
		logger.Debug("view ready", "font", text.Name(), "grid", vc.GridSize, "pixels", vc.WindowPixels, "labels", vc.Labels)
	}
	return &Pipeline{canvas: canvas, view: v}, nil
}

// Render stores state in the view, draws it, and returns the presented frame.
func (p *Pipeline) Render(state core.BoardState) (*image.RGBA, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view.Update(state)
	if err := p.view.Draw(); err != nil {
		return nil, err
	}
	return p.canvas.Frame(), nil
}

// Frame returns the last presented frame, or nil before the first Render.
func (p *Pipeline) Frame() *image.RGBA {
	return p.canvas.Frame()
}

// View exposes the underlying board view.
func (p *Pipeline) View() *view.BoardView {
	return p.view
}

// GridSize returns the number of cells per side.
func (p *Pipeline) GridSize() int {
	return p.view.Grid().GridSize
}

// Close releases the view and its services.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view.Close()
}

// RenderOnce draws a single board and returns the frame.
func RenderOnce(cfg config.Config, logger *log.Logger, state core.BoardState) (*image.RGBA, error) {
	p, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Render(state)
}
