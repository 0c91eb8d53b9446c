// Package raster implements the view canvas on top of the gg 2D renderer.
//
// Drawing happens on a private back buffer. Present copies the finished frame
// into a front buffer that other goroutines (a terminal presenter, a window,
// an SSH session) may read at any time through Frame.
package raster

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/vovakirdan/tileview/internal/core"
)

// ErrClosed is returned by drawing calls on a closed canvas.
var ErrClosed = errors.New("raster: canvas closed")

// FrameSink receives every presented frame. The image must not be modified.
type FrameSink func(frame *image.RGBA) error

// Option customizes a Canvas.
type Option func(*Canvas)

// WithSink adds a sink called on every Present.
func WithSink(sink FrameSink) Option {
	return func(c *Canvas) {
		if sink != nil {
			c.sinks = append(c.sinks, sink)
		}
	}
}

// WithLineWidth overrides the stroke width of grid lines.
func WithLineWidth(w float64) Option {
	return func(c *Canvas) {
		if w > 0 {
			c.lineWidth = w
		}
	}
}

// Canvas is a square software surface. Drawing calls are not safe for
// concurrent use; Frame and Frames are.
type Canvas struct {
	dc        *gg.Context
	size      int
	color     core.RGB
	lineWidth float64
	sinks     []FrameSink

	front  atomic.Pointer[image.RGBA]
	frames atomic.Uint64
	closed bool
}

// New allocates a size x size canvas.
func New(size int, opts ...Option) (*Canvas, error) {
	if size <= 0 {
		return nil, fmt.Errorf("raster: invalid surface size %d", size)
	}
	c := &Canvas{
		dc:        gg.NewContext(size, size),
		size:      size,
		lineWidth: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Size returns the edge length in pixels.
func (c *Canvas) Size() int {
	return c.size
}

// SetDrawColor sets the color used by the following drawing calls.
func (c *Canvas) SetDrawColor(col core.RGB) {
	c.color = col
	c.dc.SetColor(col)
}

// Clear fills the whole back buffer with the draw color.
func (c *Canvas) Clear() error {
	if c.closed {
		return ErrClosed
	}
	c.dc.ClearWithColor(gg.FromColor(c.color))
	return nil
}

// DrawLine strokes a one pixel line. Endpoints sit on pixel centers so that
// axis aligned lines cover exactly one row or column.
func (c *Canvas) DrawLine(from, to core.Point) error {
	if c.closed {
		return ErrClosed
	}
	vertical := from.X == to.X
	x1, y1 := pixelCenter(from, vertical)
	x2, y2 := pixelCenter(to, vertical)
	c.dc.SetLineWidth(c.lineWidth)
	c.dc.DrawLine(x1, y1, x2, y2)
	if err := c.dc.Stroke(); err != nil {
		return fmt.Errorf("stroke line: %w", err)
	}
	return nil
}

// pixelCenter shifts a grid point onto the pixel center across the line.
func pixelCenter(p core.Point, vertical bool) (float64, float64) {
	x, y := float64(p.X), float64(p.Y)
	if vertical {
		x += 0.5
	} else {
		y += 0.5
	}
	return x, y
}

// FillRect fills r with the draw color.
func (c *Canvas) FillRect(r core.Rect) error {
	if c.closed {
		return ErrClosed
	}
	if r.Empty() {
		return nil
	}
	c.dc.DrawRectangle(float64(r.X), float64(r.Y), float64(r.W), float64(r.H))
	if err := c.dc.Fill(); err != nil {
		return fmt.Errorf("fill rect: %w", err)
	}
	return nil
}

// Blit composites img over dst, scaling it to the rectangle.
func (c *Canvas) Blit(img image.Image, dst core.Rect) error {
	if c.closed {
		return ErrClosed
	}
	if img == nil {
		return errors.New("blit: nil image")
	}
	if dst.Empty() || img.Bounds().Empty() {
		return nil
	}
	c.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:             float64(dst.X),
		Y:             float64(dst.Y),
		DstWidth:      float64(dst.W),
		DstHeight:     float64(dst.H),
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}

// Present hands the back buffer to the sinks, then publishes it as the front
// frame. A failing sink leaves the previous front frame in place.
func (c *Canvas) Present() error {
	if c.closed {
		return ErrClosed
	}
	frame := toRGBA(c.dc.Image())
	for _, sink := range c.sinks {
		if err := sink(frame); err != nil {
			return fmt.Errorf("frame sink: %w", err)
		}
	}

	c.front.Store(frame)
	c.frames.Add(1)
	return nil
}

// Frame returns the last presented frame, or nil before the first Present.
func (c *Canvas) Frame() *image.RGBA {
	return c.front.Load()
}

// Frames returns how many frames have been presented.
func (c *Canvas) Frames() uint64 {
	return c.frames.Load()
}

// Close releases the renderer. The last frame stays readable.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.dc.Close()
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
