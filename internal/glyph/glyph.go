// Package glyph rasterizes tile numerals with an OpenType font.
package glyph

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/vovakirdan/tileview/internal/core"
)

// DefaultSize is the point size used when Options.Size is zero.
const DefaultSize = 24

var (
	// ErrMissingGlyph is returned when the font has no glyph for a rune.
	ErrMissingGlyph = errors.New("glyph: font has no glyph")
	// ErrEmptyText is returned for an empty string.
	ErrEmptyText = errors.New("glyph: empty text")
	// ErrClosed is returned by Render after Close.
	ErrClosed = errors.New("glyph: renderer closed")
)

// Options selects the font. An empty FontPath uses the embedded Go Mono Bold.
type Options struct {
	FontPath string
	Size     float64
	DPI      float64
}

// Renderer draws strings into transparent images.
type Renderer struct {
	mu     sync.Mutex
	font   *sfnt.Font
	face   font.Face
	buf    sfnt.Buffer
	name   string
	closed bool
}

// Open loads the font and prepares a face at the requested size.
func Open(opts Options) (*Renderer, error) {
	data := gomonobold.TTF
	name := "Go Mono Bold"
	if opts.FontPath != "" {
		b, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
		name = opts.FontPath
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}

	size := opts.Size
	if size <= 0 {
		size = DefaultSize
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = 72
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face for %s: %w", name, err)
	}

	return &Renderer{font: f, face: face, name: name}, nil
}

// Name describes the loaded font.
func (r *Renderer) Name() string {
	return r.name
}

// Render draws text in fg on a transparent background sized to the ink.
func (r *Renderer) Render(text string, fg core.RGB) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}
	if text == "" {
		return nil, ErrEmptyText
	}
	for _, ch := range text {
		idx, err := r.font.GlyphIndex(&r.buf, ch)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", ch, err)
		}
		if idx == 0 {
			return nil, fmt.Errorf("%w for %q in %s", ErrMissingGlyph, ch, r.name)
		}
	}

	metrics := r.face.Metrics()
	width := font.MeasureString(r.face, text).Ceil()
	height := (metrics.Ascent + metrics.Descent).Ceil()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("glyph: %q has no extent", text)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: r.face,
		Dot:  fixed.Point26_6{X: 0, Y: metrics.Ascent},
	}
	d.DrawString(text)
	return img, nil
}

// Close releases the face. It is safe to call more than once.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.face.Close()
}
