package pipeline

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tileview/internal/config"
	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/view"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.View.WindowPixels = 64
	cfg.View.FontSize = 12
	return cfg
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func checkPixel(t *testing.T, img *image.RGBA, x, y int, want core.RGB) {
	t.Helper()
	c := img.RGBAAt(x, y)
	if !near(c.R, want.R) || !near(c.G, want.G) || !near(c.B, want.B) {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, core.RGB{R: c.R, G: c.G, B: c.B}, want)
	}
}

func TestRenderBoard(t *testing.T) {
	p, err := New(smallConfig(), nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer p.Close()

	frame, err := p.Render(core.BoardState{{X: 1, Y: 1, Value: 2}})
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if frame.Bounds().Dx() != 64 || frame.Bounds().Dy() != 64 {
		t.Fatalf("frame bounds = %v", frame.Bounds())
	}

	// Tile corner, away from the stretched label ink.
	checkPixel(t, frame, 16, 16, view.MapValueToColor(2))
	// Empty cell background.
	checkPixel(t, frame, 40, 40, core.Gray)
	// Horizontal grid line through an empty cell.
	checkPixel(t, frame, 40, 16, core.Black)

	if p.Frame() != frame {
		t.Error("Frame() should return the last rendered frame")
	}
	if p.GridSize() != 4 {
		t.Errorf("GridSize() = %d", p.GridSize())
	}
}

func TestSinkReceivesFrames(t *testing.T) {
	var count int
	p, err := New(smallConfig(), nil, func(*image.RGBA) error { count++; return nil })
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	for i := 0; i < 3; i++ {
		if _, err := p.Render(nil); err != nil {
			t.Fatal(err)
		}
	}
	if count != 3 {
		t.Errorf("sink saw %d frames, want 3", count)
	}
}

func TestNewErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.View.GridSize = 0
	if _, err := New(cfg, nil); !errors.Is(err, view.ErrConstruction) {
		t.Errorf("grid size 0: %v, want ErrConstruction", err)
	}

	cfg = smallConfig()
	cfg.View.FontPath = filepath.Join(t.TempDir(), "nope.ttf")
	if _, err := New(cfg, nil); !errors.Is(err, view.ErrResource) {
		t.Errorf("missing font: %v, want ErrResource", err)
	}

	cfg = smallConfig()
	cfg.View.Background = "nope"
	if _, err := New(cfg, nil); !errors.Is(err, view.ErrConstruction) {
		t.Errorf("bad color: %v, want ErrConstruction", err)
	}
}

func TestRenderOnce(t *testing.T) {
	frame, err := RenderOnce(smallConfig(), nil, core.BoardState{{X: 3, Y: 3, Value: 2048}})
	if err != nil {
		t.Fatalf("RenderOnce() failed: %v", err)
	}
	checkPixel(t, frame, 48, 48, view.MapValueToColor(2048))
}

func TestCloseWhileRendering(t *testing.T) {
	p, err := New(smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		state := core.BoardState{{X: 0, Y: 0, Value: 2}}
		for i := 0; ; i++ {
			_, err := p.Render(state)
			if i == 0 {
				close(started)
			}
			if err != nil {
				done <- err
				return
			}
		}
	}()

	<-started
	if err := p.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := <-done; !errors.Is(err, view.ErrPresentation) {
		t.Errorf("Render after Close = %v, want ErrPresentation", err)
	}
}
