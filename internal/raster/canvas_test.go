package raster

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tileview/internal/core"
)

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func assertPixel(t *testing.T, img *image.RGBA, x, y int, want core.RGB) {
	t.Helper()
	c := img.RGBAAt(x, y)
	if !near(c.R, want.R) || !near(c.G, want.G) || !near(c.B, want.B) {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, core.RGB{R: c.R, G: c.G, B: c.B}, want)
	}
}

func TestNewRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -5} {
		if _, err := New(size); err == nil {
			t.Errorf("New(%d) should fail", size)
		}
	}
}

func TestFrameNilBeforePresent(t *testing.T) {
	c, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if c.Frame() != nil {
		t.Error("Frame() should be nil before the first Present")
	}
	if c.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", c.Frames())
	}
}

func TestClearAndFill(t *testing.T) {
	c, err := New(40)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.SetDrawColor(core.Gray)
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	red := core.RGB{R: 204, G: 143, B: 143}
	c.SetDrawColor(red)
	if err := c.FillRect(core.NewRect(10, 10, 10, 10)); err != nil {
		t.Fatal(err)
	}
	if err := c.Present(); err != nil {
		t.Fatal(err)
	}

	frame := c.Frame()
	if frame == nil {
		t.Fatal("no frame after Present")
	}
	if frame.Bounds().Dx() != 40 || frame.Bounds().Dy() != 40 {
		t.Fatalf("frame bounds = %v", frame.Bounds())
	}
	assertPixel(t, frame, 0, 0, core.Gray)
	assertPixel(t, frame, 39, 39, core.Gray)
	assertPixel(t, frame, 10, 10, red)
	assertPixel(t, frame, 15, 15, red)
	assertPixel(t, frame, 19, 19, red)
	assertPixel(t, frame, 25, 25, core.Gray)
}

func TestDrawLineCoversOneRow(t *testing.T) {
	c, err := New(20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.SetDrawColor(core.White)
	_ = c.Clear()
	c.SetDrawColor(core.Black)
	if err := c.DrawLine(core.Pt(0, 10), core.Pt(20, 10)); err != nil {
		t.Fatal(err)
	}
	if err := c.DrawLine(core.Pt(5, 0), core.Pt(5, 20)); err != nil {
		t.Fatal(err)
	}
	_ = c.Present()

	frame := c.Frame()
	assertPixel(t, frame, 15, 10, core.Black)
	assertPixel(t, frame, 5, 3, core.Black)
	assertPixel(t, frame, 15, 4, core.White)
	assertPixel(t, frame, 12, 3, core.White)
}

func TestBlitScalesIntoRect(t *testing.T) {
	c, err := New(20)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.SetDrawColor(core.White)
	_ = c.Clear()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	if err := c.Blit(src, core.NewRect(4, 4, 8, 8)); err != nil {
		t.Fatal(err)
	}
	_ = c.Present()

	frame := c.Frame()
	assertPixel(t, frame, 8, 8, core.Black)
	assertPixel(t, frame, 1, 1, core.White)
	assertPixel(t, frame, 16, 16, core.White)
}

func TestBlitTransparentKeepsBackground(t *testing.T) {
	c, err := New(10)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	blue := core.RGB{R: 20, G: 40, B: 200}
	c.SetDrawColor(blue)
	_ = c.Clear()
	if err := c.Blit(image.NewNRGBA(image.Rect(0, 0, 4, 4)), core.NewRect(0, 0, 10, 10)); err != nil {
		t.Fatal(err)
	}
	_ = c.Present()
	assertPixel(t, c.Frame(), 5, 5, blue)
}

func TestBlitNilImage(t *testing.T) {
	c, _ := New(4)
	defer c.Close()
	if err := c.Blit(nil, core.NewRect(0, 0, 4, 4)); err == nil {
		t.Error("Blit(nil) should fail")
	}
}

func TestPresentFramesAreIndependent(t *testing.T) {
	c, _ := New(4)
	defer c.Close()

	c.SetDrawColor(core.Black)
	_ = c.Clear()
	_ = c.Present()
	first := c.Frame()

	c.SetDrawColor(core.White)
	_ = c.Clear()
	_ = c.Present()

	assertPixel(t, first, 0, 0, core.Black)
	assertPixel(t, c.Frame(), 0, 0, core.White)
	if c.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", c.Frames())
	}
}

func TestSinkErrorFailsPresent(t *testing.T) {
	boom := errors.New("disk full")
	var got *image.RGBA
	c, _ := New(4,
		WithSink(func(f *image.RGBA) error { got = f; return nil }),
		WithSink(func(*image.RGBA) error { return boom }),
	)
	defer c.Close()

	if err := c.Present(); !errors.Is(err, boom) {
		t.Errorf("Present() = %v, want sink error", err)
	}
	if got == nil {
		t.Error("first sink was not called")
	}
	if c.Frame() != nil || c.Frames() != 0 {
		t.Errorf("failed present was published: frame %v, count %d", c.Frame() != nil, c.Frames())
	}
}

func TestClosedCanvas(t *testing.T) {
	c, _ := New(4)
	_ = c.Present()
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}

	checks := map[string]error{
		"clear":   c.Clear(),
		"line":    c.DrawLine(core.Pt(0, 0), core.Pt(4, 0)),
		"fill":    c.FillRect(core.NewRect(0, 0, 2, 2)),
		"blit":    c.Blit(image.NewNRGBA(image.Rect(0, 0, 1, 1)), core.NewRect(0, 0, 1, 1)),
		"present": c.Present(),
	}
	for op, err := range checks {
		if !errors.Is(err, ErrClosed) {
			t.Errorf("%s after Close = %v, want ErrClosed", op, err)
		}
	}
	if c.Frame() == nil {
		t.Error("last frame should survive Close")
	}
}

func TestSequenceSink(t *testing.T) {
	dir := t.TempDir()
	c, _ := New(4, WithSink(SequenceSink(dir)))
	defer c.Close()

	for i := 0; i < 3; i++ {
		if err := c.Present(); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"frame-00000.png", "frame-00001.png", "frame-00002.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestWritePNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "board.png")
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	src.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	if err := WritePNG(path, src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("pixel = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}
