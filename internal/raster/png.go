package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// EncodePNG writes frame to w.
func EncodePNG(w io.Writer, frame image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, frame); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WritePNG saves frame at path, creating parent directories.
func WritePNG(path string, frame image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(f, frame); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PNGSink returns a sink that overwrites path with every presented frame.
func PNGSink(path string) FrameSink {
	return func(frame *image.RGBA) error {
		return WritePNG(path, frame)
	}
}

// SequenceSink returns a sink that writes numbered frames into dir,
// frame-00000.png, frame-00001.png and so on.
func SequenceSink(dir string) FrameSink {
	n := 0
	return func(frame *image.RGBA) error {
		path := filepath.Join(dir, fmt.Sprintf("frame-%05d.png", n))
		n++
		return WritePNG(path, frame)
	}
}
