package tui

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/vovakirdan/tileview/internal/core"
)

// upperHalf is drawn with the top pixel as foreground and the bottom pixel
// as background, giving two square-ish pixels per terminal cell.
const upperHalf = '▀'

// FitSquare returns the largest square board, in cells, that fits a
// cols x rows area. Each cell holds two vertical pixels, so the result is
// side columns by side/2 rows.
func FitSquare(cols, rows int) (side int) {
	side = min(cols, rows*2)
	if side%2 == 1 {
		side--
	}
	return max(side, 0)
}

// HalfBlock scales img to cols x rows*2 pixels and writes it into dst
// starting at (x0, y0).
func HalfBlock(dst *core.Screen, img image.Image, x0, y0, cols, rows int) {
	if img == nil || cols <= 0 || rows <= 0 {
		return
	}

	scaled := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	for y := range rows {
		for x := range cols {
			top := scaled.RGBAAt(x, y*2)
			bottom := scaled.RGBAAt(x, y*2+1)
			style := core.Style{}.
				WithFG(core.RGB{R: top.R, G: top.G, B: top.B}).
				WithBG(core.RGB{R: bottom.R, G: bottom.G, B: bottom.B})
			dst.SetCell(x0+x, y0+y, core.Cell{Rune: upperHalf, Style: style})
		}
	}
}
