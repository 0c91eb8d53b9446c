package view

import (
	"math"

	"github.com/vovakirdan/tileview/internal/core"
)

// Tile fill parameters. Every tile value advances the hue by HueStep degrees,
// so fills repeat with a period of 72 values.
const (
	HueStep    = 65.0
	Saturation = 0.3
	Brightness = 0.8
)

// HSV is a color in the hue/saturation/value model.
// H is in degrees, S and V are in [0, 1].
type HSV struct {
	H, S, V float64
}

// MapValueToColor returns the fill color for a tile value.
// It is total over uint32; zero maps to hue 0.
func MapValueToColor(value uint32) core.RGB {
	return HSV{
		H: math.Mod(float64(value)*HueStep, 360),
		S: Saturation,
		V: Brightness,
	}.RGB()
}

// RGB converts the color using the six-sector formula.
func (c HSV) RGB() core.RGB {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}

	chroma := c.V * c.S
	hp := h / 60
	secondary := chroma * (1 - math.Abs(math.Mod(hp, 2)-1))
	match := c.V - chroma

	var r, g, b float64
	switch sectorOf(hp) {
	case 0:
		r, g, b = chroma, secondary, 0
	case 1:
		r, g, b = secondary, chroma, 0
	case 2:
		r, g, b = 0, chroma, secondary
	case 3:
		r, g, b = 0, secondary, chroma
	case 4:
		r, g, b = secondary, 0, chroma
	default:
		r, g, b = chroma, 0, secondary
	}

	return core.RGB{
		R: channel(r + match),
		G: channel(g + match),
		B: channel(b + match),
	}
}

// sectorOf maps h' in [0, 6] to a sector index in [0, 5].
// A rounding error can push h' to exactly 6; that still lands in sector 5.
func sectorOf(hp float64) int {
	return core.Clamp(int(math.Floor(hp)), 0, 5)
}

func channel(v float64) uint8 {
	return uint8(core.ClampF(math.Round(v*255), 0, 255))
}
