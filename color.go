package smaa

import (
	"image/color"
	"math"
	"strconv"
	"strings"
)

// RGBA represents a non-premultiplied color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA64{
		R: unorm16(c.R),
		G: unorm16(c.G),
		B: unorm16(c.B),
		A: unorm16(c.A),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float64(n.R) / 65535,
		G: float64(n.G) / 65535,
		B: float64(n.B) / 65535,
		A: float64(n.A) / 65535,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Hex creates an opaque or translucent color from "RGB", "RGBA", "RRGGBB"
// or "RRGGBBAA", with an optional leading '#'. Malformed input yields
// opaque black.
func Hex(hex string) RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 || len(hex) == 4 {
		var sb strings.Builder
		for _, r := range hex {
			sb.WriteRune(r)
			sb.WriteRune(r)
		}
		hex = sb.String()
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return RGBA{A: 1}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBA{A: 1}
	}
	return RGBA{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}
}

func unorm16(v float64) uint16 {
	return uint16(math.Max(0, math.Min(v, 1))*65535 + 0.5)
}
