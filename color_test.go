package smaa

import (
	"image/color"
	"math"
	"testing"
)

func TestRGBA_Color(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		want color.NRGBA64
	}{
		{"opaque black", RGB(0, 0, 0), color.NRGBA64{A: 65535}},
		{"opaque white", RGB(1, 1, 1), color.NRGBA64{R: 65535, G: 65535, B: 65535, A: 65535}},
		{"half red", RGBA{1, 0, 0, 0.5}, color.NRGBA64{R: 65535, A: 32768}},
		{"clamped", RGBA{2, -1, 0, 1}, color.NRGBA64{R: 65535, A: 65535}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.c.Color().(color.NRGBA64)
			if got != tt.want {
				t.Errorf("Color() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRGBA_Roundtrip(t *testing.T) {
	original := RGBA{0.8, 0.3, 0.5, 0.9}
	got := FromColor(original.Color())

	const tolerance = 0.001
	if absDiff(original.R, got.R) > tolerance ||
		absDiff(original.G, got.G) > tolerance ||
		absDiff(original.B, got.B) > tolerance ||
		absDiff(original.A, got.A) > tolerance {
		t.Errorf("roundtrip: %v -> %v", original, got)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#ff0000", RGBA{1, 0, 0, 1}},
		{"00ff00", RGBA{0, 1, 0, 1}},
		{"#00f", RGBA{0, 0, 1, 1}},
		{"#ffffff00", RGBA{1, 1, 1, 0}},
		{"bogus", RGBA{A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in); got != tt.want {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func absDiff(a, b float64) float64 {
	return math.Abs(a - b)
}
