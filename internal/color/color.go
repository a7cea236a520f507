// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package color provides the pixel value helpers shared by the SMAA passes:
// normalized channel conversion, perceptual luma and sRGB transfer functions.
package color

// ColorF32 represents a color with float32 components in [0,1].
// RGB components are in the color space indicated by context.
// Alpha is always linear (never gamma-encoded).
type ColorF32 struct {
	R, G, B, A float32
}

// Rec. 709 luma coefficients.
const (
	LumaR = 0.2126
	LumaG = 0.7152
	LumaB = 0.0722
)

// Luma returns the perceptual luma of c. Alpha is ignored.
func Luma(c ColorF32) float32 {
	return LumaR*c.R + LumaG*c.G + LumaB*c.B
}

// MaxDelta returns the largest absolute per-channel RGB difference
// between a and b.
func MaxDelta(a, b ColorF32) float32 {
	return max(abs32(a.R-b.R), abs32(a.G-b.G), abs32(a.B-b.B))
}

// Lerp interpolates from a toward b by t.
func Lerp(a, b ColorF32, t float32) ColorF32 {
	return ColorF32{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// Scale multiplies all components by s.
func (c ColorF32) Scale(s float32) ColorF32 {
	return ColorF32{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A * s}
}

// Add returns the component-wise sum of c and o.
func (c ColorF32) Add(o ColorF32) ColorF32 {
	return ColorF32{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B, A: c.A + o.A}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
