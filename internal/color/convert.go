// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package color

import "math"

// SRGBToLinear converts an sRGB component to linear (EOTF - Electro-Optical Transfer Function).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
// Input and output are in range [0,1].
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow(float64((s+0.055)/1.055), 2.4))
}

// LinearToSRGB converts a linear component to sRGB (OETF - Opto-Electronic Transfer Function).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
// Input and output are in range [0,1].
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*float32(math.Pow(float64(l), 1.0/2.4)) - 0.055
}

// ToLinear converts the RGB components of c from sRGB to linear.
func ToLinear(c ColorF32) ColorF32 {
	return ColorF32{R: SRGBToLinear(c.R), G: SRGBToLinear(c.G), B: SRGBToLinear(c.B), A: c.A}
}

// ToSRGB converts the RGB components of c from linear to sRGB.
func ToSRGB(c ColorF32) ColorF32 {
	return ColorF32{R: LinearToSRGB(c.R), G: LinearToSRGB(c.G), B: LinearToSRGB(c.B), A: c.A}
}

// FromUnorm8 maps [0,255] to [0,1].
func FromUnorm8(v uint8) float32 {
	return float32(v) / 255.0
}

// ToUnorm8 clamps v to [0,1] and maps it to [0,255] with rounding.
// NaN maps to 0.
func ToUnorm8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}

// FromUnorm16 maps [0,65535] to [0,1].
func FromUnorm16(v uint16) float32 {
	return float32(v) / 65535.0
}

// ToUnorm16 clamps v to [0,1] and maps it to [0,65535] with rounding.
// NaN maps to 0.
func ToUnorm16(v float32) uint16 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 65535
	}
	return uint16(v*65535.0 + 0.5)
}
