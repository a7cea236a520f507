// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package color

import "math"

// sRGBToLinearLUT provides O(1) sRGB to Linear conversion for 8-bit input.
// Pre-computed 256 entries, 1KB memory cost.
var sRGBToLinearLUT [256]float32

func init() {
	for i := 0; i < 256; i++ {
		s := float64(i) / 255.0
		var linear float64
		if s <= 0.04045 {
			linear = s / 12.92
		} else {
			linear = math.Pow((s+0.055)/1.055, 2.4)
		}
		sRGBToLinearLUT[i] = float32(linear)
	}
}

// SRGBToLinearFast converts an sRGB byte to a linear float32 using a lookup
// table. Neighborhood blending calls it for every sampled 8-bit channel.
//
// Example:
//
//	r := SRGBToLinearFast(128) // ~0.2159 (not 0.5!)
func SRGBToLinearFast(s uint8) float32 {
	return sRGBToLinearLUT[s]
}
