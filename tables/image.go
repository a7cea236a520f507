// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tables

import (
	"image"
	"image/color"
)

// Area texture layout: orthogonal patterns occupy a 5x5 grid of
// OrthoSize cells per subsample offset on the left, diagonal patterns a 4x4
// grid of DiagSize cells on the right. Offsets are stacked vertically.
const (
	AreaImageWidth  = 2 * 5 * OrthoSize
	AreaImageHeight = len(OrthoOffsets) * 5 * OrthoSize
)

// AreaImage renders the area table in the classic SMAA area texture layout
// (red = first area, green = second area).
func (s *Set) AreaImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, AreaImageWidth, AreaImageHeight))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}

	for o := range OrthoOffsets {
		for p := range OrthoPatterns {
			e1 := 3*(p&NearStart) + (p&FarStart)>>2
			e2 := 3*((p&NearEnd)>>1) + (p&FarEnd)>>3
			for j := range OrthoSize {
				for i := range OrthoSize {
					idx := s.orthoIndex(o, p, i, j)
					img.SetNRGBA(e1*OrthoSize+i, o*5*OrthoSize+e2*OrthoSize+j, areaColor(s.ortho[idx], s.ortho[idx+1]))
				}
			}
		}
	}

	for o := range DiagOffsets {
		for p := range DiagPatterns {
			e1, e2 := diagCodes[p][0], diagCodes[p][1]
			for j := range DiagSize {
				for i := range DiagSize {
					idx := s.diagIndex(o, p, i, j)
					img.SetNRGBA(5*OrthoSize+e1*DiagSize+i, o*4*DiagSize+e2*DiagSize+j, areaColor(s.diag[idx], s.diag[idx+1]))
				}
			}
		}
	}
	return img
}

// SearchImage renders the search table: one row per direction, one column
// per key, gray level proportional to the advance.
func (s *Set) SearchImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, SearchKeys, 2))
	for dir := range s.search {
		for k, v := range s.search[dir] {
			img.SetGray(k, dir, color.Gray{Y: v * 127})
		}
	}
	return img
}

func areaColor(a, b float32) color.NRGBA {
	return color.NRGBA{R: unorm8(a), G: unorm8(b), A: 0xff}
}

func unorm8(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}
