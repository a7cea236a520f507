// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tables

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrInvalid is returned when a table set has the wrong shape.
var ErrInvalid = errors.New("tables: invalid table set")

const (
	orthoLen = len(OrthoOffsets) * OrthoPatterns * OrthoSize * OrthoSize * 2
	diagLen  = len(DiagOffsets) * DiagPatterns * DiagSize * DiagSize * 2
)

// Set is an immutable collection of the area and search tables.
// A Set is safe for concurrent use once built.
type Set struct {
	// ortho is indexed [offset][pattern][right][left][channel].
	ortho []float32

	// diag is indexed [offset][pattern][right][left][channel].
	diag []float32

	search [2][SearchKeys]uint8
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Generate returns the process-wide table set, computing it on first use.
func Generate() *Set {
	defaultOnce.Do(func() {
		defaultSet = Build()
	})
	return defaultSet
}

// Build computes a fresh table set.
func Build() *Set {
	s := &Set{
		ortho:  make([]float32, orthoLen),
		diag:   make([]float32, diagLen),
		search: buildSearch(),
	}
	for o, off := range OrthoOffsets {
		for p := range OrthoPatterns {
			for j := range OrthoSize {
				for i := range OrthoSize {
					a := orthoArea(p, float64(i*i), float64(j*j), off)
					idx := s.orthoIndex(o, p, i, j)
					s.ortho[idx] = float32(saturate(a.x))
					s.ortho[idx+1] = float32(saturate(a.y))
				}
			}
		}
	}
	for o, off := range DiagOffsets {
		for p := range DiagPatterns {
			for j := range DiagSize {
				for i := range DiagSize {
					a := diagArea(p, float64(i), float64(j), off)
					idx := s.diagIndex(o, p, i, j)
					s.diag[idx] = float32(saturate(a.x))
					s.diag[idx+1] = float32(saturate(a.y))
				}
			}
		}
	}
	return s
}

func (s *Set) orthoIndex(offset, pattern, left, right int) int {
	return ((((offset*OrthoPatterns)+pattern)*OrthoSize+right)*OrthoSize + left) * 2
}

func (s *Set) diagIndex(offset, pattern, left, right int) int {
	return ((((offset*DiagPatterns)+pattern)*DiagSize+right)*DiagSize + left) * 2
}

// Validate reports whether the set has the expected shape and finite
// values in [0, 1].
func (s *Set) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil set", ErrInvalid)
	}
	if len(s.ortho) != orthoLen {
		return fmt.Errorf("%w: orthogonal table has %d values, want %d", ErrInvalid, len(s.ortho), orthoLen)
	}
	if len(s.diag) != diagLen {
		return fmt.Errorf("%w: diagonal table has %d values, want %d", ErrInvalid, len(s.diag), diagLen)
	}
	for _, part := range [][]float32{s.ortho, s.diag} {
		for i, v := range part {
			if math.IsNaN(float64(v)) || v < 0 || v > 1 {
				return fmt.Errorf("%w: value %v at %d out of range", ErrInvalid, v, i)
			}
		}
	}
	for dir := range s.search {
		for k, v := range s.search[dir] {
			if v > 2 {
				return fmt.Errorf("%w: search advance %d for key %d", ErrInvalid, v, k)
			}
		}
	}
	return nil
}

// Ortho returns the two coverage areas for a pixel at distances left and
// right from the ends of an orthogonal run. The first value is the weight of
// the owning pixel toward the far side, the second the weight of the far
// pixel toward the owning one.
//
// Distances are interpolated bilinearly in square-root space and clamped to
// the table extent.
func (s *Set) Ortho(pattern, left, right, offset int) (float32, float32) {
	if pattern <= 0 || pattern >= OrthoPatterns {
		return 0, 0
	}
	offset = clampInt(offset, 0, len(OrthoOffsets)-1)

	fx := clampFloat(math.Sqrt(float64(left)), 0, OrthoSize-1)
	fy := clampFloat(math.Sqrt(float64(right)), 0, OrthoSize-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := min(x0+1, OrthoSize-1), min(y0+1, OrthoSize-1)
	tx, ty := float32(fx-float64(x0)), float32(fy-float64(y0))

	sample := func(i, j int) (float32, float32) {
		idx := s.orthoIndex(offset, pattern, i, j)
		return s.ortho[idx], s.ortho[idx+1]
	}
	a00, b00 := sample(x0, y0)
	a10, b10 := sample(x1, y0)
	a01, b01 := sample(x0, y1)
	a11, b11 := sample(x1, y1)

	a := lerp(lerp(a00, a10, tx), lerp(a01, a11, tx), ty)
	b := lerp(lerp(b00, b10, tx), lerp(b01, b11, tx), ty)
	return a, b
}

// Diag returns the two coverage areas for a pixel on a diagonal run.
// Distances are clamped to DiagSize-1.
func (s *Set) Diag(pattern, left, right, offset int) (float32, float32) {
	pattern = clampInt(pattern, 0, DiagPatterns-1)
	offset = clampInt(offset, 0, len(DiagOffsets)-1)
	left = clampInt(left, 0, DiagSize-1)
	right = clampInt(right, 0, DiagSize-1)
	idx := s.diagIndex(offset, pattern, left, right)
	return s.diag[idx], s.diag[idx+1]
}

// Search returns how many pixels (0, 1 or 2) an edge run extends into the
// two pixels described by key when walking in dir.
func (s *Set) Search(dir Direction, key uint8) int {
	return int(s.search[dir&1][key&(SearchKeys-1)])
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
