// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tables

import "math"

// Orthogonal table dimensions.
const (
	// OrthoSize is the number of distance samples per axis. Sample i
	// stores the area for a distance of i*i pixels.
	OrthoSize = 16

	// OrthoPatterns is the number of crossing-edge patterns.
	OrthoPatterns = 16

	// smoothMaxDistance is the run length at which U shapes stop being
	// smoothed.
	smoothMaxDistance = 32
)

// OrthoOffsets are the subsample offsets of the orthogonal table.
// Index 0 is used for single-sample frames.
var OrthoOffsets = [...]float64{0.0, -0.25, 0.25, -0.125, 0.125, -0.375, 0.375}

// Crossing-edge bits of an orthogonal pattern. "Near" crossings lie on the
// side of the edge that owns the run, "far" crossings on the opposite side.
const (
	NearStart = 1 << iota
	NearEnd
	FarStart
	FarEnd
)

type vec2 struct{ x, y float64 }

func (v vec2) add(o vec2) vec2        { return vec2{v.x + o.x, v.y + o.y} }
func (v vec2) scale(s float64) vec2   { return vec2{v.x * s, v.y * s} }
func lerp2(a, b vec2, t float64) vec2 { return vec2{a.x + (b.x-a.x)*t, a.y + (b.y-a.y)*t} }

// spanArea integrates the area between the segment p1->p2 and the edge line
// (y = 0) over the pixel span [x, x+1]. Area below the edge line (y < 0)
// goes to the first component, area above it to the second.
func spanArea(p1, p2 vec2, x float64) vec2 {
	d := vec2{p2.x - p1.x, p2.y - p1.y}
	x1 := x
	x2 := x + 1
	y1 := p1.y + d.y*(x1-p1.x)/d.x
	y2 := p1.y + d.y*(x2-p1.x)/d.x

	inside := (x1 >= p1.x && x1 < p2.x) || (x2 > p1.x && x2 <= p2.x)
	if !inside {
		return vec2{}
	}

	trapezoid := math.Signbit(y1) == math.Signbit(y2) ||
		math.Abs(y1) < 1e-4 || math.Abs(y2) < 1e-4
	if trapezoid {
		a := (y1 + y2) / 2
		if a < 0 {
			return vec2{-a, 0}
		}
		return vec2{0, a}
	}

	// The segment crosses the edge line inside the span: two triangles.
	xc := -p1.y*d.x/d.y + p1.x
	var out vec2
	if xc > p1.x {
		out = out.add(signedArea(y1, (xc-x1)*math.Abs(y1)/2))
	}
	if xc < p2.x {
		out = out.add(signedArea(y2, (x2-xc)*math.Abs(y2)/2))
	}
	return out
}

func signedArea(y, a float64) vec2 {
	if y < 0 {
		return vec2{a, 0}
	}
	return vec2{0, a}
}

// smoothArea softens U shapes on short runs, converging to the plain areas
// at smoothMaxDistance.
func smoothArea(d float64, a1, a2 vec2) vec2 {
	b1 := vec2{math.Sqrt(a1.x*2) * 0.5, math.Sqrt(a1.y*2) * 0.5}
	b2 := vec2{math.Sqrt(a2.x*2) * 0.5, math.Sqrt(a2.y*2) * 0.5}
	p := saturate(d / smoothMaxDistance)
	return lerp2(b1, a1, p).add(lerp2(b2, a2, p))
}

// orthoArea returns the coverage for the pixel at distance left from the
// run start of a run with the given pattern, using subsample offset.
//
// The run spans [0, d) with d = left + right + 1. o1 and o2 are the line
// heights at a far and a near crossing edge respectively.
func orthoArea(pattern int, left, right, offset float64) vec2 {
	d := left + right + 1
	o1 := 0.5 + offset
	o2 := -0.5 + offset
	mid := vec2{d / 2, 0}

	switch pattern {
	case 0, 5, 10, 15:
		// Straight runs and runs crossed through on both sides.
		return vec2{}

	case NearStart:
		if left <= right {
			return spanArea(vec2{0, o2}, mid, left)
		}
		return vec2{}

	case NearEnd:
		if left >= right {
			return spanArea(mid, vec2{d, o2}, left)
		}
		return vec2{}

	case NearStart | NearEnd:
		a1 := spanArea(vec2{0, o2}, mid, left)
		a2 := spanArea(mid, vec2{d, o2}, left)
		return smoothArea(d, a1, a2)

	case FarStart:
		if left <= right {
			return spanArea(vec2{0, o1}, mid, left)
		}
		return vec2{}

	case FarStart | NearEnd:
		return zArea(vec2{0, o1}, vec2{d, o2}, mid, left, offset)

	case FarStart | NearStart | NearEnd:
		return spanArea(vec2{0, o1}, vec2{d, o2}, left)

	case FarEnd:
		if left >= right {
			return spanArea(mid, vec2{d, o1}, left)
		}
		return vec2{}

	case NearStart | FarEnd:
		return zArea(vec2{0, o2}, vec2{d, o1}, mid, left, offset)

	case NearStart | NearEnd | FarEnd:
		return spanArea(vec2{0, o2}, vec2{d, o1}, left)

	case FarStart | FarEnd:
		a1 := spanArea(vec2{0, o1}, mid, left)
		a2 := spanArea(mid, vec2{d, o1}, left)
		return smoothArea(d, a1, a2)

	case NearStart | FarStart | FarEnd:
		return spanArea(vec2{0, o2}, vec2{d, o1}, left)

	case FarStart | NearEnd | FarEnd:
		return spanArea(vec2{0, o1}, vec2{d, o2}, left)
	}
	return vec2{}
}

// zArea handles Z shapes. With a subsample offset the full Z line is
// averaged with two offset L halves so that pixels in the middle of a long
// run agree with pixels near its ends.
func zArea(p1, p2, mid vec2, left, offset float64) vec2 {
	if math.Abs(offset) > 0 {
		a1 := spanArea(p1, p2, left)
		a2 := spanArea(p1, mid, left).add(spanArea(mid, p2, left))
		return a1.add(a2).scale(0.5)
	}
	return spanArea(p1, p2, left)
}

func saturate(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
