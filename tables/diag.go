// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tables

// Diagonal table dimensions.
const (
	// DiagSize is the number of distance samples per axis. Sample i stores
	// the area for a distance of i pixels.
	DiagSize = 20

	// DiagPatterns is the number of diagonal crossing patterns.
	DiagPatterns = 16
)

// DiagOffsets are the subsample offsets of the diagonal table.
var DiagOffsets = [...]vec2{
	{0, 0},
	{0.25, -0.25},
	{-0.25, 0.25},
	{0.125, -0.125},
	{-0.125, 0.125},
}

// diagCodes maps a diagonal pattern to the crossing codes of its two ends.
// Codes are 2*horizontal + vertical continuation of the staircase.
var diagCodes = [DiagPatterns][2]int{
	{0, 0}, {1, 0}, {0, 2}, {1, 2},
	{2, 0}, {3, 0}, {2, 2}, {3, 2},
	{0, 1}, {1, 1}, {0, 3}, {1, 3},
	{2, 1}, {3, 1}, {2, 3}, {3, 3},
}

// DiagPattern returns the pattern index for the crossing codes at the start
// and the end of a diagonal run. Codes are in [0, 3].
func DiagPattern(start, end int) int {
	for p, c := range diagCodes {
		if c[0] == start && c[1] == end {
			return p
		}
	}
	return 0
}

// pixelCoverage returns the fraction of the unit pixel at p lying strictly
// on the positive side of the line through p1 and p2. Degenerate lines
// cover everything.
func pixelCoverage(p1, p2, p vec2) float64 {
	if p1 == p2 {
		return 1
	}
	a := p2.y - p1.y
	b := p1.x - p2.x
	m := p1.add(p2).scale(0.5)
	side := func(v vec2) float64 { return a*(v.x-m.x) + b*(v.y-m.y) }

	square := [4]vec2{p, {p.x + 1, p.y}, {p.x + 1, p.y + 1}, {p.x, p.y + 1}}
	var poly [8]vec2
	n := 0
	for i := range square {
		cur := square[i]
		next := square[(i+1)%4]
		sc, sn := side(cur), side(next)
		if sc > 0 {
			poly[n] = cur
			n++
		}
		if (sc > 0) != (sn > 0) {
			t := sc / (sc - sn)
			poly[n] = lerp2(cur, next, t)
			n++
		}
	}
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += poly[i].x*poly[j].y - poly[j].x*poly[i].y
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}

// diagArea returns the coverage for the pixel at distance left along a
// diagonal run with the given pattern and subsample offset.
func diagArea(pattern int, left, right float64, offset vec2) vec2 {
	codes := diagCodes[pattern]
	d := left + right + 1
	dd := vec2{d, d}

	line := func(p1, p2 vec2) vec2 {
		if codes[0] > 0 {
			p1 = p1.add(offset)
		}
		if codes[1] > 0 {
			p2 = p2.add(offset)
		}
		a1 := pixelCoverage(p1, p2, vec2{1 + left, left})
		a2 := pixelCoverage(p1, p2, vec2{1 + left, 1 + left})
		return vec2{1 - a1, a2}
	}
	avg := func(a, b vec2) vec2 { return a.add(b).scale(0.5) }

	low := vec2{1, 0}
	high := vec2{1, 1}
	origin := vec2{0, 0}

	switch pattern {
	case 0:
		return avg(line(high, high.add(dd)), line(low, low.add(dd)))
	case 1:
		return avg(line(low, origin.add(dd)), line(low, low.add(dd)))
	case 2:
		return avg(line(origin, low.add(dd)), line(low, low.add(dd)))
	case 3:
		return line(origin, origin.add(dd))
	case 4:
		return avg(line(high, origin.add(dd)), line(high, low.add(dd)))
	case 5:
		return avg(line(high, origin.add(dd)), line(low, low.add(dd)))
	case 6:
		return line(high, low.add(dd))
	case 7:
		return avg(line(high, low.add(dd)), line(low, low.add(dd)))
	case 8:
		return avg(line(origin, high.add(dd)), line(low, high.add(dd)))
	case 9:
		return line(low, high.add(dd))
	case 10:
		return avg(line(origin, high.add(dd)), line(low, low.add(dd)))
	case 11:
		return avg(line(low, high.add(dd)), line(low, low.add(dd)))
	case 12:
		return line(high, high.add(dd))
	case 13:
		return avg(line(high, high.add(dd)), line(low, high.add(dd)))
	default:
		return avg(line(high, high.add(dd)), line(low, low.add(dd)))
	}
}
