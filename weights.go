package smaa

import "github.com/gogpu/smaa/tables"

// axis maps run coordinates (u along the run, v across it) onto the edge
// mask. Horizontal runs follow top edges along a row and are crossed by left
// edges; vertical runs are the transpose.
type axis struct {
	along  uint8
	across uint8
	swap   bool
	length int
}

// weightPass computes blending weights from an edge mask.
type weightPass struct {
	edges    *EdgeMask
	tbl      *tables.Set
	maxSteps int
	maxDiag  int
	rounding float32
	subpixel float32
	corners  bool
	diagonal bool

	horizontal axis
	vertical   axis
}

func newWeightPass(edges *EdgeMask, tbl *tables.Set, cfg *Config) *weightPass {
	return &weightPass{
		edges:      edges,
		tbl:        tbl,
		maxSteps:   cfg.MaxSearchSteps,
		maxDiag:    cfg.MaxSearchStepsDiag,
		rounding:   float32(cfg.CornerRounding),
		subpixel:   float32(cfg.SubpixelBlending),
		corners:    cfg.CornerDetection,
		diagonal:   cfg.DiagonalDetection,
		horizontal: axis{along: EdgeTop, across: EdgeLeft, length: edges.width},
		vertical:   axis{along: EdgeLeft, across: EdgeTop, swap: true, length: edges.height},
	}
}

// rows writes weights for rows [y0, y1) into dst. Pixels without edges are
// left untouched, so dst must start zeroed.
func (p *weightPass) rows(dst *BlendWeights, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < p.edges.width; x++ {
			if p.edges.bits[y*p.edges.width+x] == 0 {
				continue
			}
			dst.set(x, y, p.pixel(x, y))
		}
	}
}

func (p *weightPass) pixel(x, y int) [4]float32 {
	var out [4]float32
	e := p.edges.Bits(x, y)

	if e&EdgeTop != 0 {
		found := false
		if p.diagonal {
			r, g := p.diagonalWeights(x, y)
			if r+g > 0 {
				out[WeightUp], out[WeightFromAbove] = r, g
				found = true
			}
		}
		if !found {
			out[WeightUp], out[WeightFromAbove] = p.ortho(p.horizontal, x, y)
		}
	}
	if e&EdgeLeft != 0 {
		out[WeightLeft], out[WeightFromLeft] = p.ortho(p.vertical, y, x)
	}
	return out
}

func (p *weightPass) has(a axis, u, v int, bit uint8) bool {
	if a.swap {
		return p.edges.Bits(v, u)&bit != 0
	}
	return p.edges.Bits(u, v)&bit != 0
}

func (p *weightPass) edge(a axis, u, v int) bool {
	return p.has(a, u, v, a.along)
}

// cross reports a crossing edge on the boundary between u-1 and u, on
// either side of the run.
func (p *weightPass) cross(a axis, u, v int) bool {
	return p.has(a, u, v, a.across) || p.has(a, u, v-1, a.across)
}

// searchBackward walks toward decreasing u and returns the first pixel of
// the run. The end is open when the walk hit the search bound or the frame
// border without meeting a terminating pattern.
func (p *weightPass) searchBackward(a axis, u, v int) (end int, open bool) {
	pos := u
	for moved := 0; moved < p.maxSteps; {
		key := tables.BackwardKey(p.edge(a, pos-2, v), p.cross(a, pos-1, v), p.edge(a, pos-1, v), p.cross(a, pos, v))
		adv := p.tbl.Search(tables.Backward, key)
		if adv < 2 {
			pos -= adv
			return pos, pos == 0
		}
		if moved+2 > p.maxSteps {
			pos--
			break
		}
		pos -= 2
		moved += 2
	}
	if p.cross(a, pos, v) || !p.edge(a, pos-1, v) {
		return pos, pos == 0
	}
	return pos, true
}

// searchForward walks toward increasing u and returns the last pixel of the
// run.
func (p *weightPass) searchForward(a axis, u, v int) (end int, open bool) {
	last := a.length - 1
	pos := u
	for moved := 0; moved < p.maxSteps; {
		key := tables.ForwardKey(p.cross(a, pos+1, v), p.edge(a, pos+1, v), p.cross(a, pos+2, v), p.edge(a, pos+2, v))
		adv := p.tbl.Search(tables.Forward, key)
		if adv < 2 {
			pos += adv
			return pos, pos == last
		}
		if moved+2 > p.maxSteps {
			pos++
			break
		}
		pos += 2
		moved += 2
	}
	if p.cross(a, pos+1, v) || !p.edge(a, pos+1, v) {
		return pos, pos == last
	}
	return pos, true
}

// ortho returns the weights of the run through (u, v): the owning pixel
// toward the far side first, the far pixel toward the owner second.
func (p *weightPass) ortho(a axis, u, v int) (float32, float32) {
	lo, loOpen := p.searchBackward(a, u, v)
	hi, hiOpen := p.searchForward(a, u, v)

	pattern := 0
	if !loOpen {
		if p.has(a, lo, v, a.across) {
			pattern |= tables.NearStart
		}
		if p.has(a, lo, v-1, a.across) {
			pattern |= tables.FarStart
		}
	}
	if !hiOpen {
		if p.has(a, hi+1, v, a.across) {
			pattern |= tables.NearEnd
		}
		if p.has(a, hi+1, v-1, a.across) {
			pattern |= tables.FarEnd
		}
	}

	if pattern == 0 {
		if loOpen || hiOpen {
			d := p.subpixel / 2
			return d, d
		}
		return 0, 0
	}

	left, right := u-lo, hi-u
	if loOpen {
		left = p.maxSteps
	}
	if hiOpen {
		right = p.maxSteps
	}
	near, far := p.tbl.Ortho(pattern, left, right, 0)
	if p.corners {
		near, far = p.roundCorners(a, lo, hi, u, v, near, far)
	}
	return near, far
}

// roundCorners reduces the weights next to sharp corners so that they keep
// part of their shape.
func (p *weightPass) roundCorners(a axis, lo, hi, u, v int, near, far float32) (float32, float32) {
	left, right := u-lo, hi-u
	var toLo, toHi float32
	if left <= right {
		toLo = 1
	}
	if right <= left {
		toHi = 1
	}
	k := (1 - p.rounding) / (toLo + toHi)
	toLo *= k
	toHi *= k

	fNear := 1 - toLo*p.tap(a, lo, v+1) - toHi*p.tap(a, hi+1, v+1)
	fFar := 1 - toLo*p.tap(a, lo, v-2) - toHi*p.tap(a, hi+1, v-2)
	return near * clampUnit(fNear), far * clampUnit(fFar)
}

func (p *weightPass) tap(a axis, u, v int) float32 {
	if p.has(a, u, v, a.across) {
		return 1
	}
	return 0
}

func (p *weightPass) on1(x, y int) bool {
	return p.edges.Bits(x, y) == EdgeLeft|EdgeTop
}

func (p *weightPass) on2(x, y int) bool {
	return p.edges.Top(x, y) && p.edges.Left(x+1, y)
}

// diagonalWeights looks for 45 degree staircases through (x, y) in both
// orientations and returns the summed horizontal weights.
func (p *weightPass) diagonalWeights(x, y int) (float32, float32) {
	if p.maxDiag == 0 {
		return 0, 0
	}
	var r, g float32

	// Staircase rising to the right.
	dl, dr := 0, 0
	if p.on1(x, y) {
		for dl < p.maxDiag && p.on1(x-dl-1, y+dl+1) {
			dl++
		}
	}
	for dr < p.maxDiag && p.on1(x+dr+1, y-dr-1) {
		dr++
	}
	if dl+dr+1 > 3 {
		ax, ay := x-dl, y+dl
		bx, by := x+dr, y-dr
		start := diagCode(p.edges.Top(ax-1, ay+1), p.edges.Left(ax, ay+1))
		end := diagCode(p.edges.Top(bx+1, by), p.edges.Left(bx+1, by-1))
		a, b := p.tbl.Diag(tables.DiagPattern(start, end), dl, dr, 0)
		r += a
		g += b
	}

	// Staircase falling to the right.
	dl, dr = 0, 0
	for dl < p.maxDiag && p.on2(x-dl-1, y-dl-1) {
		dl++
	}
	if p.on2(x, y) {
		for dr < p.maxDiag && p.on2(x+dr+1, y+dr+1) {
			dr++
		}
	}
	if dl+dr+1 > 3 {
		ax, ay := x-dl, y-dl
		bx, by := x+dr, y+dr
		start := diagCode(p.edges.Top(ax-1, ay), p.edges.Left(ax, ay-1))
		end := diagCode(p.edges.Top(bx+1, by+1), p.edges.Left(bx+1, by+1))
		a, b := p.tbl.Diag(tables.DiagPattern(start, end), dl, dr, 0)
		r += b
		g += a
	}
	return r, g
}

func diagCode(horizontal, vertical bool) int {
	c := 0
	if horizontal {
		c += 2
	}
	if vertical {
		c++
	}
	return c
}
