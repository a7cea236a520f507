package smaa

import (
	"fmt"
	"image"
)

// Plane is a single-channel float32 buffer used as the auxiliary input:
// depth for DetectorDepth, precomputed luma for DetectorLuma.
type Plane struct {
	width  int
	height int
	data   []float32
}

// NewPlane creates a zeroed plane.
func NewPlane(width, height int) *Plane {
	width, height = max(width, 0), max(height, 0)
	return &Plane{width: width, height: height, data: make([]float32, width*height)}
}

// PlaneFromSlice wraps data, which must hold exactly width*height values.
func PlaneFromSlice(width, height int, data []float32) (*Plane, error) {
	if width < 0 || height < 0 || len(data) != width*height {
		return nil, fmt.Errorf("%w: plane %dx%d with %d values", ErrInvalidDimensions, width, height, len(data))
	}
	return &Plane{width: width, height: height, data: data}, nil
}

// Width returns the plane width.
func (p *Plane) Width() int { return p.width }

// Height returns the plane height.
func (p *Plane) Height() int { return p.height }

// Size returns the plane dimensions as a point.
func (p *Plane) Size() image.Point { return image.Pt(p.width, p.height) }

// Data returns the row-major values.
func (p *Plane) Data() []float32 { return p.data }

// At returns the value at (x, y) with clamp-to-edge addressing.
func (p *Plane) At(x, y int) float32 {
	x = max(0, min(x, p.width-1))
	y = max(0, min(y, p.height-1))
	return p.data[y*p.width+x]
}

// Set stores v at (x, y). Out-of-bounds writes are ignored.
func (p *Plane) Set(x, y int, v float32) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	p.data[y*p.width+x] = v
}

// Edge bits of an EdgeMask pixel.
const (
	// EdgeLeft marks a vertical edge on the pixel's left boundary.
	EdgeLeft uint8 = 1 << iota

	// EdgeTop marks a horizontal edge on the pixel's top boundary.
	EdgeTop
)

// EdgeMask is the output of edge detection: two boolean channels per pixel.
//
// Each boundary between two pixels is owned by exactly one of them: the
// pixel to its right owns a vertical boundary, the pixel below owns a
// horizontal one.
type EdgeMask struct {
	width  int
	height int
	bits   []uint8
}

// NewEdgeMask creates an empty mask.
func NewEdgeMask(width, height int) *EdgeMask {
	width, height = max(width, 0), max(height, 0)
	return &EdgeMask{width: width, height: height, bits: make([]uint8, width*height)}
}

// Width returns the mask width.
func (m *EdgeMask) Width() int { return m.width }

// Height returns the mask height.
func (m *EdgeMask) Height() int { return m.height }

// Size returns the mask dimensions as a point.
func (m *EdgeMask) Size() image.Point { return image.Pt(m.width, m.height) }

// Raw returns one byte per pixel holding EdgeLeft and EdgeTop bits.
// Executors write their output through it.
func (m *EdgeMask) Raw() []uint8 { return m.bits }

// Bits returns the edge bits at (x, y), zero outside the mask.
func (m *EdgeMask) Bits(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.bits[y*m.width+x]
}

// Left reports a vertical edge between (x-1, y) and (x, y).
func (m *EdgeMask) Left(x, y int) bool { return m.Bits(x, y)&EdgeLeft != 0 }

// Top reports a horizontal edge between (x, y-1) and (x, y).
func (m *EdgeMask) Top(x, y int) bool { return m.Bits(x, y)&EdgeTop != 0 }

// Count returns the number of pixels holding at least one edge.
func (m *EdgeMask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// Weight channels of a BlendWeights pixel.
const (
	// WeightUp is the weight of the pixel toward its top neighbor.
	WeightUp = iota

	// WeightFromAbove is the weight of the top neighbor toward the pixel.
	WeightFromAbove

	// WeightLeft is the weight of the pixel toward its left neighbor.
	WeightLeft

	// WeightFromLeft is the weight of the left neighbor toward the pixel.
	WeightFromLeft
)

// Directional holds the blend weights of one pixel toward its four
// neighbors.
type Directional struct {
	Top, Bottom, Left, Right float32
}

// BlendWeights is the output of the blending weight pass: four float32
// channels per pixel in [0, 1].
//
// A pixel stores both sides of the edges it owns (WeightUp/WeightFromAbove
// for its top boundary, WeightLeft/WeightFromLeft for its left boundary).
// Toward resolves the weights of a pixel toward each neighbor.
type BlendWeights struct {
	width  int
	height int
	data   []float32
}

// NewBlendWeights creates a zeroed weight buffer.
func NewBlendWeights(width, height int) *BlendWeights {
	width, height = max(width, 0), max(height, 0)
	return &BlendWeights{width: width, height: height, data: make([]float32, width*height*4)}
}

// Width returns the buffer width.
func (w *BlendWeights) Width() int { return w.width }

// Height returns the buffer height.
func (w *BlendWeights) Height() int { return w.height }

// Size returns the buffer dimensions as a point.
func (w *BlendWeights) Size() image.Point { return image.Pt(w.width, w.height) }

// Raw returns the row-major channel data, four values per pixel.
func (w *BlendWeights) Raw() []float32 { return w.data }

// At returns the four stored channels at (x, y), zero outside the buffer.
func (w *BlendWeights) At(x, y int) [4]float32 {
	if x < 0 || x >= w.width || y < 0 || y >= w.height {
		return [4]float32{}
	}
	i := (y*w.width + x) * 4
	return [4]float32{w.data[i], w.data[i+1], w.data[i+2], w.data[i+3]}
}

// Toward returns the weights of (x, y) toward its four neighbors.
func (w *BlendWeights) Toward(x, y int) Directional {
	self := w.At(x, y)
	return Directional{
		Top:    self[WeightUp],
		Bottom: w.At(x, y+1)[WeightFromAbove],
		Left:   self[WeightLeft],
		Right:  w.At(x+1, y)[WeightFromLeft],
	}
}

// set stores the four channels at (x, y), clamped to [0, 1].
func (w *BlendWeights) set(x, y int, v [4]float32) {
	i := (y*w.width + x) * 4
	for c := range v {
		w.data[i+c] = clampUnit(v[c])
	}
}

// NonZero returns the number of pixels with any non-zero weight.
func (w *BlendWeights) NonZero() int {
	n := 0
	for i := 0; i < len(w.data); i += 4 {
		if w.data[i] != 0 || w.data[i+1] != 0 || w.data[i+2] != 0 || w.data[i+3] != 0 {
			n++
		}
	}
	return n
}

func clampUnit(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
