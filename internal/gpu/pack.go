// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/smaa"
)

// paramsSize is the size of the WGSL Params uniform block.
const paramsSize = 32

// minStorageSize is the smallest storage buffer bound, used for the
// placeholder aux buffer when a frame has none.
const minStorageSize = 16

// depthThresholdScale matches the CPU depth detector.
const depthThresholdScale = 0.1

// packParams encodes the Params block shared by both shaders.
func packParams(w, h int, cfg *smaa.Config, hasAux bool) []byte {
	threshold := float32(cfg.Threshold)
	if cfg.Detector == smaa.DetectorDepth {
		threshold *= depthThresholdScale
	}
	b := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(w)) //nolint:gosec // frame size fits uint32
	binary.LittleEndian.PutUint32(b[4:], uint32(h)) //nolint:gosec // frame size fits uint32
	binary.LittleEndian.PutUint32(b[8:], uint32(cfg.Detector))
	binary.LittleEndian.PutUint32(b[12:], boolWord(hasAux))
	binary.LittleEndian.PutUint32(b[16:], math.Float32bits(threshold))
	binary.LittleEndian.PutUint32(b[20:], math.Float32bits(float32(cfg.LocalContrastAdaptation)))
	binary.LittleEndian.PutUint32(b[24:], boolWord(cfg.LinearBlending))
	return b
}

func boolWord(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// packFrame encodes a frame as array<vec4<f32>>.
func packFrame(f *smaa.Frame) []byte {
	w, h := f.Width(), f.Height()
	out := make([]byte, w*h*16)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := f.Pixel(x, y)
			binary.LittleEndian.PutUint32(out[i:], math.Float32bits(float32(c.R)))
			binary.LittleEndian.PutUint32(out[i+4:], math.Float32bits(float32(c.G)))
			binary.LittleEndian.PutUint32(out[i+8:], math.Float32bits(float32(c.B)))
			binary.LittleEndian.PutUint32(out[i+12:], math.Float32bits(float32(c.A)))
			i += 16
		}
	}
	return out
}

// packFloats encodes a float32 slice as array<f32>, padded to at least
// minStorageSize bytes.
func packFloats(v []float32) []byte {
	out := make([]byte, max(len(v)*4, minStorageSize))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

// unpackEdges copies array<u32> edge bits into the mask.
func unpackEdges(data []byte, dst *smaa.EdgeMask) {
	bits := dst.Raw()
	for i := range bits {
		bits[i] = uint8(binary.LittleEndian.Uint32(data[i*4:]) & uint32(smaa.EdgeLeft|smaa.EdgeTop)) //nolint:gosec // masked to 2 bits
	}
}

// unpackFrame stores array<vec4<f32>> colors into the frame.
func unpackFrame(data []byte, dst *smaa.Frame) {
	w, h := dst.Width(), dst.Height()
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.SetPixel(x, y, smaa.RGBA{
				R: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i:]))),
				G: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i+4:]))),
				B: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i+8:]))),
				A: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i+12:]))),
			})
			i += 16
		}
	}
}
