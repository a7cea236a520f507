package smaa

import icolor "github.com/gogpu/smaa/internal/color"

// minBlendWeight is the summed weight below which a pixel is copied
// unchanged.
const minBlendWeight = 1e-5

// blender mixes each pixel with its neighbors according to the weights.
type blender struct {
	src     *Frame
	weights *BlendWeights
	linear  bool
}

func newBlender(src *Frame, weights *BlendWeights, cfg *Config) *blender {
	return &blender{src: src, weights: weights, linear: cfg.LinearBlending}
}

func (b *blender) load(x, y int) icolor.ColorF32 {
	if b.linear {
		return b.src.loadLinear(x, y)
	}
	return b.src.load(x, y)
}

// rows writes the blended rows [y0, y1) into dst.
func (b *blender) rows(dst *Frame, y0, y1 int) {
	for y := y0; y < y1; y++ {
		for x := 0; x < dst.width; x++ {
			b.pixel(dst, x, y)
		}
	}
}

func (b *blender) pixel(dst *Frame, x, y int) {
	d := b.weights.Toward(x, y)
	if d.Right+d.Bottom+d.Left+d.Top < minBlendWeight {
		dst.copyPixel(b.src, x, y)
		return
	}

	cur := b.load(x, y)
	var out icolor.ColorF32
	if max(d.Right, d.Left) > max(d.Bottom, d.Top) {
		out = mix2(cur, b.load(x+1, y), b.load(x-1, y), d.Right, d.Left)
	} else {
		out = mix2(cur, b.load(x, y+1), b.load(x, y-1), d.Bottom, d.Top)
	}
	if b.linear {
		out = icolor.ToSRGB(out)
	}
	dst.store(x, y, out)
}

// mix2 blends cur toward two opposite neighbors and averages the results
// by their normalized weights.
func mix2(cur, pos, neg icolor.ColorF32, wPos, wNeg float32) icolor.ColorF32 {
	sum := wPos + wNeg
	a := icolor.Lerp(cur, pos, wPos).Scale(wPos / sum)
	c := icolor.Lerp(cur, neg, wNeg).Scale(wNeg / sum)
	return a.Add(c)
}
