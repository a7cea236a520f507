package smaa

import icolor "github.com/gogpu/smaa/internal/color"

// debugFrame renders the buffer selected by the active debug mode.
func (f *Filter) debugFrame(color *Frame) *Frame {
	switch f.cfg.Debug {
	case DebugEdges:
		return EdgesImage(f.edges, color.format)
	case DebugBlendWeights:
		return WeightsImage(f.weights, color.format)
	case DebugSearchTable:
		return FrameFromImage(f.tables.SearchImage())
	case DebugAreaTable:
		return FrameFromImage(f.tables.AreaImage())
	}
	return color.Clone()
}

// EdgesImage renders an edge mask: red marks left edges, green top edges.
func EdgesImage(m *EdgeMask, format Format) *Frame {
	out := NewFrame(m.width, m.height, format)
	for y := range m.height {
		for x := range m.width {
			var c icolor.ColorF32
			c.A = 1
			if m.Left(x, y) {
				c.R = 1
			}
			if m.Top(x, y) {
				c.G = 1
			}
			out.store(x, y, c)
		}
	}
	return out
}

// WeightsImage renders the four stored weight channels as RGBA.
func WeightsImage(w *BlendWeights, format Format) *Frame {
	out := NewFrame(w.width, w.height, format)
	for y := range w.height {
		for x := range w.width {
			v := w.At(x, y)
			out.store(x, y, icolor.ColorF32{R: v[0], G: v[1], B: v[2], A: v[3]})
		}
	}
	return out
}
