package smaa

import icolor "github.com/gogpu/smaa/internal/color"

// depthThresholdScale scales Config.Threshold for depth discontinuities,
// which are much smaller than color ones in normalized depth buffers.
const depthThresholdScale = 0.1

// edgeDetector computes the edge mask for a band of rows.
type edgeDetector struct {
	src       *Frame
	aux       *Plane
	mode      DetectorMode
	threshold float32
	lca       float32
}

func newEdgeDetector(src *Frame, aux *Plane, cfg *Config) *edgeDetector {
	d := &edgeDetector{
		src:       src,
		aux:       aux,
		mode:      cfg.Detector,
		threshold: float32(cfg.Threshold),
		lca:       float32(cfg.LocalContrastAdaptation),
	}
	if d.mode == DetectorDepth {
		d.threshold *= depthThresholdScale
	}
	return d
}

// scalar returns the single-channel value compared by the luma and depth
// detectors.
func (d *edgeDetector) scalar(x, y int) float32 {
	if d.aux != nil {
		return d.aux.At(x, y)
	}
	c := d.src.load(x, y)
	if d.mode == DetectorDepth {
		return c.R
	}
	return icolor.Luma(c)
}

// delta returns the discontinuity between (x0, y0) and (x1, y1). Reads are
// clamped, so any delta across the frame border is zero.
func (d *edgeDetector) delta(x0, y0, x1, y1 int) float32 {
	if d.mode == DetectorColor {
		return icolor.MaxDelta(d.src.load(x0, y0), d.src.load(x1, y1))
	}
	v := d.scalar(x0, y0) - d.scalar(x1, y1)
	if v < 0 {
		return -v
	}
	return v
}

// rows writes edge bits for rows [y0, y1) into dst.
func (d *edgeDetector) rows(dst *EdgeMask, y0, y1 int) {
	w := dst.width
	for y := y0; y < y1; y++ {
		row := dst.bits[y*w : (y+1)*w]
		for x := range row {
			row[x] = d.pixel(x, y)
		}
	}
}

func (d *edgeDetector) pixel(x, y int) uint8 {
	left := d.delta(x, y, x-1, y)
	top := d.delta(x, y, x, y-1)

	edgeL := left >= d.threshold
	edgeT := top >= d.threshold
	if !edgeL && !edgeT {
		return 0
	}

	if d.mode != DetectorDepth {
		// Local contrast adaptation: drop edges dominated by a stronger
		// neighboring discontinuity.
		m := max(left, top,
			d.delta(x, y, x+1, y),
			d.delta(x, y, x, y+1),
			d.delta(x-1, y, x-2, y),
			d.delta(x, y-1, x, y-2))
		edgeL = edgeL && m <= d.lca*left
		edgeT = edgeT && m <= d.lca*top
	}

	var bits uint8
	if edgeL {
		bits |= EdgeLeft
	}
	if edgeT {
		bits |= EdgeTop
	}
	return bits
}
