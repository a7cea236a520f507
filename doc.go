// Package smaa implements Subpixel Morphological Anti-Aliasing, a three-pass
// image-space filter that removes aliasing from a finished frame.
//
// # Pipeline
//
// Every frame runs the same linear pipeline:
//
//  1. Edge detection marks luma, color or depth discontinuities in an
//     [EdgeMask].
//  2. Blending weight computation walks each edge to its ends, classifies the
//     crossing pattern and looks up coverage areas in the precomputed pattern
//     tables (see package tables), producing [BlendWeights].
//  3. Neighborhood blending mixes every pixel with its neighbors according to
//     the weights.
//
// A pass starts only after the previous one has written its whole output.
// Passes are data-parallel: the CPU executor splits each pass into row bands
// run on a worker pool, and an optional GPU executor runs edge detection and
// blending as compute shaders.
//
// # Quick Start
//
//	f, err := smaa.NewFilter(smaa.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	src := smaa.FrameFromImage(img)
//	out, err := f.Process(ctx, src, nil)
//
// # GPU Execution
//
// The GPU executor is opt-in:
//
//	import _ "github.com/gogpu/smaa/gpu"
//
// If the GPU cannot run a pass the filter falls back to the CPU for that pass.
//
// # Errors
//
// Invalid configuration, mismatched buffer sizes and missing pattern tables
// are reported before any pass runs. Use [errors.Is] with [ErrInvalidConfig],
// [ErrDimensionMismatch] and [ErrTablesUnavailable].
package smaa
