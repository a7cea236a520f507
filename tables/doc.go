// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tables holds the precomputed pattern tables used by the SMAA
// blending weight pass.
//
// Two tables are provided:
//
//   - The area table maps a crossing-edge pattern and the distances to both
//     ends of an edge run to the coverage area of the revectorized line over
//     the current pixel. It has an orthogonal part (16 patterns, square-root
//     compressed distances, 7 subsample offsets) and a diagonal part
//     (16 patterns, linear distances, 5 subsample offsets).
//   - The search table maps the edge bits of the next two pixels along a walk
//     to the number of pixels the edge run still extends.
//
// Tables are a pure function of the pattern scheme. [Generate] computes them
// once per process; [Decode] loads a bundled asset written by [Encode].
package tables
