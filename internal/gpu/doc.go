// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// Package gpu runs SMAA passes as wgpu/hal compute shaders.
//
// The edge detection and neighborhood blending passes are WGSL kernels
// compiled to SPIR-V with naga and dispatched in 8x8 workgroups. The
// blending weight pass depends on the area and search tables and on
// unbounded per-pixel walks; the executor declines it with
// smaa.ErrFallbackToCPU and the filter runs it on the CPU.
//
// Frames travel to the device as vec4<f32> arrays, so 8-bit and 16-bit
// frames take the same path. Each Submit is one command buffer and one
// fence wait.
package gpu
