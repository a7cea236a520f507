// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// kernel is one compute pipeline with the binding layout shared by both
// passes: a uniform Params block at binding 0, read-only storage inputs,
// and a read-write storage output in the last binding.
type kernel struct {
	name       string
	inputs     int
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

func newKernel(device hal.Device, name, wgsl string, inputs int) (*kernel, error) {
	code, err := compileSPIRV(wgsl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	k := &kernel{name: name, inputs: inputs}
	k.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "smaa_" + name,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: create shader module: %w", name, err)
	}

	entries := []gputypes.BindGroupLayoutEntry{
		{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
	}
	for i := 1; i <= inputs; i++ {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding: uint32(i), Visibility: gputypes.ShaderStageCompute, //nolint:gosec // small binding index
			Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
		})
	}
	entries = append(entries, gputypes.BindGroupLayoutEntry{
		Binding: uint32(inputs + 1), Visibility: gputypes.ShaderStageCompute, //nolint:gosec // small binding index
		Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
	})

	k.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "smaa_" + name + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		k.destroy(device)
		return nil, fmt.Errorf("%s: create bind group layout: %w", name, err)
	}

	k.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "smaa_" + name + "_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		k.destroy(device)
		return nil, fmt.Errorf("%s: create pipeline layout: %w", name, err)
	}

	k.pipeline, err = device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "smaa_" + name + "_pipeline", Layout: k.pipeLayout,
		Compute: hal.ComputeState{Module: k.shader, EntryPoint: "main"},
	})
	if err != nil {
		k.destroy(device)
		return nil, fmt.Errorf("%s: create compute pipeline: %w", name, err)
	}
	return k, nil
}

func (k *kernel) destroy(device hal.Device) {
	if k == nil || device == nil {
		return
	}
	if k.pipeline != nil {
		device.DestroyComputePipeline(k.pipeline)
	}
	if k.pipeLayout != nil {
		device.DestroyPipelineLayout(k.pipeLayout)
	}
	if k.bindLayout != nil {
		device.DestroyBindGroupLayout(k.bindLayout)
	}
	if k.shader != nil {
		device.DestroyShaderModule(k.shader)
	}
}
