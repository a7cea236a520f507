//go:build !nogpu

package gpu

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/smaa"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds the wait for one submitted pass.
const fenceTimeout = 5 * time.Second

// Executor runs the edge detection and neighborhood blending passes on a
// wgpu/hal device. It implements smaa.Executor.
//
// When no device can be opened, Init still succeeds and every Submit
// returns smaa.ErrFallbackToCPU, so registering the executor never
// breaks filtering. SetDeviceProvider can attach a device later.
type Executor struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	edges *kernel
	blend *kernel

	gpuReady       bool
	externalDevice bool // shared device, not destroyed on Close
}

var (
	_ smaa.Executor            = (*Executor)(nil)
	_ smaa.DeviceProviderAware = (*Executor)(nil)
)

// Name returns "wgpu".
func (e *Executor) Name() string { return "wgpu" }

// Init opens a Vulkan device and builds the pipelines. Failures are
// logged and leave the executor in CPU fallback mode.
func (e *Executor) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.initGPU(); err != nil {
		slogger().Warn("smaa/gpu: init failed, using CPU fallback", "err", err)
		e.releaseLocked()
	}
	return nil
}

// Ready reports whether passes run on the device.
func (e *Executor) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gpuReady
}

// SetLogger routes the package log output to l.
func (e *Executor) SetLogger(l *slog.Logger) { setLogger(l) }

// Close releases the pipelines, and the device unless it is shared.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()
}

func (e *Executor) releaseLocked() {
	e.destroyPipelines()
	if !e.externalDevice {
		if e.device != nil {
			e.device.Destroy()
		}
		if e.instance != nil {
			e.instance.Destroy()
		}
	}
	e.device = nil
	e.instance = nil
	e.queue = nil
	e.gpuReady = false
	e.externalDevice = false
}

// SetDeviceProvider switches the executor to a GPU device shared by the
// host renderer. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func (e *Executor) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("smaa/gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("smaa/gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("smaa/gpu: provider HalQueue is not hal.Queue")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.releaseLocked()
	e.device = device
	e.queue = queue
	e.externalDevice = true

	if err := e.createPipelines(); err != nil {
		e.gpuReady = false
		return fmt.Errorf("smaa/gpu: create pipelines with shared device: %w", err)
	}
	e.gpuReady = true
	slogger().Info("smaa/gpu: switched to shared GPU device")
	return nil
}

// Submit runs one pass. The blending weight pass always falls back to the
// CPU.
func (e *Executor) Submit(ctx context.Context, job *smaa.PassJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.gpuReady {
		return smaa.ErrFallbackToCPU
	}

	var err error
	switch job.Pass {
	case smaa.PassEdgeDetection:
		err = e.runEdges(job)
	case smaa.PassNeighborhoodBlending:
		err = e.runBlend(job)
	default:
		return smaa.ErrFallbackToCPU
	}
	if err != nil {
		return fmt.Errorf("smaa/gpu: %s pass: %w", job.Pass, err)
	}
	return ctx.Err()
}

func (e *Executor) runEdges(job *smaa.PassJob) error {
	w, h := job.Color.Width(), job.Color.Height()
	var aux []byte
	if job.Aux != nil {
		aux = packFloats(job.Aux.Data())
	} else {
		aux = packFloats(nil)
	}
	out, err := e.dispatch(e.edges, w, h,
		packParams(w, h, &job.Config, job.Aux != nil),
		[][]byte{packFrame(job.Color), aux},
		uint64(w*h*4)) //nolint:gosec // frame size fits uint64
	if err != nil {
		return err
	}
	unpackEdges(out, job.Edges)
	return nil
}

func (e *Executor) runBlend(job *smaa.PassJob) error {
	w, h := job.Color.Width(), job.Color.Height()
	out, err := e.dispatch(e.blend, w, h,
		packParams(w, h, &job.Config, false),
		[][]byte{packFrame(job.Color), packFloats(job.Weights.Raw())},
		uint64(w*h*16)) //nolint:gosec // frame size fits uint64
	if err != nil {
		return err
	}
	unpackFrame(out, job.Output)
	return nil
}

// dispatch uploads params and inputs, runs k over a w x h grid and reads
// back outSize bytes of the output buffer.
func (e *Executor) dispatch(k *kernel, w, h int, params []byte, inputs [][]byte, outSize uint64) ([]byte, error) {
	var buffers []hal.Buffer
	defer func() {
		for _, b := range buffers {
			e.device.DestroyBuffer(b)
		}
	}()
	newBuffer := func(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
		b, err := e.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
		if err != nil {
			return nil, fmt.Errorf("create %s buffer: %w", label, err)
		}
		buffers = append(buffers, b)
		return b, nil
	}

	paramsBuf, err := newBuffer("smaa_params", uint64(len(params)), gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	e.queue.WriteBuffer(paramsBuf, 0, params)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Size: uint64(len(params))}},
	}
	for i, data := range inputs {
		size := uint64(len(data))
		buf, err := newBuffer("smaa_input", size, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
		if err != nil {
			return nil, err
		}
		e.queue.WriteBuffer(buf, 0, data)
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: uint32(i + 1), Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Size: size}, //nolint:gosec // small binding index
		})
	}

	outBuf, err := newBuffer("smaa_output", outSize, gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return nil, err
	}
	stagingBuf, err := newBuffer("smaa_staging", outSize, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	entries = append(entries, gputypes.BindGroupEntry{
		Binding: uint32(len(inputs) + 1), Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Size: outSize}, //nolint:gosec // small binding index
	})

	bg, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "smaa_" + k.name + "_bind", Layout: k.bindLayout, Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer e.device.DestroyBindGroup(bg)

	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "smaa_" + k.name + "_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("smaa_" + k.name); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "smaa_" + k.name + "_pass"})
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(uint32(w+7)/8, uint32(h+7)/8, 1) //nolint:gosec // frame size fits uint32
	pass.End()
	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: outSize}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer e.device.DestroyFence(fence)
	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := e.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := e.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return readback, nil
}

func (e *Executor) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	e.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	e.device = openDev.Device
	e.queue = openDev.Queue
	if err := e.createPipelines(); err != nil {
		return fmt.Errorf("create pipelines: %w", err)
	}
	e.gpuReady = true
	slogger().Info("smaa/gpu: executor initialized", "adapter", selected.Info.Name)
	return nil
}

func (e *Executor) createPipelines() error {
	var err error
	if e.edges, err = newKernel(e.device, "edges", edgesShaderSource, 2); err != nil {
		return err
	}
	if e.blend, err = newKernel(e.device, "blend", blendShaderSource, 2); err != nil {
		return err
	}
	return nil
}

func (e *Executor) destroyPipelines() {
	e.edges.destroy(e.device)
	e.blend.destroy(e.device)
	e.edges = nil
	e.blend = nil
}
