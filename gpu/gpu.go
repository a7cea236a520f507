//go:build !nogpu

// Package gpu registers the wgpu executor for hardware-accelerated SMAA.
//
// Import this package to run the edge detection and neighborhood blending
// passes as compute shaders:
//
//	import _ "github.com/gogpu/smaa/gpu" // enable GPU execution
//
// If no GPU device can be opened, the executor stays registered in CPU
// fallback mode and every pass runs on the CPU. Build with -tags nogpu to
// leave the package out entirely.
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/smaa"
	gpuimpl "github.com/gogpu/smaa/internal/gpu"
)

func init() {
	e := &gpuimpl.Executor{}
	if err := smaa.RegisterExecutor(e); err != nil {
		smaa.Logger().Warn("smaa: GPU executor not available", "err", err)
		return
	}
	if !e.Ready() {
		smaa.Logger().Info("smaa: no GPU device, passes run on the CPU")
	}
}

// SetDeviceProvider makes the GPU executor use a device shared by the host
// application instead of its own. The provider must also expose the HAL
// device and queue (HalDevice() any and HalQueue() any).
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return smaa.SetExecutorDeviceProvider(provider)
}
