package smaa

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/smaa/tables"
)

// PassID identifies one of the three filter passes.
type PassID uint8

const (
	// PassEdgeDetection computes the edge mask from the color or
	// auxiliary buffer.
	PassEdgeDetection PassID = iota

	// PassBlendingWeight computes blend weights from the edge mask.
	PassBlendingWeight

	// PassNeighborhoodBlending mixes each pixel with its neighbors.
	PassNeighborhoodBlending
)

// String returns the pass name.
func (p PassID) String() string {
	switch p {
	case PassEdgeDetection:
		return "edges"
	case PassBlendingWeight:
		return "weights"
	case PassNeighborhoodBlending:
		return "blend"
	default:
		return "unknown"
	}
}

// PassJob describes one pass over one frame.
//
// Inputs are read-only for the duration of the pass. The output buffer for
// the pass is preallocated with the frame size and zeroed; an executor must
// write every pixel of it before Submit returns nil.
//
//	PassEdgeDetection:        Color, Aux -> Edges
//	PassBlendingWeight:       Edges, Tables -> Weights
//	PassNeighborhoodBlending: Color, Weights -> Output
type PassJob struct {
	Pass   PassID
	Config Config
	Tables *tables.Set

	Color   *Frame
	Aux     *Plane
	Edges   *EdgeMask
	Weights *BlendWeights
	Output  *Frame
}

// Executor runs filter passes.
//
// The CPU executor is always available. An accelerated executor is
// registered through RegisterExecutor, usually by a blank import:
//
//	import _ "github.com/gogpu/smaa/gpu" // enables GPU execution
//
// When an executor returns ErrFallbackToCPU or any other error, the filter
// runs that pass on the CPU instead.
type Executor interface {
	// Name returns the executor name (e.g., "cpu", "wgpu").
	Name() string

	// Init acquires executor resources. Called once during registration.
	Init() error

	// Close releases executor resources.
	Close()

	// Submit runs job to completion and returns once the output buffer is
	// fully written. A canceled ctx aborts the pass with ctx.Err().
	Submit(ctx context.Context, job *PassJob) error
}

// DeviceProviderAware is an optional interface for executors that can share
// a GPU device with the host renderer instead of creating their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	execMu sync.RWMutex
	exec   Executor
)

// RegisterExecutor registers an accelerated executor.
//
// Only one executor can be registered. Subsequent calls replace the
// previous one, which is closed. Init is called during registration; if it
// fails the executor is not registered and the error is returned.
func RegisterExecutor(e Executor) error {
	if e == nil {
		return errors.New("smaa: executor must not be nil")
	}
	if err := e.Init(); err != nil {
		return err
	}
	propagateLogger(e, Logger())

	execMu.Lock()
	old := exec
	exec = e
	execMu.Unlock()
	if old != nil && old != e {
		old.Close()
	}
	Logger().Info("smaa: executor registered", "executor", e.Name())
	return nil
}

// RegisteredExecutor returns the registered executor, or nil if none.
func RegisteredExecutor() Executor {
	execMu.RLock()
	e := exec
	execMu.RUnlock()
	return e
}

// UnregisterExecutor removes and closes the registered executor.
func UnregisterExecutor() {
	execMu.Lock()
	old := exec
	exec = nil
	execMu.Unlock()
	if old != nil {
		old.Close()
	}
}

// SetExecutorDeviceProvider passes a device provider to the registered
// executor so that it reuses the host's GPU device. It is a no-op when no
// executor is registered or the executor does not share devices.
//
// The provider should implement HalDevice() any and HalQueue() any methods
// that return wgpu/hal types.
func SetExecutorDeviceProvider(provider any) error {
	e := RegisteredExecutor()
	if e == nil {
		return nil
	}
	if dpa, ok := e.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
