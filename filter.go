package smaa

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/smaa/internal/cache"
	"github.com/gogpu/smaa/tables"
)

// Stats describes the last frame processed by a Filter.
type Stats struct {
	Width, Height int

	// Per-pass wall time.
	EdgeDetection     time.Duration
	BlendingWeight    time.Duration
	NeighborhoodBlend time.Duration
	Total             time.Duration

	// EdgePixels is the number of pixels with at least one edge.
	EdgePixels int

	// Executors holds the name of the executor that ran each pass,
	// indexed by PassID.
	Executors [3]string
}

// Filter applies SMAA to frames.
//
// A Filter keeps its scratch buffers between frames and serializes calls to
// Process. It is safe for concurrent use; run several filters to process
// frames in parallel.
type Filter struct {
	mu sync.Mutex

	cfg     Config
	tables  *tables.Set
	cpu     *CPUExecutor
	accel   Executor
	cpuOnly bool
	closed  bool

	buffers *cache.Cache[frameKey, *passBuffers]
	edges   *EdgeMask
	weights *BlendWeights

	stats Stats
}

// NewFilter validates cfg, loads the pattern tables and starts the CPU
// workers.
func NewFilter(cfg Config, opts ...Option) (*Filter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	set := o.tables
	if set == nil {
		set = tables.Generate()
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTablesUnavailable, err)
	}

	cpu := NewCPUExecutor(o.workers)
	if o.bandRows > 0 {
		cpu.bandRows = o.bandRows
	}

	return &Filter{
		cfg:     cfg,
		tables:  set,
		cpu:     cpu,
		accel:   o.executor,
		cpuOnly: o.cpuOnly,
		buffers: cache.New[frameKey, *passBuffers](o.bufferSizes),
	}, nil
}

// frameKey identifies the frame geometry a set of pass buffers serves.
type frameKey struct {
	width, height int
	format        Format
}

// passBuffers are the intermediate buffers for one frame geometry.
type passBuffers struct {
	edges   *EdgeMask
	weights *BlendWeights
	scratch *Frame
}

// Config returns the active configuration.
func (f *Filter) Config() Config {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

// SetConfig replaces the configuration used by subsequent frames.
func (f *Filter) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	f.cfg = cfg
	f.mu.Unlock()
	return nil
}

// Stats returns statistics for the last successfully processed frame.
func (f *Filter) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// Close stops the CPU workers. Subsequent calls return ErrClosed.
func (f *Filter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.cpu.Close()
	f.buffers.Clear()
	f.edges, f.weights = nil, nil
}

// Process filters color and returns a new frame of the same size and
// format. aux is optional: depth for DetectorDepth, precomputed luma for
// DetectorLuma; it is ignored by DetectorColor.
//
// No partial frame is ever returned: on error, including cancellation of
// ctx, the result is nil.
func (f *Filter) Process(ctx context.Context, color *Frame, aux *Plane) (*Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.validate(ctx, color, aux); err != nil {
		return nil, err
	}
	out := NewFrame(color.width, color.height, color.format)
	if err := f.run(ctx, out, color, aux); err != nil {
		return nil, err
	}
	if f.cfg.Debug != DebugNone {
		return f.debugFrame(color), nil
	}
	return out, nil
}

// ProcessInto filters color into dst, which must have the same size and
// format. dst may be color itself. dst is only written once every pass has
// completed.
func (f *Filter) ProcessInto(ctx context.Context, dst, color *Frame, aux *Plane) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if dst == nil {
		return fmt.Errorf("%w: destination", ErrNilFrame)
	}
	if err := f.validate(ctx, color, aux); err != nil {
		return err
	}
	if dst.Size() != color.Size() || dst.format != color.format {
		return &DimensionMismatchError{Buffer: "destination", Want: color.Size(), Got: dst.Size()}
	}

	b := f.buffersFor(color)
	if b.scratch == nil {
		b.scratch = NewFrame(color.width, color.height, color.format)
	}
	if err := f.run(ctx, b.scratch, color, aux); err != nil {
		return err
	}
	src := b.scratch
	if f.cfg.Debug != DebugNone {
		src = f.debugFrame(color)
		if src.Size() != dst.Size() {
			return &DimensionMismatchError{Buffer: "destination", Want: src.Size(), Got: dst.Size()}
		}
	}
	copy(dst.pix, src.pix)
	return nil
}

// DetectEdges runs only the edge detection pass.
func (f *Filter) DetectEdges(ctx context.Context, color *Frame, aux *Plane) (*EdgeMask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.validate(ctx, color, aux); err != nil {
		return nil, err
	}
	edges := NewEdgeMask(color.width, color.height)
	job := f.job(PassEdgeDetection)
	job.Color, job.Aux, job.Edges = color, f.auxFor(aux), edges
	if _, err := f.runPass(ctx, job); err != nil {
		return nil, err
	}
	return edges, nil
}

// ComputeWeights runs only the blending weight pass.
func (f *Filter) ComputeWeights(ctx context.Context, edges *EdgeMask) (*BlendWeights, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.check(ctx); err != nil {
		return nil, err
	}
	if edges == nil {
		return nil, fmt.Errorf("%w: edge mask", ErrNilFrame)
	}
	weights := NewBlendWeights(edges.width, edges.height)
	job := f.job(PassBlendingWeight)
	job.Edges, job.Weights = edges, weights
	if _, err := f.runPass(ctx, job); err != nil {
		return nil, err
	}
	return weights, nil
}

// Blend runs only the neighborhood blending pass.
func (f *Filter) Blend(ctx context.Context, color *Frame, weights *BlendWeights) (*Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.validate(ctx, color, nil); err != nil {
		return nil, err
	}
	if weights == nil {
		return nil, fmt.Errorf("%w: blend weights", ErrNilFrame)
	}
	if weights.Size() != color.Size() {
		return nil, &DimensionMismatchError{Buffer: "weights", Want: color.Size(), Got: weights.Size()}
	}
	out := NewFrame(color.width, color.height, color.format)
	job := f.job(PassNeighborhoodBlending)
	job.Color, job.Weights, job.Output = color, weights, out
	if _, err := f.runPass(ctx, job); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Filter) check(ctx context.Context) error {
	if f.closed {
		return ErrClosed
	}
	return ctx.Err()
}

// validate rejects a frame before any pass runs.
func (f *Filter) validate(ctx context.Context, color *Frame, aux *Plane) error {
	if err := f.check(ctx); err != nil {
		return err
	}
	if color == nil {
		return ErrNilFrame
	}
	if color.width <= 0 || color.height <= 0 || !color.format.IsValid() {
		return fmt.Errorf("%w: %dx%d %s", ErrInvalidDimensions, color.width, color.height, color.format)
	}
	if len(color.pix) != color.format.ImageBytes(color.width, color.height) {
		return fmt.Errorf("%w: %d bytes for %dx%d %s", ErrInvalidDimensions, len(color.pix), color.width, color.height, color.format)
	}
	if aux != nil && aux.Size() != color.Size() {
		return &DimensionMismatchError{Buffer: "aux", Want: color.Size(), Got: aux.Size()}
	}
	return nil
}

// auxFor returns the auxiliary plane the active detector reads.
func (f *Filter) auxFor(aux *Plane) *Plane {
	switch f.cfg.Detector {
	case DetectorColor:
		return nil
	case DetectorDepth:
		if aux == nil {
			Logger().Warn("smaa: depth detector without depth buffer, using red channel")
		}
	}
	return aux
}

func (f *Filter) job(pass PassID) *PassJob {
	return &PassJob{Pass: pass, Config: f.cfg, Tables: f.tables}
}

func (f *Filter) ensureBuffers(color *Frame) {
	b := f.buffersFor(color)
	f.edges, f.weights = b.edges, b.weights
	clear(f.weights.data)
}

// buffersFor returns the cached pass buffers for the geometry of color.
func (f *Filter) buffersFor(color *Frame) *passBuffers {
	key := frameKey{color.width, color.height, color.format}
	return f.buffers.GetOrCreate(key, func() *passBuffers {
		return &passBuffers{
			edges:   NewEdgeMask(key.width, key.height),
			weights: NewBlendWeights(key.width, key.height),
		}
	})
}

// run executes the three passes. Each pass is a barrier: the next one
// starts only after the previous has written its whole output.
func (f *Filter) run(ctx context.Context, out, color *Frame, aux *Plane) error {
	start := time.Now()
	f.ensureBuffers(color)

	stats := Stats{Width: color.width, Height: color.height}
	durations := [3]*time.Duration{&stats.EdgeDetection, &stats.BlendingWeight, &stats.NeighborhoodBlend}

	jobs := [3]*PassJob{
		f.job(PassEdgeDetection),
		f.job(PassBlendingWeight),
		f.job(PassNeighborhoodBlending),
	}
	jobs[0].Color, jobs[0].Aux, jobs[0].Edges = color, f.auxFor(aux), f.edges
	jobs[1].Edges, jobs[1].Weights = f.edges, f.weights
	jobs[2].Color, jobs[2].Weights, jobs[2].Output = color, f.weights, out

	last := len(jobs)
	switch f.cfg.Debug {
	case DebugEdges:
		last = 1
	case DebugBlendWeights:
		last = 2
	case DebugSearchTable, DebugAreaTable:
		last = 0
	}

	for i, job := range jobs[:last] {
		t := time.Now()
		name, err := f.runPass(ctx, job)
		if err != nil {
			return err
		}
		*durations[i] = time.Since(t)
		stats.Executors[job.Pass] = name
	}

	stats.Total = time.Since(start)
	if last > 0 {
		stats.EdgePixels = f.edges.Count()
	}
	f.stats = stats

	Logger().Debug("smaa: frame processed",
		"width", stats.Width,
		"height", stats.Height,
		"edge_pixels", stats.EdgePixels,
		"edges", stats.EdgeDetection,
		"weights", stats.BlendingWeight,
		"blend", stats.NeighborhoodBlend,
		"total", stats.Total)
	return nil
}

// accelerator returns the non-CPU executor to try first, if any.
func (f *Filter) accelerator() Executor {
	if f.cpuOnly {
		return nil
	}
	if f.accel != nil {
		return f.accel
	}
	return RegisteredExecutor()
}

// runPass submits job to the accelerator and falls back to the CPU
// executor when it declines or fails.
func (f *Filter) runPass(ctx context.Context, job *PassJob) (string, error) {
	if e := f.accelerator(); e != nil {
		err := e.Submit(ctx, job)
		if err == nil {
			return e.Name(), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, ErrFallbackToCPU) {
			Logger().Debug("smaa: pass declined by executor", "executor", e.Name(), "pass", job.Pass)
		} else {
			Logger().Warn("smaa: executor failed, falling back to CPU", "executor", e.Name(), "pass", job.Pass, "err", err)
		}
		resetOutput(job)
	}
	if err := f.cpu.Submit(ctx, job); err != nil {
		return "", err
	}
	return f.cpu.Name(), nil
}

// resetOutput clears whatever a failed executor may have written.
func resetOutput(job *PassJob) {
	switch job.Pass {
	case PassEdgeDetection:
		clear(job.Edges.bits)
	case PassBlendingWeight:
		clear(job.Weights.data)
	}
}
