package smaa

import (
	"context"
	"image"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
)

// mockExecutor implements Executor for testing. With a delegate it runs
// passes through it; otherwise it returns submitErr (ErrFallbackToCPU by
// default).
type mockExecutor struct {
	name      string
	initErr   error
	submitErr error
	delegate  Executor

	mu      sync.Mutex
	closed  bool
	submits []PassID
	logger  *slog.Logger
}

func (m *mockExecutor) Name() string { return m.name }

func (m *mockExecutor) Init() error { return m.initErr }

func (m *mockExecutor) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockExecutor) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockExecutor) SetLogger(l *slog.Logger) { m.logger = l }

func (m *mockExecutor) Submit(ctx context.Context, job *PassJob) error {
	m.mu.Lock()
	m.submits = append(m.submits, job.Pass)
	m.mu.Unlock()

	if m.delegate != nil {
		return m.delegate.Submit(ctx, job)
	}
	if m.submitErr != nil {
		return m.submitErr
	}
	return ErrFallbackToCPU
}

func (m *mockExecutor) passes() []PassID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PassID(nil), m.submits...)
}

// resetExecutor clears the global executor state between tests.
func resetExecutor() {
	execMu.Lock()
	exec = nil
	execMu.Unlock()
}

// newTestFilter creates a CPU-only filter closed at test cleanup.
func newTestFilter(t *testing.T, cfg Config, opts ...Option) *Filter {
	t.Helper()
	opts = append([]Option{WithCPUOnly(), WithWorkers(4), WithBandRows(8)}, opts...)
	f, err := NewFilter(cfg, opts...)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	t.Cleanup(f.Close)
	return f
}

func solidFrame(w, h int, c RGBA) *Frame {
	f := NewFrame(w, h, FormatRGBA8)
	f.Fill(c)
	return f
}

// splitFrame is left for x < col and right for x >= col, full height.
func splitFrame(w, h, col int, left, right RGBA) *Frame {
	f := solidFrame(w, h, left)
	f.FillRect(image.Rect(col, 0, w, h), right)
	return f
}

// noiseFrame returns a deterministic pseudo-random frame.
func noiseFrame(w, h int, seed uint64) *Frame {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	f := NewFrame(w, h, FormatRGBA8)
	for i := range f.pix {
		f.pix[i] = uint8(r.IntN(256))
		if i%4 == 3 {
			f.pix[i] = 255
		}
	}
	return f
}

// edgeMaskFrom builds a mask from per-pixel bits, row-major.
func edgeMaskFrom(w, h int, bits map[image.Point]uint8) *EdgeMask {
	m := NewEdgeMask(w, h)
	for p, b := range bits {
		m.bits[p.Y*w+p.X] = b
	}
	return m
}

func mustProcess(t *testing.T, f *Filter, color *Frame, aux *Plane) *Frame {
	t.Helper()
	out, err := f.Process(context.Background(), color, aux)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	return out
}

var (
	black = RGB(0, 0, 0)
	white = RGB(1, 1, 1)
)
