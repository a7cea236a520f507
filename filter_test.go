package smaa

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/smaa/tables"
)

// =============================================================================
// Construction and validation
// =============================================================================

func TestNewFilter_InvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"negative threshold", func(c *Config) { c.Threshold = -0.1 }, "Threshold"},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }, "Threshold"},
		{"zero search", func(c *Config) { c.MaxSearchSteps = 0 }, "MaxSearchSteps"},
		{"rounding above one", func(c *Config) { c.CornerRounding = 1.5 }, "CornerRounding"},
		{"unknown detector", func(c *Config) { c.Detector = 9 }, "Detector"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)

			f, err := NewFilter(cfg)
			if f != nil {
				f.Close()
				t.Fatal("NewFilter() returned a filter for an invalid config")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("error = %v, want *ConfigError for %s", err, tt.field)
			}
		})
	}
}

func TestNewFilter_TablesUnavailable(t *testing.T) {
	_, err := NewFilter(DefaultConfig(), WithTables(&tables.Set{}))
	if !errors.Is(err, ErrTablesUnavailable) {
		t.Fatalf("error = %v, want ErrTablesUnavailable", err)
	}
	if !errors.Is(err, tables.ErrInvalid) {
		t.Errorf("error = %v, should wrap tables.ErrInvalid", err)
	}
}

func TestFilter_SetConfig(t *testing.T) {
	f := newTestFilter(t, DefaultConfig())

	bad := DefaultConfig()
	bad.MaxSearchSteps = MaxSearchStepsLimit + 1
	if err := f.SetConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("SetConfig() error = %v, want ErrInvalidConfig", err)
	}
	if f.Config() != DefaultConfig() {
		t.Error("rejected config must not be applied")
	}

	good := PresetConfig(QualityHigh)
	if err := f.SetConfig(good); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if f.Config() != good {
		t.Error("SetConfig did not apply the config")
	}
}

func TestProcess_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newTestFilter(t, DefaultConfig())

	t.Run("nil frame", func(t *testing.T) {
		if _, err := f.Process(ctx, nil, nil); !errors.Is(err, ErrNilFrame) {
			t.Errorf("error = %v, want ErrNilFrame", err)
		}
	})

	t.Run("empty frame", func(t *testing.T) {
		if _, err := f.Process(ctx, NewFrame(0, 4, FormatRGBA8), nil); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("error = %v, want ErrInvalidDimensions", err)
		}
	})

	t.Run("aux mismatch", func(t *testing.T) {
		out, err := f.Process(ctx, solidFrame(8, 8, white), NewPlane(8, 7))
		if out != nil {
			t.Error("no frame may be returned on error")
		}
		var dm *DimensionMismatchError
		if !errors.As(err, &dm) {
			t.Fatalf("error = %v, want *DimensionMismatchError", err)
		}
		if dm.Buffer != "aux" || dm.Want != image.Pt(8, 8) || dm.Got != image.Pt(8, 7) {
			t.Errorf("error = %+v", dm)
		}
	})

	t.Run("destination mismatch", func(t *testing.T) {
		err := f.ProcessInto(ctx, NewFrame(8, 8, FormatRGBA16), solidFrame(8, 8, white), nil)
		if !errors.Is(err, ErrDimensionMismatch) {
			t.Errorf("error = %v, want ErrDimensionMismatch", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		out, err := f.Process(cctx, solidFrame(8, 8, white), nil)
		if out != nil || !errors.Is(err, context.Canceled) {
			t.Errorf("Process() = %v, %v; want nil, context.Canceled", out, err)
		}
	})
}

func TestProcess_Closed(t *testing.T) {
	f, err := NewFilter(DefaultConfig(), WithCPUOnly())
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	f.Close()

	if _, err := f.Process(context.Background(), solidFrame(2, 2, white), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}

// =============================================================================
// Cancellation
// =============================================================================

// cancelAfterEdges runs passes on a CPU executor and cancels the frame once
// edge detection has finished.
type cancelAfterEdges struct {
	cpu    *CPUExecutor
	cancel context.CancelFunc
}

func (e *cancelAfterEdges) Name() string { return "cancel-after-edges" }
func (e *cancelAfterEdges) Init() error  { return nil }
func (e *cancelAfterEdges) Close()       {}

func (e *cancelAfterEdges) Submit(ctx context.Context, job *PassJob) error {
	err := e.cpu.Submit(ctx, job)
	if job.Pass == PassEdgeDetection {
		e.cancel()
	}
	return err
}

func TestProcessInto_CanceledMidFrame(t *testing.T) {
	cpu := NewCPUExecutor(2)
	t.Cleanup(cpu.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f, err := NewFilter(DefaultConfig(), WithExecutor(&cancelAfterEdges{cpu: cpu, cancel: cancel}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(f.Close)

	src := splitFrame(16, 16, 8, black, white)
	dst := solidFrame(16, 16, RGB(0, 1, 0))
	before := dst.Clone()

	err = f.ProcessInto(ctx, dst, src, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ProcessInto() error = %v, want context.Canceled", err)
	}
	if !bytes.Equal(dst.Pix(), before.Pix()) {
		t.Error("destination was written by a canceled frame")
	}
}

// =============================================================================
// Executors
// =============================================================================

func TestProcess_ExecutorFallback(t *testing.T) {
	src := noiseFrame(40, 24, 17)
	ref := mustProcess(t, newTestFilter(t, DefaultConfig()), src, nil)

	tests := []struct {
		name string
		mock *mockExecutor
		warn bool
	}{
		{"declines", &mockExecutor{name: "declining"}, false},
		{"fails", &mockExecutor{name: "failing", submitErr: errors.New("device lost")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := Logger()
			t.Cleanup(func() { SetLogger(orig) })
			var buf bytes.Buffer
			SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

			f, err := NewFilter(DefaultConfig(), WithExecutor(tt.mock))
			if err != nil {
				t.Fatal(err)
			}
			t.Cleanup(f.Close)

			out := mustProcess(t, f, src, nil)
			if !bytes.Equal(out.Pix(), ref.Pix()) {
				t.Error("fallback output differs from CPU output")
			}
			if got := len(tt.mock.passes()); got != 3 {
				t.Errorf("executor saw %d passes, want 3", got)
			}
			for p, name := range f.Stats().Executors {
				if name != "cpu" {
					t.Errorf("pass %s ran on %q, want cpu", PassID(p), name)
				}
			}
			if got := strings.Contains(buf.String(), "falling back to CPU"); got != tt.warn {
				t.Errorf("warning logged = %v, want %v: %s", got, tt.warn, buf.String())
			}
		})
	}
}

func TestProcess_AcceleratedExecutor(t *testing.T) {
	cpu := NewCPUExecutor(2)
	t.Cleanup(cpu.Close)
	mock := &mockExecutor{name: "mock", delegate: cpu}

	f, err := NewFilter(DefaultConfig(), WithExecutor(mock))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(f.Close)

	mustProcess(t, f, splitFrame(12, 12, 6, black, white), nil)

	s := f.Stats()
	for p, name := range s.Executors {
		if name != "mock" {
			t.Errorf("pass %s ran on %q, want mock", PassID(p), name)
		}
	}
	if s.Width != 12 || s.Height != 12 || s.EdgePixels != 12 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestProcess_UsesRegisteredExecutor(t *testing.T) {
	resetExecutor()
	t.Cleanup(resetExecutor)

	mock := &mockExecutor{name: "registered"}
	if err := RegisterExecutor(mock); err != nil {
		t.Fatal(err)
	}

	f, err := NewFilter(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(f.Close)
	mustProcess(t, f, solidFrame(4, 4, white), nil)

	if got := mock.passes(); len(got) != 3 || got[0] != PassEdgeDetection || got[2] != PassNeighborhoodBlending {
		t.Errorf("registered executor saw passes %v", got)
	}

	cpuOnly := newTestFilter(t, DefaultConfig())
	mustProcess(t, cpuOnly, solidFrame(4, 4, white), nil)
	if got := len(mock.passes()); got != 3 {
		t.Errorf("CPU-only filter submitted to the registered executor (%d passes)", got)
	}
}

func TestRegisterExecutor(t *testing.T) {
	resetExecutor()
	t.Cleanup(resetExecutor)

	if err := RegisterExecutor(nil); err == nil {
		t.Fatal("expected error when registering nil executor")
	}

	failing := &mockExecutor{name: "failing", initErr: errors.New("no adapter")}
	if err := RegisterExecutor(failing); err == nil {
		t.Fatal("expected Init error")
	}
	if RegisteredExecutor() != nil {
		t.Fatal("executor with failed Init must not be registered")
	}

	first := &mockExecutor{name: "first"}
	second := &mockExecutor{name: "second"}
	if err := RegisterExecutor(first); err != nil {
		t.Fatal(err)
	}
	if err := RegisterExecutor(second); err != nil {
		t.Fatal(err)
	}
	if !first.isClosed() {
		t.Error("replaced executor should be closed")
	}
	if RegisteredExecutor() != second {
		t.Error("RegisteredExecutor() should return the latest executor")
	}

	if err := SetExecutorDeviceProvider(struct{}{}); err != nil {
		t.Errorf("SetExecutorDeviceProvider() on a non-sharing executor = %v, want nil", err)
	}

	UnregisterExecutor()
	if !second.isClosed() || RegisteredExecutor() != nil {
		t.Error("UnregisterExecutor should close and clear the executor")
	}
}

// =============================================================================
// Output paths
// =============================================================================

func TestProcessInto_InPlace(t *testing.T) {
	src := noiseFrame(20, 20, 23)
	f := newTestFilter(t, DefaultConfig())
	want := mustProcess(t, f, src, nil)

	frame := src.Clone()
	if err := f.ProcessInto(context.Background(), frame, frame, nil); err != nil {
		t.Fatalf("ProcessInto() error = %v", err)
	}
	if !bytes.Equal(frame.Pix(), want.Pix()) {
		t.Error("in-place output differs from Process output")
	}
}

func TestProcess_DebugModes(t *testing.T) {
	src := splitFrame(10, 4, 5, black, white)

	tests := []struct {
		mode DebugMode
		size image.Point
		seen func(t *testing.T, out *Frame)
	}{
		{DebugEdges, image.Pt(10, 4), func(t *testing.T, out *Frame) {
			if c := out.Pixel(5, 2); c.R != 1 || c.G != 0 {
				t.Errorf("edge pixel = %v, want red", c)
			}
			if c := out.Pixel(2, 2); c.R != 0 || c.G != 0 {
				t.Errorf("flat pixel = %v, want black", c)
			}
		}},
		{DebugBlendWeights, image.Pt(10, 4), func(t *testing.T, out *Frame) {
			if b := out.Pix()[(2*10+5)*4+2]; b != 32 {
				t.Errorf("left weight channel = %d, want 32", b)
			}
		}},
		{DebugSearchTable, image.Pt(tables.SearchKeys, 2), nil},
		{DebugAreaTable, image.Pt(tables.AreaImageWidth, tables.AreaImageHeight), nil},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Debug = tt.mode
			out := mustProcess(t, newTestFilter(t, cfg), src, nil)
			if out.Size() != tt.size {
				t.Fatalf("output size = %v, want %v", out.Size(), tt.size)
			}
			if tt.seen != nil {
				tt.seen(t, out)
			}
		})
	}
}

func TestFilter_BufferCacheAlternatingSizes(t *testing.T) {
	f := newTestFilter(t, DefaultConfig(), WithBufferCache(2))
	small := noiseFrame(24, 16, 1)
	large := noiseFrame(40, 33, 2)

	wantSmall := mustProcess(t, f, small, nil)
	wantLarge := mustProcess(t, f, large, nil)
	for range 3 {
		if got := mustProcess(t, f, small, nil); !bytes.Equal(got.Pix(), wantSmall.Pix()) {
			t.Fatal("small frame differs after size switch")
		}
		if got := mustProcess(t, f, large, nil); !bytes.Equal(got.Pix(), wantLarge.Pix()) {
			t.Fatal("large frame differs after size switch")
		}
	}

	s := f.buffers.Stats()
	if s.Len != 2 || s.Misses != 2 {
		t.Errorf("buffer cache stats = %+v, want 2 entries and 2 misses", s)
	}
}
