package smaa

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"
)

func TestProcess_UniformIsIdentity(t *testing.T) {
	for _, format := range []Format{FormatRGBA8, FormatRGBA16} {
		t.Run(format.String(), func(t *testing.T) {
			src := NewFrame(23, 17, format)
			src.Fill(RGBA{0.2, 0.4, 0.6, 0.8})

			f := newTestFilter(t, DefaultConfig())
			out := mustProcess(t, f, src, nil)

			if !bytes.Equal(out.Pix(), src.Pix()) {
				t.Error("uniform input was modified")
			}
			if s := f.Stats(); s.EdgePixels != 0 {
				t.Errorf("Stats().EdgePixels = %d, want 0", s.EdgePixels)
			}
		})
	}
}

func TestBlend_ZeroWeightsCopyExactly(t *testing.T) {
	src := noiseFrame(31, 19, 5)
	f := newTestFilter(t, DefaultConfig())

	out, err := f.Blend(context.Background(), src, NewBlendWeights(31, 19))
	if err != nil {
		t.Fatalf("Blend() error = %v", err)
	}
	if !bytes.Equal(out.Pix(), src.Pix()) {
		t.Error("pixels with zero weights must be copied unchanged")
	}
}

func TestProcess_VerticalEdgePartialBlend(t *testing.T) {
	const w, h, col = 10, 6, 5
	src := splitFrame(w, h, col, black, white)

	tests := []struct {
		name      string
		linear    bool
		wantLeft  uint8 // column col-1, originally black
		wantRight uint8 // column col, originally white
	}{
		{"gamma", false, 32, 223},
		{"linear", true, 99, 240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LinearBlending = tt.linear
			out := mustProcess(t, newTestFilter(t, cfg), src, nil)

			for y := range h {
				for x := range w {
					got := out.Pix()[(y*w+x)*4]
					want := src.Pix()[(y*w+x)*4]
					switch x {
					case col - 1:
						want = tt.wantLeft
					case col:
						want = tt.wantRight
					}
					if got != want {
						t.Errorf("pixel (%d, %d).R = %d, want %d", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestProcess_Deterministic(t *testing.T) {
	src := noiseFrame(64, 48, 11)
	cfg := PresetConfig(QualityUltra)

	var ref []uint8
	for _, workers := range []int{1, 3, 8} {
		f := newTestFilter(t, cfg, WithWorkers(workers), WithBandRows(workers*5))
		for range 2 {
			out := mustProcess(t, f, src, nil)
			if ref == nil {
				ref = out.Pix()
				continue
			}
			if !bytes.Equal(out.Pix(), ref) {
				t.Fatalf("workers=%d: output differs between runs", workers)
			}
		}
	}
}

func TestProcess_TinyFrames(t *testing.T) {
	checker := NewFrame(2, 2, FormatRGBA16)
	checker.SetPixel(0, 0, white)
	checker.SetPixel(1, 1, white)
	checker.SetPixel(1, 0, black)
	checker.SetPixel(0, 1, black)

	tests := []struct {
		name string
		src  *Frame
	}{
		{"1x1", solidFrame(1, 1, RGB(0.5, 0.1, 0.9))},
		{"2x2 checker", checker},
		{"2x2 noise", noiseFrame(2, 2, 1)},
		{"1x5 column", noiseFrame(1, 5, 2)},
		{"5x1 row", noiseFrame(5, 1, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []DetectorMode{DetectorLuma, DetectorColor, DetectorDepth} {
				cfg := PresetConfig(QualityUltra)
				cfg.Detector = mode
				out := mustProcess(t, newTestFilter(t, cfg), tt.src, nil)
				if out.Size() != tt.src.Size() || out.Format() != tt.src.Format() {
					t.Fatalf("%s: output %v %s, want %v %s", mode, out.Size(), out.Format(), tt.src.Size(), tt.src.Format())
				}
			}
		})
	}
}

func TestBlend_WeightsMismatch(t *testing.T) {
	f := newTestFilter(t, DefaultConfig())
	_, err := f.Blend(context.Background(), solidFrame(4, 4, white), NewBlendWeights(4, 5))

	var dm *DimensionMismatchError
	if !errors.As(err, &dm) {
		t.Fatalf("Blend() error = %v, want *DimensionMismatchError", err)
	}
	if dm.Buffer != "weights" || dm.Got != image.Pt(4, 5) {
		t.Errorf("error = %+v", dm)
	}
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Error("error should match ErrDimensionMismatch")
	}
}

func BenchmarkProcess(b *testing.B) {
	src := noiseFrame(1024, 768, 1)
	f, err := NewFilter(DefaultConfig(), WithCPUOnly())
	if err != nil {
		b.Fatal(err)
	}
	defer f.Close()
	dst := NewFrame(1024, 768, FormatRGBA8)

	b.ResetTimer()
	for range b.N {
		if err := f.ProcessInto(context.Background(), dst, src, nil); err != nil {
			b.Fatal(err)
		}
	}
}
