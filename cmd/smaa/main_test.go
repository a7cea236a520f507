package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func writeStaircase(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			c := color.NRGBA{A: 255}
			if x > 2*y/3+6 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	require.NoError(t, imaging.Save(img, path))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeStaircase(t, in)

	var stderr bytes.Buffer
	err := run(context.Background(), []string{"-in", in, "-out", out, "-cpu", "-quality", "ultra"}, noEnv, &stderr)
	require.NoError(t, err)

	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())
}

func TestRun_DepthPlane(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeStaircase(t, in)

	err := run(context.Background(),
		[]string{"-in", in, "-depth", in, "-detector", "depth", "-out", filepath.Join(dir, "out.bmp"), "-cpu"},
		noEnv, &bytes.Buffer{})
	assert.NoError(t, err)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeStaircase(t, in)
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"missing output", []string{"-in", in}, nil},
		{"missing input file", []string{"-in", filepath.Join(dir, "nope.png"), "-out", out}, nil},
		{"bad detector", []string{"-in", in, "-out", out, "-detector", "sobel"}, nil},
		{"bad quality", []string{"-in", in, "-out", out, "-quality", "max"}, nil},
		{"invalid threshold", []string{"-in", in, "-out", out, "-threshold", "0"}, nil},
		{"bad env", []string{"-in", in, "-out", out}, map[string]string{"SMAA_THRESHOLD": "high"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}
			err := run(context.Background(), append(tt.args, "-cpu"), lookup, &bytes.Buffer{})
			assert.Error(t, err)
		})
	}
}
