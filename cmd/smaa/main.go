// Command smaa applies SMAA anti-aliasing to an image file.
//
// Usage:
//
//	smaa [flags] -in input.png -out output.png
//
// Defaults come from the SMAA_* environment variables (see
// smaa.ConfigFromEnv); flags given on the command line override them.
// Input and output formats follow the file extensions: PNG, JPEG, GIF,
// BMP and TIFF are written; WebP is read only.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/smaa"
	_ "github.com/gogpu/smaa/gpu" // enable GPU execution
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.LookupEnv, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("smaa: %v", err)
	}
}

func run(ctx context.Context, args []string, lookup func(string) (string, bool), stderr io.Writer) error {
	cfg, err := smaa.ConfigFromEnv(lookup)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("smaa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		in        = fs.String("in", "", "input image")
		out       = fs.String("out", "", "output image")
		depth     = fs.String("depth", "", "optional depth or luma image for the edge detector")
		quality   = fs.String("quality", "", "preset: low, medium, high, ultra")
		detector  = fs.String("detector", cfg.Detector.String(), "edge detector: luma, color, depth")
		debug     = fs.String("debug", cfg.Debug.String(), "debug output: none, edges, weights, search, area")
		threshold = fs.Float64("threshold", cfg.Threshold, "edge detection threshold")
		steps     = fs.Int("steps", cfg.MaxSearchSteps, "maximum orthogonal search steps")
		rounding  = fs.Float64("rounding", cfg.CornerRounding, "corner rounding in [0, 1]")
		linear    = fs.Bool("linear", cfg.LinearBlending, "blend in linear light")
		cpuOnly   = fs.Bool("cpu", false, "run every pass on the CPU")
		workers   = fs.Int("workers", 0, "CPU workers (0 = GOMAXPROCS)")
		verbose   = fs.Bool("v", false, "log pass timings")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		fs.Usage()
		return errors.New("-in and -out are required")
	}

	if *quality != "" {
		q, err := smaa.ParseQuality(*quality)
		if err != nil {
			return err
		}
		p := smaa.PresetConfig(q)
		cfg.MaxSearchSteps = p.MaxSearchSteps
		cfg.MaxSearchStepsDiag = p.MaxSearchStepsDiag
		cfg.CornerDetection = p.CornerDetection
		cfg.DiagonalDetection = p.DiagonalDetection
	}
	if cfg.Detector, err = smaa.ParseDetectorMode(*detector); err != nil {
		return err
	}
	if cfg.Debug, err = smaa.ParseDebugMode(*debug); err != nil {
		return err
	}
	cfg.Threshold = *threshold
	cfg.CornerRounding = *rounding
	cfg.LinearBlending = *linear
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "steps" {
			cfg.MaxSearchSteps = *steps
		}
	})

	if *verbose {
		smaa.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	opts := []smaa.Option{smaa.WithWorkers(*workers)}
	if *cpuOnly {
		opts = append(opts, smaa.WithCPUOnly())
	}
	filter, err := smaa.NewFilter(cfg, opts...)
	if err != nil {
		return err
	}
	defer filter.Close()

	img, err := imaging.Open(*in, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	frame := smaa.FrameFromImage(img)

	var aux *smaa.Plane
	if *depth != "" {
		if aux, err = loadPlane(*depth); err != nil {
			return err
		}
	}

	result, err := filter.Process(ctx, frame, aux)
	if err != nil {
		return err
	}
	if err := imaging.Save(result.ToImage(), *out); err != nil {
		return err
	}

	s := filter.Stats()
	smaa.Logger().Debug("smaa: done",
		"size", fmt.Sprintf("%dx%d", s.Width, s.Height),
		"edges", s.EdgePixels,
		"total", s.Total)
	return nil
}

// loadPlane reads a grayscale image into a plane of normalized values.
func loadPlane(path string) (*smaa.Plane, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	p := smaa.NewPlane(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			p.Set(x, y, float32(g.Y)/0xffff)
		}
	}
	return p, nil
}
