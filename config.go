package smaa

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DetectorMode selects the edge detector. Exactly one detector runs per frame.
type DetectorMode uint8

const (
	// DetectorLuma compares perceptual luma. Cheapest, the default.
	DetectorLuma DetectorMode = iota

	// DetectorColor compares the largest per-channel RGB delta.
	DetectorColor

	// DetectorDepth compares depth values to find geometry silhouettes.
	DetectorDepth
)

// String returns the detector name.
func (m DetectorMode) String() string {
	switch m {
	case DetectorLuma:
		return "luma"
	case DetectorColor:
		return "color"
	case DetectorDepth:
		return "depth"
	default:
		return fmt.Sprintf("DetectorMode(%d)", uint8(m))
	}
}

// ParseDetectorMode parses a detector name as returned by String.
func ParseDetectorMode(s string) (DetectorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "luma", "luminance", "0":
		return DetectorLuma, nil
	case "color", "colour", "1":
		return DetectorColor, nil
	case "depth", "2":
		return DetectorDepth, nil
	}
	return 0, &ConfigError{Field: "Detector", Value: s, Reason: "unknown detector"}
}

// Quality is a named set of search and detection settings.
type Quality uint8

const (
	// QualityLow searches 16 pixels with corner and diagonal handling off.
	QualityLow Quality = iota

	// QualityMedium searches 32 pixels.
	QualityMedium

	// QualityHigh searches 32 pixels with corner detection.
	QualityHigh

	// QualityUltra searches 32 pixels with corner and diagonal detection.
	QualityUltra
)

// String returns the preset name.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	case QualityUltra:
		return "ultra"
	default:
		return fmt.Sprintf("Quality(%d)", uint8(q))
	}
}

// ParseQuality parses a preset name as returned by String.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "0":
		return QualityLow, nil
	case "medium", "1":
		return QualityMedium, nil
	case "high", "2":
		return QualityHigh, nil
	case "ultra", "3":
		return QualityUltra, nil
	}
	return 0, &ConfigError{Field: "Quality", Value: s, Reason: "unknown quality preset"}
}

// DebugMode replaces the filtered output with a visualization.
type DebugMode uint8

const (
	// DebugNone returns the anti-aliased frame.
	DebugNone DebugMode = iota

	// DebugEdges renders the edge mask (red = left edge, green = top edge).
	DebugEdges

	// DebugBlendWeights renders the four weight channels as RGBA.
	DebugBlendWeights

	// DebugSearchTable renders the search table.
	DebugSearchTable

	// DebugAreaTable renders the area table.
	DebugAreaTable
)

// String returns the debug mode name.
func (m DebugMode) String() string {
	switch m {
	case DebugNone:
		return "none"
	case DebugEdges:
		return "edges"
	case DebugBlendWeights:
		return "weights"
	case DebugSearchTable:
		return "search"
	case DebugAreaTable:
		return "area"
	default:
		return fmt.Sprintf("DebugMode(%d)", uint8(m))
	}
}

// ParseDebugMode parses a debug mode name as returned by String.
func ParseDebugMode(s string) (DebugMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "", "0":
		return DebugNone, nil
	case "edges", "1":
		return DebugEdges, nil
	case "weights", "blendweights", "2":
		return DebugBlendWeights, nil
	case "search", "3":
		return DebugSearchTable, nil
	case "area", "4":
		return DebugAreaTable, nil
	}
	return 0, &ConfigError{Field: "Debug", Value: s, Reason: "unknown debug mode"}
}

// Limits of the configuration values.
const (
	MaxSearchStepsLimit     = 112
	MaxSearchStepsDiagLimit = 20
)

// Config holds the per-frame filter parameters. A Config is copied when a
// frame starts, so changing it affects the next frame only.
type Config struct {
	// Threshold is the contrast a neighbor delta must reach to mark an edge.
	// Range (0, 1]. Depth detection uses a tenth of it.
	Threshold float64

	// MaxSearchSteps bounds the orthogonal edge walk, in pixels per
	// direction. Range [1, 112].
	MaxSearchSteps int

	// MaxSearchStepsDiag bounds the diagonal edge walk. Range [0, 20].
	MaxSearchStepsDiag int

	// CornerRounding is how much sharp corners are still smoothed, in [0, 1].
	// 0 keeps corners sharp, 1 disables corner handling.
	CornerRounding float64

	// SubpixelBlending is the blend strength given to edges whose run has no
	// crossing edge and leaves the search range or the frame. Range [0, 1].
	SubpixelBlending float64

	// LocalContrastAdaptation drops edges much weaker than a neighboring
	// edge: an edge survives when no neighboring delta exceeds this factor
	// times its own delta. Must be >= 1.
	LocalContrastAdaptation float64

	// CornerDetection enables corner attenuation.
	CornerDetection bool

	// DiagonalDetection enables the diagonal pattern search.
	DiagonalDetection bool

	// LinearBlending blends colors in linear light, treating the frame as
	// sRGB encoded.
	LinearBlending bool

	// Detector selects the edge detector.
	Detector DetectorMode

	// Debug selects a debug visualization instead of the filtered frame.
	Debug DebugMode
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:               0.1,
		MaxSearchSteps:          16,
		MaxSearchStepsDiag:      8,
		CornerRounding:          0.25,
		SubpixelBlending:        0.25,
		LocalContrastAdaptation: 2.0,
		CornerDetection:         true,
		DiagonalDetection:       true,
		LinearBlending:          true,
		Detector:                DetectorLuma,
		Debug:                   DebugNone,
	}
}

// PresetConfig returns the default configuration adjusted to a quality
// preset.
func PresetConfig(q Quality) Config {
	c := DefaultConfig()
	switch q {
	case QualityLow:
		c.MaxSearchSteps = 16
		c.CornerDetection = false
		c.DiagonalDetection = false
	case QualityMedium:
		c.MaxSearchSteps = 32
		c.CornerDetection = false
		c.DiagonalDetection = false
	case QualityHigh:
		c.MaxSearchSteps = 32
		c.CornerDetection = true
		c.DiagonalDetection = false
	case QualityUltra:
		c.MaxSearchSteps = 32
		c.MaxSearchStepsDiag = 16
		c.CornerDetection = true
		c.DiagonalDetection = true
	}
	return c
}

// Validate checks every field and returns a *ConfigError for the first
// value out of range.
func (c Config) Validate() error {
	switch {
	case !(c.Threshold > 0 && c.Threshold <= 1):
		return &ConfigError{Field: "Threshold", Value: c.Threshold, Reason: "must be in (0, 1]"}
	case c.MaxSearchSteps < 1 || c.MaxSearchSteps > MaxSearchStepsLimit:
		return &ConfigError{Field: "MaxSearchSteps", Value: c.MaxSearchSteps, Reason: fmt.Sprintf("must be in [1, %d]", MaxSearchStepsLimit)}
	case c.MaxSearchStepsDiag < 0 || c.MaxSearchStepsDiag > MaxSearchStepsDiagLimit:
		return &ConfigError{Field: "MaxSearchStepsDiag", Value: c.MaxSearchStepsDiag, Reason: fmt.Sprintf("must be in [0, %d]", MaxSearchStepsDiagLimit)}
	case !unitRange(c.CornerRounding):
		return &ConfigError{Field: "CornerRounding", Value: c.CornerRounding, Reason: "must be in [0, 1]"}
	case !unitRange(c.SubpixelBlending):
		return &ConfigError{Field: "SubpixelBlending", Value: c.SubpixelBlending, Reason: "must be in [0, 1]"}
	case !(c.LocalContrastAdaptation >= 1) || math.IsInf(c.LocalContrastAdaptation, 1):
		return &ConfigError{Field: "LocalContrastAdaptation", Value: c.LocalContrastAdaptation, Reason: "must be a finite value >= 1"}
	case c.Detector > DetectorDepth:
		return &ConfigError{Field: "Detector", Value: c.Detector, Reason: "unknown detector"}
	case c.Debug > DebugAreaTable:
		return &ConfigError{Field: "Debug", Value: c.Debug, Reason: "unknown debug mode"}
	}
	return nil
}

func unitRange(v float64) bool {
	return v >= 0 && v <= 1
}

// Environment variables read by ConfigFromEnv.
const (
	EnvQuality        = "SMAA_QUALITY"
	EnvThreshold      = "SMAA_THRESHOLD"
	EnvMaxSearchSteps = "SMAA_MAX_SEARCH_STEPS"
	EnvCornerRounding = "SMAA_CORNER_ROUNDING"
	EnvDetector       = "SMAA_DETECTOR"
	EnvDebug          = "SMAA_DEBUG"
)

// ConfigFromEnv builds a configuration from environment style variables.
// lookup is usually os.LookupEnv. SMAA_QUALITY selects the base preset;
// numeric values are clamped to the ranges the render settings accept
// (threshold [0.01, 0.5], search steps [0, 112] with 0 raised to 1,
// rounding [0, 100] percent). Unparsable values return a *ConfigError.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := DefaultConfig()

	if v, ok := lookup(EnvQuality); ok {
		q, err := ParseQuality(v)
		if err != nil {
			return c, err
		}
		c = PresetConfig(q)
	}
	if v, ok := lookup(EnvThreshold); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			return c, &ConfigError{Field: "Threshold", Value: v, Reason: "not a number"}
		}
		c.Threshold = math.Max(0.01, math.Min(f, 0.5))
	}
	if v, ok := lookup(EnvMaxSearchSteps); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return c, &ConfigError{Field: "MaxSearchSteps", Value: v, Reason: "not an integer"}
		}
		c.MaxSearchSteps = max(1, min(n, MaxSearchStepsLimit))
	}
	if v, ok := lookup(EnvCornerRounding); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return c, &ConfigError{Field: "CornerRounding", Value: v, Reason: "not an integer percentage"}
		}
		c.CornerRounding = float64(max(0, min(n, 100))) / 100
	}
	if v, ok := lookup(EnvDetector); ok {
		m, err := ParseDetectorMode(v)
		if err != nil {
			return c, err
		}
		c.Detector = m
	}
	if v, ok := lookup(EnvDebug); ok {
		m, err := ParseDebugMode(v)
		if err != nil {
			return c, err
		}
		c.Debug = m
	}
	return c, nil
}
