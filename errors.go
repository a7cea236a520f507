package smaa

import (
	"errors"
	"fmt"
	"image"
)

// Sentinel errors. Typed errors below unwrap to them so callers can use
// errors.Is.
var (
	// ErrInvalidConfig is returned when a configuration value is out of range.
	ErrInvalidConfig = errors.New("smaa: invalid configuration")

	// ErrDimensionMismatch is returned when an input buffer does not match
	// the color buffer size.
	ErrDimensionMismatch = errors.New("smaa: dimension mismatch")

	// ErrTablesUnavailable is returned when the pattern tables are missing
	// or malformed. Processing cannot proceed without them.
	ErrTablesUnavailable = errors.New("smaa: pattern tables unavailable")

	// ErrNilFrame is returned when no color buffer is supplied.
	ErrNilFrame = errors.New("smaa: nil frame")

	// ErrInvalidDimensions is returned for frames with zero width or height.
	ErrInvalidDimensions = errors.New("smaa: invalid dimensions")

	// ErrFallbackToCPU indicates an executor cannot run a pass.
	// The filter transparently runs the pass on the CPU instead.
	ErrFallbackToCPU = errors.New("smaa: falling back to CPU execution")

	// ErrClosed is returned when a closed filter is used.
	ErrClosed = errors.New("smaa: filter closed")
)

// ConfigError describes a rejected configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("smaa: invalid configuration: %s = %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// DimensionMismatchError reports a buffer whose size differs from the
// color buffer.
type DimensionMismatchError struct {
	Buffer string
	Want   image.Point
	Got    image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("smaa: dimension mismatch: %s buffer is %dx%d, color buffer is %dx%d",
		e.Buffer, e.Got.X, e.Got.Y, e.Want.X, e.Want.Y)
}

// Unwrap returns ErrDimensionMismatch.
func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }
