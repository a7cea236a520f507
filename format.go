package smaa

// Format represents the pixel storage format of a Frame.
type Format uint8

const (
	// FormatRGBA8 is 32-bit non-premultiplied RGBA, 4 bytes per pixel,
	// laid out like image.NRGBA.
	FormatRGBA8 Format = iota

	// FormatRGBA16 is 64-bit non-premultiplied RGBA, 8 bytes per pixel,
	// big-endian channels laid out like image.NRGBA64.
	FormatRGBA16

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// BitsPerChannel is the number of bits per color channel.
	BitsPerChannel int
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGBA8:  {BytesPerPixel: 4, BitsPerChannel: 8},
	FormatRGBA16: {BytesPerPixel: 8, BitsPerChannel: 16},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// BitsPerChannel returns the number of bits per color channel.
func (f Format) BitsPerChannel() int {
	return f.Info().BitsPerChannel
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBA16:
		return "RGBA16"
	default:
		return "Unknown"
	}
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
