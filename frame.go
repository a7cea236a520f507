package smaa

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	icolor "github.com/gogpu/smaa/internal/color"
)

// Frame is a rectangular RGBA color buffer.
//
// Frames are non-premultiplied. Pixel reads used by the passes clamp their
// coordinates to the frame, so a pass never reads outside the buffer.
type Frame struct {
	width  int
	height int
	format Format
	pix    []uint8
}

// NewFrame creates a zeroed frame. Negative sizes are treated as zero and
// an unknown format falls back to FormatRGBA8.
func NewFrame(width, height int, format Format) *Frame {
	width, height = max(width, 0), max(height, 0)
	if !format.IsValid() {
		format = FormatRGBA8
	}
	return &Frame{
		width:  width,
		height: height,
		format: format,
		pix:    make([]uint8, format.ImageBytes(width, height)),
	}
}

// FrameFromImage converts img into a frame. 16-bit sources produce
// FormatRGBA16 frames, everything else FormatRGBA8.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	if b.Empty() {
		return NewFrame(0, 0, FormatRGBA8)
	}
	switch src := img.(type) {
	case *image.NRGBA:
		f := NewFrame(b.Dx(), b.Dy(), FormatRGBA8)
		copyRows(f.pix, f.format.RowBytes(f.width), src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, f.height)
		return f
	case *image.NRGBA64:
		f := NewFrame(b.Dx(), b.Dy(), FormatRGBA16)
		copyRows(f.pix, f.format.RowBytes(f.width), src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride, f.height)
		return f
	case *image.RGBA64, *image.Gray16:
		dst := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return FrameFromImage(dst)
	default:
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return FrameFromImage(dst)
	}
}

func copyRows(dst []uint8, rowBytes int, src []uint8, srcStride, rows int) {
	if rowBytes == 0 {
		return
	}
	for y := 0; y < rows; y++ {
		copy(dst[y*rowBytes:(y+1)*rowBytes], src[y*srcStride:])
	}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// Format returns the pixel format.
func (f *Frame) Format() Format { return f.format }

// Size returns the frame dimensions as a point.
func (f *Frame) Size() image.Point { return image.Pt(f.width, f.height) }

// Pix returns the raw pixel bytes, row-major without padding.
func (f *Frame) Pix() []uint8 { return f.pix }

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	c := *f
	c.pix = append([]uint8(nil), f.pix...)
	return &c
}

// Pixel returns the color at (x, y). Out-of-bounds returns transparent black.
func (f *Frame) Pixel(x, y int) RGBA {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return RGBA{}
	}
	c := f.load(x, y)
	return RGBA{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}

// SetPixel sets the color at (x, y). Out-of-bounds writes are ignored.
func (f *Frame) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.store(x, y, icolor.ColorF32{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: float32(c.A)})
}

// Fill sets every pixel to c.
func (f *Frame) Fill(c RGBA) {
	if f.width == 0 || f.height == 0 {
		return
	}
	f.SetPixel(0, 0, c)
	bpp := f.format.BytesPerPixel()
	first := f.pix[:bpp]
	for i := bpp; i < len(f.pix); i += bpp {
		copy(f.pix[i:i+bpp], first)
	}
}

// FillRect sets the pixels of r (clipped to the frame) to c.
func (f *Frame) FillRect(r image.Rectangle, c RGBA) {
	r = r.Intersect(image.Rect(0, 0, f.width, f.height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.SetPixel(x, y, c)
		}
	}
}

// offset returns the byte offset of (x, y) after clamping to the frame.
func (f *Frame) offset(x, y int) int {
	x = max(0, min(x, f.width-1))
	y = max(0, min(y, f.height-1))
	return (y*f.width + x) * f.format.BytesPerPixel()
}

// load reads a normalized color with clamp-to-edge addressing.
func (f *Frame) load(x, y int) icolor.ColorF32 {
	i := f.offset(x, y)
	if f.format == FormatRGBA16 {
		p := f.pix[i : i+8 : i+8]
		return icolor.ColorF32{
			R: icolor.FromUnorm16(binary.BigEndian.Uint16(p[0:])),
			G: icolor.FromUnorm16(binary.BigEndian.Uint16(p[2:])),
			B: icolor.FromUnorm16(binary.BigEndian.Uint16(p[4:])),
			A: icolor.FromUnorm16(binary.BigEndian.Uint16(p[6:])),
		}
	}
	p := f.pix[i : i+4 : i+4]
	return icolor.ColorF32{
		R: icolor.FromUnorm8(p[0]),
		G: icolor.FromUnorm8(p[1]),
		B: icolor.FromUnorm8(p[2]),
		A: icolor.FromUnorm8(p[3]),
	}
}

// loadLinear reads a color and converts its RGB channels to linear light.
func (f *Frame) loadLinear(x, y int) icolor.ColorF32 {
	if f.format == FormatRGBA8 {
		p := f.pix[f.offset(x, y):]
		return icolor.ColorF32{
			R: icolor.SRGBToLinearFast(p[0]),
			G: icolor.SRGBToLinearFast(p[1]),
			B: icolor.SRGBToLinearFast(p[2]),
			A: icolor.FromUnorm8(p[3]),
		}
	}
	return icolor.ToLinear(f.load(x, y))
}

// store writes a normalized color, clamping each channel.
func (f *Frame) store(x, y int, c icolor.ColorF32) {
	i := f.offset(x, y)
	if f.format == FormatRGBA16 {
		p := f.pix[i : i+8 : i+8]
		binary.BigEndian.PutUint16(p[0:], icolor.ToUnorm16(c.R))
		binary.BigEndian.PutUint16(p[2:], icolor.ToUnorm16(c.G))
		binary.BigEndian.PutUint16(p[4:], icolor.ToUnorm16(c.B))
		binary.BigEndian.PutUint16(p[6:], icolor.ToUnorm16(c.A))
		return
	}
	p := f.pix[i : i+4 : i+4]
	p[0] = icolor.ToUnorm8(c.R)
	p[1] = icolor.ToUnorm8(c.G)
	p[2] = icolor.ToUnorm8(c.B)
	p[3] = icolor.ToUnorm8(c.A)
}

// copyPixel copies the raw pixel at (x, y) from src, which must have the
// same format and size.
func (f *Frame) copyPixel(src *Frame, x, y int) {
	bpp := f.format.BytesPerPixel()
	i := (y*f.width + x) * bpp
	copy(f.pix[i:i+bpp], src.pix[i:i+bpp])
}

// ToImage returns a copy of the frame as *image.NRGBA or *image.NRGBA64.
func (f *Frame) ToImage() image.Image {
	r := image.Rect(0, 0, f.width, f.height)
	if f.format == FormatRGBA16 {
		img := image.NewNRGBA64(r)
		copy(img.Pix, f.pix)
		return img
	}
	img := image.NewNRGBA(r)
	copy(img.Pix, f.pix)
	return img
}

// SavePNG saves the frame to a PNG file.
func (f *Frame) SavePNG(path string) error {
	file, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(file, f.ToImage()); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// At implements the image.Image interface.
func (f *Frame) At(x, y int) color.Color {
	return f.Pixel(x, y).Color()
}

// Bounds implements the image.Image interface.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// ColorModel implements the image.Image interface.
func (f *Frame) ColorModel() color.Model {
	if f.format == FormatRGBA16 {
		return color.NRGBA64Model
	}
	return color.NRGBAModel
}
