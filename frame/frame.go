// Package frame holds the pixel buffer handed from the renderer to encoders.
package frame

import (
	"image"
	"image/color"
	"time"
)

// Frame is one rendered animation tick. Pixels are stored contiguously,
// four bytes each in B, G, R, A order.
type Frame struct {
	Index  int
	Start  time.Duration // presentation start
	End    time.Duration // presentation end
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// New allocates a zeroed width x height frame.
func New(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Stride: 4 * width,
		Pix:    make([]byte, 4*width*height),
	}
}

// Offset returns the index of the first byte of pixel (x, y).
func (f *Frame) Offset(x, y int) int {
	return y*f.Stride + x*4
}

// Pixels returns the number of pixels in the frame.
func (f *Frame) Pixels() int {
	return len(f.Pix) / 4
}

// Fill sets every pixel to the given channel values.
func (f *Frame) Fill(b, g, r, a uint8) {
	if len(f.Pix) == 0 {
		return
	}
	f.Pix[0], f.Pix[1], f.Pix[2], f.Pix[3] = b, g, r, a
	for filled := 4; filled < len(f.Pix); filled *= 2 {
		copy(f.Pix[filled:], f.Pix[:filled])
	}
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return color.RGBA{}
	}
	i := f.Offset(x, y)
	return color.RGBA{R: f.Pix[i+2], G: f.Pix[i+1], B: f.Pix[i], A: f.Pix[i+3]}
}

// RGBA returns a copy of the frame in image.RGBA channel order.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	f.CopyRGBA(img.Pix)
	return img
}

// CopyRGBA writes the frame into dst in R, G, B, A order.
// dst must hold at least len(f.Pix) bytes.
func (f *Frame) CopyRGBA(dst []byte) {
	src := f.Pix
	for i := 0; i+3 < len(src); i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = src[i+3]
	}
}
