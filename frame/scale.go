package frame

import (
	"image"

	"golang.org/x/image/draw"
)

// FitSize returns the largest size with the aspect ratio of w x h that
// fits in maxW x maxH. Frames that already fit keep their size.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}

// ScaleInto resamples f into dst with bilinear filtering. When the sizes
// match the pixels are copied in RGBA order.
func ScaleInto(dst *image.RGBA, f *Frame) {
	if dst.Bounds().Size() == f.Bounds().Size() {
		f.CopyRGBA(dst.Pix)
		return
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), f.RGBA(), f.Bounds(), draw.Src, nil)
}
