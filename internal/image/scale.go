package image

import (
	goimage "image"

	xdraw "golang.org/x/image/draw"
)

// PreviewMaxSide caps the longest side of interactive preview buffers.
// Previews run the identical pipeline as committed output, just on fewer
// pixels.
const PreviewMaxSide = 800

// PreviewSize returns the dimensions of a preview for a w×h source, scaling
// down so the longest side is at most maxSide. Sources already within the
// cap keep their size.
func PreviewSize(w, h, maxSide int) (int, int) {
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSide || longest == 0 {
		return w, h
	}

	ratio := float64(maxSide) / float64(longest)
	pw := int(float64(w)*ratio + 0.5)
	ph := int(float64(h)*ratio + 0.5)
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	return pw, ph
}

// Downscale returns a copy of src resized to the preview cap. A source
// already within the cap is cloned unchanged so previews of small images
// stay bit-identical to their full-resolution counterparts.
func Downscale(src *Buffer, maxSide int) *Buffer {
	pw, ph := PreviewSize(src.Width, src.Height, maxSide)
	if pw == src.Width && ph == src.Height {
		return src.Clone()
	}
	return Resize(src, pw, ph)
}

// Resize scales src to the exact target dimensions using the pure-Go
// Catmull-Rom scaler, which is deterministic across platforms.
func Resize(src *Buffer, width, height int) *Buffer {
	dst := goimage.NewNRGBA(goimage.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src.ToNRGBA(), goimage.Rect(0, 0, src.Width, src.Height), xdraw.Src, nil)
	return &Buffer{Width: width, Height: height, Pix: dst.Pix}
}
