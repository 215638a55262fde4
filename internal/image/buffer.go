// Package image provides pixel buffers, the edit pipeline, mask encoding,
// and local compositing for Scene Studio.
package image

import (
	"fmt"
	goimage "image"
	"image/draw"
)

// Buffer is a width×height raster of row-major RGBA byte samples.
//
// A Buffer is owned by exactly one stage at a time. Every transform in this
// package reads its source and writes a freshly allocated destination, so
// multi-pass pipelines compose without read/write hazards.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8 // len == Width*Height*4
}

// NewBuffer allocates a zeroed (transparent black) buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Validate checks the buffer shape invariant.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid buffer dimensions %dx%d", b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("buffer length %d does not match %dx%d", len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * 4
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    make([]uint8, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// Equal reports whether two buffers have identical dimensions and samples.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.Width != other.Width || b.Height != other.Height {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

// FromImage converts any image.Image into a Buffer. The source is drawn
// through the standard library converter so premultiplied formats come out as
// straight RGBA samples.
func FromImage(src goimage.Image) *Buffer {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	nrgba := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)

	return &Buffer{Width: w, Height: h, Pix: nrgba.Pix}
}

// ToNRGBA wraps the buffer in an *image.NRGBA sharing the same pixel data.
// The caller must not hand the result to another stage while still mutating
// the buffer.
func (b *Buffer) ToNRGBA() *goimage.NRGBA {
	return &goimage.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   goimage.Rect(0, 0, b.Width, b.Height),
	}
}
