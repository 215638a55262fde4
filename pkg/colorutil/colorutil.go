// Package colorutil provides shared color utilities for Scene Studio.
package colorutil

import (
	"image/color"
)

// MaskBrush is the stroke color used while painting removal masks.
// Semi-transparent so the underlying image stays visible.
var MaskBrush = color.RGBA{R: 255, G: 64, B: 64, A: 160}

// Luma returns the Rec.601 luma of an RGB triple in the 0-255 range.
func Luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// ClampByte clamps a float to the 0-255 byte range and rounds it.
func ClampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
