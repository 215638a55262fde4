package image

import (
	"scene-studio/pkg/colorutil"
	"scene-studio/pkg/geometry"
)

// ComposeProposal alpha-blends a product image onto a copy of the scene at
// the proposed position and scale. This is the local ghost preview shown
// while a placement is pending; the committed composite comes from the
// remote generation service and will generally differ.
//
// position is in image-relative percent with origin at the scene's top-left;
// it locates the center of the product. scale multiplies the product's
// natural size. opacity in (0,1] dims the ghost so it reads as provisional.
func ComposeProposal(scene, product *Buffer, position geometry.Point2D, scale, opacity float64) *Buffer {
	out := scene.Clone()
	if product == nil || scale <= 0 || opacity <= 0 {
		return out
	}
	if opacity > 1 {
		opacity = 1
	}

	pw := int(float64(product.Width)*scale + 0.5)
	ph := int(float64(product.Height)*scale + 0.5)
	if pw < 1 || ph < 1 {
		return out
	}
	scaled := product
	if pw != product.Width || ph != product.Height {
		scaled = Resize(product, pw, ph)
	}

	cx := position.X / 100 * float64(scene.Width)
	cy := position.Y / 100 * float64(scene.Height)
	offsetX := int(cx) - pw/2
	offsetY := int(cy) - ph/2

	blendOver(out, scaled, offsetX, offsetY, opacity)
	return out
}

// blendOver composites src onto dst at the given offset using straight-alpha
// over blending scaled by opacity. Pixels falling outside dst are skipped.
func blendOver(dst, src *Buffer, offsetX, offsetY int, opacity float64) {
	for y := 0; y < src.Height; y++ {
		dy := y + offsetY
		if dy < 0 || dy >= dst.Height {
			continue
		}
		for x := 0; x < src.Width; x++ {
			dx := x + offsetX
			if dx < 0 || dx >= dst.Width {
				continue
			}

			si := src.PixOffset(x, y)
			alpha := float64(src.Pix[si+3]) / 255 * opacity
			if alpha <= 0 {
				continue
			}

			di := dst.PixOffset(dx, dy)
			inv := 1 - alpha
			dst.Pix[di] = colorutil.ClampByte(float64(src.Pix[si])*alpha + float64(dst.Pix[di])*inv)
			dst.Pix[di+1] = colorutil.ClampByte(float64(src.Pix[si+1])*alpha + float64(dst.Pix[di+1])*inv)
			dst.Pix[di+2] = colorutil.ClampByte(float64(src.Pix[si+2])*alpha + float64(dst.Pix[di+2])*inv)

			da := float64(dst.Pix[di+3]) / 255
			dst.Pix[di+3] = colorutil.ClampByte((alpha + da*inv) * 255)
		}
	}
}

// OverlayStrokes composites a stroke layer over a copy of base for display
// while masking mode is active.
func OverlayStrokes(base *Buffer, strokes *StrokeMask) *Buffer {
	out := base.Clone()
	if strokes == nil {
		return out
	}
	blendOver(out, strokes.Layer(), 0, 0, 1)
	return out
}
