package image

import (
	"math"

	"scene-studio/pkg/colorutil"
)

// Edits is one immutable set of slider values. Brightness, contrast and
// saturation are percentages where 100 is identity; sharpen and vignette are
// percentages where 0 is identity. A change to any slider replaces the whole
// record.
type Edits struct {
	Brightness int
	Contrast   int
	Saturation int
	Sharpen    int
	Vignette   int
}

// DefaultEdits returns the identity edit record.
func DefaultEdits() Edits {
	return Edits{Brightness: 100, Contrast: 100, Saturation: 100, Sharpen: 0, Vignette: 0}
}

// IsIdentity reports whether applying the edits would leave every pixel
// unchanged.
func (e Edits) IsIdentity() bool {
	return e.Brightness == 100 && e.Contrast == 100 && e.Saturation == 100 &&
		e.Sharpen <= 0 && e.Vignette <= 0
}

// Apply runs the full edit pipeline over src and returns a new buffer.
// The pass order is fixed: sharpen, then color adjustment, then vignette.
// Sharpening runs first so the convolution sees raw samples rather than
// tonally shifted ones; the vignette runs last so its darkening is never
// itself sharpened or re-tinted. Identity stages are skipped.
func Apply(src *Buffer, edits Edits) (*Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	out := src
	if edits.Sharpen > 0 {
		out = Sharpen(out, edits.Sharpen)
	}
	if edits.Brightness != 100 || edits.Contrast != 100 || edits.Saturation != 100 {
		out = AdjustColor(out, edits.Brightness, edits.Contrast, edits.Saturation)
	}
	if edits.Vignette > 0 {
		out = Vignette(out, edits.Vignette)
	}
	if out == src {
		out = src.Clone()
	}
	return out, nil
}

// sharpenKernel is the 3x3 unsharp kernel applied per RGB channel.
var sharpenKernel = [3][3]float64{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// Sharpen applies the 3x3 unsharp convolution and blends the result with the
// original: out = orig*(1-s) + conv*s where s = amount/100. Border pixels use
// edge replication. Alpha passes through untouched. amount <= 0 returns an
// unmodified copy, amount is capped at 100.
func Sharpen(src *Buffer, amount int) *Buffer {
	if amount <= 0 {
		return src.Clone()
	}
	if amount > 100 {
		amount = 100
	}
	s := float64(amount) / 100

	w, h := src.Width, src.Height
	out := NewBuffer(w, h)

	clampX := func(x int) int {
		if x < 0 {
			return 0
		}
		if x >= w {
			return w - 1
		}
		return x
	}
	clampY := func(y int) int {
		if y < 0 {
			return 0
		}
		if y >= h {
			return h - 1
		}
		return y
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var conv [3]float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					weight := sharpenKernel[ky+1][kx+1]
					if weight == 0 {
						continue
					}
					i := src.PixOffset(clampX(x+kx), clampY(y+ky))
					conv[0] += weight * float64(src.Pix[i])
					conv[1] += weight * float64(src.Pix[i+1])
					conv[2] += weight * float64(src.Pix[i+2])
				}
			}

			i := src.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				orig := float64(src.Pix[i+c])
				out.Pix[i+c] = colorutil.ClampByte(orig*(1-s) + conv[c]*s)
			}
			out.Pix[i+3] = src.Pix[i+3]
		}
	}
	return out
}

// AdjustColor applies brightness, contrast and saturation in one pass.
// Brightness is a linear scale, contrast scales around mid-gray 128, and
// saturation blends each channel toward the pixel's Rec.601 luma. All three
// are percentages with 100 as identity.
func AdjustColor(src *Buffer, brightness, contrast, saturation int) *Buffer {
	br := float64(brightness) / 100
	ct := float64(contrast) / 100
	st := float64(saturation) / 100

	out := NewBuffer(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 4 {
		r := float64(src.Pix[i])
		g := float64(src.Pix[i+1])
		b := float64(src.Pix[i+2])

		r *= br
		g *= br
		b *= br

		r = (r-128)*ct + 128
		g = (g-128)*ct + 128
		b = (b-128)*ct + 128

		luma := colorutil.Luma(r, g, b)
		r = luma + (r-luma)*st
		g = luma + (g-luma)*st
		b = luma + (b-luma)*st

		out.Pix[i] = colorutil.ClampByte(r)
		out.Pix[i+1] = colorutil.ClampByte(g)
		out.Pix[i+2] = colorutil.ClampByte(b)
		out.Pix[i+3] = src.Pix[i+3]
	}
	return out
}

// Vignette composites a black radial overlay centered on the image.
// The overlay is transparent out to radius min(W,H)/4, reaches opacity
// 0.2*strength at half the diagonal half-length and 0.7*strength at the full
// diagonal half-length, interpolating linearly between stops. strength is
// amount/100; amount <= 0 returns an unmodified copy.
func Vignette(src *Buffer, amount int) *Buffer {
	if amount <= 0 {
		return src.Clone()
	}
	if amount > 100 {
		amount = 100
	}
	strength := float64(amount) / 100

	w, h := src.Width, src.Height
	cx := float64(w) / 2
	cy := float64(h) / 2

	inner := math.Min(float64(w), float64(h)) / 4
	outer := math.Hypot(float64(w), float64(h)) / 2
	mid := outer / 2

	midOpacity := 0.2 * strength
	outerOpacity := 0.7 * strength

	out := NewBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)

			var opacity float64
			switch {
			case d <= inner:
				opacity = 0
			case d <= mid:
				opacity = midOpacity * (d - inner) / (mid - inner)
			case d <= outer:
				opacity = midOpacity + (outerOpacity-midOpacity)*(d-mid)/(outer-mid)
			default:
				opacity = outerOpacity
			}

			i := src.PixOffset(x, y)
			factor := 1 - opacity
			out.Pix[i] = colorutil.ClampByte(float64(src.Pix[i]) * factor)
			out.Pix[i+1] = colorutil.ClampByte(float64(src.Pix[i+1]) * factor)
			out.Pix[i+2] = colorutil.ClampByte(float64(src.Pix[i+2]) * factor)
			out.Pix[i+3] = src.Pix[i+3]
		}
	}
	return out
}
