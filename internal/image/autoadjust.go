package image

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"scene-studio/pkg/colorutil"
)

// SuggestEdits derives brightness/contrast slider values from the luma
// distribution of the buffer. The 5th and 95th luma percentiles are
// stretched toward 16..240: contrast widens the spread and brightness
// recenters the midpoint at mid-gray. Sharpen, vignette and saturation are
// left at their current values; the caller decides whether to adopt the
// suggestion.
func SuggestEdits(buf *Buffer, current Edits) Edits {
	lumas := make([]float64, 0, buf.Width*buf.Height)
	for i := 0; i < len(buf.Pix); i += 4 {
		if buf.Pix[i+3] == 0 {
			continue
		}
		lumas = append(lumas, colorutil.Luma(
			float64(buf.Pix[i]), float64(buf.Pix[i+1]), float64(buf.Pix[i+2])))
	}
	if len(lumas) == 0 {
		return current
	}
	sort.Float64s(lumas)

	lo := stat.Quantile(0.05, stat.Empirical, lumas, nil)
	hi := stat.Quantile(0.95, stat.Empirical, lumas, nil)

	suggested := current
	spread := hi - lo
	if spread < 1 {
		spread = 1
	}

	// Contrast that would map the observed spread onto 16..240, capped to
	// the slider range.
	contrast := int(224/spread*100 + 0.5)
	if contrast > 200 {
		contrast = 200
	}
	if contrast < 50 {
		contrast = 50
	}
	suggested.Contrast = contrast

	// Brightness that recenters the stretched midpoint at 128.
	mid := (lo + hi) / 2
	if mid < 1 {
		mid = 1
	}
	brightness := int(128/mid*100 + 0.5)
	if brightness > 200 {
		brightness = 200
	}
	if brightness < 50 {
		brightness = 50
	}
	suggested.Brightness = brightness

	return suggested
}
