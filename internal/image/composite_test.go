package image

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scene-studio/pkg/geometry"
)

func TestComposeProposal_CentersProductAtPosition(t *testing.T) {
	scene := uniformBuffer(100, 100, 0, 0, 0, 255)
	product := uniformBuffer(10, 10, 255, 0, 0, 255)

	out := ComposeProposal(scene, product, geometry.NewPoint2D(50, 50), 1.0, 1.0)

	// Fully opaque product at full opacity replaces the scene pixels.
	assert.Equal(t, uint8(255), out.Pix[out.PixOffset(50, 50)])
	assert.Equal(t, uint8(0), out.Pix[out.PixOffset(10, 10)], "pixels outside the product are untouched")
	assert.True(t, scene.Equal(uniformBuffer(100, 100, 0, 0, 0, 255)), "the scene itself is never mutated")
}

func TestComposeProposal_OpacityDimsGhost(t *testing.T) {
	scene := uniformBuffer(50, 50, 0, 0, 0, 255)
	product := uniformBuffer(10, 10, 200, 0, 0, 255)

	out := ComposeProposal(scene, product, geometry.NewPoint2D(50, 50), 1.0, 0.75)

	// 200 * 0.75 over black
	assert.Equal(t, uint8(150), out.Pix[out.PixOffset(25, 25)])
}

func TestComposeProposal_ScaleResizesProduct(t *testing.T) {
	scene := uniformBuffer(100, 100, 0, 0, 0, 255)
	product := uniformBuffer(10, 10, 255, 255, 255, 255)

	out := ComposeProposal(scene, product, geometry.NewPoint2D(50, 50), 2.0, 1.0)

	// At scale 2 the product covers 20x20 centered at (50,50).
	assert.Equal(t, uint8(255), out.Pix[out.PixOffset(42, 42)])
	assert.Equal(t, uint8(0), out.Pix[out.PixOffset(38, 50)])
}

func TestComposeProposal_OffscreenEdgesClipped(t *testing.T) {
	scene := uniformBuffer(40, 40, 0, 0, 0, 255)
	product := uniformBuffer(20, 20, 255, 255, 255, 255)

	// Centered at the corner, most of the product hangs off the scene.
	out := ComposeProposal(scene, product, geometry.NewPoint2D(0, 0), 1.0, 1.0)

	assert.NoError(t, out.Validate())
	assert.Equal(t, uint8(255), out.Pix[out.PixOffset(0, 0)])
	assert.Equal(t, uint8(0), out.Pix[out.PixOffset(20, 20)])
}

func TestComposeProposal_TransparentProductPixelsSkipped(t *testing.T) {
	scene := uniformBuffer(30, 30, 40, 40, 40, 255)
	product := NewBuffer(10, 10) // fully transparent

	out := ComposeProposal(scene, product, geometry.NewPoint2D(50, 50), 1.0, 1.0)
	assert.True(t, out.Equal(scene))
}

func TestOverlayStrokes(t *testing.T) {
	base := uniformBuffer(20, 20, 100, 100, 100, 255)

	out := OverlayStrokes(base, nil)
	assert.True(t, out.Equal(base), "nil strokes is just a copy")

	strokes := NewStrokeMask(20, 20)
	strokes.PaintDot(geometry.NewPoint2D(10, 10), 3)
	out = OverlayStrokes(base, strokes)
	assert.False(t, out.Equal(base), "painted strokes show up in the overlay")
	assert.True(t, base.Equal(uniformBuffer(20, 20, 100, 100, 100, 255)))
}

func TestSuggestEdits_FlatImageCapsSliders(t *testing.T) {
	dark := uniformBuffer(32, 32, 10, 10, 10, 255)
	got := SuggestEdits(dark, DefaultEdits())

	// Spread is near zero and the midpoint is very dark, so both sliders
	// pin at their caps.
	assert.Equal(t, 200, got.Contrast)
	assert.Equal(t, 200, got.Brightness)
}

func TestSuggestEdits_WellExposedImageStaysNearIdentity(t *testing.T) {
	buf := NewBuffer(256, 1)
	for x := 0; x < 256; x++ {
		i := buf.PixOffset(x, 0)
		v := uint8(x)
		buf.Pix[i] = v
		buf.Pix[i+1] = v
		buf.Pix[i+2] = v
		buf.Pix[i+3] = 255
	}

	got := SuggestEdits(buf, DefaultEdits())

	// A full-range ramp needs roughly no correction.
	assert.InDelta(t, 100, got.Contrast, 10)
	assert.InDelta(t, 100, got.Brightness, 10)
	assert.Equal(t, 100, got.Saturation, "saturation is left alone")
	assert.Equal(t, 0, got.Sharpen)
}

func TestSuggestEdits_FullyTransparentImageUnchanged(t *testing.T) {
	buf := NewBuffer(8, 8)
	current := Edits{Brightness: 123, Contrast: 88, Saturation: 100}
	assert.Equal(t, current, SuggestEdits(buf, current))
}
