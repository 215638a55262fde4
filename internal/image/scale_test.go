package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewSize_CapsLongestSide(t *testing.T) {
	w, h := PreviewSize(4000, 3000, PreviewMaxSide)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)

	w, h = PreviewSize(1000, 2000, PreviewMaxSide)
	assert.Equal(t, 400, w)
	assert.Equal(t, 800, h)
}

func TestPreviewSize_SmallSourceKeepsSize(t *testing.T) {
	w, h := PreviewSize(640, 480, PreviewMaxSide)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	w, h = PreviewSize(0, 0, PreviewMaxSide)
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)
}

func TestDownscale_SmallSourceClonedBitIdentical(t *testing.T) {
	src := gradientBuffer(320, 240)
	out := Downscale(src, PreviewMaxSide)

	assert.True(t, out.Equal(src))
	assert.NotSame(t, src, out)
	out.Pix[0] ^= 0xFF
	assert.NotEqual(t, out.Pix[0], src.Pix[0], "clone must not share pixel storage")
}

func TestDownscale_LargeSourceShrinks(t *testing.T) {
	src := gradientBuffer(1600, 1200)
	out := Downscale(src, PreviewMaxSide)

	assert.Equal(t, 800, out.Width)
	assert.Equal(t, 600, out.Height)
}

func TestResize_ExactDimensions(t *testing.T) {
	src := gradientBuffer(100, 60)
	out := Resize(src, 37, 53)

	assert.Equal(t, 37, out.Width)
	assert.Equal(t, 53, out.Height)
	assert.NoError(t, out.Validate())
}

func TestResize_Deterministic(t *testing.T) {
	src := gradientBuffer(200, 150)
	a := Resize(src, 80, 60)
	b := Resize(src, 80, 60)
	assert.True(t, a.Equal(b))
}
