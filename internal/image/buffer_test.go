package image

import (
	goimage "image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Validate(t *testing.T) {
	assert.NoError(t, NewBuffer(3, 5).Validate())
	assert.Error(t, (&Buffer{Width: 3, Height: 5, Pix: make([]uint8, 10)}).Validate())
	assert.Error(t, (&Buffer{Width: -1, Height: 5}).Validate())
}

func TestBuffer_CloneIsIndependent(t *testing.T) {
	src := gradientBuffer(6, 6)
	dup := src.Clone()

	require.True(t, dup.Equal(src))
	dup.Pix[0] ^= 0xFF
	assert.False(t, dup.Equal(src))
}

func TestBuffer_EqualComparesSizeAndPixels(t *testing.T) {
	a := gradientBuffer(4, 4)
	assert.True(t, a.Equal(gradientBuffer(4, 4)))
	assert.False(t, a.Equal(gradientBuffer(4, 5)))
	assert.False(t, a.Equal(nil))
}

func TestFromImage_ConvertsToStraightAlpha(t *testing.T) {
	img := goimage.NewRGBA(goimage.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 128, G: 64, B: 32, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 0, G: 0, B: 0, A: 0})

	buf := FromImage(img)

	require.NoError(t, buf.Validate())
	assert.Equal(t, uint8(128), buf.Pix[0])
	assert.Equal(t, uint8(255), buf.Pix[3])
	assert.Equal(t, uint8(0), buf.Pix[7])
}

func TestToNRGBA_SharesPixels(t *testing.T) {
	buf := gradientBuffer(5, 3)
	img := buf.ToNRGBA()

	assert.Equal(t, 5, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	img.Pix[0] = 99
	assert.Equal(t, uint8(99), buf.Pix[0], "the NRGBA view aliases the buffer")
}
