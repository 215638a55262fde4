package image

import (
	"errors"

	"scene-studio/pkg/colorutil"
	"scene-studio/pkg/geometry"
)

// ErrEmptyMask is returned when a stroke layer contains no painted pixels.
// This is a user-facing condition: the mask workflow asks the user to paint
// before confirming.
var ErrEmptyMask = errors.New("mask has no painted pixels")

// StrokeMask accumulates freehand paint strokes over the active display
// buffer. Painted pixels carry the brush color with non-zero alpha; untouched
// pixels stay fully transparent. The layer is cleared when masking mode is
// toggled off or a new source image loads.
type StrokeMask struct {
	layer *Buffer
}

// NewStrokeMask creates an empty stroke layer matching the given display size.
func NewStrokeMask(width, height int) *StrokeMask {
	return &StrokeMask{layer: NewBuffer(width, height)}
}

// Width returns the layer width in pixels.
func (m *StrokeMask) Width() int { return m.layer.Width }

// Height returns the layer height in pixels.
func (m *StrokeMask) Height() int { return m.layer.Height }

// Layer returns the raw stroke layer for rendering the in-progress mask.
func (m *StrokeMask) Layer() *Buffer { return m.layer }

// Clear removes all painted strokes.
func (m *StrokeMask) Clear() {
	for i := range m.layer.Pix {
		m.layer.Pix[i] = 0
	}
}

// HasStrokes reports whether any pixel has been painted.
func (m *StrokeMask) HasStrokes() bool {
	for i := 3; i < len(m.layer.Pix); i += 4 {
		if m.layer.Pix[i] > 0 {
			return true
		}
	}
	return false
}

// PaintDot stamps a filled circular brush at the given layer coordinates.
func (m *StrokeMask) PaintDot(center geometry.Point2D, radius float64) {
	col := colorutil.MaskBrush
	r2 := radius * radius

	minX := int(center.X - radius - 1)
	maxX := int(center.X + radius + 1)
	minY := int(center.Y - radius - 1)
	maxY := int(center.Y + radius + 1)

	for y := minY; y <= maxY; y++ {
		if y < 0 || y >= m.layer.Height {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= m.layer.Width {
				continue
			}
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			if dx*dx+dy*dy > r2 {
				continue
			}
			i := m.layer.PixOffset(x, y)
			m.layer.Pix[i] = col.R
			m.layer.Pix[i+1] = col.G
			m.layer.Pix[i+2] = col.B
			if col.A > m.layer.Pix[i+3] {
				m.layer.Pix[i+3] = col.A
			}
		}
	}
}

// PaintStroke stamps the brush along the segment from one point to the next,
// spacing stamps at half the brush radius so fast drags leave no gaps.
func (m *StrokeMask) PaintStroke(from, to geometry.Point2D, radius float64) {
	dist := from.Distance(to)
	step := radius / 2
	if step < 1 {
		step = 1
	}
	steps := int(dist/step) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		m.PaintDot(geometry.Point2D{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		}, radius)
	}
}

// EncodeMask converts a stroke layer into a binary mask: every pixel with
// accumulated alpha becomes opaque white, everything else opaque black.
// A buffer that is already binary is returned as an unchanged copy, so
// encoding is idempotent on its own output. A layer with zero painted pixels
// is rejected with ErrEmptyMask.
func EncodeMask(stroke *Buffer) (*Buffer, error) {
	if err := stroke.Validate(); err != nil {
		return nil, err
	}
	if IsBinary(stroke) {
		return stroke.Clone(), nil
	}

	out := NewBuffer(stroke.Width, stroke.Height)
	painted := false
	for i := 0; i < len(stroke.Pix); i += 4 {
		if stroke.Pix[i+3] > 0 {
			painted = true
			out.Pix[i] = 255
			out.Pix[i+1] = 255
			out.Pix[i+2] = 255
		}
		out.Pix[i+3] = 255
	}
	if !painted {
		return nil, ErrEmptyMask
	}
	return out, nil
}

// ScaleMask resizes a binary mask to the given dimensions and re-binarizes
// it. Interpolation during resizing produces gray edge pixels; anything at or
// above mid-gray becomes white. Used to lift a mask painted at preview
// resolution to the full-resolution image it applies to.
func ScaleMask(mask *Buffer, width, height int) *Buffer {
	scaled := mask
	if mask.Width != width || mask.Height != height {
		scaled = Resize(mask, width, height)
	}
	out := NewBuffer(width, height)
	for i := 0; i < len(scaled.Pix); i += 4 {
		if scaled.Pix[i] >= 128 {
			out.Pix[i] = 255
			out.Pix[i+1] = 255
			out.Pix[i+2] = 255
		}
		out.Pix[i+3] = 255
	}
	return out
}

// IsBinary reports whether every pixel is either opaque white or opaque black.
func IsBinary(buf *Buffer) bool {
	if len(buf.Pix) == 0 {
		return false
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		if buf.Pix[i+3] != 255 {
			return false
		}
		r, g, b := buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2]
		white := r == 255 && g == 255 && b == 255
		black := r == 0 && g == 0 && b == 0
		if !white && !black {
			return false
		}
	}
	return true
}
