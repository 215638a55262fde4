package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-studio/pkg/geometry"
)

func newTestTracker() *Tracker {
	t := NewTracker()
	t.SetContainer(geometry.NewSize(1000, 1000))
	return t
}

func TestTracker_SingleContactDrags(t *testing.T) {
	tr := newTestTracker()

	tr.Down(1, geometry.NewPoint2D(500, 500), geometry.NewPoint2D(50, 50), 1.0)
	assert.Equal(t, ModeDrag, tr.Mode())

	up := tr.Move(1, geometry.NewPoint2D(600, 450))
	require.NotNil(t, up.Position)
	assert.Nil(t, up.Scale)
	assert.InDelta(t, 60, up.Position.X, 1e-9) // +100px on a 1000px container
	assert.InDelta(t, 45, up.Position.Y, 1e-9)

	tr.Up(1)
	assert.Equal(t, ModeIdle, tr.Mode())
}

func TestTracker_DragHasNoDrift(t *testing.T) {
	tr := newTestTracker()
	tr.Down(1, geometry.NewPoint2D(500, 500), geometry.NewPoint2D(50, 50), 1.0)

	// Many small moves out and back must land exactly on the start placement.
	var last Update
	for i := 0; i < 100; i++ {
		tr.Move(1, geometry.NewPoint2D(500+float64(i), 500))
	}
	for i := 100; i >= 0; i-- {
		last = tr.Move(1, geometry.NewPoint2D(500+float64(i), 500))
	}

	require.NotNil(t, last.Position)
	assert.InDelta(t, 50, last.Position.X, 1e-9, "returning the pointer must return the placement")
	assert.InDelta(t, 50, last.Position.Y, 1e-9)
}

func TestTracker_DragClampsToImageBounds(t *testing.T) {
	tr := newTestTracker()
	tr.Down(1, geometry.NewPoint2D(500, 500), geometry.NewPoint2D(95, 5), 1.0)

	up := tr.Move(1, geometry.NewPoint2D(1500, -500))
	require.NotNil(t, up.Position)
	assert.Equal(t, 100.0, up.Position.X)
	assert.Equal(t, 0.0, up.Position.Y)
}

func TestTracker_SecondContactStartsPinch(t *testing.T) {
	tr := newTestTracker()
	tr.Down(1, geometry.NewPoint2D(400, 500), geometry.NewPoint2D(50, 50), 1.0)
	tr.Down(2, geometry.NewPoint2D(600, 500), geometry.NewPoint2D(50, 50), 1.0)
	assert.Equal(t, ModePinch, tr.Mode())

	// Doubling the contact distance doubles the scale.
	tr.Move(1, geometry.NewPoint2D(300, 500))
	up := tr.Move(2, geometry.NewPoint2D(700, 500))
	require.NotNil(t, up.Scale)
	assert.Nil(t, up.Position, "translation is suspended during a pinch")
	assert.InDelta(t, 2.0, *up.Scale, 1e-9)
}

func TestTracker_PinchScaleClamped(t *testing.T) {
	tr := newTestTracker()
	tr.Down(1, geometry.NewPoint2D(499, 500), geometry.NewPoint2D(50, 50), 1.0)
	tr.Down(2, geometry.NewPoint2D(501, 500), geometry.NewPoint2D(50, 50), 1.0)

	up := tr.Move(2, geometry.NewPoint2D(2001, 500))
	require.NotNil(t, up.Scale)
	assert.Equal(t, geometry.MaxPlacementScale, *up.Scale)
}

func TestTracker_PinchEndResumesDragWithoutJump(t *testing.T) {
	tr := newTestTracker()
	tr.Down(1, geometry.NewPoint2D(500, 500), geometry.NewPoint2D(50, 50), 1.0)
	tr.Move(1, geometry.NewPoint2D(550, 500)) // placement now at 55

	tr.Down(2, geometry.NewPoint2D(700, 500), geometry.NewPoint2D(55, 50), 1.0)
	tr.Move(2, geometry.NewPoint2D(800, 500)) // pinch only, placement untouched
	tr.Up(2)
	assert.Equal(t, ModeDrag, tr.Mode())

	// The remaining contact is re-baselined at its current position, so a
	// stationary pointer produces no movement.
	up := tr.Move(1, geometry.NewPoint2D(550, 500))
	require.NotNil(t, up.Position)
	assert.InDelta(t, 55, up.Position.X, 1e-9)

	// And further movement is relative to the re-baselined start.
	up = tr.Move(1, geometry.NewPoint2D(650, 500))
	require.NotNil(t, up.Position)
	assert.InDelta(t, 65, up.Position.X, 1e-9)
}

func TestTracker_CoincidentPinchStartIsStable(t *testing.T) {
	tr := newTestTracker()
	tr.Down(1, geometry.NewPoint2D(500, 500), geometry.NewPoint2D(50, 50), 2.0)
	tr.Down(2, geometry.NewPoint2D(500, 500), geometry.NewPoint2D(50, 50), 2.0)

	// Zero start distance never explodes the scale.
	up := tr.Move(2, geometry.NewPoint2D(500, 500))
	assert.Nil(t, up.Scale)

	// First separation re-baselines, so the factor starts at 1.
	up = tr.Move(2, geometry.NewPoint2D(600, 500))
	assert.Nil(t, up.Scale)
	up = tr.Move(2, geometry.NewPoint2D(700, 500))
	require.NotNil(t, up.Scale)
	assert.InDelta(t, 4.0, *up.Scale, 1e-9, "distance doubled after re-baseline, scale 2.0 -> 4.0")
}

func TestTracker_MoveOfUnknownContactIgnored(t *testing.T) {
	tr := newTestTracker()
	up := tr.Move(5, geometry.NewPoint2D(100, 100))
	assert.Nil(t, up.Position)
	assert.Nil(t, up.Scale)
}

func TestTracker_SecondaryContactDoesNotDrag(t *testing.T) {
	tr := newTestTracker()
	tr.Down(1, geometry.NewPoint2D(500, 500), geometry.NewPoint2D(50, 50), 1.0)
	tr.Down(2, geometry.NewPoint2D(600, 500), geometry.NewPoint2D(50, 50), 1.0)
	tr.Up(1)

	// Contact 2 is now the primary; fresh drag baseline at its position.
	up := tr.Move(2, geometry.NewPoint2D(650, 500))
	require.NotNil(t, up.Position)
	assert.InDelta(t, 55, up.Position.X, 1e-9)
}

func TestTracker_Reset(t *testing.T) {
	tr := newTestTracker()
	tr.Down(1, geometry.NewPoint2D(500, 500), geometry.NewPoint2D(50, 50), 1.0)
	tr.Reset()

	assert.Equal(t, ModeIdle, tr.Mode())
	up := tr.Move(1, geometry.NewPoint2D(600, 500))
	assert.Nil(t, up.Position)
}
