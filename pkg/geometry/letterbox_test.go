package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitRect_WideContentLetterboxesTopBottom(t *testing.T) {
	container := NewSize(800, 600)
	content := NewSize(1600, 400) // 4:1, wider than 4:3 container

	fit := FitRect(container, content)

	assert.Equal(t, 0.0, fit.X)
	assert.Equal(t, 800.0, fit.Width)
	assert.Equal(t, 200.0, fit.Height)
	assert.Equal(t, 200.0, fit.Y) // (600-200)/2
}

func TestFitRect_TallContentLetterboxesSides(t *testing.T) {
	container := NewSize(800, 600)
	content := NewSize(300, 600) // 1:2, taller than container

	fit := FitRect(container, content)

	assert.Equal(t, 0.0, fit.Y)
	assert.Equal(t, 600.0, fit.Height)
	assert.Equal(t, 300.0, fit.Width)
	assert.Equal(t, 250.0, fit.X)
}

func TestFitRect_AspectTieTakesWidthBranch(t *testing.T) {
	container := NewSize(800, 600)
	content := NewSize(400, 300) // same 4:3 ratio

	fit := FitRect(container, content)

	assert.Equal(t, Rect{X: 0, Y: 0, Width: 800, Height: 600}, fit)
}

func TestFitRect_DegenerateSizes(t *testing.T) {
	assert.Equal(t, Rect{}, FitRect(NewSize(0, 600), NewSize(100, 100)))
	assert.Equal(t, Rect{}, FitRect(NewSize(800, 600), NewSize(0, 0)))
}

func TestProjectPoint_CenterMapsToFifty(t *testing.T) {
	container := NewSize(800, 600)
	content := NewSize(400, 300)

	pct, ok := ProjectPoint(NewPoint2D(400, 300), container, content)

	require.True(t, ok)
	assert.InDelta(t, 50, pct.X, 1e-9)
	assert.InDelta(t, 50, pct.Y, 1e-9)
}

func TestProjectPoint_LetterboxMarginRejected(t *testing.T) {
	container := NewSize(800, 600)
	content := NewSize(1600, 400) // rendered 800x200, letterboxed at y=200..400

	_, ok := ProjectPoint(NewPoint2D(400, 100), container, content)
	assert.False(t, ok, "point in the top letterbox band must not project")

	_, ok = ProjectPoint(NewPoint2D(400, 550), container, content)
	assert.False(t, ok, "point in the bottom letterbox band must not project")

	pct, ok := ProjectPoint(NewPoint2D(400, 300), container, content)
	require.True(t, ok)
	assert.InDelta(t, 50, pct.X, 1e-9)
	assert.InDelta(t, 50, pct.Y, 1e-9)
}

func TestProjectPoint_ResultsAlwaysInRange(t *testing.T) {
	containers := []Size{NewSize(800, 600), NewSize(320, 640), NewSize(1000, 1000)}
	contents := []Size{NewSize(4000, 3000), NewSize(100, 900), NewSize(50, 50)}

	for _, container := range containers {
		for _, content := range contents {
			fit := FitRect(container, content)
			for x := 0.0; x <= container.Width; x += container.Width / 8 {
				for y := 0.0; y <= container.Height; y += container.Height / 8 {
					p := NewPoint2D(x, y)
					pct, ok := ProjectPoint(p, container, content)
					inside := p.X >= fit.X && p.X <= fit.X+fit.Width &&
						p.Y >= fit.Y && p.Y <= fit.Y+fit.Height
					assert.Equal(t, inside, ok,
						"projection must succeed iff the point is inside the content rect")
					if ok {
						assert.GreaterOrEqual(t, pct.X, 0.0)
						assert.LessOrEqual(t, pct.X, 100.0)
						assert.GreaterOrEqual(t, pct.Y, 0.0)
						assert.LessOrEqual(t, pct.Y, 100.0)
					}
				}
			}
		}
	}
}

func TestProjectPoint_InvariantUnderContainerResize(t *testing.T) {
	content := NewSize(400, 300)

	// The same relative location projects to the same percentage in two
	// differently sized containers.
	a, ok := ProjectPoint(NewPoint2D(200, 150), NewSize(800, 600), content)
	require.True(t, ok)
	b, ok := ProjectPoint(NewPoint2D(100, 75), NewSize(400, 300), content)
	require.True(t, ok)

	assert.InDelta(t, a.X, b.X, 1e-9)
	assert.InDelta(t, a.Y, b.Y, 1e-9)
}

func TestPinchScale_MonotonicInDistanceRatio(t *testing.T) {
	prev := 0.0
	for ratio := 0.5; ratio <= 3.0; ratio += 0.25 {
		scale := PinchScale(1.0, 100, 100*ratio)
		assert.Greater(t, scale, prev)
		prev = scale
	}
}

func TestPinchScale_ClampedAtExtremes(t *testing.T) {
	assert.Equal(t, MaxPlacementScale, PinchScale(1.0, 1, 1000))
	assert.Equal(t, MinPlacementScale, PinchScale(1.0, 1000, 1))
	assert.Equal(t, MaxPlacementScale, PinchScale(4.0, 100, 200))
}

func TestPinchScale_ZeroStartDistanceIsFactorOne(t *testing.T) {
	assert.Equal(t, 1.5, PinchScale(1.5, 0, 200))
	assert.Equal(t, 1.5, PinchScale(1.5, 0, 0))
}

func TestClampScale(t *testing.T) {
	assert.Equal(t, MinPlacementScale, ClampScale(0.01))
	assert.Equal(t, MaxPlacementScale, ClampScale(99))
	assert.Equal(t, 1.0, ClampScale(1.0))
}

func TestDragDeltaPercent(t *testing.T) {
	delta := DragDeltaPercent(NewPoint2D(80, -60), NewSize(800, 600))
	assert.InDelta(t, 10, delta.X, 1e-9)
	assert.InDelta(t, -10, delta.Y, 1e-9)

	assert.Equal(t, Point2D{}, DragDeltaPercent(NewPoint2D(10, 10), Size{}))
}

func TestClampPercent(t *testing.T) {
	p := ClampPercent(NewPoint2D(-5, 120))
	assert.Equal(t, Point2D{X: 0, Y: 100}, p)
}
