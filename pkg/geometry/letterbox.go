package geometry

// Pinch scale bounds. The same bounds apply to every path that changes the
// placement scale, including the slider in the placement panel.
const (
	MinPlacementScale = 0.1
	MaxPlacementScale = 5.0
)

// FitRect returns the rectangle occupied by content rendered aspect-fit and
// centered inside container. The content is never cropped: it spans the full
// container width when its aspect ratio is at least the container's
// (ties take the width branch), the full height otherwise. The leftover
// margin on the other axis is split evenly.
func FitRect(container, content Size) Rect {
	if container.IsEmpty() || content.IsEmpty() {
		return Rect{}
	}

	if content.AspectRatio() >= container.AspectRatio() {
		// Width-limited: full container width, letterbox top/bottom.
		h := container.Width / content.AspectRatio()
		return Rect{
			X:      0,
			Y:      (container.Height - h) / 2,
			Width:  container.Width,
			Height: h,
		}
	}

	// Height-limited: full container height, letterbox left/right.
	w := container.Height * content.AspectRatio()
	return Rect{
		X:      (container.Width - w) / 2,
		Y:      0,
		Width:  w,
		Height: container.Height,
	}
}

// ProjectPoint maps a pointer position in container coordinates to a
// percentage position relative to the rendered content. The returned point is
// in [0,100] on both axes with the origin at the top-left of the content, not
// of the container. Returns false when the pointer falls in the letterbox
// margin or outside the container, or when either size is degenerate.
func ProjectPoint(pointer Point2D, container, content Size) (Point2D, bool) {
	fit := FitRect(container, content)
	if fit.Width <= 0 || fit.Height <= 0 {
		return Point2D{}, false
	}

	local := pointer.Sub(Point2D{X: fit.X, Y: fit.Y})
	if local.X < 0 || local.X > fit.Width || local.Y < 0 || local.Y > fit.Height {
		return Point2D{}, false
	}

	return Point2D{
		X: local.X / fit.Width * 100,
		Y: local.Y / fit.Height * 100,
	}, true
}

// PinchScale returns the scale resulting from a two-finger pinch. startDist
// is the distance between the contacts when the pinch began, curDist the
// current distance. A non-positive startDist means the gesture started with
// coincident contacts; the factor is treated as 1 until distance is
// re-established. The result is clamped to the placement scale bounds.
func PinchScale(initialScale, startDist, curDist float64) float64 {
	factor := 1.0
	if startDist > 0 && curDist > 0 {
		factor = curDist / startDist
	}
	return ClampScale(initialScale * factor)
}

// ClampScale clamps a placement scale to [MinPlacementScale, MaxPlacementScale].
func ClampScale(scale float64) float64 {
	if scale < MinPlacementScale {
		return MinPlacementScale
	}
	if scale > MaxPlacementScale {
		return MaxPlacementScale
	}
	return scale
}

// DragDeltaPercent converts a drag delta in container pixels to a percentage
// delta. The caller adds this to the position captured at gesture start
// rather than accumulating per-frame deltas, so repeated moves cannot drift.
func DragDeltaPercent(delta Point2D, container Size) Point2D {
	if container.IsEmpty() {
		return Point2D{}
	}
	return Point2D{
		X: delta.X / container.Width * 100,
		Y: delta.Y / container.Height * 100,
	}
}

// ClampPercent clamps both axes of a percentage point to [0,100].
func ClampPercent(p Point2D) Point2D {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 100 {
			return 100
		}
		return v
	}
	return Point2D{X: clamp(p.X), Y: clamp(p.Y)}
}
