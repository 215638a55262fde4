// Package canvas provides the scene display surface: it renders the session
// preview letterboxed into the available area and forwards pointer gestures
// to the session controller.
package canvas

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"scene-studio/internal/app"
	sceneimage "scene-studio/internal/image"
	"scene-studio/internal/session"
	"scene-studio/pkg/geometry"
)

// scrollScaleStep is the scale factor applied per wheel notch on an active
// placement proposal.
const scrollScaleStep = 1.05

// mousePointerID is the contact id used for all mouse interaction. Touch
// drivers hand out real contact ids; a mouse only ever has one.
const mousePointerID = 0

// EditorCanvas displays the live preview and turns mouse input into session
// pointer intents. All placement and mask behavior lives in the controller;
// the canvas only projects coordinates and repaints.
type EditorCanvas struct {
	widget.BaseWidget

	controller *session.Controller

	raster *fynecanvas.Raster

	mu       sync.Mutex
	preview  *sceneimage.Buffer
	lastSize fyne.Size
	dragging bool
}

// New creates the canvas and subscribes it to preview updates.
func New(state *app.State, controller *session.Controller) *EditorCanvas {
	ec := &EditorCanvas{controller: controller}
	ec.raster = fynecanvas.NewRaster(ec.draw)
	ec.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	ec.ExtendBaseWidget(ec)

	state.On(app.EventPreviewUpdated, func(data interface{}) {
		buf, _ := data.(*sceneimage.Buffer)
		ec.mu.Lock()
		ec.preview = buf
		ec.mu.Unlock()
		ec.raster.Refresh()
	})
	state.On(app.EventSceneChanged, func(interface{}) {
		ec.raster.Refresh()
	})

	return ec
}

// Tapped starts and immediately ends a pointer contact: it begins a placement
// proposal at the tap position, or stamps a single mask dot.
func (ec *EditorCanvas) Tapped(ev *fyne.PointEvent) {
	_ = ec.controller.PointerDown(mousePointerID, pointOf(ev.Position))
	ec.controller.PointerUp(mousePointerID)
}

// Dragged forwards drag motion. The first event of a gesture lands the
// contact; later events move it.
func (ec *EditorCanvas) Dragged(ev *fyne.DragEvent) {
	pos := pointOf(ev.Position)
	if !ec.dragging {
		ec.dragging = true
		start := geometry.NewPoint2D(
			float64(ev.Position.X-ev.Dragged.DX),
			float64(ev.Position.Y-ev.Dragged.DY),
		)
		if err := ec.controller.PointerDown(mousePointerID, start); err != nil {
			ec.dragging = false
			return
		}
	}
	ec.controller.PointerMove(mousePointerID, pos)
}

// DragEnd lifts the contact.
func (ec *EditorCanvas) DragEnd() {
	if !ec.dragging {
		return
	}
	ec.dragging = false
	ec.controller.PointerUp(mousePointerID)
}

// Scrolled resizes the active proposal with the wheel.
func (ec *EditorCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		ec.controller.NudgeScale(scrollScaleStep)
	} else if ev.Scrolled.DY < 0 {
		ec.controller.NudgeScale(1 / scrollScaleStep)
	}
}

// MouseDown and MouseUp are implemented so the widget receives events on all
// desktop drivers; the drag path does the actual work.
func (ec *EditorCanvas) MouseDown(*desktop.MouseEvent) {}
func (ec *EditorCanvas) MouseUp(*desktop.MouseEvent)   {}

// Cursor shows a crosshair over the editing surface.
func (ec *EditorCanvas) Cursor() desktop.Cursor {
	return desktop.CrosshairCursor
}

// Resize keeps the controller's idea of the container in sync so pointer
// projection and drag math stay correct.
func (ec *EditorCanvas) Resize(size fyne.Size) {
	ec.BaseWidget.Resize(size)
	if size != ec.lastSize && size.Width > 0 && size.Height > 0 {
		ec.lastSize = size
		ec.controller.SetContainerSize(geometry.NewSize(float64(size.Width), float64(size.Height)))
	}
}

// CreateRenderer implements fyne.Widget.
func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ec.raster)
}

// draw renders the preview letterboxed into a w x h output.
func (ec *EditorCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	ec.mu.Lock()
	preview := ec.preview
	ec.mu.Unlock()
	if preview == nil {
		preview = ec.controller.Preview()
	}
	if preview == nil || w == 0 || h == 0 {
		return output
	}

	fit := geometry.FitRect(
		geometry.NewSize(float64(w), float64(h)),
		geometry.NewSize(float64(preview.Width), float64(preview.Height)),
	)
	if fit.Width <= 0 || fit.Height <= 0 {
		return output
	}

	x0, y0 := int(fit.X), int(fit.Y)
	x1, y1 := int(fit.X+fit.Width), int(fit.Y+fit.Height)
	sx := float64(preview.Width) / fit.Width
	sy := float64(preview.Height) / fit.Height

	for y := y0; y < y1 && y < h; y++ {
		srcY := int(float64(y-y0) * sy)
		if srcY >= preview.Height {
			srcY = preview.Height - 1
		}
		for x := x0; x < x1 && x < w; x++ {
			srcX := int(float64(x-x0) * sx)
			if srcX >= preview.Width {
				srcX = preview.Width - 1
			}
			si := preview.PixOffset(srcX, srcY)
			di := output.PixOffset(x, y)
			output.Pix[di] = preview.Pix[si]
			output.Pix[di+1] = preview.Pix[si+1]
			output.Pix[di+2] = preview.Pix[si+2]
			output.Pix[di+3] = 255
		}
	}
	return output
}

func pointOf(pos fyne.Position) geometry.Point2D {
	return geometry.NewPoint2D(float64(pos.X), float64(pos.Y))
}
