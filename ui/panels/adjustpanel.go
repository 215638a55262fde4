package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"scene-studio/internal/app"
	sceneimage "scene-studio/internal/image"
	"scene-studio/internal/session"
)

// AdjustPanel exposes the pixel pipeline sliders. Moving a slider refreshes
// the preview immediately; Apply commits the values at full resolution.
type AdjustPanel struct {
	state      *app.State
	controller *session.Controller
	container  fyne.CanvasObject

	brightness *widget.Slider
	contrast   *widget.Slider
	saturation *widget.Slider
	sharpen    *widget.Slider
	vignette   *widget.Slider

	// syncing suppresses slider callbacks while the panel itself moves them.
	syncing bool
}

// NewAdjustPanel creates the adjustment panel.
func NewAdjustPanel(state *app.State, controller *session.Controller) *AdjustPanel {
	ap := &AdjustPanel{
		state:      state,
		controller: controller,
	}

	ap.brightness = ap.newSlider(0, 200)
	ap.contrast = ap.newSlider(0, 200)
	ap.saturation = ap.newSlider(0, 200)
	ap.sharpen = ap.newSlider(0, 100)
	ap.vignette = ap.newSlider(0, 100)

	applyButton := widget.NewButton("Apply", func() {
		if err := controller.ApplyEdits(); err != nil {
			fmt.Println("Apply failed:", err)
		}
	})
	autoButton := widget.NewButton("Auto", func() {
		if err := controller.SuggestEdits(); err != nil {
			fmt.Println("Auto adjust failed:", err)
		}
	})
	resetButton := widget.NewButton("Reset", func() {
		controller.SetEdits(sceneimage.DefaultEdits())
	})

	ap.container = container.NewVBox(
		widget.NewLabelWithStyle("Adjustments", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Brightness"), ap.brightness,
		widget.NewLabel("Contrast"), ap.contrast,
		widget.NewLabel("Saturation"), ap.saturation,
		widget.NewLabel("Sharpen"), ap.sharpen,
		widget.NewLabel("Vignette"), ap.vignette,
		widget.NewSeparator(),
		container.NewHBox(applyButton, autoButton, resetButton),
	)

	state.On(app.EventEditsChanged, func(data interface{}) {
		edits, ok := data.(sceneimage.Edits)
		if !ok {
			return
		}
		ap.syncSliders(edits)
	})
	ap.syncSliders(state.Edits())

	return ap
}

// Container returns the panel container.
func (ap *AdjustPanel) Container() fyne.CanvasObject {
	return ap.container
}

func (ap *AdjustPanel) newSlider(min, max float64) *widget.Slider {
	s := widget.NewSlider(min, max)
	s.Step = 1
	s.OnChanged = func(float64) {
		if ap.syncing {
			return
		}
		ap.controller.SetEdits(ap.currentEdits())
	}
	return s
}

func (ap *AdjustPanel) currentEdits() sceneimage.Edits {
	return sceneimage.Edits{
		Brightness: int(ap.brightness.Value),
		Contrast:   int(ap.contrast.Value),
		Saturation: int(ap.saturation.Value),
		Sharpen:    int(ap.sharpen.Value),
		Vignette:   int(ap.vignette.Value),
	}
}

func (ap *AdjustPanel) syncSliders(edits sceneimage.Edits) {
	ap.syncing = true
	ap.brightness.SetValue(float64(edits.Brightness))
	ap.contrast.SetValue(float64(edits.Contrast))
	ap.saturation.SetValue(float64(edits.Saturation))
	ap.sharpen.SetValue(float64(edits.Sharpen))
	ap.vignette.SetValue(float64(edits.Vignette))
	ap.syncing = false
}
