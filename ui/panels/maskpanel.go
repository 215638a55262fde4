package panels

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"scene-studio/internal/app"
	"scene-studio/internal/session"
)

// MaskPanel drives the mask workflow: pick a target, paint over the preview,
// then confirm to run inpainting or masked background removal.
type MaskPanel struct {
	state      *app.State
	controller *session.Controller
	container  fyne.CanvasObject

	targetSelect *widget.RadioGroup
	brushSlider  *widget.Slider
	statusLabel  *widget.Label

	enterButton   *widget.Button
	confirmButton *widget.Button
	exitButton    *widget.Button
}

// NewMaskPanel creates the mask panel.
func NewMaskPanel(state *app.State, controller *session.Controller) *MaskPanel {
	mp := &MaskPanel{
		state:      state,
		controller: controller,
	}

	mp.targetSelect = widget.NewRadioGroup(
		[]string{"Scene (remove object)", "Product A background", "Product B background"}, nil)
	mp.targetSelect.SetSelected("Scene (remove object)")

	mp.brushSlider = widget.NewSlider(2, 60)
	mp.brushSlider.Step = 1
	mp.brushSlider.SetValue(12)
	mp.brushSlider.OnChanged = func(v float64) {
		controller.SetBrushRadius(v)
	}

	mp.statusLabel = widget.NewLabel("Pick a target and start painting.")
	mp.statusLabel.Wrapping = fyne.TextWrapWord

	mp.enterButton = widget.NewButton("Start Masking", mp.enterMaskMode)
	mp.confirmButton = widget.NewButton("Confirm Mask", mp.confirmMask)
	mp.exitButton = widget.NewButton("Discard", mp.exitMaskMode)
	mp.confirmButton.Disable()
	mp.exitButton.Disable()

	mp.container = container.NewVBox(
		widget.NewLabelWithStyle("Cleanup", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		mp.targetSelect,
		widget.NewLabel("Brush size"),
		mp.brushSlider,
		widget.NewSeparator(),
		mp.statusLabel,
		mp.enterButton,
		mp.confirmButton,
		mp.exitButton,
	)

	state.On(app.EventMaskChanged, func(interface{}) {
		mp.refreshButtons()
	})
	state.On(app.EventBusyChanged, func(data interface{}) {
		if busy, _ := data.(bool); busy {
			mp.confirmButton.Disable()
		} else {
			mp.refreshButtons()
		}
	})

	return mp
}

// Container returns the panel container.
func (mp *MaskPanel) Container() fyne.CanvasObject {
	return mp.container
}

func (mp *MaskPanel) selectedTarget() session.MaskTarget {
	switch mp.targetSelect.Selected {
	case "Product A background":
		return session.MaskTargetProductA
	case "Product B background":
		return session.MaskTargetProductB
	default:
		return session.MaskTargetScene
	}
}

func (mp *MaskPanel) enterMaskMode() {
	if err := mp.controller.ToggleMaskMode(true, mp.selectedTarget()); err != nil {
		mp.statusLabel.SetText(err.Error())
		return
	}
	mp.statusLabel.SetText("Paint over the area, then confirm.")
}

func (mp *MaskPanel) confirmMask() {
	if err := mp.controller.ConfirmMask(context.Background()); err != nil {
		mp.statusLabel.SetText(err.Error())
		return
	}
	mp.statusLabel.SetText("Processing mask...")
}

func (mp *MaskPanel) exitMaskMode() {
	_ = mp.controller.ToggleMaskMode(false, mp.selectedTarget())
	mp.statusLabel.SetText("Pick a target and start painting.")
}

func (mp *MaskPanel) refreshButtons() {
	if mp.controller.MaskMode() {
		mp.enterButton.Disable()
		mp.confirmButton.Enable()
		mp.exitButton.Enable()
		mp.targetSelect.Disable()
		return
	}
	mp.enterButton.Enable()
	mp.confirmButton.Disable()
	mp.exitButton.Disable()
	mp.targetSelect.Enable()
}
