package panels

import (
	"context"
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"scene-studio/internal/app"
	sceneimage "scene-studio/internal/image"
	"scene-studio/internal/placement"
	"scene-studio/internal/session"
)

// PlacementPanel manages the two product slots and the active placement
// proposal.
type PlacementPanel struct {
	state      *app.State
	controller *session.Controller
	window     fyne.Window
	container  fyne.CanvasObject

	slotALabel  *widget.Label
	slotBLabel  *widget.Label
	slotSelect  *widget.RadioGroup
	statusLabel *widget.Label

	confirmButton *widget.Button
	cancelButton  *widget.Button
	removeBgA     *widget.Button
	removeBgB     *widget.Button
}

// NewPlacementPanel creates the placement panel.
func NewPlacementPanel(state *app.State, controller *session.Controller) *PlacementPanel {
	pp := &PlacementPanel{
		state:      state,
		controller: controller,
	}

	pp.slotALabel = widget.NewLabel("Slot A: empty")
	pp.slotBLabel = widget.NewLabel("Slot B: empty")
	pp.statusLabel = widget.NewLabel("Load a product, then click the scene to place it.")
	pp.statusLabel.Wrapping = fyne.TextWrapWord

	loadA := widget.NewButton("Load A...", func() { pp.loadProduct(placement.SourceProductA) })
	loadB := widget.NewButton("Load B...", func() { pp.loadProduct(placement.SourceProductB) })

	pp.removeBgA = widget.NewButton("Remove Background A", func() {
		pp.removeBackground(placement.SourceProductA)
	})
	pp.removeBgB = widget.NewButton("Remove Background B", func() {
		pp.removeBackground(placement.SourceProductB)
	})

	pp.slotSelect = widget.NewRadioGroup([]string{"Product A", "Product B"}, func(choice string) {
		if choice == "Product B" {
			controller.SelectProduct(placement.SourceProductB)
		} else {
			controller.SelectProduct(placement.SourceProductA)
		}
	})
	pp.slotSelect.SetSelected("Product A")

	pp.confirmButton = widget.NewButton("Confirm Placement", pp.confirmPlacement)
	pp.cancelButton = widget.NewButton("Cancel", func() {
		controller.CancelPlacement()
	})
	pp.confirmButton.Disable()
	pp.cancelButton.Disable()

	pp.container = container.NewVBox(
		widget.NewLabelWithStyle("Products", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		pp.slotALabel,
		container.NewHBox(loadA, pp.removeBgA),
		pp.slotBLabel,
		container.NewHBox(loadB, pp.removeBgB),
		widget.NewSeparator(),
		widget.NewLabel("Place from:"),
		pp.slotSelect,
		widget.NewSeparator(),
		pp.statusLabel,
		pp.confirmButton,
		pp.cancelButton,
	)

	state.On(app.EventProductChanged, func(interface{}) {
		pp.refreshSlots()
	})
	state.On(app.EventPlacementChanged, func(data interface{}) {
		prop, _ := data.(*placement.Proposal)
		pp.refreshProposal(prop)
	})
	state.On(app.EventBusyChanged, func(data interface{}) {
		busy, _ := data.(bool)
		pp.setBusy(busy)
	})

	return pp
}

// Container returns the panel container.
func (pp *PlacementPanel) Container() fyne.CanvasObject {
	return pp.container
}

// SetWindow sets the parent window for file dialogs.
func (pp *PlacementPanel) SetWindow(w fyne.Window) {
	pp.window = w
}

func (pp *PlacementPanel) loadProduct(source placement.Source) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		if !sceneimage.IsSupportedFormat(path) {
			dialog.ShowError(fmt.Errorf("unsupported image format: %s", filepath.Ext(path)), pp.window)
			return
		}
		buf, err := sceneimage.Load(path)
		if err != nil {
			dialog.ShowError(err, pp.window)
			return
		}
		pp.state.SetProduct(source, buf, filepath.Base(path))
	}, pp.window)
	fd.SetFilter(storage.NewExtensionFileFilter(sceneimage.SupportedFormats()))
	fd.Show()
}

func (pp *PlacementPanel) removeBackground(source placement.Source) {
	if err := pp.controller.RemoveBackground(context.Background(), source); err != nil {
		pp.statusLabel.SetText(err.Error())
	} else {
		pp.statusLabel.SetText(fmt.Sprintf("Removing background of %s...", source))
	}
}

func (pp *PlacementPanel) confirmPlacement() {
	if err := pp.controller.CommitPlacement(context.Background()); err != nil {
		pp.statusLabel.SetText(err.Error())
		return
	}
	pp.statusLabel.SetText("Compositing...")
}

func (pp *PlacementPanel) refreshSlots() {
	if img := pp.state.Product(placement.SourceProductA); img != nil {
		pp.slotALabel.SetText(fmt.Sprintf("Slot A: %s (%dx%d)",
			pp.state.ProductLabel(placement.SourceProductA), img.Width, img.Height))
	} else {
		pp.slotALabel.SetText("Slot A: empty")
	}
	if img := pp.state.Product(placement.SourceProductB); img != nil {
		pp.slotBLabel.SetText(fmt.Sprintf("Slot B: %s (%dx%d)",
			pp.state.ProductLabel(placement.SourceProductB), img.Width, img.Height))
	} else {
		pp.slotBLabel.SetText("Slot B: empty")
	}
}

func (pp *PlacementPanel) refreshProposal(prop *placement.Proposal) {
	if prop == nil {
		pp.confirmButton.Disable()
		pp.cancelButton.Disable()
		pp.statusLabel.SetText("Load a product, then click the scene to place it.")
		return
	}
	pp.confirmButton.Enable()
	pp.cancelButton.Enable()
	pp.statusLabel.SetText(fmt.Sprintf("%s at %.0f%%, %.0f%%  scale %.2fx\nDrag to move, scroll to resize.",
		prop.Source, prop.Position.X, prop.Position.Y, prop.Scale))
}

func (pp *PlacementPanel) setBusy(busy bool) {
	if busy {
		pp.confirmButton.Disable()
		pp.removeBgA.Disable()
		pp.removeBgB.Disable()
		return
	}
	pp.removeBgA.Enable()
	pp.removeBgB.Enable()
	pp.statusLabel.SetText("Load a product, then click the scene to place it.")
}
