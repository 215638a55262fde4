// Package panels provides the tabbed side panel sections of the editor.
package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"scene-studio/internal/app"
	"scene-studio/internal/session"
)

// SidePanel groups the editing sections into tabs.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	placementPanel *PlacementPanel
	adjustPanel    *AdjustPanel
	maskPanel      *MaskPanel
}

// NewSidePanel creates the side panel and its tabs.
func NewSidePanel(state *app.State, controller *session.Controller) *SidePanel {
	sp := &SidePanel{state: state}

	sp.placementPanel = NewPlacementPanel(state, controller)
	sp.adjustPanel = NewAdjustPanel(state, controller)
	sp.maskPanel = NewMaskPanel(state, controller)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Products", sp.placementPanel.Container()),
		container.NewTabItem("Adjust", sp.adjustPanel.Container()),
		container.NewTabItem("Cleanup", sp.maskPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for file dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.placementPanel.SetWindow(w)
}
