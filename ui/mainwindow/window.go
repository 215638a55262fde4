// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"scene-studio/internal/app"
	"scene-studio/internal/export"
	sceneimage "scene-studio/internal/image"
	"scene-studio/internal/session"
	"scene-studio/internal/version"
	"scene-studio/ui/canvas"
	"scene-studio/ui/panels"
	"scene-studio/ui/prefs"
)

const (
	prefKeyLastDir   = "lastDirectory"
	prefKeyLastScene = "lastScene"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app        fyne.App
	state      *app.State
	controller *session.Controller
	prefs      *prefs.Prefs

	canvas    *canvas.EditorCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	undoItem *fyne.MenuItem
	redoItem *fyne.MenuItem
}

// New creates the main window.
func New(fyneApp fyne.App, state *app.State, controller *session.Controller, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Scene Studio")

	mw := &MainWindow{
		Window:     win,
		app:        fyneApp,
		state:      state,
		controller: controller,
		prefs:      p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restoreLastScene()

	return mw
}

func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.state, mw.controller)

	mw.sidePanel = panels.NewSidePanel(mw.state, mw.controller)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Open a scene to start")

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		mw.canvas,
	)
	split.SetOffset(0.28)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1280, 860))
}

func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Scene...", mw.onOpenScene),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Scene as PNG...", mw.onExportScene),
		fyne.NewMenuItem("Export History as PDF...", mw.onExportHistory),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.undoItem = fyne.NewMenuItem("Undo", mw.onUndo)
	mw.redoItem = fyne.NewMenuItem("Redo", mw.onRedo)
	editMenu := fyne.NewMenu("Edit",
		mw.undoItem,
		mw.redoItem,
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("Scene Studio",
				fmt.Sprintf("Version %s (%s)\nBuilt %s", version.Version, version.GitCommit, version.BuildTime),
				mw.Window)
		}),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventSceneChanged, func(interface{}) {
		mw.refreshHistoryItems()
		if entry := mw.state.History.Current(); entry != nil {
			mw.statusBar.SetText(fmt.Sprintf("%s  (step %d of %d)",
				entry.Label, mw.state.History.Cursor()+1, mw.state.History.Len()))
		}
	})
	mw.state.On(app.EventBusyChanged, func(data interface{}) {
		if busy, _ := data.(bool); busy {
			mw.statusBar.SetText("Working...")
		}
	})
	mw.state.On(app.EventError, func(data interface{}) {
		err, ok := data.(error)
		if !ok {
			return
		}
		mw.statusBar.SetText(err.Error())
		dialog.ShowError(err, mw.Window)
	})

	mw.Canvas().AddShortcut(&fyne.ShortcutUndo{}, func(fyne.Shortcut) { mw.onUndo() })
	mw.Canvas().AddShortcut(&fyne.ShortcutRedo{}, func(fyne.Shortcut) { mw.onRedo() })
}

func (mw *MainWindow) onOpenScene() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		mw.loadScene(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(sceneimage.SupportedFormats()))
	mw.showInLastDir(fd)
	fd.Show()
}

func (mw *MainWindow) loadScene(path string) {
	buf, err := sceneimage.Load(path)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if err := mw.controller.LoadScene(buf, filepath.Base(path)); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.prefs.SetString(prefKeyLastScene, path)
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(path))
	_ = mw.prefs.Save()
}

func (mw *MainWindow) onExportScene() {
	scene := mw.state.CurrentScene()
	if scene == nil {
		dialog.ShowInformation("Export", "No scene loaded", mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		if err := sceneimage.SavePNG(path, scene); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.statusBar.SetText("Exported " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName("scene.png")
	fd.Show()
}

func (mw *MainWindow) onExportHistory() {
	if mw.state.History.Len() == 0 {
		dialog.ShowInformation("Export", "History is empty", mw.Window)
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		_ = writer.Close()
		if err := export.HistoryPDF(path, mw.state.History); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.statusBar.SetText("Exported " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName("history.pdf")
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if err := mw.controller.Undo(); err != nil {
		mw.statusBar.SetText(err.Error())
	}
}

func (mw *MainWindow) onRedo() {
	if err := mw.controller.Redo(); err != nil {
		mw.statusBar.SetText(err.Error())
	}
}

func (mw *MainWindow) refreshHistoryItems() {
	mw.undoItem.Disabled = !mw.state.History.CanUndo()
	mw.redoItem.Disabled = !mw.state.History.CanRedo()
	if menu := mw.MainMenu(); menu != nil {
		mw.MainMenu().Refresh()
	}
}

func (mw *MainWindow) showInLastDir(fd *dialog.FileDialog) {
	dir := mw.prefs.String(prefKeyLastDir)
	if dir == "" {
		return
	}
	uri := storage.NewFileURI(dir)
	if lister, err := storage.ListerForURI(uri); err == nil {
		fd.SetLocation(lister)
	}
}

// restoreLastScene reopens the scene from the previous session, if any.
func (mw *MainWindow) restoreLastScene() {
	path := mw.prefs.String(prefKeyLastScene)
	if path == "" {
		return
	}
	if buf, err := sceneimage.Load(path); err == nil {
		_ = mw.controller.LoadScene(buf, filepath.Base(path))
	}
}
