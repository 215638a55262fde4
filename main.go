// Package main provides the entry point for the Scene Studio application.
package main

import (
	"log"
	"os"
	"path/filepath"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"scene-studio/internal/app"
	"scene-studio/internal/genai"
	sceneimage "scene-studio/internal/image"
	"scene-studio/internal/session"
	"scene-studio/internal/version"
	"scene-studio/ui/mainwindow"
	"scene-studio/ui/prefs"
)

const appTitle = "Scene Studio"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	cfg, err := genai.LoadConfig()
	if err != nil {
		log.Printf("Service config: %v (using defaults)", err)
		cfg = genai.DefaultConfig()
	}
	log.Printf("Generation service: %s (model %s)", cfg.Endpoint, cfg.Model)

	fyneApp := fyneapp.NewWithID("scene-studio")
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()
	controller := session.New(appState, genai.NewHTTPClient(cfg))

	win := mainwindow.New(fyneApp, appState, controller, appPrefs)

	// A scene path on the command line opens straight into editing.
	if len(os.Args) > 1 {
		scenePath := os.Args[1]
		if buf, err := sceneimage.Load(scenePath); err != nil {
			log.Printf("Failed to load scene %s: %v", scenePath, err)
		} else if err := controller.LoadScene(buf, filepath.Base(scenePath)); err != nil {
			log.Printf("Failed to load scene %s: %v", scenePath, err)
		}
	}

	setupHotReload(win, appPrefs)

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled.
func setupHotReload(win *mainwindow.MainWindow, appPrefs *prefs.Prefs) {
	reloader := app.NewHotReloader()
	if reloader == nil {
		log.Println("Hot reload: unable to watch executable")
		return
	}
	log.Printf("Hot reload: watching %s", reloader.ExecPath())

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				_ = appPrefs.Save()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})

	reloader.Start()
}
