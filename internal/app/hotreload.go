package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// HotReloader watches the running binary and triggers a callback when a
// newer version appears. Useful during development to prompt for a restart
// after recompilation.
type HotReloader struct {
	execPath    string
	baseline    time.Time
	watcher     *fsnotify.Watcher
	stopCh      chan struct{}
	onNewBinary func()
}

// NewHotReloader creates a hot reloader watching the current executable.
// Returns nil if the executable path cannot be determined or watched.
func NewHotReloader() *HotReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build replaces the file behind the symlink; watch the real path.
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}
	// Watch the directory: the binary itself is replaced on rebuild, which
	// drops a watch placed directly on the file.
	if err := watcher.Add(filepath.Dir(execPath)); err != nil {
		watcher.Close()
		return nil
	}

	return &HotReloader{
		execPath: execPath,
		baseline: info.ModTime(),
		watcher:  watcher,
		stopCh:   make(chan struct{}),
	}
}

// OnNewBinary sets the callback to invoke when a newer binary is detected.
// The callback runs on a background goroutine; marshal to the UI thread
// before touching widgets.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.onNewBinary = callback
}

// Start begins watching in a background goroutine.
func (h *HotReloader) Start() {
	h.stopCh = make(chan struct{})
	go h.watchLoop()
}

// Stop stops the watcher goroutine.
func (h *HotReloader) Stop() {
	close(h.stopCh)
	h.watcher.Close()
}

func (h *HotReloader) watchLoop() {
	for {
		select {
		case <-h.stopCh:
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Name != h.execPath {
				continue
			}
			if h.newerBinary() && h.onNewBinary != nil {
				h.onNewBinary()
				return
			}
		case _, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// newerBinary returns true once the binary's mod time passes the baseline.
func (h *HotReloader) newerBinary() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(h.baseline)
}

// ResetBaseline updates the baseline to the current binary's mod time.
// Call this when the user declines a restart to avoid repeated prompts.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.baseline = info.ModTime()
	}
}

// ExecPath returns the path to the watched executable.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// Restart replaces the current process with a new instance of the binary,
// preserving arguments and environment. Does not return on success.
func (h *HotReloader) Restart() error {
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
