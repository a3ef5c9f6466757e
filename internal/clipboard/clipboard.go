// Package clipboard moves images between the canvas and the system clipboard.
package clipboard

import (
	"errors"
	"os"
	"runtime"
	"sync"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty is returned when the clipboard holds no image.
	ErrEmpty = errors.New("clipboard does not contain image data")
)

// needsDisplay reports whether the clipboard lives on an X11 or Wayland
// server, in which case one must be reachable before init.
func needsDisplay() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return true
	}
	return false
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func ensureInit() error {
	initOnce.Do(func() {
		if needsDisplay() && !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = initBackend()
	})
	return initErr
}
