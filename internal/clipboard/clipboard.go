// Package clipboard copies the edited image to the system clipboard and
// reads pasted images back.
package clipboard

import (
	"errors"
	"os"
)

var (
	// ErrEmpty is returned when the clipboard holds no image.
	ErrEmpty = errors.New("clipboard: no image data")
	// ErrNoDisplay is returned when no X11 or Wayland session is reachable.
	ErrNoDisplay = errors.New("clipboard: DISPLAY or WAYLAND_DISPLAY is not set")
	// ErrUnsupported is returned by builds that cannot reach the clipboard.
	ErrUnsupported = errors.New("clipboard: image transfer not supported")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
