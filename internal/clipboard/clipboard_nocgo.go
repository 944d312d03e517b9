//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"image"
	"sync"
)

var (
	initOnce sync.Once
	initErr  error
)

// ensureInit reports why the clipboard is out of reach. Without cgo it
// always is; the display check only picks the more useful message.
func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = ErrNoDisplay
			return
		}
		initErr = fmt.Errorf("%w: built without cgo", ErrUnsupported)
	})
	return initErr
}

func WriteImage(image.Image) error { return ensureInit() }

func ReadImage() (image.Image, error) { return nil, ensureInit() }
