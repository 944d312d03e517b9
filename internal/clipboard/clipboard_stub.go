//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"fmt"
	"image"
	"runtime"
)

func WriteImage(image.Image) error {
	return fmt.Errorf("%w on %s", ErrUnsupported, runtime.GOOS)
}

func ReadImage() (image.Image, error) {
	return nil, fmt.Errorf("%w on %s", ErrUnsupported, runtime.GOOS)
}
