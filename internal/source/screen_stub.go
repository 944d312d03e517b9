//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"fmt"
	"image"
)

func grabRoot() (*image.RGBA, []Monitor, error) {
	return nil, nil, fmt.Errorf("screen grab is not supported on this platform")
}
