//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"context"
	"fmt"
	"image"
)

func (p Portal) Load(context.Context) (image.Image, error) {
	return nil, fmt.Errorf("portal screenshot is not supported on this platform")
}
