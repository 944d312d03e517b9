package source

import (
	"context"
	"errors"
	"image"

	"github.com/example/retouch/internal/clipboard"
)

// Clipboard pastes the image on the system clipboard.
type Clipboard struct{}

func (Clipboard) Name() string { return "clipboard" }

func (Clipboard) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := clipboard.ReadImage()
	if errors.Is(err, clipboard.ErrEmpty) {
		return nil, ErrNoImage
	}
	return img, err
}
