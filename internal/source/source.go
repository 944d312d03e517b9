// Package source resolves external inputs to decoded images: files, the
// clipboard, earlier results, an X11 screen grab and the desktop portal.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoImage is returned when a provider has nothing to offer.
var ErrNoImage = errors.New("source: no image available")

// Provider produces an image. Load may block and must honour ctx.
type Provider interface {
	Load(ctx context.Context) (image.Image, error)
	// Name describes the provider for logs and status messages.
	Name() string
}

// Func adapts a function to Provider.
type Func struct {
	Label string
	Fn    func(ctx context.Context) (image.Image, error)
}

func (f Func) Load(ctx context.Context) (image.Image, error) { return f.Fn(ctx) }
func (f Func) Name() string                                  { return f.Label }

// Static wraps an already decoded image.
func Static(img image.Image) Provider {
	return Func{Label: "image", Fn: func(context.Context) (image.Image, error) {
		if img == nil {
			return nil, ErrNoImage
		}
		return img, nil
	}}
}

// Decode reads any registered format: png, jpeg, gif, bmp, tiff or webp.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// File loads an image from disk. Path "-" reads stdin.
type File struct {
	Path string
}

func (f File) Name() string { return f.Path }

func (f File) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Path == "-" {
		img, _, err := Decode(os.Stdin)
		return img, err
	}
	r, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer r.Close()
	img, _, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return img, nil
}
