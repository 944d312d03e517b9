package magic

import (
	"context"
	"image"
	"image/draw"
)

// Local runs in-process. It inverts colours and cannot remove backgrounds.
type Local struct{}

// RemoveBackground always fails with ErrUnsupported.
func (Local) RemoveBackground(ctx context.Context, img image.Image) (image.Image, error) {
	return nil, ErrUnsupported
}

// InvertColors returns a copy of img with RGB inverted and alpha kept.
func (Local) InvertColors(ctx context.Context, img image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255 - out.Pix[i]
		out.Pix[i+1] = 255 - out.Pix[i+1]
		out.Pix[i+2] = 255 - out.Pix[i+2]
	}
	return out, nil
}
