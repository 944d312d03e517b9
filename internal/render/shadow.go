package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow drawn behind the canvas.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft shadow that reads on light and dark
// backdrops.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{Radius: 12, Offset: image.Pt(6, 6), Opacity: 0.45}
}

// Shadow is a blurred mask ready to be drawn under a rectangle.
type Shadow struct {
	Mask *image.Alpha
	// Origin is where Mask's top left lands relative to the rectangle origin.
	Origin image.Point
}

// NewShadow builds the shadow cast by an opaque rectangle of the given size.
func NewShadow(size image.Point, opts ShadowOptions) Shadow {
	if size.X <= 0 || size.Y <= 0 || opts.Opacity <= 0 {
		return Shadow{}
	}
	opacity := min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)
	padded := image.Rect(0, 0, size.X+2*radius, size.Y+2*radius)
	mask := image.NewAlpha(padded)
	a := uint8(opacity*255 + 0.5)
	draw.Draw(mask, image.Rect(radius, radius, radius+size.X, radius+size.Y), image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Src)
	if radius > 0 {
		mask = BlurAlpha(mask, float64(radius)/2)
	}
	return Shadow{Mask: mask, Origin: opts.Offset.Sub(image.Pt(radius, radius))}
}

// Draw paints the shadow onto dst for a rectangle placed at r.
func (s Shadow) Draw(dst draw.Image, r image.Rectangle) {
	if s.Mask == nil {
		return
	}
	at := s.Mask.Bounds().Add(r.Min.Add(s.Origin))
	draw.DrawMask(dst, at, image.Black, image.Point{}, s.Mask, image.Point{}, draw.Over)
}
