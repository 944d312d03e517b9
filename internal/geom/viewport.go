package geom

import (
	"image"
	"math"
)

// Viewport maps device pixels in a window onto canvas pixels. Offset is the
// device position of the canvas origin and Scale the device pixels per canvas
// pixel.
type Viewport struct {
	Offset image.Point
	Scale  float64
}

// Fit centres a canvas of size c inside the area, scaling down but never up.
func Fit(area image.Rectangle, c image.Point) Viewport {
	if c.X <= 0 || c.Y <= 0 || area.Empty() {
		return Viewport{Offset: area.Min, Scale: 1}
	}
	scale := math.Min(float64(area.Dx())/float64(c.X), float64(area.Dy())/float64(c.Y))
	if scale > 1 {
		scale = 1
	}
	w := int(float64(c.X) * scale)
	h := int(float64(c.Y) * scale)
	off := area.Min.Add(image.Pt((area.Dx()-w)/2, (area.Dy()-h)/2))
	return Viewport{Offset: off, Scale: scale}
}

// ToCanvas converts a device position to canvas coordinates.
func (v Viewport) ToCanvas(p image.Point) Point {
	s := v.Scale
	if s <= 0 {
		s = 1
	}
	return Pt(float64(p.X-v.Offset.X)/s, float64(p.Y-v.Offset.Y)/s)
}

// FromCanvas converts canvas coordinates to a device position.
func (v Viewport) FromCanvas(p Point) image.Point {
	s := v.Scale
	if s <= 0 {
		s = 1
	}
	return image.Pt(int(math.Round(p.X*s))+v.Offset.X, int(math.Round(p.Y*s))+v.Offset.Y)
}

// Bounds returns the device rectangle covered by a canvas of size c.
func (v Viewport) Bounds(c image.Point) image.Rectangle {
	return image.Rectangle{Min: v.FromCanvas(Pt(0, 0)), Max: v.FromCanvas(Pt(float64(c.X), float64(c.Y)))}
}
