// Package geom holds the small geometry and colour helpers shared by the
// editor: rect normalisation, handle hit testing, Bézier sampling, aspect
// ratio parsing and colour conversions.
package geom

import (
	"image"
	"math"

	"seehuhn.de/go/geom/vec"
)

// HandleSize is the side of the square hit area drawn for each crop handle.
const HandleSize = 8

// Point is a position in canvas pixel coordinates.
type Point = vec.Vec2

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Dist returns the euclidean distance between a and b.
func Dist(a, b Point) float64 { return b.Sub(a).Length() }

// Rect is an axis aligned rectangle. Width and Height may be negative while a
// drag is in progress; call Normalize before hit testing.
type Rect struct {
	X, Y, Width, Height float64
}

// RectFromPoints returns the normalized rect spanned by a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{X: a.X, Y: a.Y, Width: b.X - a.X, Height: b.Y - a.Y}.Normalize()
}

// RectFromImage converts an integer rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), Width: float64(r.Dx()), Height: float64(r.Dy())}
}

// Normalize swaps the origin so Width and Height are non-negative.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty reports whether the normalized rect has no area.
func (r Rect) Empty() bool {
	n := r.Normalize()
	return n.Width <= 0 || n.Height <= 0
}

// Corners returns the four corners clockwise from the top left.
func (r Rect) Corners() []Point {
	n := r.Normalize()
	return []Point{
		Pt(n.X, n.Y),
		Pt(n.Right(), n.Y),
		Pt(n.Right(), n.Bottom()),
		Pt(n.X, n.Bottom()),
	}
}

// Image rounds the rect to integer pixel bounds.
func (r Rect) Image() image.Rectangle {
	n := r.Normalize()
	return image.Rect(
		int(math.Round(n.X)), int(math.Round(n.Y)),
		int(math.Round(n.Right())), int(math.Round(n.Bottom())),
	)
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// IsPointInRect reports whether p lies within r, edges included.
func IsPointInRect(p Point, r Rect) bool {
	n := r.Normalize()
	return p.X >= n.X && p.X <= n.Right() && p.Y >= n.Y && p.Y <= n.Bottom()
}

// Contains is IsPointInRect with the receiver first.
func (r Rect) Contains(p Point) bool { return IsPointInRect(p, r) }
