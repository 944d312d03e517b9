// Package crop implements the crop rectangle controller: eight resize
// handles, moving the rect, defining a new one, an optional aspect lock and
// clamping to the image.
package crop

import (
	"image"
	"math"

	"github.com/example/retouch/internal/geom"
)

// MinSize is the smallest width or height a resize can produce.
const MinSize = 1

// DefaultFill is the share of the image the initial rect covers.
const DefaultFill = 0.8

// Mode is what the current drag does.
type Mode int

const (
	ModeIdle Mode = iota
	ModeResize
	ModeMove
	ModeDefine
)

func (m Mode) String() string {
	switch m {
	case ModeResize:
		return "dragging-handle"
	case ModeMove:
		return "moving"
	case ModeDefine:
		return "defining"
	}
	return "idle"
}

// Controller owns the crop rect while the crop tool is active.
type Controller struct {
	Selection geom.Rect
	Bounds    geom.Rect

	mode      Mode
	handle    geom.Handle
	prev      geom.Rect
	ratio     float64
	start     geom.Point
	startRect geom.Rect
}

// New returns a controller over an image of the given bounds with a centred
// default rect. ok=false means no aspect lock.
func New(bounds image.Rectangle, ratio float64, ok bool) *Controller {
	c := &Controller{Bounds: geom.RectFromImage(bounds)}
	if !ok {
		ratio = 0
	}
	c.ratio = ratio
	c.Selection = c.defaultRect()
	return c
}

func (c *Controller) defaultRect() geom.Rect {
	b := c.Bounds
	w, h := b.Width*DefaultFill, b.Height*DefaultFill
	if c.ratio > 0 {
		if w/h > c.ratio {
			w = h * c.ratio
		} else {
			h = w / c.ratio
		}
	}
	return geom.Rect{X: b.X + (b.Width-w)/2, Y: b.Y + (b.Height-h)/2, Width: w, Height: h}
}

// Mode reports the drag in progress.
func (c *Controller) Mode() Mode { return c.mode }

// Handle reports the handle being dragged.
func (c *Controller) Handle() geom.Handle { return c.handle }

// Ratio returns the locked aspect ratio, ok=false when free.
func (c *Controller) Ratio() (float64, bool) { return c.ratio, c.ratio > 0 }

// SetAspect changes the lock and refits the rect around its centre.
func (c *Controller) SetAspect(ratio float64, ok bool) {
	if !ok || ratio <= 0 {
		c.ratio = 0
		return
	}
	c.ratio = ratio
	s := c.Selection.Normalize()
	cx, cy := s.X+s.Width/2, s.Y+s.Height/2
	w, h := s.Width, s.Height
	if w/h > ratio {
		w = h * ratio
	} else {
		h = w / ratio
	}
	c.Selection = c.clamp(geom.Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h})
}

// Cursor returns the pointer cursor for a hover at p.
func (c *Controller) Cursor(p geom.Point) string {
	if c.mode == ModeResize {
		return geom.CursorForHandle(c.handle)
	}
	if h := geom.HandleAt(p, c.Selection); h != geom.HandleNone {
		return geom.CursorForHandle(h)
	}
	if c.mode == ModeMove || geom.IsPointInRect(p, c.Selection) {
		return "move"
	}
	return "crosshair"
}

// Target classifies p: a handle, the rect body, or outside.
func (c *Controller) Target(p geom.Point) (geom.Handle, bool) {
	h := geom.HandleAt(p, c.Selection)
	return h, h == geom.HandleNone && geom.IsPointInRect(p, c.Selection)
}

// Begin starts a drag at p: a handle resizes, the body moves, anything else
// defines a new rect.
func (c *Controller) Begin(p geom.Point) Mode {
	c.start = p
	c.prev = c.Selection
	c.startRect = c.Selection.Normalize()
	h, inside := c.Target(p)
	switch {
	case h != geom.HandleNone:
		c.mode, c.handle = ModeResize, h
	case inside:
		c.mode, c.handle = ModeMove, geom.HandleNone
	default:
		c.mode, c.handle = ModeDefine, geom.HandleNone
		c.start = c.clampPoint(p)
	}
	return c.mode
}

// Drag updates the rect for a pointer at p.
func (c *Controller) Drag(p geom.Point) {
	switch c.mode {
	case ModeMove:
		c.Selection = c.move(p)
	case ModeResize:
		c.Selection = c.resize(p)
	case ModeDefine:
		c.Selection = c.define(p)
	}
}

// End finishes the drag. The rect is already clamped and aspect corrected.
func (c *Controller) End() {
	c.Selection = c.Selection.Normalize()
	if c.mode == ModeDefine && c.Selection.Empty() {
		c.Selection = c.prev
	}
	c.mode, c.handle = ModeIdle, geom.HandleNone
}

// Cancel abandons a drag in progress and restores the rect it started from.
func (c *Controller) Cancel() {
	if c.mode != ModeIdle {
		c.Selection = c.prev
	}
	c.mode, c.handle = ModeIdle, geom.HandleNone
}

// Rect returns the selection rounded to pixels and clipped to the bounds.
func (c *Controller) Rect() image.Rectangle {
	return c.Selection.Image().Intersect(c.Bounds.Image())
}

func (c *Controller) move(p geom.Point) geom.Rect {
	r := c.startRect.Translate(p.Sub(c.start))
	b := c.Bounds
	r.X = math.Max(b.X, math.Min(r.X, b.Right()-r.Width))
	r.Y = math.Max(b.Y, math.Min(r.Y, b.Bottom()-r.Height))
	return r
}

func (c *Controller) resize(p geom.Point) geom.Rect {
	s := c.startRect
	b := c.Bounds
	d := p.Sub(c.start)
	x0, y0, x1, y1 := s.X, s.Y, s.Right(), s.Bottom()
	left, top, right, bottom := c.handle.Moves()
	if left {
		x0 = math.Max(b.X, math.Min(x0+d.X, x1-MinSize))
	}
	if right {
		x1 = math.Min(b.Right(), math.Max(x1+d.X, x0+MinSize))
	}
	if top {
		y0 = math.Max(b.Y, math.Min(y0+d.Y, y1-MinSize))
	}
	if bottom {
		y1 = math.Min(b.Bottom(), math.Max(y1+d.Y, y0+MinSize))
	}
	r := geom.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	if c.ratio > 0 {
		r = c.lock(r, left, top, right, bottom)
	}
	return r
}

// lock corrects r to the aspect ratio while the corner opposite the dragged
// handle stays where it was. Edge handles drive one dimension; corners are
// driven by width. The result shrinks proportionally to fit the bounds.
func (c *Controller) lock(r geom.Rect, left, top, right, bottom bool) geom.Rect {
	b := c.Bounds
	// Anchor corner and the directions the rect grows from it.
	ax, dirX := r.X, 1.0
	if left {
		ax, dirX = r.Right(), -1
	}
	ay, dirY := r.Y, 1.0
	if top {
		ay, dirY = r.Bottom(), -1
	}
	w, h := r.Width, r.Height
	if (top || bottom) && !left && !right {
		w = h * c.ratio
	} else {
		h = w / c.ratio
	}
	maxW := b.Right() - ax
	if dirX < 0 {
		maxW = ax - b.X
	}
	maxH := b.Bottom() - ay
	if dirY < 0 {
		maxH = ay - b.Y
	}
	if h > maxH {
		h = maxH
		w = h * c.ratio
	}
	if w > maxW {
		w = maxW
		h = w / c.ratio
	}
	out := geom.Rect{X: ax, Y: ay, Width: w * dirX, Height: h * dirY}
	return out.Normalize()
}

func (c *Controller) clampPoint(p geom.Point) geom.Point {
	b := c.Bounds
	return geom.Pt(math.Max(b.X, math.Min(p.X, b.Right())), math.Max(b.Y, math.Min(p.Y, b.Bottom())))
}

func (c *Controller) define(p geom.Point) geom.Rect {
	p = c.clampPoint(p)
	r := geom.RectFromPoints(c.start, p)
	if c.ratio > 0 && !r.Empty() {
		left := p.X < c.start.X
		top := p.Y < c.start.Y
		r = c.lock(r, left, top, !left, !top)
	}
	return r
}

func (c *Controller) clamp(r geom.Rect) geom.Rect {
	b := c.Bounds
	r = r.Normalize()
	r.Width = math.Min(r.Width, b.Width)
	r.Height = math.Min(r.Height, b.Height)
	r.X = math.Max(b.X, math.Min(r.X, b.Right()-r.Width))
	r.Y = math.Max(b.Y, math.Min(r.Y, b.Bottom()-r.Height))
	return r
}
