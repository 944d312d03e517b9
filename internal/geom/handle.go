package geom

import "math"

// Handle identifies one of the eight resize handles around a rect.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

var handleNames = [...]string{
	HandleNone:        "none",
	HandleTopLeft:     "nw",
	HandleTop:         "n",
	HandleTopRight:    "ne",
	HandleRight:       "e",
	HandleBottomRight: "se",
	HandleBottom:      "s",
	HandleBottomLeft:  "sw",
	HandleLeft:        "w",
}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "unknown"
	}
	return handleNames[h]
}

// Corner reports whether h is one of the four corner handles.
func (h Handle) Corner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft:
		return true
	}
	return false
}

// Moves reports which edges of the rect the handle drags.
func (h Handle) Moves() (left, top, right, bottom bool) {
	switch h {
	case HandleTopLeft:
		return true, true, false, false
	case HandleTop:
		return false, true, false, false
	case HandleTopRight:
		return false, true, true, false
	case HandleRight:
		return false, false, true, false
	case HandleBottomRight:
		return false, false, true, true
	case HandleBottom:
		return false, false, false, true
	case HandleBottomLeft:
		return true, false, false, true
	case HandleLeft:
		return true, false, false, false
	}
	return false, false, false, false
}

// Opposite returns the handle mirrored through the rect centre.
func (h Handle) Opposite() Handle {
	switch h {
	case HandleNone:
		return HandleNone
	case HandleTopLeft, HandleTop, HandleTopRight, HandleRight:
		return h + 4
	}
	return h - 4
}

// HandleAt returns the handle of r under p. Corners win over edges; a point
// inside the body but away from the edges yields HandleNone.
func HandleAt(p Point, r Rect) Handle {
	n := r.Normalize()
	radius := float64(HandleSize) / 2
	near := func(a, b float64) bool { return math.Abs(a-b) < radius }
	withinX := p.X > n.X-radius && p.X < n.Right()+radius
	withinY := p.Y > n.Y-radius && p.Y < n.Bottom()+radius

	switch {
	case near(p.X, n.X) && near(p.Y, n.Y):
		return HandleTopLeft
	case near(p.X, n.Right()) && near(p.Y, n.Y):
		return HandleTopRight
	case near(p.X, n.X) && near(p.Y, n.Bottom()):
		return HandleBottomLeft
	case near(p.X, n.Right()) && near(p.Y, n.Bottom()):
		return HandleBottomRight
	case near(p.Y, n.Y) && withinX:
		return HandleTop
	case near(p.Y, n.Bottom()) && withinX:
		return HandleBottom
	case near(p.X, n.X) && withinY:
		return HandleLeft
	case near(p.X, n.Right()) && withinY:
		return HandleRight
	}
	return HandleNone
}

// CursorForHandle maps a handle to a CSS style cursor name.
func CursorForHandle(h Handle) string {
	switch h {
	case HandleTopLeft, HandleBottomRight:
		return "nwse-resize"
	case HandleTopRight, HandleBottomLeft:
		return "nesw-resize"
	case HandleTop, HandleBottom:
		return "ns-resize"
	case HandleLeft, HandleRight:
		return "ew-resize"
	}
	return ""
}

// HandlePoint returns the anchor position of h on r.
func HandlePoint(h Handle, r Rect) Point {
	n := r.Normalize()
	cx, cy := n.X+n.Width/2, n.Y+n.Height/2
	switch h {
	case HandleTopLeft:
		return Pt(n.X, n.Y)
	case HandleTop:
		return Pt(cx, n.Y)
	case HandleTopRight:
		return Pt(n.Right(), n.Y)
	case HandleRight:
		return Pt(n.Right(), cy)
	case HandleBottomRight:
		return Pt(n.Right(), n.Bottom())
	case HandleBottom:
		return Pt(cx, n.Bottom())
	case HandleBottomLeft:
		return Pt(n.X, n.Bottom())
	case HandleLeft:
		return Pt(n.X, cy)
	}
	return Pt(cx, cy)
}

// Handles lists the eight handles in drawing order.
func Handles() []Handle {
	return []Handle{
		HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
		HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
	}
}
