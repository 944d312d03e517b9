// Package selection keeps the editor's region selection as an ordered list of
// polygon strokes combined with new, add and subtract operations, and turns
// it into an outline path or a feathered raster mask.
package selection

import (
	"image"
	"image/draw"
	"math"
	"slices"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/path"

	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/render"
)

// Op says how a stroke combines with the strokes before it.
type Op int

const (
	OpNew Op = iota
	OpAdd
	OpSubtract
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	}
	return "new"
}

// Stroke is one closed polygon of the selection.
type Stroke struct {
	Points []geom.Point
	Op     Op
}

// Selection is the ordered stroke list plus the invert flag. The zero value
// is an empty selection.
type Selection struct {
	strokes  []Stroke
	inverted bool
	version  uint64

	cached struct {
		version uint64
		size    image.Point
		path    *path.Data
	}
}

// AddStroke appends a polygon. OpNew replaces every earlier stroke. Polygons
// with fewer than three points are ignored, except that a degenerate OpNew
// clears the selection.
func (s *Selection) AddStroke(points []geom.Point, op Op) {
	if op == OpNew {
		s.strokes = s.strokes[:0]
		s.inverted = false
		s.version++
	}
	if len(points) < 3 {
		return
	}
	s.strokes = append(s.strokes, Stroke{Points: slices.Clone(points), Op: op})
	s.version++
}

// Invert toggles the inverted flag.
func (s *Selection) Invert() {
	s.inverted = !s.inverted
	s.version++
}

// Clear drops every stroke and the invert flag.
func (s *Selection) Clear() {
	s.strokes = nil
	s.inverted = false
	s.version++
}

// Active reports whether anything is selected.
func (s *Selection) Active() bool { return len(s.strokes) > 0 || s.inverted }

func (s *Selection) Inverted() bool { return s.inverted }

// Strokes returns a copy of the stroke list.
func (s *Selection) Strokes() []Stroke { return slices.Clone(s.strokes) }

// Version changes whenever the selection does.
func (s *Selection) Version() uint64 { return s.version }

// Path returns the composite outline for a canvas of w by h pixels, used to
// draw the marching ants. Subtract strokes are wound in reverse and, when
// inverted, the canvas rectangle leads and the add strokes are reversed
// instead. The nonzero fill of this path depends on each polygon's own
// orientation and ignores stroke order, so it can differ from Mask, which is
// the region every edit uses. The result is memoized until the selection
// changes.
func (s *Selection) Path(w, h int) *path.Data {
	size := image.Pt(w, h)
	if s.cached.path != nil && s.cached.version == s.version && s.cached.size == size {
		return s.cached.path
	}
	p := &path.Data{}
	if s.inverted {
		p.MoveTo(geom.Pt(0, 0)).
			LineTo(geom.Pt(float64(w), 0)).
			LineTo(geom.Pt(float64(w), float64(h))).
			LineTo(geom.Pt(0, float64(h))).
			Close()
	}
	for _, st := range s.strokes {
		reverse := st.Op == OpSubtract
		if s.inverted {
			reverse = !reverse
		}
		addPolygon(p, st.Points, reverse)
	}
	s.cached.version = s.version
	s.cached.size = size
	s.cached.path = p
	return p
}

func addPolygon(p *path.Data, pts []geom.Point, reverse bool) {
	if len(pts) < 2 {
		return
	}
	if reverse {
		pts = slices.Clone(pts)
		slices.Reverse(pts)
	}
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	if len(pts) > 2 {
		p.Close()
	}
}

// Mask rasterizes the selection for a w by h canvas, applying the strokes in
// order: new and add take the union, subtract the difference. With feather 0 every
// value is 0 or 255. With feather > 0 the hard mask is drawn on a buffer
// padded by ceil(2*feather), blurred, and cropped back so the soft edge is
// not clipped by the canvas. Returns nil when nothing is selected.
func (s *Selection) Mask(w, h int, feather float64) *image.Alpha {
	if !s.Active() || w <= 0 || h <= 0 {
		return nil
	}
	pad := 0
	if feather > 0 {
		pad = int(math.Ceil(2 * feather))
	}
	pw, ph := w+2*pad, h+2*pad
	mask := image.NewAlpha(image.Rect(0, 0, pw, ph))
	cov := image.NewAlpha(mask.Rect)
	z := vector.NewRasterizer(pw, ph)
	z.DrawOp = draw.Src
	off := float32(pad)

	for _, st := range s.strokes {
		z.Reset(pw, ph)
		z.DrawOp = draw.Src
		z.MoveTo(float32(st.Points[0].X)+off, float32(st.Points[0].Y)+off)
		for _, pt := range st.Points[1:] {
			z.LineTo(float32(pt.X)+off, float32(pt.Y)+off)
		}
		z.ClosePath()
		z.Draw(cov, cov.Rect, image.Opaque, image.Point{})
		for i, c := range cov.Pix {
			inside := c >= 128
			switch {
			case st.Op == OpSubtract && inside:
				mask.Pix[i] = 0
			case st.Op != OpSubtract && inside:
				mask.Pix[i] = 255
			}
		}
	}
	if s.inverted {
		for y := pad; y < pad+h; y++ {
			row := mask.Pix[y*mask.Stride+pad : y*mask.Stride+pad+w]
			for i, v := range row {
				row[i] = 255 - v
			}
		}
	}
	if pad == 0 {
		return mask
	}
	blurred := render.BlurAlpha(mask, feather)
	out := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := blurred.Pix[(y+pad)*blurred.Stride+pad:]
		copy(out.Pix[y*out.Stride:y*out.Stride+w], src[:w])
	}
	return out
}
