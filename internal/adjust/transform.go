package adjust

import (
	"image"
	"math"

	"seehuhn.de/go/geom/matrix"

	"github.com/example/retouch/internal/geom"
)

// Transform is the geometric stage: a clockwise rotation in quarter turns
// followed by optional horizontal and vertical flips.
type Transform struct {
	Rotation int
	FlipH    bool
	FlipV    bool
}

// Identity reports whether t leaves the image as is.
func (t Transform) Identity() bool { return t.Normalize() == Transform{} }

// Normalize snaps Rotation to 0, 90, 180 or 270.
func (t Transform) Normalize() Transform {
	r := int(math.Round(float64(t.Rotation)/90)) * 90 % 360
	if r < 0 {
		r += 360
	}
	t.Rotation = r
	return t
}

// Rotate returns t turned a further 90 degrees clockwise.
func (t Transform) Rotate() Transform {
	t.Rotation = (t.Rotation + 90) % 360
	return t.Normalize()
}

// Size returns the displayed size of a w by h source.
func (t Transform) Size(w, h int) (int, int) {
	switch t.Normalize().Rotation {
	case 90, 270:
		return h, w
	}
	return w, h
}

// Matrix maps source pixel space onto display pixel space for a w by h
// source.
func (t Transform) Matrix(w, h int) matrix.Matrix {
	t = t.Normalize()
	fw, fh := float64(w), float64(h)
	var m matrix.Matrix
	switch t.Rotation {
	case 90:
		m = matrix.Matrix{0, 1, -1, 0, fh, 0}
	case 180:
		m = matrix.Matrix{-1, 0, 0, -1, fw, fh}
	case 270:
		m = matrix.Matrix{0, -1, 1, 0, 0, fw}
	default:
		m = matrix.Identity
	}
	dw, dh := t.Size(w, h)
	if t.FlipH {
		m = then(m, matrix.Matrix{-1, 0, 0, 1, float64(dw), 0})
	}
	if t.FlipV {
		m = then(m, matrix.Matrix{1, 0, 0, -1, 0, float64(dh)})
	}
	return m
}

// then returns the transform applying a first and b second.
func then(a, b matrix.Matrix) matrix.Matrix {
	return matrix.Matrix{
		b[0]*a[0] + b[2]*a[1],
		b[1]*a[0] + b[3]*a[1],
		b[0]*a[2] + b[2]*a[3],
		b[1]*a[2] + b[3]*a[3],
		b[0]*a[4] + b[2]*a[5] + b[4],
		b[1]*a[4] + b[3]*a[5] + b[5],
	}
}

func invert(m matrix.Matrix) matrix.Matrix {
	det := m[0]*m[3] - m[1]*m[2]
	return matrix.Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}
}

func apply(m matrix.Matrix, p geom.Point) geom.Point {
	return geom.Pt(m[0]*p.X+m[2]*p.Y+m[4], m[1]*p.X+m[3]*p.Y+m[5])
}

// MapPoint converts a source position to display space.
func (t Transform) MapPoint(p geom.Point, w, h int) geom.Point {
	return apply(t.Matrix(w, h), p)
}

// UnmapRect converts a display space rect back to source pixel bounds for a
// w by h source.
func (t Transform) UnmapRect(r image.Rectangle, w, h int) image.Rectangle {
	inv := invert(t.Matrix(w, h))
	a := apply(inv, geom.Pt(float64(r.Min.X), float64(r.Min.Y)))
	b := apply(inv, geom.Pt(float64(r.Max.X), float64(r.Max.Y)))
	return geom.RectFromPoints(a, b).Image()
}

// remap fills dst by sampling src through m, which maps dst pixel centres
// to src positions. bpp is the bytes per pixel of both images.
func remap(dst []uint8, dstStride, dw, dh int, src []uint8, srcStride, sw, sh int, bpp int, m matrix.Matrix) {
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			s := apply(m, geom.Pt(float64(x)+0.5, float64(y)+0.5))
			sx, sy := int(math.Floor(s.X)), int(math.Floor(s.Y))
			if sx < 0 || sy < 0 || sx >= sw || sy >= sh {
				continue
			}
			copy(dst[y*dstStride+x*bpp:y*dstStride+x*bpp+bpp], src[sy*srcStride+sx*bpp:])
		}
	}
}

// ApplyRGBA renders src through t into a new image.
func (t Transform) ApplyRGBA(src *image.RGBA) *image.RGBA {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	dw, dh := t.Size(sw, sh)
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	if t.Identity() {
		copyRGBA(dst, src)
		return dst
	}
	remap(dst.Pix, dst.Stride, dw, dh, src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y):], src.Stride, sw, sh, 4, invert(t.Matrix(sw, sh)))
	return dst
}

// InverseAlpha maps a display space mask back onto a sw by sh source.
func (t Transform) InverseAlpha(mask *image.Alpha, sw, sh int) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, sw, sh))
	dw, dh := mask.Bounds().Dx(), mask.Bounds().Dy()
	remap(dst.Pix, dst.Stride, sw, sh, mask.Pix, mask.Stride, dw, dh, 1, t.Matrix(sw, sh))
	return dst
}

// Reproject moves a display space layer from transform from to transform to
// for a sw by sh source, so its pixels stay attached to the same source
// positions.
func Reproject(layer *image.RGBA, from, to Transform, sw, sh int) *image.RGBA {
	dw, dh := to.Size(sw, sh)
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	if from.Normalize() == to.Normalize() {
		copyRGBA(dst, layer)
		return dst
	}
	fw, fh := layer.Bounds().Dx(), layer.Bounds().Dy()
	m := then(invert(to.Matrix(sw, sh)), from.Matrix(sw, sh))
	remap(dst.Pix, dst.Stride, dw, dh, layer.Pix, layer.Stride, fw, fh, 4, m)
	return dst
}

func copyRGBA(dst, src *image.RGBA) {
	w := min(dst.Bounds().Dx(), src.Bounds().Dx()) * 4
	h := min(dst.Bounds().Dy(), src.Bounds().Dy())
	for y := 0; y < h; y++ {
		s := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[s:s+w])
	}
}
