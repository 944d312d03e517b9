package selection

import "github.com/example/retouch/internal/geom"

// kappa places cubic control points so four arcs approximate a circle.
const kappa = 0.5522847498

// RectPolygon returns the corners of r.
func RectPolygon(r geom.Rect) []geom.Point {
	if r.Empty() {
		return nil
	}
	return r.Corners()
}

// Ellipse flattens the ellipse inscribed in r into a polygon.
func Ellipse(r geom.Rect, steps int) []geom.Point {
	if r.Empty() {
		return nil
	}
	n := r.Normalize()
	rx, ry := n.Width/2, n.Height/2
	cx, cy := n.X+rx, n.Y+ry
	kx, ky := rx*kappa, ry*kappa
	quads := [4][4]geom.Point{
		{geom.Pt(cx+rx, cy), geom.Pt(cx+rx, cy+ky), geom.Pt(cx+kx, cy+ry), geom.Pt(cx, cy+ry)},
		{geom.Pt(cx, cy+ry), geom.Pt(cx-kx, cy+ry), geom.Pt(cx-rx, cy+ky), geom.Pt(cx-rx, cy)},
		{geom.Pt(cx-rx, cy), geom.Pt(cx-rx, cy-ky), geom.Pt(cx-kx, cy-ry), geom.Pt(cx, cy-ry)},
		{geom.Pt(cx, cy-ry), geom.Pt(cx+kx, cy-ry), geom.Pt(cx+rx, cy-ky), geom.Pt(cx+rx, cy)},
	}
	var pts []geom.Point
	for _, q := range quads {
		arc := geom.ApproximateCubicBezier(q[0], q[1], q[2], q[3], steps)
		pts = append(pts, arc[:len(arc)-1]...)
	}
	return pts
}
