package geom

import (
	"image"
	"math"
	"testing"
)

func TestNormalizeSwapsNegativeSize(t *testing.T) {
	r := Rect{X: 50, Y: 40, Width: -20, Height: -10}.Normalize()
	want := Rect{X: 30, Y: 30, Width: 20, Height: 10}
	if r != want {
		t.Fatalf("normalize = %+v, want %+v", r, want)
	}
	if got := RectFromPoints(Pt(10, 10), Pt(0, 5)); got != (Rect{X: 0, Y: 5, Width: 10, Height: 5}) {
		t.Fatalf("RectFromPoints = %+v", got)
	}
}

func TestIsPointInRectInclusive(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	cases := []struct {
		p    Point
		want bool
	}{
		{Pt(10, 10), true},
		{Pt(30, 30), true},
		{Pt(20, 20), true},
		{Pt(9.9, 20), false},
		{Pt(20, 30.1), false},
	}
	for _, c := range cases {
		if got := IsPointInRect(c.p, r); got != c.want {
			t.Errorf("IsPointInRect(%v) = %v, want %v", c.p, got, c.want)
		}
	}
	flipped := Rect{X: 30, Y: 30, Width: -20, Height: -20}
	if !IsPointInRect(Pt(15, 15), flipped) {
		t.Error("expected negative-size rect to be normalized before testing")
	}
}

func TestHandleAtSymmetry(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 200, Height: 120}
	for _, h := range Handles() {
		p := HandlePoint(h, r)
		if got := HandleAt(p, r); got != h {
			t.Errorf("HandleAt(%s anchor %v) = %s", h, p, got)
		}
	}
	if got := HandleAt(Pt(200, 110), r); got != HandleNone {
		t.Errorf("body point resolved to %s, want none", got)
	}
	if got := HandleAt(Pt(0, 0), r); got != HandleNone {
		t.Errorf("far point resolved to %s, want none", got)
	}
}

func TestHandleAtRadiusIsStrict(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	edge := float64(HandleSize) / 2
	if got := HandleAt(Pt(-edge, 50), r); got != HandleNone {
		t.Errorf("point exactly on radius resolved to %s", got)
	}
	if got := HandleAt(Pt(-edge+0.5, 50), r); got != HandleLeft {
		t.Errorf("point inside radius resolved to %s, want w", got)
	}
	if got := HandleAt(Pt(100+edge-0.5, 50), r); got != HandleRight {
		t.Errorf("right edge resolved to %s, want e", got)
	}
	if got := HandleAt(Pt(100, 200), r); got != HandleNone {
		t.Errorf("right edge line beyond rect resolved to %s", got)
	}
}

func TestCursorForHandle(t *testing.T) {
	cases := map[Handle]string{
		HandleTopLeft:     "nwse-resize",
		HandleBottomRight: "nwse-resize",
		HandleTopRight:    "nesw-resize",
		HandleBottomLeft:  "nesw-resize",
		HandleTop:         "ns-resize",
		HandleBottom:      "ns-resize",
		HandleLeft:        "ew-resize",
		HandleRight:       "ew-resize",
		HandleNone:        "",
	}
	for h, want := range cases {
		if got := CursorForHandle(h); got != want {
			t.Errorf("CursorForHandle(%s) = %q, want %q", h, got, want)
		}
	}
}

func TestHandleOpposite(t *testing.T) {
	for _, h := range Handles() {
		if h.Opposite().Opposite() != h {
			t.Errorf("opposite of opposite of %s = %s", h, h.Opposite().Opposite())
		}
		r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
		a, b := HandlePoint(h, r), HandlePoint(h.Opposite(), r)
		if mid := Pt((a.X+b.X)/2, (a.Y+b.Y)/2); mid != Pt(5, 5) {
			t.Errorf("%s and %s are not mirrored through the centre", h, h.Opposite())
		}
	}
}

func TestApproximateCubicBezier(t *testing.T) {
	p0, p1, p2, p3 := Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)
	pts := ApproximateCubicBezier(p0, p1, p2, p3, 0)
	if len(pts) != DefaultBezierSteps+1 {
		t.Fatalf("got %d points, want %d", len(pts), DefaultBezierSteps+1)
	}
	if pts[0] != p0 || pts[len(pts)-1] != p3 {
		t.Fatalf("endpoints %v %v", pts[0], pts[len(pts)-1])
	}
	mid := pts[DefaultBezierSteps/2]
	if math.Abs(mid.X-5) > 1e-9 || math.Abs(mid.Y-7.5) > 1e-9 {
		t.Fatalf("midpoint = %v, want (5, 7.5)", mid)
	}
}

func TestRatioValue(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	cases := []struct {
		in   string
		img  image.Image
		want float64
		ok   bool
	}{
		{"16:9", nil, 16.0 / 9, true},
		{"1:1", nil, 1, true},
		{"Free", img, 0, false},
		{"bogus", nil, 0, false},
		{"4:0", nil, 0, false},
		{"a:b", nil, 0, false},
		{"1:2:3", nil, 0, false},
		{"Original", img, 1.5, true},
		{"Original", nil, 0, false},
	}
	for _, c := range cases {
		got, ok := RatioValue(c.in, c.img)
		if ok != c.ok || math.Abs(got-c.want) > 1e-12 {
			t.Errorf("RatioValue(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := Fit(image.Rect(0, 0, 400, 300), image.Pt(800, 400))
	if v.Scale != 0.5 {
		t.Fatalf("scale = %v, want 0.5", v.Scale)
	}
	if v.Offset != image.Pt(0, 50) {
		t.Fatalf("offset = %v, want (0,50)", v.Offset)
	}
	p := v.ToCanvas(image.Pt(200, 150))
	if p != Pt(400, 200) {
		t.Fatalf("ToCanvas = %v", p)
	}
	if back := v.FromCanvas(p); back != image.Pt(200, 150) {
		t.Fatalf("FromCanvas = %v", back)
	}
	small := Fit(image.Rect(0, 0, 400, 300), image.Pt(100, 100))
	if small.Scale != 1 {
		t.Fatalf("small canvas scaled to %v", small.Scale)
	}
}
