package adjust

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/retouch/internal/geom"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}
	return img
}

func TestRotateQuarterTurns(t *testing.T) {
	src := gradient(4, 3)
	out := Transform{Rotation: 90}.ApplyRGBA(src)
	if out.Bounds().Dx() != 3 || out.Bounds().Dy() != 4 {
		t.Fatalf("rotated bounds %v", out.Bounds())
	}
	// The source top left lands at the top right after a clockwise turn.
	if got, want := out.RGBAAt(2, 0), src.RGBAAt(0, 0); got != want {
		t.Fatalf("top right = %+v, want %+v", got, want)
	}
	if got, want := out.RGBAAt(2, 3), src.RGBAAt(3, 0); got != want {
		t.Fatalf("bottom right = %+v, want %+v", got, want)
	}
	r := Transform{}
	for i := 0; i < 4; i++ {
		r = r.Rotate()
	}
	if r.Rotation != 0 {
		t.Fatalf("four turns = %d", r.Rotation)
	}
}

func TestFlips(t *testing.T) {
	src := gradient(4, 3)
	h := Transform{FlipH: true}.ApplyRGBA(src)
	if h.RGBAAt(0, 1) != src.RGBAAt(3, 1) {
		t.Fatal("horizontal flip did not mirror columns")
	}
	v := Transform{FlipV: true}.ApplyRGBA(src)
	if v.RGBAAt(1, 0) != src.RGBAAt(1, 2) {
		t.Fatal("vertical flip did not mirror rows")
	}
	both := Transform{Rotation: 180}.ApplyRGBA(src)
	hv := Transform{FlipH: true, FlipV: true}.ApplyRGBA(src)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if both.RGBAAt(x, y) != hv.RGBAAt(x, y) {
				t.Fatalf("rotate 180 differs from flip h+v at (%d,%d)", x, y)
			}
		}
	}
}

func TestReprojectFollowsSource(t *testing.T) {
	const sw, sh = 5, 3
	layer := image.NewRGBA(image.Rect(0, 0, sw, sh))
	mark := color.RGBA{R: 255, A: 255}
	layer.SetRGBA(1, 0, mark)

	to := Transform{Rotation: 90, FlipH: true}
	moved := Reproject(layer, Transform{}, to, sw, sh)
	p := to.MapPoint(geom.Pt(1.5, 0.5), sw, sh)
	if got := moved.RGBAAt(int(p.X), int(p.Y)); got != mark {
		t.Fatalf("mark not found at %v after reproject", p)
	}
	back := Reproject(moved, to, Transform{}, sw, sh)
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if back.RGBAAt(x, y) != layer.RGBAAt(x, y) {
				t.Fatalf("round trip changed pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestInverseAlphaAndUnmapRect(t *testing.T) {
	const sw, sh = 6, 4
	tr := Transform{Rotation: 270}
	dw, dh := tr.Size(sw, sh)
	mask := image.NewAlpha(image.Rect(0, 0, dw, dh))
	mask.SetAlpha(0, 0, color.Alpha{A: 255})
	src := tr.InverseAlpha(mask, sw, sh)
	// Display top left under a counter clockwise turn is the source top right.
	if src.AlphaAt(sw-1, 0).A != 255 {
		t.Fatal("mask pixel not mapped back to the source top right")
	}
	r := tr.UnmapRect(image.Rect(0, 0, 1, 1), sw, sh)
	if r != image.Rect(sw-1, 0, sw, 1) {
		t.Fatalf("unmapped rect %v", r)
	}
}

func TestNeutralIsIdentity(t *testing.T) {
	src := gradient(8, 8)
	out := Render(src, nil, Params{}, Transform{})
	if out == src {
		t.Fatal("render returned its input")
	}
	for i := range src.Pix {
		if src.Pix[i] != out.Pix[i] {
			t.Fatalf("neutral render changed byte %d", i)
		}
	}
}

func TestInvertRunsLast(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 64, G: 64, B: 64, A: 255})
	out := Render(src, nil, Params{Luminance: 100, Invert: true}, Transform{})
	if got := out.RGBAAt(0, 0).R; got != 127 {
		t.Fatalf("red = %d, want 127 (brighten then invert)", got)
	}
	if src.RGBAAt(0, 0).R != 64 {
		t.Fatal("render mutated its input")
	}
}

func TestPaintIsCompositedAfterGeometry(t *testing.T) {
	src := gradient(4, 2)
	paint := image.NewRGBA(image.Rect(0, 0, 2, 4))
	paint.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	out := Render(src, paint, Params{Invert: true}, Transform{Rotation: 90})
	if got := out.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Fatalf("painted pixel = %+v, want inverted white", got)
	}
}

func TestTransparentPixelsUntouched(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(1, 0, color.RGBA{R: 10, A: 255})
	out := Pixels(src, Params{Grain: 100, Invert: true, Saturation: 50})
	if out.RGBAAt(0, 0) != (color.RGBA{}) {
		t.Fatalf("transparent pixel became %+v", out.RGBAAt(0, 0))
	}
}

func TestHueRotation(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	out := Pixels(src, Params{Hue: 120})
	if got := out.RGBAAt(0, 0); got.G < 250 || got.R > 5 {
		t.Fatalf("red rotated by 120 = %+v, want green", got)
	}
}

func TestChannelMixerTargetsBand(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})
	var p Params
	p.Channels[Blue].Saturation = -100
	Pixels(img, p)
	blue := img.RGBAAt(0, 0)
	if blue.R != blue.G || blue.G != blue.B {
		t.Fatalf("desaturated blue = %+v, want grey", blue)
	}
	if red := img.RGBAAt(1, 0); red != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("red pixel changed to %+v", red)
	}
}

func TestParamsSet(t *testing.T) {
	var p Params
	if err := p.Set("contrast", 250); err != nil {
		t.Fatal(err)
	}
	if p.Contrast != 100 {
		t.Fatalf("contrast = %v, want clamped 100", p.Contrast)
	}
	if err := p.Set("green.hue", -20); err != nil || p.Channels[Green].Hue != -20 {
		t.Fatalf("green.hue = %v, err %v", p.Channels[Green].Hue, err)
	}
	if err := p.Set("sparkle", 1); err == nil {
		t.Fatal("expected an error for an unknown slider")
	}
	p.Reset()
	if !p.Neutral() {
		t.Fatal("reset params are not neutral")
	}
}
