// Package render provides the blur primitives shared by selection feathering,
// brush softening and the stylistic blur adjustment.
package render

import (
	"image"
	"math"
)

// Passes is the number of box blur passes used to approximate a Gaussian.
const Passes = 3

// BoxRadius converts a Gaussian sigma into the radius of a single box pass so
// that Passes passes approximate the requested blur. Each pass spreads at most
// BoxRadius pixels, so the total spread stays within about 3*sigma.
func BoxRadius(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	w := math.Sqrt(12*sigma*sigma/Passes + 1)
	r := int(math.Round((w - 1) / 2))
	if r < 1 {
		r = 1
	}
	return r
}

// BlurAlpha blurs a mask with Passes box passes of radius BoxRadius(sigma).
// The source is left untouched.
func BlurAlpha(src *image.Alpha, sigma float64) *image.Alpha {
	out := image.NewAlpha(src.Bounds())
	copy(out.Pix, src.Pix)
	r := BoxRadius(sigma)
	if r == 0 {
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := make([]uint8, len(out.Pix))
	for i := 0; i < Passes; i++ {
		boxBlur(out.Pix, tmp, w, h, out.Stride, 1, r)
	}
	return out
}

// BlurRGBA blurs every channel of a premultiplied image.
func BlurRGBA(src *image.RGBA, sigma float64) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	r := BoxRadius(sigma)
	if r == 0 {
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := make([]uint8, len(out.Pix))
	for i := 0; i < Passes; i++ {
		for c := 0; c < 4; c++ {
			boxBlur(out.Pix[c:], tmp[c:], w, h, out.Stride, 4, r)
		}
	}
	return out
}

// boxBlur runs one horizontal and one vertical box pass in place over a
// single channel. step is the byte distance between horizontally adjacent
// samples. Windows are clamped at the edges.
func boxBlur(pix, tmp []uint8, w, h, stride, step, radius int) {
	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := y * stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(pix[row+x*step])
		}
		for x := 0; x < w; x++ {
			x0 := max(x-radius, 0)
			x1 := min(x+radius, w-1)
			tmp[row+x*step] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		col := x * step
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp[y*stride+col])
		}
		for y := 0; y < h; y++ {
			y0 := max(y-radius, 0)
			y1 := min(y+radius, h-1)
			pix[y*stride+col] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
}
