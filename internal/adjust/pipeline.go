package adjust

import (
	"image"
	"image/draw"
	"math"
	"math/rand/v2"

	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/render"
)

// grainSeed keeps grain stable between renders of the same parameters.
const grainSeed = 0x5eed

// clarityRadius is the sigma of the local average used by clarity.
const clarityRadius = 8

// Render runs the full pipeline: base through the transform, the display
// space paint layer composited on top, then the pixel stages. Inputs are not
// modified. paint may be nil.
func Render(base, paint *image.RGBA, p Params, t Transform) *image.RGBA {
	out := t.ApplyRGBA(base)
	if paint != nil {
		draw.Draw(out, out.Bounds(), paint, paint.Bounds().Min, draw.Over)
	}
	return Pixels(out, p)
}

// Pixels applies every stage after the geometric one to img in place and
// returns it.
func Pixels(img *image.RGBA, p Params) *image.RGBA {
	if p.Neutral() {
		return img
	}
	p = p.Clamp()
	pointwise(img, func(c *rgb) {
		tonal(c, p)
		colour(c, p)
	})
	if !p.channelsNeutral() {
		pointwise(img, func(c *rgb) { mixer(c, p) })
	}
	if p.Clarity != 0 {
		clarity(img, p.Clarity)
	}
	if p.Dehaze != 0 {
		pointwise(img, func(c *rgb) { dehaze(c, p.Dehaze) })
	}
	if p.Grain > 0 {
		grain(img, p.Grain)
	}
	if p.Blur > 0 {
		blurred := render.BlurRGBA(img, p.Blur)
		copy(img.Pix, blurred.Pix)
	}
	if p.Invert {
		pointwise(img, func(c *rgb) {
			c.r, c.g, c.b = 1-c.r, 1-c.g, 1-c.b
		})
	}
	return img
}

// rgb is an unpremultiplied colour with channels in [0,1].
type rgb struct{ r, g, b float64 }

func (c *rgb) clamp() {
	c.r = clampf(c.r, 0, 1)
	c.g = clampf(c.g, 0, 1)
	c.b = clampf(c.b, 0, 1)
}

func luma(c rgb) float64 { return 0.2126*c.r + 0.7152*c.g + 0.0722*c.b }

// pointwise runs fn over every non transparent pixel.
func pointwise(img *image.RGBA, fn func(*rgb)) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			px := img.Pix[i : i+4 : i+4]
			a := float64(px[3])
			if a == 0 {
				continue
			}
			k := a / 255
			c := rgb{float64(px[0]) / 255 / k, float64(px[1]) / 255 / k, float64(px[2]) / 255 / k}
			fn(&c)
			c.clamp()
			px[0] = uint8(math.Round(c.r * k * 255))
			px[1] = uint8(math.Round(c.g * k * 255))
			px[2] = uint8(math.Round(c.b * k * 255))
		}
	}
}

func tonal(c *rgb, p Params) {
	if p.Luminance != 0 {
		f := 1 + p.Luminance/100
		c.r, c.g, c.b = c.r*f, c.g*f, c.b*f
	}
	if p.Contrast != 0 {
		f := 1 + p.Contrast/100
		c.r = (c.r-0.5)*f + 0.5
		c.g = (c.g-0.5)*f + 0.5
		c.b = (c.b-0.5)*f + 0.5
	}
	c.clamp()
}

func colour(c *rgb, p Params) {
	if p.Temperature != 0 {
		t := p.Temperature / 100 * 0.15
		c.r += t
		c.b -= t
	}
	if p.Tint != 0 {
		t := p.Tint / 100 * 0.15
		c.g -= t
		c.r += t / 2
		c.b += t / 2
	}
	c.clamp()
	if p.Saturation != 0 {
		f := 1 + p.Saturation/100
		l := luma(*c)
		c.r = l + (c.r-l)*f
		c.g = l + (c.g-l)*f
		c.b = l + (c.b-l)*f
		c.clamp()
	}
	if p.Vibrance != 0 {
		sat := math.Max(c.r, math.Max(c.g, c.b)) - math.Min(c.r, math.Min(c.g, c.b))
		f := 1 + p.Vibrance/100*(1-sat)
		l := luma(*c)
		c.r = l + (c.r-l)*f
		c.g = l + (c.g-l)*f
		c.b = l + (c.b-l)*f
		c.clamp()
	}
	if p.Hue != 0 {
		h, s, l := geom.RGBToHSL(c.r*255, c.g*255, c.b*255)
		r, g, b := geom.HSLToRGB(h+p.Hue, s, l)
		c.r, c.g, c.b = r/255, g/255, b/255
	}
}

// channelWeights splits a hue between the two nearest band centres.
func channelWeights(h float64) (Channel, Channel, float64) {
	for i := Channel(0); i < NumChannels; i++ {
		lo := channelHues[i]
		hi := 360.0
		if i+1 < NumChannels {
			hi = channelHues[i+1]
		}
		if h >= lo && h < hi {
			next := (i + 1) % NumChannels
			return i, next, (h - lo) / (hi - lo)
		}
	}
	return Red, Orange, 0
}

func mixer(c *rgb, p Params) {
	h, s, l := geom.RGBToHSL(c.r*255, c.g*255, c.b*255)
	if s == 0 {
		return
	}
	a, b, t := channelWeights(h)
	ca, cb := p.Channels[a], p.Channels[b]
	mix := func(x, y float64) float64 { return x*(1-t) + y*t }
	dh := mix(ca.Hue, cb.Hue) / 100 * 30
	ds := mix(ca.Saturation, cb.Saturation) / 100
	dl := mix(ca.Lightness, cb.Lightness) / 100
	s *= 1 + ds
	// Lightness shifts scale with saturation so greys stay put.
	l += dl * 50 * (s / 100)
	r, g, bl := geom.HSLToRGB(h+dh, s, l)
	c.r, c.g, c.b = r/255, g/255, bl/255
}

func clarity(img *image.RGBA, amount float64) {
	local := render.BlurRGBA(img, clarityRadius)
	k := amount / 100
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i+3] == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			v := float64(img.Pix[i+c])
			d := v - float64(local.Pix[i+c])
			img.Pix[i+c] = uint8(clampf(math.Round(v+d*k), 0, float64(img.Pix[i+3])))
		}
	}
}

func dehaze(c *rgb, amount float64) {
	d := amount / 100 * 0.25
	if d > 0 {
		c.r = (c.r - d) / (1 - d)
		c.g = (c.g - d) / (1 - d)
		c.b = (c.b - d) / (1 - d)
	} else {
		c.r = c.r*(1+d) - d
		c.g = c.g*(1+d) - d
		c.b = c.b*(1+d) - d
	}
}

func grain(img *image.RGBA, amount float64) {
	rng := rand.New(rand.NewPCG(grainSeed, uint64(img.Bounds().Dx())))
	k := amount / 100 * 40
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := float64(img.Pix[i+3])
		if a == 0 {
			continue
		}
		n := (rng.Float64()*2 - 1) * k * a / 255
		for c := 0; c < 3; c++ {
			img.Pix[i+c] = uint8(clampf(math.Round(float64(img.Pix[i+c])+n), 0, a))
		}
	}
}
