// Package adjust implements the non-destructive adjustment pipeline:
// geometric transform, tonal, colour, per-channel HSL, detail, stylistic and
// invert stages applied in that order.
package adjust

import "fmt"

// Channel is one of the eight hue bands of the HSL mixer.
type Channel int

const (
	Red Channel = iota
	Orange
	Yellow
	Green
	Aqua
	Blue
	Purple
	Magenta
	NumChannels
)

var channelNames = [NumChannels]string{"red", "orange", "yellow", "green", "aqua", "blue", "purple", "magenta"}

// channelHues are the band centres in degrees.
var channelHues = [NumChannels]float64{0, 30, 60, 120, 180, 240, 270, 300}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel looks a channel up by name.
func ParseChannel(s string) (Channel, bool) {
	for i, n := range channelNames {
		if n == s {
			return Channel(i), true
		}
	}
	return 0, false
}

// HSL is a per-channel adjustment, each field in [-100, 100].
type HSL struct {
	Hue, Saturation, Lightness float64
}

// Params is the full slider state. The zero value is neutral. Sliders run
// from -100 to 100 except Hue (degrees, -180..180), Grain (0..100) and Blur
// (pixels, 0..20).
type Params struct {
	Luminance   float64
	Contrast    float64
	Temperature float64
	Tint        float64
	Saturation  float64
	Vibrance    float64
	Hue         float64
	Clarity     float64
	Dehaze      float64
	Grain       float64
	Blur        float64
	Invert      bool
	Channels    [NumChannels]HSL
}

// Neutral reports whether p leaves pixels unchanged.
func (p Params) Neutral() bool { return p == Params{} }

// Reset returns p to neutral.
func (p *Params) Reset() { *p = Params{} }

// Clamp pins every slider to its range.
func (p Params) Clamp() Params {
	for _, f := range []*float64{&p.Luminance, &p.Contrast, &p.Temperature, &p.Tint,
		&p.Saturation, &p.Vibrance, &p.Clarity, &p.Dehaze} {
		*f = clampf(*f, -100, 100)
	}
	p.Hue = clampf(p.Hue, -180, 180)
	p.Grain = clampf(p.Grain, 0, 100)
	p.Blur = clampf(p.Blur, 0, 20)
	for i := range p.Channels {
		c := &p.Channels[i]
		c.Hue = clampf(c.Hue, -100, 100)
		c.Saturation = clampf(c.Saturation, -100, 100)
		c.Lightness = clampf(c.Lightness, -100, 100)
	}
	return p
}

func (p Params) channelsNeutral() bool {
	return p.Channels == [NumChannels]HSL{}
}

// Set assigns a slider by name, as used by the CLI and key bindings.
// Channel sliders are named "<channel>.hue", "<channel>.saturation" or
// "<channel>.lightness".
func (p *Params) Set(name string, v float64) error {
	switch name {
	case "luminance":
		p.Luminance = v
	case "contrast":
		p.Contrast = v
	case "temperature", "temp":
		p.Temperature = v
	case "tint":
		p.Tint = v
	case "saturation":
		p.Saturation = v
	case "vibrance":
		p.Vibrance = v
	case "hue":
		p.Hue = v
	case "clarity":
		p.Clarity = v
	case "dehaze":
		p.Dehaze = v
	case "grain":
		p.Grain = v
	case "blur":
		p.Blur = v
	case "invert":
		p.Invert = v != 0
	default:
		for i, n := range channelNames {
			switch name {
			case n + ".hue":
				p.Channels[i].Hue = v
			case n + ".saturation":
				p.Channels[i].Saturation = v
			case n + ".lightness":
				p.Channels[i].Lightness = v
			default:
				continue
			}
			*p = p.Clamp()
			return nil
		}
		return fmt.Errorf("unknown adjustment %q", name)
	}
	*p = p.Clamp()
	return nil
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
