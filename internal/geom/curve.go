package geom

import (
	"image"
	"strconv"
	"strings"
)

// DefaultBezierSteps is the sampling density used for pen paths.
const DefaultBezierSteps = 20

// ApproximateCubicBezier samples the cubic curve p0..p3 at steps+1 evenly
// spaced parameter values, endpoints included.
func ApproximateCubicBezier(p0, p1, p2, p3 Point, steps int) []Point {
	if steps <= 0 {
		steps = DefaultBezierSteps
	}
	pts := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		mt := 1 - t
		a := mt * mt * mt
		b := 3 * mt * mt * t
		c := 3 * mt * t * t
		d := t * t * t
		pts = append(pts, Pt(
			a*p0.X+b*p1.X+c*p2.X+d*p3.X,
			a*p0.Y+b*p1.Y+c*p2.Y+d*p3.Y,
		))
	}
	return pts
}

// Aspect ratio presets offered by the crop tool.
const (
	RatioFree     = "Free"
	RatioOriginal = "Original"
)

// RatioPresets lists the ratios shown in the crop tool.
var RatioPresets = []string{RatioFree, RatioOriginal, "1:1", "4:3", "3:2", "16:9", "9:16", "4:5"}

// RatioValue parses an aspect ratio label. "Free" and malformed input yield
// ok=false; "Original" uses the image dimensions when img is non-nil.
func RatioValue(s string, img image.Image) (float64, bool) {
	switch s {
	case RatioFree:
		return 0, false
	case RatioOriginal:
		if img == nil {
			return 0, false
		}
		b := img.Bounds()
		if b.Dy() == 0 {
			return 0, false
		}
		return float64(b.Dx()) / float64(b.Dy()), true
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || h == 0 || w <= 0 || h < 0 {
		return 0, false
	}
	return w / h, true
}
