// Package surface owns the editor's layered rasters: the base image, the
// paint layer, the scratch buffer for the stroke in progress and the overlay
// redrawn every frame.
package surface

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/gogpu/gg"
)

// Set is the group of surfaces for one loaded image. Base and Original are
// in source space; Paint, Scratch and Overlay are in display space.
type Set struct {
	// Base is the current source image. Tools never write to it; destructive
	// operations replace it with a new image.
	Base *image.RGBA
	// Original is the image as loaded, kept for before/after comparison.
	Original *image.RGBA
	Paint    *image.RGBA
	Scratch  *gg.Context
	Overlay  *gg.Context

	dirty bool
}

// New builds surfaces for img displayed at w by h.
func New(img image.Image, w, h int) *Set {
	base := ToRGBA(img)
	s := &Set{Base: base, Original: Clone(base)}
	s.Resize(w, h)
	return s
}

// ToRGBA converts img to a zero based RGBA copy.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Clone copies an RGBA image.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

// Size returns the display size.
func (s *Set) Size() (int, int) {
	b := s.Paint.Bounds()
	return b.Dx(), b.Dy()
}

// Resize replaces the display space surfaces with blank ones of w by h.
func (s *Set) Resize(w, h int) {
	if s.Scratch != nil {
		s.Scratch.Close()
	}
	if s.Overlay != nil {
		s.Overlay.Close()
	}
	s.Paint = image.NewRGBA(image.Rect(0, 0, w, h))
	s.Scratch = gg.NewContext(w, h)
	s.Overlay = gg.NewContext(w, h)
	s.dirty = true
}

// SetPaint swaps in a display space paint layer, resizing the scratch and
// overlay surfaces to match.
func (s *Set) SetPaint(p *image.RGBA) {
	w, h := p.Bounds().Dx(), p.Bounds().Dy()
	if pw, ph := s.Size(); pw != w || ph != h {
		s.Resize(w, h)
	}
	s.Paint = p
	s.dirty = true
}

// ClearPaint empties the paint layer.
func (s *Set) ClearPaint() {
	clear(s.Paint.Pix)
	s.dirty = true
}

// ClearScratch empties the stroke buffer.
func (s *Set) ClearScratch() {
	s.Scratch.Clear()
	s.Scratch.ClearPath()
}

// PaintBlank reports whether the paint layer is fully transparent.
func (s *Set) PaintBlank() bool {
	for i := 3; i < len(s.Paint.Pix); i += 4 {
		if s.Paint.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// EncodePaint returns the paint layer as PNG, or nil when it is blank.
func (s *Set) EncodePaint() ([]byte, error) {
	if s.PaintBlank() {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, s.Paint); err != nil {
		return nil, fmt.Errorf("encode paint: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePaint turns EncodePaint output back into a w by h layer. nil data
// yields a blank layer.
func DecodePaint(data []byte, w, h int) (*image.RGBA, error) {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(data) == 0 {
		return out, nil
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode paint: %w", err)
	}
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}

// ScratchImage returns the scratch surface pixels.
func (s *Set) ScratchImage() *image.RGBA {
	return ToRGBA(s.Scratch.Image())
}

// OverlayImage returns the overlay surface pixels.
func (s *Set) OverlayImage() image.Image {
	return s.Overlay.Image()
}

// Invalidate marks the rendered composite stale.
func (s *Set) Invalidate() { s.dirty = true }

// TakeDirty reports and clears the stale flag.
func (s *Set) TakeDirty() bool {
	d := s.dirty
	s.dirty = false
	return d
}

// Close releases the gg contexts.
func (s *Set) Close() {
	if s.Scratch != nil {
		s.Scratch.Close()
	}
	if s.Overlay != nil {
		s.Overlay.Close()
	}
}
