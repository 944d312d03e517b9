package editor

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"

	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/render"
)

// Brush size limits and the bracket key step.
const (
	MinBrushSize  = 1
	MaxBrushSize  = 500
	BrushSizeStep = 5
)

// beginStroke starts a stroke on the scratch surface with a dab at p. The
// scratch holds opaque coverage only; colour, softness and opacity are
// applied when the stroke is composited.
func (e *Editor) beginStroke(p geom.Point) {
	e.surf.ClearScratch()
	dc := e.surf.Scratch
	dc.SetColor(color.White)
	dc.DrawCircle(p.X, p.Y, e.brush.Size/2)
	_ = dc.Fill()
	e.state = StatePainting
	e.preview = nil
}

func (e *Editor) extendStroke(from, to geom.Point) {
	dc := e.surf.Scratch
	dc.SetColor(color.White)
	dc.SetLineWidth(e.brush.Size)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.ClearDash()
	dc.MoveTo(from.X, from.Y)
	dc.LineTo(to.X, to.Y)
	_ = dc.Stroke()
	e.preview = nil
}

// strokeMask turns the scratch coverage into the final stroke alpha: softened
// by hardness, scaled by opacity and clipped to the feathered selection.
func (e *Editor) strokeMask() *image.Alpha {
	scratch := e.surf.ScratchImage()
	b := scratch.Bounds()
	mask := image.NewAlpha(b)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			mask.Pix[y*mask.Stride+x] = scratch.Pix[y*scratch.Stride+x*4+3]
		}
	}
	if sigma := (1 - e.brush.Hardness) * e.brush.Size / 4; sigma > 0 {
		mask = render.BlurAlpha(mask, sigma)
	}
	sel := e.selectionMask()
	for i, a := range mask.Pix {
		v := float64(a) / 255 * e.brush.Opacity
		if sel != nil {
			v *= float64(sel.Pix[i]) / 255
		}
		mask.Pix[i] = uint8(v*255 + 0.5)
	}
	return mask
}

// applyStroke composites mask onto paint: the brush colour over it, or for
// the eraser a proportional removal of what is there.
func (e *Editor) applyStroke(paint *image.RGBA, mask *image.Alpha) {
	if e.tool == ToolEraser {
		eraseMask(paint, mask)
		return
	}
	draw.DrawMask(paint, paint.Bounds(), image.NewUniform(e.brush.Color), image.Point{}, mask, image.Point{}, draw.Over)
}

// eraseMask scales every premultiplied pixel of img by 1-mask.
func eraseMask(img *image.RGBA, mask *image.Alpha) {
	b := img.Bounds().Intersect(mask.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			keep := uint32(255 - a)
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			for c := range px {
				px[c] = uint8((uint32(px[c])*keep + 127) / 255)
			}
		}
	}
}

func (e *Editor) commitStroke() {
	e.applyStroke(e.surf.Paint, e.strokeMask())
	e.surf.ClearScratch()
	e.surf.Invalidate()
	e.paintGen++
	e.state = StateIdle
	e.preview = nil
}

// fillMask paints the brush colour through the selection mask.
func (e *Editor) fillMask(mask *image.Alpha) {
	draw.DrawMask(e.surf.Paint, e.surf.Paint.Bounds(), image.NewUniform(e.brush.Color), image.Point{}, mask, image.Point{}, draw.Over)
	e.surf.Invalidate()
	e.paintGen++
}

// SetBrushSize clamps size to the supported range.
func (e *Editor) SetBrushSize(size float64) {
	e.brush.Size = min(max(size, MinBrushSize), MaxBrushSize)
}

// BrushBigger grows the brush by one step.
func (e *Editor) BrushBigger() { e.SetBrushSize(e.brush.Size + BrushSizeStep) }

// BrushSmaller shrinks the brush by one step.
func (e *Editor) BrushSmaller() { e.SetBrushSize(e.brush.Size - BrushSizeStep) }

// SetBrushHardness sets the edge hardness in [0,1].
func (e *Editor) SetBrushHardness(h float64) { e.brush.Hardness = min(max(h, 0), 1) }

// SetBrushOpacity sets the stroke opacity in [0,1].
func (e *Editor) SetBrushOpacity(o float64) { e.brush.Opacity = min(max(o, 0), 1) }

// SetBrushColor sets the paint colour.
func (e *Editor) SetBrushColor(c color.Color) {
	e.brush.Color = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// SetBrushHex parses #rgb, #rrggbb or a colour name into the brush colour.
// Malformed input is ignored.
func (e *Editor) SetBrushHex(s string) bool {
	c, ok := geom.HexToRGBA(s, 100)
	if ok {
		e.brush.Color = c
	}
	return ok
}
