// Package overlay draws the ephemeral editor guides onto a gg context:
// marching ants, in-progress selection shapes, pen guides, the crop frame,
// the brush cursor and the colour picker swatch.
package overlay

import (
	"image/color"

	"github.com/gogpu/gg"
	"seehuhn.de/go/geom/path"

	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/selection"
	"github.com/example/retouch/internal/theme"
)

// AntsPeriod is the dash period of the marching ants.
const AntsPeriod = 10

// AntsStep is how far the ants advance each frame.
const AntsStep = 0.5

// Brush describes the cursor drawn for the paint tools.
type Brush struct {
	Center   geom.Point
	Size     float64
	Hardness float64 // 0..1
	Opacity  float64 // 0..1
	Color    color.NRGBA
	Eraser   bool
}

// Picker is the colour picker preview swatch.
type Picker struct {
	At    geom.Point
	Color color.Color
}

// PenGuide is the pen path under construction.
type PenGuide struct {
	Nodes  []selection.PenNode
	Cursor *geom.Point
	// Dragging is set while the newest node's handle is being pulled out.
	Dragging bool
	// Closable is set when a click at Cursor would close the path.
	Closable bool
}

// View is everything the overlay shows for one frame.
type View struct {
	Width, Height int

	Selection  *path.Data
	AntsOffset float64

	Lasso   []geom.Point
	Marquee *geom.Rect
	Ellipse *geom.Rect
	Pen     *PenGuide
	Crop    *geom.Rect
	Brush   *Brush
	Picker  *Picker
}

// Draw clears dc and renders v onto it.
func Draw(dc *gg.Context, v View, th *theme.Theme) {
	if th == nil {
		th = theme.Default()
	}
	dc.Clear()
	dc.ClearPath()
	if v.Crop != nil {
		drawCrop(dc, *v.Crop, v.Width, v.Height, th)
	}
	if v.Selection != nil && len(v.Selection.Cmds) > 0 {
		drawAnts(dc, v.Selection, v.AntsOffset, th)
	}
	if len(v.Lasso) > 1 {
		dc.SetColor(th.LassoStroke)
		dc.SetLineWidth(1)
		dc.ClearDash()
		polyline(dc, v.Lasso, false)
		_ = dc.Stroke()
	}
	if v.Marquee != nil {
		dashedShape(dc, th, func() {
			r := v.Marquee.Normalize()
			dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
		})
	}
	if v.Ellipse != nil {
		dashedShape(dc, th, func() {
			r := v.Ellipse.Normalize()
			dc.DrawEllipse(r.X+r.Width/2, r.Y+r.Height/2, r.Width/2, r.Height/2)
		})
	}
	if v.Pen != nil {
		drawPen(dc, *v.Pen, th)
	}
	if v.Brush != nil {
		drawBrush(dc, *v.Brush)
	}
	if v.Picker != nil {
		drawPicker(dc, *v.Picker)
	}
}

// NextAntsOffset advances the marching ants by one frame.
func NextAntsOffset(off float64) float64 {
	off += AntsStep
	for off >= AntsPeriod {
		off -= AntsPeriod
	}
	return off
}

func appendPath(dc *gg.Context, p *path.Data) {
	i := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			dc.MoveTo(p.Coords[i].X, p.Coords[i].Y)
			i++
		case path.CmdLineTo:
			dc.LineTo(p.Coords[i].X, p.Coords[i].Y)
			i++
		case path.CmdQuadTo:
			c, e := p.Coords[i], p.Coords[i+1]
			dc.QuadraticTo(c.X, c.Y, e.X, e.Y)
			i += 2
		case path.CmdCubeTo:
			c1, c2, e := p.Coords[i], p.Coords[i+1], p.Coords[i+2]
			dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, e.X, e.Y)
			i += 3
		case path.CmdClose:
			dc.ClosePath()
		}
	}
}

func polyline(dc *gg.Context, pts []geom.Point, closed bool) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	if closed {
		dc.ClosePath()
	}
}

// drawAnts strokes the outline twice, light then dark, with dashes half a
// period apart so the two colours alternate.
func drawAnts(dc *gg.Context, p *path.Data, off float64, th *theme.Theme) {
	dc.SetLineWidth(1)
	dc.SetDash(5, 5)
	dc.SetColor(th.AntsLight)
	dc.SetDashOffset(-off)
	appendPath(dc, p)
	_ = dc.Stroke()
	dc.SetColor(th.AntsDark)
	dc.SetDashOffset(-off + 5)
	appendPath(dc, p)
	_ = dc.Stroke()
	dc.ClearDash()
}

func dashedShape(dc *gg.Context, th *theme.Theme, shape func()) {
	dc.SetLineWidth(1)
	dc.SetDash(3, 3)
	dc.SetDashOffset(0)
	dc.SetColor(th.AntsLight)
	shape()
	_ = dc.Stroke()
	dc.SetDashOffset(3)
	dc.SetColor(th.AntsDark)
	shape()
	_ = dc.Stroke()
	dc.ClearDash()
}

func drawPen(dc *gg.Context, g PenGuide, th *theme.Theme) {
	if len(g.Nodes) == 0 {
		return
	}
	dc.ClearDash()
	dc.SetColor(th.PenStroke)
	dc.SetLineWidth(1.5)
	dc.MoveTo(g.Nodes[0].Anchor.X, g.Nodes[0].Anchor.Y)
	for i := 1; i < len(g.Nodes); i++ {
		a, b := g.Nodes[i-1], g.Nodes[i]
		dc.CubicTo(a.Out.X, a.Out.Y, b.In.X, b.In.Y, b.Anchor.X, b.Anchor.Y)
	}
	_ = dc.Stroke()

	last := g.Nodes[len(g.Nodes)-1]
	if g.Cursor != nil && !g.Dragging {
		// Preview of the next segment.
		dc.SetDash(3, 3)
		dc.MoveTo(last.Anchor.X, last.Anchor.Y)
		dc.CubicTo(last.Out.X, last.Out.Y, g.Cursor.X, g.Cursor.Y, g.Cursor.X, g.Cursor.Y)
		_ = dc.Stroke()
		dc.ClearDash()
	}
	if last.Out != last.Anchor || last.In != last.Anchor {
		dc.SetRGBA(1, 1, 1, 0.7)
		dc.SetLineWidth(1)
		dc.MoveTo(last.In.X, last.In.Y)
		dc.LineTo(last.Anchor.X, last.Anchor.Y)
		dc.LineTo(last.Out.X, last.Out.Y)
		_ = dc.Stroke()
		for _, h := range []geom.Point{last.In, last.Out} {
			dc.DrawCircle(h.X, h.Y, 2.5)
			_ = dc.Fill()
		}
	}
	for i, n := range g.Nodes {
		r := 2.5
		if i == 0 {
			r = 4
		}
		dc.DrawCircle(n.Anchor.X, n.Anchor.Y, r)
		dc.SetColor(th.HandleFill)
		_ = dc.FillPreserve()
		dc.SetColor(th.HandleBorder)
		dc.SetLineWidth(1)
		_ = dc.Stroke()
	}
	if g.Closable {
		first := g.Nodes[0].Anchor
		dc.DrawCircle(first.X, first.Y, 7)
		dc.SetColor(th.PenStroke)
		_ = dc.Stroke()
	}
}

func drawCrop(dc *gg.Context, r geom.Rect, w, h int, th *theme.Theme) {
	r = r.Normalize()
	dc.ClearDash()
	// Shade everything outside the rect with an even-odd hole.
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.SetColor(th.CropShade)
	_ = dc.Fill()
	dc.SetFillRule(gg.FillRuleNonZero)

	dc.SetColor(th.CropBorder)
	dc.SetLineWidth(1)
	dc.SetDash(4, 4)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	_ = dc.Stroke()
	dc.ClearDash()

	// Rule of thirds.
	dc.SetRGBA(1, 1, 1, 0.35)
	for i := 1; i < 3; i++ {
		x := r.X + r.Width*float64(i)/3
		y := r.Y + r.Height*float64(i)/3
		dc.MoveTo(x, r.Y)
		dc.LineTo(x, r.Bottom())
		dc.MoveTo(r.X, y)
		dc.LineTo(r.Right(), y)
	}
	_ = dc.Stroke()

	half := float64(geom.HandleSize) / 2
	for _, hd := range geom.Handles() {
		p := geom.HandlePoint(hd, r)
		dc.DrawRectangle(p.X-half, p.Y-half, geom.HandleSize, geom.HandleSize)
		dc.SetColor(th.HandleFill)
		_ = dc.FillPreserve()
		dc.SetColor(th.HandleBorder)
		_ = dc.Stroke()
	}
}

// drawBrush renders the cursor as a radial gradient that stays solid out to
// hardness² of the radius and fades to transparent at the edge.
func drawBrush(dc *gg.Context, b Brush) {
	radius := b.Size / 2
	if radius <= 0 {
		return
	}
	var inner gg.RGBA
	if b.Eraser {
		inner = gg.RGBA{R: 1, G: 1, B: 1, A: b.Opacity * 0.3}
	} else {
		inner = gg.RGBA{
			R: float64(b.Color.R) / 255,
			G: float64(b.Color.G) / 255,
			B: float64(b.Color.B) / 255,
			A: b.Opacity * 0.85,
		}
	}
	outer := inner
	outer.A = 0
	stop := b.Hardness * b.Hardness
	grad := gg.NewRadialGradientBrush(b.Center.X, b.Center.Y, 0, radius).
		AddColorStop(0, inner).
		AddColorStop(stop, inner).
		AddColorStop(1, outer)
	dc.SetFillBrush(grad)
	dc.DrawCircle(b.Center.X, b.Center.Y, radius)
	_ = dc.Fill()

	dc.SetRGBA(1, 1, 1, 0.9)
	dc.SetLineWidth(1)
	dc.DrawCircle(b.Center.X, b.Center.Y, radius)
	_ = dc.Stroke()
	dc.SetRGBA(0, 0, 0, 0.4)
	dc.DrawCircle(b.Center.X, b.Center.Y, radius+1)
	_ = dc.Stroke()
}

// PickerOffset places the swatch away from the cursor hotspot.
const PickerOffset = 20

func drawPicker(dc *gg.Context, p Picker) {
	cx, cy := p.At.X+PickerOffset, p.At.Y+PickerOffset
	dc.DrawCircle(cx, cy, 12)
	dc.SetColor(p.Color)
	_ = dc.FillPreserve()
	dc.SetRGBA(1, 1, 1, 1)
	dc.SetLineWidth(2)
	_ = dc.StrokePreserve()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.SetLineWidth(1)
	_ = dc.Stroke()
}
