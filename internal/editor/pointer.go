package editor

import (
	"image"
	"image/color"
	"log"

	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/selection"
)

// PointerDown starts a gesture at p in canvas coordinates.
func (e *Editor) PointerDown(p geom.Point, mods Mods) {
	if e.surf == nil || e.busy || e.showOriginal {
		return
	}
	e.setHover(p)
	if e.gesture.active {
		// A press without a release; finish the old gesture first.
		e.PointerUp(e.gesture.last, e.gesture.mods)
	}
	e.gesture = gesture{active: true, start: p, last: p, mods: mods}

	switch intent := ResolveIntent(e.tool, mods, e.target(p)); {
	case e.tool == ToolCrop:
		e.crop.Begin(p)
		e.state = StateCropping
	case e.tool == ToolLasso:
		e.gesture.points = []geom.Point{p}
		e.state = StateDrawingSelection
	case e.tool == ToolMarquee:
		e.state = StateDrawingMarquee
	case e.tool == ToolEllipse:
		e.state = StateDrawingEllipse
	case e.tool == ToolPen:
		e.state = StatePenEditing
		if e.pen.Press(p) {
			e.gesture = gesture{}
			e.commitSelection(e.pen.Flatten(), intent)
			e.pen.Cancel()
			e.state = StateIdle
			e.pushHistory()
		}
	case intent == IntentPick:
		e.pick(p, true)
		e.gesture = gesture{}
	case e.tool.Painting():
		e.beginStroke(p)
	default:
		e.gesture = gesture{}
	}
}

// PointerMove feeds the gesture in progress, or updates the hover position
// when there is none.
func (e *Editor) PointerMove(p geom.Point, mods Mods) {
	if e.surf == nil {
		return
	}
	e.setHover(p)
	if !e.gesture.active {
		if e.tool == ToolPicker {
			e.pick(p, false)
		}
		return
	}
	g := &e.gesture
	g.mods = mods
	switch e.state {
	case StateDrawingSelection:
		if geom.Dist(g.last, p) > e.minDistance {
			g.points = append(g.points, p)
			g.last = p
		}
	case StateDrawingMarquee, StateDrawingEllipse:
		g.last = p
	case StateCropping:
		e.crop.Drag(p)
		g.last = p
	case StatePenEditing:
		e.pen.Drag(p, mods.Has(ModAlt))
		g.last = p
	case StatePainting:
		if geom.Dist(g.last, p) > e.minDistance {
			e.extendStroke(g.last, p)
			g.last = p
		}
	}
}

// PointerUp ends the gesture and commits it. Selection operations are
// resolved from the modifiers held at this point.
func (e *Editor) PointerUp(p geom.Point, mods Mods) {
	if e.surf == nil || !e.gesture.active {
		return
	}
	g := e.gesture
	e.gesture = gesture{}
	intent := ResolveIntent(e.tool, mods, TargetCanvas)

	switch e.state {
	case StateDrawingSelection:
		pts := g.points
		if geom.Dist(g.last, p) > e.minDistance {
			pts = append(pts, p)
		}
		e.commitSelection(pts, intent)
		e.state = StateIdle
	case StateDrawingMarquee:
		e.commitSelection(selection.RectPolygon(geom.RectFromPoints(g.start, p)), intent)
		e.state = StateIdle
	case StateDrawingEllipse:
		e.commitSelection(selection.Ellipse(geom.RectFromPoints(g.start, p), 0), intent)
		e.state = StateIdle
	case StateCropping:
		e.crop.Drag(p)
		e.crop.End()
	case StatePenEditing:
		e.pen.Drag(p, mods.Has(ModAlt))
		e.pen.Release()
	case StatePainting:
		if p != g.last {
			e.extendStroke(g.last, p)
		}
		e.commitStroke()
	}
	e.pushHistory()
}

// PointerLeave ends any gesture at its last position and hides the cursor
// decorations.
func (e *Editor) PointerLeave() {
	if e.gesture.active {
		e.PointerUp(e.gesture.last, e.gesture.mods)
	}
	e.hover = nil
}

// Cursor names the pointer cursor for the current hover position.
func (e *Editor) Cursor() string {
	switch {
	case e.surf == nil:
		return "default"
	case e.tool == ToolCrop && e.crop != nil && e.hover != nil:
		return e.crop.Cursor(*e.hover)
	case e.tool.Painting():
		return "none"
	case e.tool == ToolNone:
		return "default"
	}
	return "crosshair"
}

func (e *Editor) setHover(p geom.Point) {
	w, h := e.surf.Size()
	if p.X < 0 || p.Y < 0 || p.X >= float64(w) || p.Y >= float64(h) {
		if !e.gesture.active {
			e.hover = nil
			return
		}
	}
	e.hover = &p
}

func (e *Editor) target(p geom.Point) Target {
	if e.tool != ToolCrop || e.crop == nil {
		return TargetCanvas
	}
	h, inside := e.crop.Target(p)
	switch {
	case h != geom.HandleNone:
		return TargetHandle
	case inside:
		return TargetInside
	}
	return TargetCanvas
}

func opFor(i Intent) selection.Op {
	switch i {
	case IntentAdd:
		return selection.OpAdd
	case IntentSubtract:
		return selection.OpSubtract
	}
	return selection.OpNew
}

// commitSelection adds pts to the selection. Short polygons are dropped,
// except that a degenerate new selection deselects.
func (e *Editor) commitSelection(pts []geom.Point, intent Intent) {
	op := opFor(intent)
	before := e.sel.Version()
	e.sel.AddStroke(pts, op)
	if e.sel.Version() != before {
		log.Printf("editor: selection %s with %d points", op, len(pts))
	}
}

// pick samples the visible image at p. commit copies the sample into the
// brush colour; otherwise it only feeds the preview swatch.
func (e *Editor) pick(p geom.Point, commit bool) {
	img := e.View()
	pt := image.Pt(int(p.X), int(p.Y))
	if !pt.In(img.Bounds()) {
		log.Printf("editor: picker outside the image at %v", pt)
		e.picked = nil
		return
	}
	c := color.NRGBAModel.Convert(img.RGBAAt(pt.X, pt.Y)).(color.NRGBA)
	c.A = 255
	e.picked = c
	if commit {
		e.brush.Color = c
	}
}

// cropMode exposes the crop sub state for status display.
func (e *Editor) cropMode() crop.Mode {
	if e.crop == nil {
		return crop.ModeIdle
	}
	return e.crop.Mode()
}
