package editor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"log"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/magic"
	"github.com/example/retouch/internal/overlay"
	"github.com/example/retouch/internal/selection"
	"github.com/example/retouch/internal/surface"
)

func (e *Editor) capture() (history.Snapshot, error) {
	paint, err := e.surf.EncodePaint()
	if err != nil {
		return history.Snapshot{}, err
	}
	return history.Snapshot{
		Params:    e.params,
		Transform: e.transform,
		Hardness:  e.brush.Hardness,
		Opacity:   e.brush.Opacity,
		Paint:     paint,
		Source:    e.surf.Base,
	}, nil
}

func (e *Editor) pushHistory() {
	s, err := e.capture()
	if err != nil {
		log.Printf("editor: snapshot: %v", err)
		return
	}
	if e.hist.Push(s) && e.onChange != nil {
		e.onChange()
	}
}

// restore applies a snapshot. The paint layer is decoded in place so edits
// made right after an undo land on the restored pixels. A layer that fails to
// decode is logged and left as it is.
func (e *Editor) restore(s history.Snapshot) {
	e.abortGesture()
	e.params = s.Params
	e.brush.Hardness = s.Hardness
	e.brush.Opacity = s.Opacity
	e.surf.Base = s.Source
	e.transform = s.Transform
	sw, sh := e.sourceSize()
	dw, dh := s.Transform.Size(sw, sh)
	if w, h := e.surf.Size(); w != dw || h != dh {
		e.surf.Resize(dw, dh)
		e.sel.Clear()
		e.pen.Cancel()
	}
	if e.crop != nil {
		e.newCrop()
	}
	e.paintGen++
	e.invalidate()
	if s.Paint == nil {
		e.surf.ClearPaint()
		return
	}
	img, err := surface.DecodePaint(s.Paint, dw, dh)
	if err != nil {
		log.Printf("editor: restore %s: %v", s.ID, err)
		return
	}
	e.surf.SetPaint(img)
}

// Undo steps back one history entry.
func (e *Editor) Undo() bool {
	if e.surf == nil || e.busy {
		return false
	}
	s, ok := e.hist.Undo()
	if ok {
		e.restore(s)
	}
	return ok
}

// Redo steps forward one history entry.
func (e *Editor) Redo() bool {
	if e.surf == nil || e.busy {
		return false
	}
	s, ok := e.hist.Redo()
	if ok {
		e.restore(s)
	}
	return ok
}

func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// abortGesture drops any gesture in progress without committing it.
func (e *Editor) abortGesture() {
	if e.surf != nil && e.state == StatePainting {
		e.surf.ClearScratch()
	}
	if e.crop != nil && e.crop.Mode() != crop.ModeIdle {
		e.crop.Cancel()
	}
	e.gesture = gesture{}
	e.preview = nil
	e.state = e.restingState()
}

func (e *Editor) restingState() State {
	switch {
	case e.tool == ToolCrop && e.crop != nil:
		return StateCropping
	case e.tool == ToolPen && !e.pen.Empty():
		return StatePenEditing
	}
	return StateIdle
}

func (e *Editor) setTransform(t adjust.Transform) error {
	if e.surf == nil {
		return ErrNoImage
	}
	e.abortGesture()
	sw, sh := e.sourceSize()
	e.surf.SetPaint(adjust.Reproject(e.surf.Paint, e.transform, t, sw, sh))
	e.transform = t
	e.paintGen++
	e.sel.Clear()
	e.pen.Cancel()
	if e.crop != nil {
		e.newCrop()
	}
	e.state = e.restingState()
	e.invalidate()
	e.pushHistory()
	return nil
}

// Rotate turns the image 90 degrees clockwise.
func (e *Editor) Rotate() error { return e.setTransform(e.transform.Rotate()) }

// FlipH mirrors the image left to right.
func (e *Editor) FlipH() error {
	t := e.transform
	t.FlipH = !t.FlipH
	return e.setTransform(t)
}

// FlipV mirrors the image top to bottom.
func (e *Editor) FlipV() error {
	t := e.transform
	t.FlipV = !t.FlipV
	return e.setTransform(t)
}

// Adjust sets one slider live. Call Commit when the slider is released.
func (e *Editor) Adjust(name string, v float64) error {
	if err := e.params.Set(name, v); err != nil {
		return err
	}
	e.invalidate()
	return nil
}

// SetParams replaces every slider at once.
func (e *Editor) SetParams(p adjust.Params) {
	e.params = p.Clamp()
	e.invalidate()
}

// Commit records the current sliders in history.
func (e *Editor) Commit() {
	if e.surf != nil {
		e.pushHistory()
	}
}

// Reset returns the sliders and the geometry to neutral.
func (e *Editor) Reset() error {
	if e.surf == nil {
		return ErrNoImage
	}
	e.params.Reset()
	if !e.transform.Identity() {
		return e.setTransform(adjust.Transform{})
	}
	e.invalidate()
	e.pushHistory()
	return nil
}

// ClearDrawings empties the paint layer.
func (e *Editor) ClearDrawings() error {
	if e.surf == nil {
		return ErrNoImage
	}
	e.abortGesture()
	e.surf.ClearPaint()
	e.paintGen++
	e.invalidate()
	e.pushHistory()
	return nil
}

// bake makes img the new base with neutral sliders, no transform and empty
// paint.
func (e *Editor) bake(img *image.RGBA) {
	b := img.Bounds()
	e.surf.Base = img
	e.transform = adjust.Transform{}
	e.params.Reset()
	if w, h := e.surf.Size(); w != b.Dx() || h != b.Dy() {
		e.sel.Clear()
	}
	e.surf.Resize(b.Dx(), b.Dy())
	e.paintGen++
	if e.crop != nil {
		e.newCrop()
	}
	e.invalidate()
	e.pushHistory()
}

// ApplyAdjustments bakes the sliders, paint and geometry into the base.
func (e *Editor) ApplyAdjustments() error {
	if e.surf == nil {
		return ErrNoImage
	}
	e.abortGesture()
	e.bake(surface.Clone(e.composite()))
	return nil
}

// ApplyAdjustmentsToSelection bakes the sliders only inside the feathered
// selection. Outside it the image keeps its paint and geometry but loses the
// slider effect. Without a selection it does nothing.
func (e *Editor) ApplyAdjustmentsToSelection() error {
	if e.surf == nil {
		return ErrNoImage
	}
	mask := e.selectionMask()
	if mask == nil {
		return nil
	}
	e.abortGesture()
	out := adjust.Render(e.surf.Base, e.surf.Paint, adjust.Params{}, e.transform)
	draw.DrawMask(out, out.Bounds(), e.composite(), image.Point{}, mask, image.Point{}, draw.Over)
	e.bake(out)
	log.Printf("editor: applied adjustments to selection")
	return nil
}

// SelectTool activates t, or deactivates it when it is already active.
func (e *Editor) SelectTool(t Tool) {
	if t == e.tool {
		t = ToolNone
	}
	e.abortGesture()
	if e.tool == ToolPen {
		e.pen.Cancel()
	}
	e.crop = nil
	e.tool, e.held = t, ToolNone
	if t == ToolCrop && e.surf != nil {
		e.newCrop()
	}
	e.state = e.restingState()
	log.Printf("editor: tool %s", t)
}

// HoldPicker swaps a paint tool for the picker while held and restores it on
// release.
func (e *Editor) HoldPicker(held bool) {
	switch {
	case held && e.tool.Painting() && !e.gesture.active:
		e.held, e.tool = e.tool, ToolPicker
		if e.hover != nil {
			e.pick(*e.hover, false)
		}
	case !held && e.held != ToolNone:
		e.tool, e.held = e.held, ToolNone
		e.picked = nil
	}
}

func (e *Editor) newCrop() {
	w, h := e.surf.Size()
	ratio, ok := geom.RatioValue(e.aspect, e.surf.Paint)
	e.crop = crop.New(image.Rect(0, 0, w, h), ratio, ok)
}

// SetAspect locks the crop ratio to a preset label such as "16:9",
// "Original" or "Free". Unparseable labels are ignored.
func (e *Editor) SetAspect(label string) bool {
	var img image.Image
	if e.surf != nil {
		img = e.surf.Paint
	}
	ratio, ok := geom.RatioValue(label, img)
	if !ok && label != geom.RatioFree {
		return false
	}
	e.aspect = label
	if e.crop != nil {
		e.crop.SetAspect(ratio, ok)
	}
	return true
}

// Aspect returns the crop ratio label.
func (e *Editor) Aspect() string { return e.aspect }

// ApplyCrop cuts base and paint to the crop rect and leaves the crop tool.
// The transform is kept.
func (e *Editor) ApplyCrop() error {
	if e.surf == nil {
		return ErrNoImage
	}
	if e.crop == nil {
		return nil
	}
	e.abortGesture()
	r := e.crop.Rect().Intersect(e.surf.Paint.Bounds())
	if r.Empty() {
		return nil
	}
	sw, sh := e.sourceSize()
	src := e.transform.UnmapRect(r, sw, sh).Intersect(e.surf.Base.Bounds())
	e.surf.Base = surface.ToRGBA(e.surf.Base.SubImage(src))
	e.surf.SetPaint(surface.ToRGBA(e.surf.Paint.SubImage(r)))
	e.paintGen++
	e.sel.Clear()
	e.crop = nil
	e.tool = ToolNone
	e.state = StateIdle
	e.invalidate()
	e.pushHistory()
	log.Printf("editor: cropped to %dx%d", r.Dx(), r.Dy())
	return nil
}

// CancelCrop discards the crop rect and leaves the crop tool.
func (e *Editor) CancelCrop() {
	if e.tool != ToolCrop {
		return
	}
	e.abortGesture()
	e.crop = nil
	e.tool = ToolNone
	e.state = StateIdle
}

// Cancel backs out of whatever is in progress: a gesture, a crop, or a pen
// path.
func (e *Editor) Cancel() {
	switch {
	case e.gesture.active:
		e.abortGesture()
	case e.tool == ToolCrop:
		e.CancelCrop()
	case e.tool == ToolPen && !e.pen.Empty():
		e.pen.Cancel()
		e.state = StateIdle
	case e.sel.Active():
		e.Deselect()
	}
}

// Deselect clears the selection.
func (e *Editor) Deselect() {
	e.sel.Clear()
	e.pen.Cancel()
	e.state = e.restingState()
}

// InvertSelection toggles the selection between inside and outside.
func (e *Editor) InvertSelection() { e.sel.Invert() }

// SetFeather sets the selection feather radius.
func (e *Editor) SetFeather(f float64) {
	e.feather = max(f, 0)
	e.preview = nil
}

// DeleteSelection erases the selected pixels from the base and the paint.
func (e *Editor) DeleteSelection() error {
	if e.surf == nil {
		return ErrNoImage
	}
	mask := e.selectionMask()
	if mask == nil {
		return nil
	}
	e.abortGesture()
	sw, sh := e.sourceSize()
	base := surface.Clone(e.surf.Base)
	eraseMask(base, e.transform.InverseAlpha(mask, sw, sh))
	e.surf.Base = base
	eraseMask(e.surf.Paint, mask)
	e.paintGen++
	e.invalidate()
	e.pushHistory()
	return nil
}

// FillSelection paints the selection with the brush colour.
func (e *Editor) FillSelection() error {
	if e.surf == nil {
		return ErrNoImage
	}
	mask := e.selectionMask()
	if mask == nil {
		return nil
	}
	e.abortGesture()
	e.fillMask(mask)
	e.invalidate()
	e.pushHistory()
	return nil
}

// RemoveBackground runs the magic service's background removal on the
// rendered image in the background.
func (e *Editor) RemoveBackground(ctx context.Context) error {
	return e.runMagic(ctx, magic.RemoveBackground)
}

// InvertColors runs the magic service's colour inversion in the background.
func (e *Editor) InvertColors(ctx context.Context) error {
	return e.runMagic(ctx, magic.InvertColors)
}

// runMagic hands the rendered image to the service. A result is baked in
// like ApplyAdjustments; a failure leaves image and history untouched and
// sets Err.
func (e *Editor) runMagic(ctx context.Context, op magic.Operation) error {
	if e.surf == nil {
		return ErrNoImage
	}
	if e.busy {
		return ErrBusy
	}
	e.abortGesture()
	img := surface.Clone(e.composite())
	ctx, cancel := context.WithCancel(ctx)
	e.jobGen++
	gen, svc, id := e.jobGen, e.service, magic.NewJobID()
	e.busy, e.cancel, e.err = true, cancel, nil
	log.Printf("editor: %s started (%s)", op, id)
	e.mail.spawn(func() func() {
		out, err := magic.Run(ctx, svc, op, img)
		return func() {
			cancel()
			if gen != e.jobGen {
				log.Printf("editor: dropping stale %s result (%s)", op, id)
				return
			}
			e.busy, e.cancel = false, nil
			if err != nil {
				e.fail(fmt.Errorf("%s: %w", op, err))
				return
			}
			log.Printf("editor: %s finished (%s)", op, id)
			e.bake(surface.ToRGBA(out))
		}
	})
	return nil
}

// CancelJob abandons a running magic tool.
func (e *Editor) CancelJob() { e.stopJob() }

func (e *Editor) stopJob() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.jobGen++
	e.busy = false
}

// Formats lists the encodings Save supports.
var Formats = []string{"png", "jpeg", "bmp", "tiff"}

// Encode writes img in the named format. "jpg" and "tif" are accepted as
// aliases.
func Encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(format) {
	case "", "png":
		err = png.Encode(&buf, img)
	case "jpeg", "jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff", "tif":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Format returns the Save encoding.
func (e *Editor) Format() string { return e.format }

// Save encodes the final image and hands it to the save callback once.
func (e *Editor) Save() ([]byte, error) {
	img, err := e.FinalImage()
	if err != nil {
		return nil, err
	}
	data, err := Encode(img, e.format)
	if err != nil {
		return nil, err
	}
	if e.onSave != nil {
		if err := e.onSave(data); err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
	}
	return data, nil
}

// Tick advances the overlay animation by one frame.
func (e *Editor) Tick() { e.ants = overlay.NextAntsOffset(e.ants) }

// OverlayView describes the guides for the current frame.
func (e *Editor) OverlayView() overlay.View {
	w, h := e.Size()
	v := overlay.View{Width: w, Height: h, AntsOffset: e.ants}
	if e.surf == nil || e.showOriginal {
		return v
	}
	if e.sel.Active() {
		v.Selection = e.sel.Path(w, h)
	}
	g := e.gesture
	switch e.state {
	case StateDrawingSelection:
		v.Lasso = slices.Clone(g.points)
		if e.hover != nil {
			v.Lasso = append(v.Lasso, *e.hover)
		}
	case StateDrawingMarquee:
		r := geom.RectFromPoints(g.start, g.last)
		v.Marquee = &r
	case StateDrawingEllipse:
		r := geom.RectFromPoints(g.start, g.last)
		v.Ellipse = &r
	}
	if e.crop != nil {
		r := e.crop.Selection
		v.Crop = &r
	}
	if e.tool == ToolPen && !e.pen.Empty() {
		guide := &overlay.PenGuide{
			Nodes:    e.pen.Nodes(),
			Cursor:   e.hover,
			Dragging: e.pen.State() == selection.PenDraggingHandle,
		}
		if e.hover != nil {
			guide.Closable = e.pen.CanClose(*e.hover)
		}
		v.Pen = guide
	}
	if e.tool.Painting() && e.hover != nil && e.state != StatePainting {
		v.Brush = &overlay.Brush{
			Center:   *e.hover,
			Size:     e.brush.Size,
			Hardness: e.brush.Hardness,
			Opacity:  e.brush.Opacity,
			Color:    e.brush.Color,
			Eraser:   e.tool == ToolEraser,
		}
	}
	if e.tool == ToolPicker && e.hover != nil && e.picked != nil {
		v.Picker = &overlay.Picker{At: *e.hover, Color: e.picked}
	}
	return v
}

// Overlay redraws the guides and returns the overlay surface.
func (e *Editor) Overlay() image.Image {
	if e.surf == nil {
		return nil
	}
	overlay.Draw(e.surf.Overlay, e.OverlayView(), e.theme)
	return e.surf.OverlayImage()
}

// Frame returns the visible image with the overlay composited on top.
func (e *Editor) Frame() *image.RGBA {
	view := e.View()
	if view == nil {
		return nil
	}
	out := surface.Clone(view)
	ov := e.Overlay()
	draw.Draw(out, out.Bounds(), ov, ov.Bounds().Min, draw.Over)
	return out
}

// Status is a one line summary for a status bar.
func (e *Editor) Status() string {
	if e.surf == nil {
		return "no image"
	}
	w, h := e.surf.Size()
	parts := []string{fmt.Sprintf("%dx%d", w, h), e.tool.String(), e.state.String()}
	switch {
	case e.tool == ToolCrop:
		parts = append(parts, e.aspect, e.cropMode().String())
	case e.tool.Painting():
		parts = append(parts, fmt.Sprintf("size %.0f", e.brush.Size), geom.ToHex(e.brush.Color))
	}
	if e.showOriginal {
		parts = append(parts, "original")
	}
	if e.busy {
		parts = append(parts, "working")
	}
	if e.err != nil {
		parts = append(parts, "error: "+e.err.Error())
	}
	return strings.Join(parts, " | ")
}
