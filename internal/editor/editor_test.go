package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/source"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var grey = color.RGBA{R: 128, G: 128, B: 128, A: 255}

func loaded(t *testing.T, w, h int, opts ...Option) *Editor {
	t.Helper()
	e := New(opts...)
	e.Load(solid(w, h, grey))
	t.Cleanup(e.Close)
	return e
}

func drag(e *Editor, from, to geom.Point, mods Mods) {
	e.PointerDown(from, mods)
	e.PointerMove(to, mods)
	e.PointerUp(to, mods)
}

func paintBlank(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

func TestBrushStrokeThenUndo(t *testing.T) {
	e := loaded(t, 40, 40)
	e.SelectTool(ToolBrush)
	drag(e, geom.Pt(10, 20), geom.Pt(30, 20), 0)

	if got := e.Paint().RGBAAt(20, 20); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("stroke pixel = %v", got)
	}
	if e.State() != StateIdle {
		t.Fatalf("state after stroke = %s", e.State())
	}
	if e.History().Len() != 2 {
		t.Fatalf("history len = %d, want 2", e.History().Len())
	}
	if !e.Undo() {
		t.Fatal("undo refused")
	}
	if !paintBlank(e.Paint()) {
		t.Fatal("paint not blank after undo")
	}
	if !e.Redo() {
		t.Fatal("redo refused")
	}
	e.Flush()
	if e.Paint().RGBAAt(20, 20).A != 255 {
		t.Fatal("redo did not restore the stroke")
	}
}

func TestEraserRemovesPaint(t *testing.T) {
	e := loaded(t, 40, 40)
	e.SelectTool(ToolBrush)
	drag(e, geom.Pt(10, 20), geom.Pt(30, 20), 0)
	e.SelectTool(ToolEraser)
	drag(e, geom.Pt(10, 20), geom.Pt(30, 20), 0)
	if a := e.Paint().RGBAAt(20, 20).A; a != 0 {
		t.Fatalf("alpha after erase = %d", a)
	}
	if e.Base().RGBAAt(20, 20) != grey {
		t.Fatal("eraser touched the base image")
	}
}

func TestSelectionClipsBrush(t *testing.T) {
	e := loaded(t, 40, 40)
	e.SelectTool(ToolMarquee)
	drag(e, geom.Pt(0, 0), geom.Pt(20, 40), 0)
	e.SelectTool(ToolBrush)
	drag(e, geom.Pt(5, 20), geom.Pt(35, 20), 0)
	if a := e.Paint().RGBAAt(10, 20).A; a != 255 {
		t.Fatalf("inside selection alpha = %d", a)
	}
	if a := e.Paint().RGBAAt(30, 20).A; a != 0 {
		t.Fatalf("outside selection alpha = %d", a)
	}
}

func TestMarqueeSubtractWithAlt(t *testing.T) {
	e := loaded(t, 40, 40)
	e.SelectTool(ToolMarquee)
	drag(e, geom.Pt(0, 0), geom.Pt(30, 30), 0)
	drag(e, geom.Pt(10, 10), geom.Pt(20, 20), ModAlt|ModShift)
	m := e.Selection().Mask(40, 40, 0)
	if m.AlphaAt(5, 5).A != 255 {
		t.Fatal("outer area lost")
	}
	if m.AlphaAt(15, 15).A != 0 {
		t.Fatal("hole not cut")
	}
	if m.AlphaAt(35, 35).A != 0 {
		t.Fatal("outside selected")
	}
}

func TestDegenerateMarqueeDeselects(t *testing.T) {
	e := loaded(t, 40, 40)
	e.SelectTool(ToolMarquee)
	drag(e, geom.Pt(0, 0), geom.Pt(30, 30), 0)
	drag(e, geom.Pt(5, 5), geom.Pt(5, 5), 0)
	if e.Selection().Active() {
		t.Fatal("click without drag kept the selection")
	}
}

func TestLassoHonoursMinDistance(t *testing.T) {
	e := loaded(t, 40, 40, WithMinDistance(5))
	e.SelectTool(ToolLasso)
	e.PointerDown(geom.Pt(5, 5), 0)
	e.PointerMove(geom.Pt(6, 5), 0)
	e.PointerMove(geom.Pt(30, 5), 0)
	e.PointerMove(geom.Pt(31, 6), 0)
	e.PointerMove(geom.Pt(30, 30), 0)
	if n := len(e.OverlayView().Lasso); n != 4 {
		t.Fatalf("lasso preview has %d points, want 4", n)
	}
	e.PointerUp(geom.Pt(30, 30), 0)
	if !e.Selection().Active() {
		t.Fatal("lasso did not select")
	}
}

func TestPenCloseCommitsSelection(t *testing.T) {
	e := loaded(t, 40, 40)
	e.SelectTool(ToolPen)
	for _, p := range []geom.Point{geom.Pt(5, 5), geom.Pt(30, 5), geom.Pt(30, 30)} {
		e.PointerDown(p, 0)
		e.PointerUp(p, 0)
	}
	if e.State() != StatePenEditing || e.Selection().Active() {
		t.Fatalf("state %s before closing", e.State())
	}
	e.PointerDown(geom.Pt(6, 6), 0)
	e.PointerUp(geom.Pt(6, 6), 0)
	if !e.Selection().Active() {
		t.Fatal("closing the pen path did not select")
	}
	if !e.Pen().Empty() || e.State() != StateIdle {
		t.Fatalf("pen not reset: state %s", e.State())
	}
}

func TestCropApply(t *testing.T) {
	e := loaded(t, 100, 50)
	e.SelectTool(ToolCrop)
	if e.State() != StateCropping || e.Crop() == nil {
		t.Fatal("crop tool not active")
	}
	if err := e.ApplyCrop(); err != nil {
		t.Fatal(err)
	}
	if w, h := e.Size(); w != 80 || h != 40 {
		t.Fatalf("size after crop %dx%d", w, h)
	}
	if e.Tool() != ToolNone || e.History().Len() != 2 {
		t.Fatalf("tool %s history %d", e.Tool(), e.History().Len())
	}
	e.Undo()
	if w, h := e.Size(); w != 100 || h != 50 {
		t.Fatalf("size after undo %dx%d", w, h)
	}
}

func TestCropAspect(t *testing.T) {
	e := loaded(t, 100, 50)
	e.SelectTool(ToolCrop)
	if e.SetAspect("nope") {
		t.Fatal("malformed ratio accepted")
	}
	if !e.SetAspect("1:1") {
		t.Fatal("1:1 rejected")
	}
	r := e.Crop().Selection
	if math.Abs(r.Width-r.Height) > 1e-6 {
		t.Fatalf("crop %+v not square", r)
	}
	e.Cancel()
	if e.Tool() != ToolNone || e.Crop() != nil {
		t.Fatal("cancel did not leave the crop tool")
	}
}

func TestRotateReprojectsPaint(t *testing.T) {
	e := loaded(t, 40, 20)
	red := color.RGBA{R: 255, A: 255}
	e.Paint().SetRGBA(0, 0, red)
	if err := e.Rotate(); err != nil {
		t.Fatal(err)
	}
	if w, h := e.Size(); w != 20 || h != 40 {
		t.Fatalf("rotated size %dx%d", w, h)
	}
	p := e.Transform().MapPoint(geom.Pt(0.5, 0.5), 40, 20)
	if got := e.Paint().RGBAAt(int(p.X), int(p.Y)); got != red {
		t.Fatalf("paint at %v = %v", p, got)
	}
	if fin, _ := e.FinalImage(); fin.Bounds().Dx() != 20 {
		t.Fatalf("final image %v", fin.Bounds())
	}
}

func TestAdjustCommitPushesOnce(t *testing.T) {
	e := loaded(t, 4, 4)
	for _, v := range []float64{10, 20, 30} {
		if err := e.Adjust("luminance", v); err != nil {
			t.Fatal(err)
		}
	}
	if e.History().Len() != 1 {
		t.Fatal("live slider changes pushed history")
	}
	e.Commit()
	e.Commit()
	if e.History().Len() != 2 {
		t.Fatalf("history len %d, want 2", e.History().Len())
	}
	if err := e.Adjust("sparkle", 1); err == nil {
		t.Fatal("unknown slider accepted")
	}
}

func TestApplyAdjustmentsBakes(t *testing.T) {
	e := loaded(t, 4, 2)
	e.Adjust("invert", 1)
	e.FlipH()
	if err := e.ApplyAdjustments(); err != nil {
		t.Fatal(err)
	}
	if !e.Params().Neutral() || !e.Transform().Identity() {
		t.Fatal("sliders or transform not reset")
	}
	if got := e.Base().RGBAAt(0, 0); got.R != 127 {
		t.Fatalf("baked pixel %v", got)
	}
}

func TestDeleteSelection(t *testing.T) {
	e := loaded(t, 20, 20)
	orig := e.Base()
	e.SelectTool(ToolMarquee)
	drag(e, geom.Pt(0, 0), geom.Pt(10, 20), 0)
	if err := e.DeleteSelection(); err != nil {
		t.Fatal(err)
	}
	if a := e.Base().RGBAAt(5, 5).A; a != 0 {
		t.Fatalf("selected alpha %d", a)
	}
	if a := e.Base().RGBAAt(15, 5).A; a != 255 {
		t.Fatalf("unselected alpha %d", a)
	}
	if orig.RGBAAt(5, 5).A != 255 {
		t.Fatal("base mutated in place")
	}
	e.Undo()
	if e.Base() != orig {
		t.Fatal("undo did not restore the base")
	}
}

func TestFillSelectionWithoutSelectionIsNoop(t *testing.T) {
	e := loaded(t, 10, 10)
	if err := e.FillSelection(); err != nil {
		t.Fatal(err)
	}
	if e.History().Len() != 1 || !paintBlank(e.Paint()) {
		t.Fatal("fill without a selection changed something")
	}
}

func TestPickerSetsBrushColour(t *testing.T) {
	e := New()
	t.Cleanup(e.Close)
	e.Load(solid(8, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	e.SelectTool(ToolPicker)
	e.PointerMove(geom.Pt(3, 3), 0)
	if e.OverlayView().Picker == nil {
		t.Fatal("no picker preview")
	}
	e.PointerDown(geom.Pt(3, 3), 0)
	e.PointerUp(geom.Pt(3, 3), 0)
	if got := e.Brush().Color; got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("brush colour %v", got)
	}
}

func TestHoldPickerRestoresTool(t *testing.T) {
	e := loaded(t, 8, 8)
	e.SelectTool(ToolEraser)
	e.HoldPicker(true)
	if e.Tool() != ToolPicker {
		t.Fatalf("tool while held = %s", e.Tool())
	}
	e.HoldPicker(false)
	if e.Tool() != ToolEraser {
		t.Fatalf("tool after release = %s", e.Tool())
	}
}

func TestSelectToolToggles(t *testing.T) {
	e := loaded(t, 8, 8)
	e.SelectTool(ToolBrush)
	e.SelectTool(ToolBrush)
	if e.Tool() != ToolNone {
		t.Fatalf("tool = %s", e.Tool())
	}
}

func TestBrushSizeClamped(t *testing.T) {
	e := New(WithBrush(Brush{Size: 3, Hardness: 1, Opacity: 1}))
	e.BrushSmaller()
	if e.Brush().Size != MinBrushSize {
		t.Fatalf("size %v", e.Brush().Size)
	}
	e.SetBrushSize(10000)
	if e.Brush().Size != MaxBrushSize {
		t.Fatalf("size %v", e.Brush().Size)
	}
	if e.SetBrushHex("not a colour") {
		t.Fatal("bad colour accepted")
	}
	if !e.SetBrushHex("#f00") || e.Brush().Color.R != 255 {
		t.Fatal("hex colour not applied")
	}
}

type failingService struct{ err error }

func (f failingService) RemoveBackground(context.Context, image.Image) (image.Image, error) {
	return nil, f.err
}

func (f failingService) InvertColors(context.Context, image.Image) (image.Image, error) {
	return nil, f.err
}

func TestMagicFailureLeavesHistory(t *testing.T) {
	boom := errors.New("boom")
	var notified error
	e := loaded(t, 8, 8, WithMagic(failingService{boom}), WithOnError(func(err error) { notified = err }))
	base := e.Base()
	if err := e.RemoveBackground(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := e.InvertColors(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second job err = %v, want ErrBusy", err)
	}
	e.Flush()
	if !errors.Is(e.Err(), boom) || !errors.Is(notified, boom) {
		t.Fatalf("err = %v, notified = %v", e.Err(), notified)
	}
	if e.Busy() || e.State() != StateIdle {
		t.Fatal("editor still busy")
	}
	if e.History().Len() != 1 || e.Base() != base {
		t.Fatal("failure changed the image")
	}
}

func TestMagicInvertBakes(t *testing.T) {
	e := New()
	t.Cleanup(e.Close)
	e.Load(solid(4, 4, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	orig := e.Base()
	if err := e.Execute(context.Background(), CmdInvertColors); err != nil {
		t.Fatal(err)
	}
	e.Flush()
	if got := e.Base().RGBAAt(1, 1); got != (color.RGBA{R: 245, G: 235, B: 225, A: 255}) {
		t.Fatalf("inverted pixel %v", got)
	}
	if e.History().Len() != 2 {
		t.Fatalf("history len %d", e.History().Len())
	}
	e.Undo()
	if e.Base() != orig {
		t.Fatal("undo did not restore the original base")
	}
}

func TestStaleLoadIsDropped(t *testing.T) {
	e := New()
	t.Cleanup(e.Close)
	release := make(chan struct{})
	slow := source.Func{Label: "slow", Fn: func(context.Context) (image.Image, error) {
		<-release
		return solid(10, 10, grey), nil
	}}
	e.LoadFrom(context.Background(), slow)
	e.LoadFrom(context.Background(), source.Static(solid(20, 30, grey)))
	close(release)
	e.Flush()
	if w, h := e.Size(); w != 20 || h != 30 {
		t.Fatalf("size %dx%d, the stale load won", w, h)
	}
}

func TestLoadFromError(t *testing.T) {
	e := New()
	t.Cleanup(e.Close)
	e.LoadFrom(context.Background(), source.Static(nil))
	e.Flush()
	if !errors.Is(e.Err(), source.ErrNoImage) || e.Loaded() {
		t.Fatalf("err = %v", e.Err())
	}
}

func TestSaveEncodes(t *testing.T) {
	var got []byte
	e := loaded(t, 6, 3, WithOnSave(func(b []byte) error { got = b; return nil }))
	if _, err := e.Save(); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 3 {
		t.Fatalf("saved bounds %v", img.Bounds())
	}
	if _, err := Encode(img, "gif"); err == nil {
		t.Fatal("gif accepted")
	}
	if _, err := New().Save(); !errors.Is(err, ErrNoImage) {
		t.Fatalf("save without image err = %v", err)
	}
}

func TestExecuteByName(t *testing.T) {
	e := loaded(t, 4, 4)
	cmd, ok := ParseCommand("flip-h")
	if !ok || cmd != CmdFlipH {
		t.Fatalf("ParseCommand = %v, %v", cmd, ok)
	}
	if err := e.Execute(context.Background(), cmd); err != nil {
		t.Fatal(err)
	}
	if !e.Transform().FlipH {
		t.Fatal("flip not applied")
	}
	if _, ok := ParseCommand("bogus"); ok {
		t.Fatal("bogus command parsed")
	}
	e.Execute(context.Background(), CmdUndo)
	if e.Transform().FlipH {
		t.Fatal("undo did not revert the flip")
	}
}

func TestBrushCursorOnOverlay(t *testing.T) {
	e := loaded(t, 40, 40)
	e.SelectTool(ToolBrush)
	e.PointerMove(geom.Pt(20, 20), 0)
	ov := e.Overlay()
	if _, _, _, a := ov.At(20, 20).RGBA(); a == 0 {
		t.Fatal("brush cursor not drawn")
	}
	e.PointerLeave()
	if e.OverlayView().Brush != nil {
		t.Fatal("cursor shown after leaving the canvas")
	}
}

func TestResolveIntent(t *testing.T) {
	tests := []struct {
		tool   Tool
		mods   Mods
		target Target
		want   Intent
	}{
		{ToolLasso, 0, TargetCanvas, IntentNew},
		{ToolMarquee, ModShift, TargetCanvas, IntentAdd},
		{ToolEllipse, ModAlt, TargetCanvas, IntentSubtract},
		{ToolPen, ModAlt | ModShift, TargetCanvas, IntentSubtract},
		{ToolCrop, 0, TargetHandle, IntentResize},
		{ToolCrop, ModShift, TargetInside, IntentMove},
		{ToolCrop, 0, TargetCanvas, IntentDefine},
		{ToolBrush, 0, TargetCanvas, IntentPaint},
		{ToolEraser, ModAlt, TargetCanvas, IntentPick},
		{ToolPicker, 0, TargetCanvas, IntentPick},
		{ToolNone, ModShift, TargetCanvas, IntentNone},
	}
	for _, tt := range tests {
		if got := ResolveIntent(tt.tool, tt.mods, tt.target); got != tt.want {
			t.Errorf("ResolveIntent(%s, %d, %d) = %s, want %s", tt.tool, tt.mods, tt.target, got, tt.want)
		}
	}
}

func TestDiagonalStrokeUndoLeavesNoPaint(t *testing.T) {
	e := loaded(t, 200, 200)
	e.SelectTool(ToolBrush)
	drag(e, geom.Pt(10, 10), geom.Pt(100, 100), 0)
	if e.Paint().RGBAAt(55, 55).A == 0 {
		t.Fatal("stroke missing")
	}
	if !e.Undo() {
		t.Fatal("undo refused")
	}
	e.Flush()
	if !paintBlank(e.Paint()) {
		t.Fatal("paint not blank after undo")
	}
}

func TestStrokeAfterUndoKeepsRestoredPaint(t *testing.T) {
	e := loaded(t, 40, 60)
	e.SelectTool(ToolBrush)
	drag(e, geom.Pt(5, 10), geom.Pt(35, 10), 0)
	drag(e, geom.Pt(5, 30), geom.Pt(35, 30), 0)
	if !e.Undo() {
		t.Fatal("undo refused")
	}
	drag(e, geom.Pt(5, 50), geom.Pt(35, 50), 0)

	check := func(when string, img *image.RGBA) {
		t.Helper()
		for _, tt := range []struct {
			y    int
			want uint8
		}{{10, 255}, {30, 0}, {50, 255}} {
			if a := img.RGBAAt(20, tt.y).A; a != tt.want {
				t.Errorf("%s: alpha at y=%d is %d, want %d", when, tt.y, a, tt.want)
			}
		}
	}
	check("before flush", e.Paint())
	e.Flush()
	check("after flush", e.Paint())

	final, err := e.FinalImage()
	if err != nil {
		t.Fatal(err)
	}
	if got := final.RGBAAt(20, 30); got != grey {
		t.Fatalf("undone stroke rendered: %v", got)
	}
}

func TestViewRendersOncePerChange(t *testing.T) {
	e := loaded(t, 8, 8)
	if err := e.Adjust("contrast", 20); err != nil {
		t.Fatal(err)
	}
	v := e.View()
	if e.View() != v {
		t.Fatal("unchanged view rendered again")
	}
	if err := e.Adjust("contrast", 30); err != nil {
		t.Fatal(err)
	}
	if e.View() == v {
		t.Fatal("slider change did not render")
	}
}

func TestApplyAdjustmentsToSelection(t *testing.T) {
	e := loaded(t, 20, 10)
	e.SelectTool(ToolMarquee)
	drag(e, geom.Pt(0, 0), geom.Pt(10, 10), 0)
	e.Adjust("invert", 1)
	if err := e.Execute(context.Background(), CmdApplyToSelection); err != nil {
		t.Fatal(err)
	}
	if got := e.Base().RGBAAt(5, 5); got.R != 127 {
		t.Fatalf("selected pixel %v", got)
	}
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			if got := e.Base().RGBAAt(x, y); got != grey {
				t.Fatalf("pixel (%d,%d) outside the selection changed to %v", x, y, got)
			}
		}
	}
	if !e.Params().Neutral() {
		t.Fatal("sliders not reset")
	}
	if e.History().Len() != 2 {
		t.Fatalf("history len %d, want 2", e.History().Len())
	}
}

func TestApplyAdjustmentsToSelectionNeedsSelection(t *testing.T) {
	e := loaded(t, 4, 4)
	e.Adjust("invert", 1)
	if err := e.ApplyAdjustmentsToSelection(); err != nil {
		t.Fatal(err)
	}
	if e.History().Len() != 1 || e.Base().RGBAAt(0, 0) != grey {
		t.Fatal("apply without a selection changed the image")
	}
}
