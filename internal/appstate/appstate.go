// Package appstate hosts the editor in a shiny window: the tool bar, the
// status line, keyboard shortcuts and the scaled canvas.
package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/render"
	"github.com/example/retouch/internal/theme"
)

// ProgramTitle prefixes the window title.
const ProgramTitle = "Retouch"

const (
	buttonHeight = 24
	bottomHeight = 24
	canvasMargin = 16
)

var toolbarWidth = 64

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 28, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState, th *theme.Theme)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
	theme *theme.Theme
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	if cb.theme != th {
		cb.cache = [3]*image.RGBA{}
		cb.theme = th
	}
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state, th)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// ToolButton selects an editor tool, or runs a command when it has no tool.
type ToolButton struct {
	label  string
	tool   editor.Tool
	action string
	rect   image.Rectangle
	// onSelect is called when the button is activated.
	onSelect func(action string)
}

func (tb *ToolButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	c := th.ButtonBackground
	switch state {
	case StateHover:
		c = th.ButtonBackgroundHover
	case StatePressed:
		c = th.ButtonBackgroundPress
	}
	draw.Draw(dst, tb.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	drawRect(dst, tb.rect, th.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(tb.rect.Min.X+4, tb.rect.Min.Y+16)}
	d.DrawString(tb.label)
}

func (tb *ToolButton) Rect() image.Rectangle { return tb.rect }

func (tb *ToolButton) SetRect(r image.Rectangle) {
	if r != tb.rect {
		tb.rect = r
	}
}

func (tb *ToolButton) Activate() {
	if tb.onSelect != nil {
		tb.onSelect(tb.action)
	}
}

// toolbarLayout lists the buttons from top to bottom. Entries with
// editor.ToolNone are one shot commands.
var toolbarLayout = []struct {
	label  string
	tool   editor.Tool
	action string
}{
	{"C:Crop", editor.ToolCrop, "crop"},
	{"L:Lasso", editor.ToolLasso, "lasso"},
	{"M:Rect", editor.ToolMarquee, "marquee"},
	{"O:Oval", editor.ToolEllipse, "ellipse"},
	{"P:Pen", editor.ToolPen, "pen"},
	{"B:Brush", editor.ToolBrush, "brush"},
	{"E:Erase", editor.ToolEraser, "eraser"},
	{"I:Pick", editor.ToolPicker, "picker"},
	{"Undo", editor.ToolNone, "undo"},
	{"Redo", editor.ToolNone, "redo"},
	{"R:Rotate", editor.ToolNone, "rotate"},
	{"H:Flip", editor.ToolNone, "flip-h"},
	{"V:Flip", editor.ToolNone, "flip-v"},
	{"Apply", editor.ToolNone, "apply"},
	{"Save", editor.ToolNone, "save"},
}

// newToolbar builds the buttons and widens the toolbar to fit the longest
// label.
func newToolbar(onSelect func(string)) []*CacheButton {
	d := &font.Drawer{Face: basicfont.Face7x13}
	for _, l := range toolbarLayout {
		if w := d.MeasureString(l.label).Ceil() + 8; w > toolbarWidth {
			toolbarWidth = w
		}
	}
	buttons := make([]*CacheButton, len(toolbarLayout))
	for i, l := range toolbarLayout {
		tb := &ToolButton{label: l.label, tool: l.tool, action: l.action, onSelect: onSelect}
		tb.SetRect(image.Rect(0, i*buttonHeight, toolbarWidth, (i+1)*buttonHeight))
		buttons[i] = &CacheButton{Button: tb}
	}
	return buttons
}

// buttonAt returns the index of the button under p, or -1.
func buttonAt(buttons []*CacheButton, p image.Point) int {
	for i, b := range buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

// canvasArea is the part of the window the image is fitted into.
func canvasArea(width, height int) image.Rectangle {
	return image.Rect(toolbarWidth, 0, width, height-bottomHeight).Inset(canvasMargin)
}

// viewport fits a canvas of size c into the window.
func viewport(width, height int, c image.Point) geom.Viewport {
	return geom.Fit(canvasArea(width, height), c)
}

var (
	backdropCache *image.RGBA
	backdropTheme *theme.Theme
	shadowCache   render.Shadow
	shadowSize    image.Point
)

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// drawCanvasBackdrop fills r with a cached checkerboard so transparent
// pixels read as transparent.
func drawCanvasBackdrop(dst *image.RGBA, r image.Rectangle, th *theme.Theme) {
	b := dst.Bounds()
	if backdropCache == nil || backdropCache.Bounds() != b || backdropTheme != th {
		backdropCache = image.NewRGBA(b)
		drawCheckerboard(backdropCache, b, 8, th.CheckerLight, th.CheckerDark)
		backdropTheme = th
	}
	draw.Draw(dst, r, backdropCache, r.Min, draw.Src)
}

func drawShadow(dst *image.RGBA, r image.Rectangle) {
	if r.Size() != shadowSize {
		shadowCache = render.NewShadow(r.Size(), render.DefaultShadowOptions())
		shadowSize = r.Size()
	}
	shadowCache.Draw(dst, r)
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

type paintState struct {
	width, height int
	view          *image.RGBA
	overlay       *image.RGBA
	tool          editor.Tool
	buttons       []*CacheButton
	hoverButton   int
	status        string
	failed        bool
	message       string
	messageUntil  time.Time
	theme         *theme.Theme
}

// renderFrame draws one complete frame into dst.
func renderFrame(ctx context.Context, dst *image.RGBA, st paintState) {
	th := st.theme
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	if st.view != nil {
		size := st.view.Bounds().Size()
		vp := viewport(st.width, st.height, size)
		r := vp.Bounds(size)
		drawShadow(dst, r)
		drawCanvasBackdrop(dst, r, th)
		if ctx.Err() != nil {
			return
		}
		if r.Size() == size {
			draw.Draw(dst, r, st.view, st.view.Bounds().Min, draw.Over)
		} else {
			xdraw.ApproxBiLinear.Scale(dst, r, st.view, st.view.Bounds(), draw.Over, nil)
		}
		if ctx.Err() != nil {
			return
		}
		if st.overlay != nil {
			xdraw.NearestNeighbor.Scale(dst, r, st.overlay, st.overlay.Bounds(), draw.Over, nil)
		}
	}
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, image.Rect(0, 0, toolbarWidth, st.height), image.NewUniform(th.ToolbarBackground), image.Point{}, draw.Src)
	for i, b := range st.buttons {
		state := StateDefault
		if tb, ok := b.Button.(*ToolButton); ok && tb.tool != editor.ToolNone && tb.tool == st.tool {
			state = StatePressed
		} else if i == st.hoverButton {
			state = StateHover
		}
		b.Draw(dst, state, th)
	}
	drawStatus(dst, st, th)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (st.width - wmsg) / 2
		py := (st.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, rect, image.NewUniform(color.NRGBA{th.Background.R, th.Background.G, th.Background.B, 230}), image.Point{}, draw.Over)
		drawRect(dst, rect, th.ButtonBorder, 2)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}
}

func drawStatus(dst *image.RGBA, st paintState, th *theme.Theme) {
	r := image.Rect(0, st.height-bottomHeight, st.width, st.height)
	draw.Draw(dst, r, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	col := th.StatusText
	if st.failed {
		col = th.ErrorText
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13,
		Dot: fixed.P(r.Min.X+6, r.Min.Y+16)}
	d.DrawString(st.status)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	renderFrame(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
