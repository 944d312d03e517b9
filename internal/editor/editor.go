// Package editor is the canvas interaction engine. It owns the loaded image,
// the tool state machine, the selection, the crop controller and the undo
// history, and renders the visible composite and its overlay.
//
// An Editor is not safe for concurrent use. Background work (provider loads,
// paint restores, magic tools) posts its completion to a mailbox; the owner
// runs completions with Drain or Flush.
package editor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log"

	"github.com/example/retouch/internal/adjust"
	"github.com/example/retouch/internal/crop"
	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/history"
	"github.com/example/retouch/internal/magic"
	"github.com/example/retouch/internal/selection"
	"github.com/example/retouch/internal/source"
	"github.com/example/retouch/internal/surface"
	"github.com/example/retouch/internal/theme"
)

var (
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("editor: no image loaded")
	// ErrBusy is returned while a magic tool is running.
	ErrBusy = errors.New("editor: busy")
)

// DefaultMinDistance is how far the pointer must move before a freehand tool
// records another point.
const DefaultMinDistance = 2

// Brush holds the paint tool settings. Hardness and Opacity are in [0,1].
type Brush struct {
	Size     float64
	Hardness float64
	Opacity  float64
	Color    color.NRGBA
}

// DefaultBrush is a 20px hard white brush.
func DefaultBrush() Brush {
	return Brush{Size: 20, Hardness: 1, Opacity: 1, Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}}
}

type gesture struct {
	active bool
	start  geom.Point
	last   geom.Point
	points []geom.Point
	mods   Mods
}

// Editor is the photo editing core.
type Editor struct {
	surf      *surface.Set
	params    adjust.Params
	transform adjust.Transform
	brush     Brush
	feather   float64

	sel     selection.Selection
	pen     selection.Pen
	crop    *crop.Controller
	aspect  string
	hist    *history.Stack
	tool    Tool
	held    Tool // tool to restore after a temporary picker swap
	state   State
	gesture gesture

	hover  *geom.Point
	picked color.Color
	ants   float64

	showOriginal bool
	rendered     *image.RGBA
	preview      *image.RGBA

	maskCache struct {
		version uint64
		size    image.Point
		feather float64
		mask    *image.Alpha
	}

	minDistance float64
	format      string
	theme       *theme.Theme
	service     magic.Service
	onSave      func([]byte) error
	onError     func(error)
	onChange    func()

	err    error
	busy   bool
	cancel context.CancelFunc
	mail   *mailbox

	loadGen  uint64
	paintGen uint64
	jobGen   uint64
}

// Option configures an Editor.
type Option func(*Editor)

// WithOnSave sets the callback Save hands the encoded image to.
func WithOnSave(fn func([]byte) error) Option { return func(e *Editor) { e.onSave = fn } }

// WithOnError sets a callback for failures of background work.
func WithOnError(fn func(error)) Option { return func(e *Editor) { e.onError = fn } }

// WithOnChange sets a callback run after each history push.
func WithOnChange(fn func()) Option { return func(e *Editor) { e.onChange = fn } }

// WithFormat sets the Save encoding: png, jpeg, bmp or tiff.
func WithFormat(format string) Option { return func(e *Editor) { e.format = format } }

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(n int) Option { return func(e *Editor) { e.hist = history.New(n) } }

// WithMagic sets the service behind RemoveBackground and InvertColors.
func WithMagic(s magic.Service) Option { return func(e *Editor) { e.service = s } }

// WithTheme sets the overlay palette.
func WithTheme(t *theme.Theme) Option { return func(e *Editor) { e.theme = t } }

// WithBrush sets the starting brush.
func WithBrush(b Brush) Option { return func(e *Editor) { e.brush = b } }

// WithFeather sets the selection feather radius.
func WithFeather(f float64) Option { return func(e *Editor) { e.feather = max(f, 0) } }

// WithMinDistance sets the freehand point spacing.
func WithMinDistance(d float64) Option { return func(e *Editor) { e.minDistance = d } }

// WithCloseRadius sets how close to the first anchor a pen click closes the
// path.
func WithCloseRadius(r float64) Option { return func(e *Editor) { e.pen.CloseRadius = r } }

// New returns an editor with no image loaded.
func New(opts ...Option) *Editor {
	e := &Editor{
		brush:       DefaultBrush(),
		hist:        history.New(0),
		aspect:      geom.RatioFree,
		minDistance: DefaultMinDistance,
		format:      "png",
		theme:       theme.Default(),
		service:     magic.Local{},
		mail:        newMailbox(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Load replaces the image and resets every piece of state, including history.
func (e *Editor) Load(img image.Image) {
	e.stopJob()
	if e.surf != nil {
		e.surf.Close()
	}
	b := img.Bounds()
	e.surf = surface.New(img, b.Dx(), b.Dy())
	e.params.Reset()
	e.transform = adjust.Transform{}
	e.sel.Clear()
	e.pen.Cancel()
	e.crop = nil
	e.tool, e.held = ToolNone, ToolNone
	e.state = StateIdle
	e.gesture = gesture{}
	e.showOriginal = false
	e.err = nil
	e.loadGen++
	e.paintGen++
	e.hist.Reset()
	e.invalidate()
	e.pushHistory()
	log.Printf("editor: loaded %dx%d image", b.Dx(), b.Dy())
}

// LoadFrom resolves p in the background and loads the result. A later load
// supersedes an earlier one that has not finished yet.
func (e *Editor) LoadFrom(ctx context.Context, p source.Provider) {
	e.loadGen++
	gen := e.loadGen
	e.mail.spawn(func() func() {
		img, err := p.Load(ctx)
		return func() {
			if gen != e.loadGen {
				log.Printf("editor: dropping stale load from %s", p.Name())
				return
			}
			if err != nil {
				e.fail(err)
				return
			}
			e.Load(img)
		}
	})
}

// Drain runs finished background completions. It returns how many ran.
func (e *Editor) Drain() int { return e.mail.drain() }

// Flush waits for all background work and runs its completions.
func (e *Editor) Flush() { e.mail.flush() }

// Ready is signalled when completions are waiting for Drain.
func (e *Editor) Ready() <-chan struct{} { return e.mail.ready }

// Close stops background work and releases the surfaces.
func (e *Editor) Close() {
	e.stopJob()
	e.mail.pending.Wait()
	if e.surf != nil {
		e.surf.Close()
		e.surf = nil
	}
}

// Loaded reports whether an image is present.
func (e *Editor) Loaded() bool { return e.surf != nil }

// Size returns the displayed canvas size.
func (e *Editor) Size() (int, int) {
	if e.surf == nil {
		return 0, 0
	}
	return e.surf.Size()
}

func (e *Editor) sourceSize() (int, int) {
	b := e.surf.Base.Bounds()
	return b.Dx(), b.Dy()
}

func (e *Editor) Tool() Tool                  { return e.tool }
func (e *Editor) State() State                { return e.state }
func (e *Editor) Params() adjust.Params       { return e.params }
func (e *Editor) Transform() adjust.Transform { return e.transform }
func (e *Editor) Brush() Brush                { return e.brush }
func (e *Editor) Feather() float64            { return e.feather }
func (e *Editor) History() *history.Stack     { return e.hist }

// Selection exposes the selection for inspection.
func (e *Editor) Selection() *selection.Selection { return &e.sel }

// Pen exposes the pen path under construction.
func (e *Editor) Pen() *selection.Pen { return &e.pen }

// Crop returns the crop controller while the crop tool is active.
func (e *Editor) Crop() *crop.Controller { return e.crop }

// Paint returns the paint layer.
func (e *Editor) Paint() *image.RGBA {
	if e.surf == nil {
		return nil
	}
	return e.surf.Paint
}

// Base returns the current base image.
func (e *Editor) Base() *image.RGBA {
	if e.surf == nil {
		return nil
	}
	return e.surf.Base
}

// Err returns the last background failure.
func (e *Editor) Err() error { return e.err }

// ClearErr dismisses the error state.
func (e *Editor) ClearErr() { e.err = nil }

// Busy reports whether a magic tool is running.
func (e *Editor) Busy() bool { return e.busy }

func (e *Editor) fail(err error) {
	log.Printf("editor: %v", err)
	e.err = err
	e.state = StateIdle
	e.gesture = gesture{}
	if e.onError != nil {
		e.onError(err)
	}
}

func (e *Editor) invalidate() {
	e.rendered = nil
	e.preview = nil
	if e.surf != nil {
		e.surf.Invalidate()
	}
}

// composite returns the rendered image without any stroke in progress.
func (e *Editor) composite() *image.RGBA {
	dirty := e.surf.TakeDirty()
	if e.rendered == nil || dirty {
		e.rendered = adjust.Render(e.surf.Base, e.surf.Paint, e.params, e.transform)
		e.preview = nil
	}
	return e.rendered
}

// View returns the image shown on the canvas: the composite with the stroke
// in progress, or the untouched original while ToggleOriginal is on.
func (e *Editor) View() *image.RGBA {
	if e.surf == nil {
		return nil
	}
	if e.showOriginal {
		return e.surf.Original
	}
	if e.state == StatePainting {
		if e.preview == nil {
			paint := surface.Clone(e.surf.Paint)
			e.applyStroke(paint, e.strokeMask())
			e.preview = adjust.Render(e.surf.Base, paint, e.params, e.transform)
		}
		return e.preview
	}
	return e.composite()
}

// FinalImage renders base, paint, adjustments and transform.
func (e *Editor) FinalImage() (*image.RGBA, error) {
	if e.surf == nil {
		return nil, ErrNoImage
	}
	return surface.Clone(e.composite()), nil
}

// ToggleOriginal switches between the edit and the image as loaded.
func (e *Editor) ToggleOriginal() {
	e.showOriginal = !e.showOriginal
}

// ShowingOriginal reports the before/after toggle.
func (e *Editor) ShowingOriginal() bool { return e.showOriginal }

// selectionMask returns the feathered mask in display space, cached until the
// selection, canvas size or feather changes. nil means no selection.
func (e *Editor) selectionMask() *image.Alpha {
	if !e.sel.Active() {
		return nil
	}
	w, h := e.surf.Size()
	c := &e.maskCache
	if c.mask != nil && c.version == e.sel.Version() && c.size == image.Pt(w, h) && c.feather == e.feather {
		return c.mask
	}
	c.mask = e.sel.Mask(w, h, e.feather)
	c.version, c.size, c.feather = e.sel.Version(), image.Pt(w, h), e.feather
	return c.mask
}
