package appstate

import (
	"context"
	"image"
	"log"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/source"
	"github.com/example/retouch/internal/surface"
	"github.com/example/retouch/internal/theme"
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
	tickInterval  = 120 * time.Millisecond
	messageTime   = 2 * time.Second
)

// AppState holds the window configuration around an editor.
type AppState struct {
	Editor  *editor.Editor
	Theme   *theme.Theme
	Title   string
	Gallery *source.Gallery

	notifier *notify.Notifier

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithEditor sets the editor shown in the window.
func WithEditor(ed *editor.Editor) Option { return func(a *AppState) { a.Editor = ed } }

// WithTheme sets the chrome colours.
func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

// WithTitle sets the window title suffix.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithNotifier routes copy notifications to desktop notifications.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithGallery enables cycling through earlier results.
func WithGallery(g *source.Gallery) Option { return func(a *AppState) { a.Gallery = g } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{}
	for _, o := range opts {
		o(a)
	}
	if a.Editor == nil {
		a.Editor = editor.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *AppState) windowTitle() string {
	if a.Title == "" {
		return ProgramTitle
	}
	return ProgramTitle + " - " + a.Title
}

// drainEvent asks the event loop to run finished background work.
type drainEvent struct{}

// tickEvent advances the marching ants.
type tickEvent struct{}

// Run opens the window and blocks until it closes.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	ed := a.Editor

	width, height := defaultWidth, defaultHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.windowTitle()})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-ed.Ready():
				w.Send(drainEvent{})
			case <-done:
				return
			}
		}
	}()
	go func() {
		t := time.NewTicker(tickInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Send(tickEvent{})
			case <-done:
				return
			}
		}
	}()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()
	defer close(paintCh)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	var message string
	var messageUntil time.Time
	say := func(msg string) {
		message = msg
		messageUntil = time.Now().Add(messageTime)
		w.Send(paint.Event{})
	}

	quit := false
	km := newKeymap(a.bindings(jobCtx, say, func() { quit = true }))
	buttons := newToolbar(km.run)

	hoverButton := -1
	dragging := false

	for !quit {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case drainEvent:
			if ed.Drain() > 0 {
				w.Send(paint.Event{})
			}
		case tickEvent:
			if ed.Selection().Active() || ed.Busy() {
				ed.Tick()
				w.Send(paint.Event{})
			}
			if time.Now().After(messageUntil) && message != "" {
				message = ""
				w.Send(paint.Event{})
			}
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := a.snapshot(width, height, buttons, hoverButton)
			st.message = message
			st.messageUntil = messageUntil
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			p := image.Point{int(e.X), int(e.Y)}
			mods := modsFrom(e.Modifiers)
			vp := viewport(width, height, image.Pt(ed.Size()))
			onChrome := p.X < toolbarWidth || p.Y >= height-bottomHeight
			switch {
			case e.Button == mouse.ButtonWheelUp && e.Direction == mouse.DirStep:
				ed.BrushBigger()
			case e.Button == mouse.ButtonWheelDown && e.Direction == mouse.DirStep:
				ed.BrushSmaller()
			case onChrome && !dragging:
				ed.PointerLeave()
				hoverButton = buttonAt(buttons, p)
				if hoverButton >= 0 && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					buttons[hoverButton].Activate()
				}
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				hoverButton = -1
				dragging = true
				ed.PointerDown(vp.ToCanvas(p), mods)
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				dragging = false
				ed.PointerUp(vp.ToCanvas(p), mods)
			default:
				hoverButton = -1
				ed.PointerMove(vp.ToCanvas(p), mods)
			}
			w.Send(paint.Event{})
		case key.Event:
			if e.Code == key.CodeLeftAlt || e.Code == key.CodeRightAlt {
				switch e.Direction {
				case key.DirPress:
					ed.HoldPicker(true)
				case key.DirRelease:
					ed.HoldPicker(false)
				}
				w.Send(paint.Event{})
				continue
			}
			if e.Direction != key.DirPress && e.Direction != key.DirNone {
				continue
			}
			if name, ok := km.lookup(e); ok {
				slog.Debug("shortcut", "action", name)
				km.run(name)
				w.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

// snapshot copies everything the paint goroutine needs so the editor is only
// touched from the event loop.
func (a *AppState) snapshot(width, height int, buttons []*CacheButton, hover int) paintState {
	ed := a.Editor
	st := paintState{
		width:       width,
		height:      height,
		tool:        ed.Tool(),
		buttons:     buttons,
		hoverButton: hover,
		status:      ed.Status(),
		failed:      ed.Err() != nil,
		theme:       a.Theme,
	}
	if !ed.Loaded() {
		st.status = "no image: ctrl+v paste, ctrl+n screenshot, ctrl+g gallery"
		return st
	}
	if v := ed.View(); v != nil {
		st.view = surface.Clone(v)
	}
	if o := ed.Overlay(); o != nil {
		st.overlay = surface.ToRGBA(o)
	}
	return st
}

// modsFrom converts shiny modifier flags.
func modsFrom(m key.Modifiers) editor.Mods {
	var out editor.Mods
	if m&key.ModShift != 0 {
		out |= editor.ModShift
	}
	if m&key.ModAlt != 0 {
		out |= editor.ModAlt
	}
	if m&(key.ModControl|key.ModMeta) != 0 {
		out |= editor.ModCtrl
	}
	return out
}
