package appstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/retouch/internal/clipboard"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/source"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

func (k KeyShortcut) String() string {
	s := ""
	if k.Modifiers&key.ModControl != 0 {
		s += "ctrl+"
	}
	if k.Modifiers&key.ModAlt != 0 {
		s += "alt+"
	}
	if k.Modifiers&key.ModShift != 0 {
		s += "shift+"
	}
	if k.Rune != 0 {
		return s + string(k.Rune)
	}
	return s + k.Code.String()
}

type binding struct {
	name string
	keys KeyboardShortcuts
	fn   func()
}

type keymap struct {
	actions map[string]func()
	keys    map[KeyShortcut]string
}

func newKeymap(bs []binding) *keymap {
	km := &keymap{actions: map[string]func(){}, keys: map[KeyShortcut]string{}}
	for _, b := range bs {
		km.register(b.name, b.keys, b.fn)
	}
	return km
}

func (km *keymap) register(name string, keys KeyboardShortcuts, fn func()) {
	km.actions[name] = fn
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		km.keys[sc] = name
	}
}

func (km *keymap) run(name string) {
	if fn, ok := km.actions[name]; ok {
		fn()
	}
}

const modMask = key.ModShift | key.ModControl | key.ModAlt

// lookup resolves a key event to an action name. Meta counts as control.
func (km *keymap) lookup(e key.Event) (string, bool) {
	mods := e.Modifiers
	if mods&key.ModMeta != 0 {
		mods |= key.ModControl
	}
	mods &= modMask
	if e.Rune > 0 && unicode.IsPrint(e.Rune) {
		if name, ok := km.keys[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]; ok {
			return name, true
		}
	}
	name, ok := km.keys[KeyShortcut{Code: e.Code, Modifiers: mods}]
	return name, ok
}

// command wraps an editor command as an action, reporting failures through
// the message box.
func command(ctx context.Context, ed *editor.Editor, cmd editor.Command, say func(string)) func() {
	return func() {
		if err := ed.Execute(ctx, cmd); err != nil {
			slog.Debug("command failed", "command", cmd, "err", err)
			if !errors.Is(err, editor.ErrNoImage) {
				say(err.Error())
			}
		}
	}
}

func (a *AppState) bindings(ctx context.Context, say func(string), quit func()) []binding {
	ed := a.Editor
	cmd := func(c editor.Command) func() { return command(ctx, ed, c, say) }
	ctrl := key.ModControl
	shift := key.ModShift
	galleryIdx := -1

	load := func(p source.Provider) {
		say("loading " + p.Name())
		ed.LoadFrom(ctx, p)
	}

	return []binding{
		{"crop", shortcutList{{Rune: 'c'}}, cmd(editor.CmdCrop)},
		{"lasso", shortcutList{{Rune: 'l'}}, cmd(editor.CmdLasso)},
		{"marquee", shortcutList{{Rune: 'm'}}, cmd(editor.CmdMarquee)},
		{"ellipse", shortcutList{{Rune: 'o'}}, cmd(editor.CmdEllipse)},
		{"pen", shortcutList{{Rune: 'p'}}, cmd(editor.CmdPen)},
		{"brush", shortcutList{{Rune: 'b'}}, cmd(editor.CmdBrush)},
		{"eraser", shortcutList{{Rune: 'e'}}, cmd(editor.CmdEraser)},
		{"picker", shortcutList{{Rune: 'i'}}, cmd(editor.CmdPicker)},
		{"brush-smaller", shortcutList{{Rune: '['}}, cmd(editor.CmdBrushSmaller)},
		{"brush-bigger", shortcutList{{Rune: ']'}}, cmd(editor.CmdBrushBigger)},
		{"deselect", shortcutList{{Rune: 'd', Modifiers: ctrl}}, cmd(editor.CmdDeselect)},
		{"invert-selection", shortcutList{{Rune: 'i', Modifiers: ctrl | shift}}, cmd(editor.CmdInvertSelection)},
		{"delete-selection", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, cmd(editor.CmdDeleteSelection)},
		{"fill-selection", shortcutList{{Code: key.CodeDeleteBackspace, Modifiers: key.ModAlt}}, cmd(editor.CmdFillSelection)},
		{"undo", shortcutList{{Rune: 'z', Modifiers: ctrl}}, cmd(editor.CmdUndo)},
		{"redo", shortcutList{{Rune: 'z', Modifiers: ctrl | shift}, {Rune: 'y', Modifiers: ctrl}}, cmd(editor.CmdRedo)},
		{"apply-crop", shortcutList{{Code: key.CodeReturnEnter}}, cmd(editor.CmdApplyCrop)},
		{"cancel", shortcutList{{Code: key.CodeEscape}}, cmd(editor.CmdCancel)},
		{"rotate", shortcutList{{Rune: 'r'}}, cmd(editor.CmdRotate)},
		{"flip-h", shortcutList{{Rune: 'h'}}, cmd(editor.CmdFlipH)},
		{"flip-v", shortcutList{{Rune: 'v'}}, cmd(editor.CmdFlipV)},
		{"apply", shortcutList{{Code: key.CodeReturnEnter, Modifiers: ctrl}}, cmd(editor.CmdApplyAdjustments)},
		{"apply-selection", shortcutList{{Code: key.CodeReturnEnter, Modifiers: ctrl | shift}}, cmd(editor.CmdApplyToSelection)},
		{"reset", shortcutList{{Rune: '0', Modifiers: ctrl}}, cmd(editor.CmdReset)},
		{"clear-drawings", shortcutList{{Code: key.CodeDeleteBackspace, Modifiers: ctrl}}, cmd(editor.CmdClearDrawings)},
		{"toggle-original", shortcutList{{Rune: '\\'}}, cmd(editor.CmdToggleOriginal)},
		{"remove-background", shortcutList{{Rune: 'b', Modifiers: ctrl}}, cmd(editor.CmdRemoveBackground)},
		{"invert-colors", shortcutList{{Rune: 'i', Modifiers: ctrl}}, cmd(editor.CmdInvertColors)},
		{"save", shortcutList{{Rune: 's', Modifiers: ctrl}}, func() {
			if _, err := ed.Save(); err != nil {
				say(err.Error())
				return
			}
			say("saved")
		}},
		{"copy", shortcutList{{Rune: 'c', Modifiers: ctrl}}, func() {
			img, err := ed.FinalImage()
			if err != nil {
				say(err.Error())
				return
			}
			if err := clipboard.WriteImage(img); err != nil {
				say(fmt.Sprintf("copy: %v", err))
				return
			}
			a.notifier.Copy("image")
			say("copied")
		}},
		{"paste", shortcutList{{Rune: 'v', Modifiers: ctrl}}, func() { load(source.Clipboard{}) }},
		{"screenshot", shortcutList{{Rune: 'n', Modifiers: ctrl}}, func() { load(source.Screen{}) }},
		{"gallery", shortcutList{{Rune: 'g', Modifiers: ctrl}}, func() {
			if a.Gallery == nil {
				say("no gallery")
				return
			}
			entries, err := a.Gallery.List()
			if err != nil || len(entries) == 0 {
				say("gallery is empty")
				return
			}
			galleryIdx = (galleryIdx + 1) % len(entries)
			load(a.Gallery.Pick(galleryIdx))
		}},
		{"quit", shortcutList{{Rune: 'q'}}, quit},
	}
}
