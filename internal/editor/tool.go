package editor

import "strings"

// Tool is the active canvas tool.
type Tool int

const (
	ToolNone Tool = iota
	ToolCrop
	ToolLasso
	ToolMarquee
	ToolEllipse
	ToolPen
	ToolBrush
	ToolEraser
	ToolPicker
)

var toolNames = [...]string{"none", "crop", "lasso", "marquee", "ellipse", "pen", "brush", "eraser", "picker"}

func (t Tool) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return "unknown"
}

// ParseTool looks a tool up by name.
func ParseTool(s string) (Tool, bool) {
	for i, n := range toolNames {
		if strings.EqualFold(s, n) {
			return Tool(i), true
		}
	}
	return ToolNone, false
}

// Selecting reports whether t builds a selection.
func (t Tool) Selecting() bool {
	return t == ToolLasso || t == ToolMarquee || t == ToolEllipse || t == ToolPen
}

// Painting reports whether t draws on the paint layer.
func (t Tool) Painting() bool { return t == ToolBrush || t == ToolEraser }

// Mods is the set of held modifier keys.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModAlt
	ModCtrl
)

func (m Mods) Has(o Mods) bool { return m&o != 0 }

// Target is what a pointer press landed on.
type Target int

const (
	TargetCanvas Target = iota
	TargetHandle
	TargetInside
)

// Intent is what a gesture will do when it ends.
type Intent int

const (
	IntentNone Intent = iota
	IntentNew
	IntentAdd
	IntentSubtract
	IntentMove
	IntentResize
	IntentDefine
	IntentPaint
	IntentPick
)

func (i Intent) String() string {
	switch i {
	case IntentNew:
		return "new"
	case IntentAdd:
		return "add"
	case IntentSubtract:
		return "subtract"
	case IntentMove:
		return "move"
	case IntentResize:
		return "resize"
	case IntentDefine:
		return "define"
	case IntentPaint:
		return "paint"
	case IntentPick:
		return "pick"
	}
	return "none"
}

// ResolveIntent is the one place modifier keys are interpreted. Selection
// tools add with Shift and subtract with Alt; Alt wins when both are held.
// Paint tools sample colour while Alt is held.
func ResolveIntent(tool Tool, mods Mods, target Target) Intent {
	switch {
	case tool == ToolCrop:
		switch target {
		case TargetHandle:
			return IntentResize
		case TargetInside:
			return IntentMove
		}
		return IntentDefine
	case tool.Selecting():
		switch {
		case mods.Has(ModAlt):
			return IntentSubtract
		case mods.Has(ModShift):
			return IntentAdd
		}
		return IntentNew
	case tool.Painting():
		if mods.Has(ModAlt) {
			return IntentPick
		}
		return IntentPaint
	case tool == ToolPicker:
		return IntentPick
	}
	return IntentNone
}

// State is the interaction state.
type State int

const (
	StateIdle State = iota
	StateDrawingSelection
	StateDrawingMarquee
	StateDrawingEllipse
	StatePenEditing
	StateCropping
	StatePainting
)

func (s State) String() string {
	switch s {
	case StateDrawingSelection:
		return "drawing-selection"
	case StateDrawingMarquee:
		return "drawing-marquee"
	case StateDrawingEllipse:
		return "drawing-ellipse"
	case StatePenEditing:
		return "pen-editing"
	case StateCropping:
		return "cropping"
	case StatePainting:
		return "painting"
	}
	return "idle"
}
