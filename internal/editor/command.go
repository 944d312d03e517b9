package editor

import (
	"context"
	"fmt"
	"strings"
)

// Command is a discrete editor action bound to a key or a CLI word.
type Command int

const (
	CmdNone Command = iota
	CmdCrop
	CmdLasso
	CmdMarquee
	CmdEllipse
	CmdPen
	CmdBrush
	CmdEraser
	CmdPicker
	CmdBrushBigger
	CmdBrushSmaller
	CmdHoldPicker
	CmdReleasePicker
	CmdDeselect
	CmdInvertSelection
	CmdDeleteSelection
	CmdFillSelection
	CmdUndo
	CmdRedo
	CmdApplyCrop
	CmdCancel
	CmdRotate
	CmdFlipH
	CmdFlipV
	CmdApplyAdjustments
	CmdApplyToSelection
	CmdReset
	CmdClearDrawings
	CmdToggleOriginal
	CmdRemoveBackground
	CmdInvertColors
	CmdSave
)

var commandNames = map[Command]string{
	CmdCrop:             "crop",
	CmdLasso:            "lasso",
	CmdMarquee:          "marquee",
	CmdEllipse:          "ellipse",
	CmdPen:              "pen",
	CmdBrush:            "brush",
	CmdEraser:           "eraser",
	CmdPicker:           "picker",
	CmdBrushBigger:      "brush-bigger",
	CmdBrushSmaller:     "brush-smaller",
	CmdHoldPicker:       "hold-picker",
	CmdReleasePicker:    "release-picker",
	CmdDeselect:         "deselect",
	CmdInvertSelection:  "invert-selection",
	CmdDeleteSelection:  "delete-selection",
	CmdFillSelection:    "fill-selection",
	CmdUndo:             "undo",
	CmdRedo:             "redo",
	CmdApplyCrop:        "apply-crop",
	CmdCancel:           "cancel",
	CmdRotate:           "rotate",
	CmdFlipH:            "flip-h",
	CmdFlipV:            "flip-v",
	CmdApplyAdjustments: "apply",
	CmdApplyToSelection: "apply-selection",
	CmdReset:            "reset",
	CmdClearDrawings:    "clear-drawings",
	CmdToggleOriginal:   "toggle-original",
	CmdRemoveBackground: "remove-background",
	CmdInvertColors:     "invert-colors",
	CmdSave:             "save",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "none"
}

// ParseCommand looks a command up by name.
func ParseCommand(s string) (Command, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range commandNames {
		if n == s {
			return c, true
		}
	}
	return CmdNone, false
}

var toolCommands = map[Command]Tool{
	CmdCrop:    ToolCrop,
	CmdLasso:   ToolLasso,
	CmdMarquee: ToolMarquee,
	CmdEllipse: ToolEllipse,
	CmdPen:     ToolPen,
	CmdBrush:   ToolBrush,
	CmdEraser:  ToolEraser,
	CmdPicker:  ToolPicker,
}

// Execute runs cmd. Magic tools run in the background under ctx.
func (e *Editor) Execute(ctx context.Context, cmd Command) error {
	if t, ok := toolCommands[cmd]; ok {
		e.SelectTool(t)
		return nil
	}
	switch cmd {
	case CmdBrushBigger:
		e.BrushBigger()
	case CmdBrushSmaller:
		e.BrushSmaller()
	case CmdHoldPicker:
		e.HoldPicker(true)
	case CmdReleasePicker:
		e.HoldPicker(false)
	case CmdDeselect:
		e.Deselect()
	case CmdInvertSelection:
		e.InvertSelection()
	case CmdDeleteSelection:
		return e.DeleteSelection()
	case CmdFillSelection:
		return e.FillSelection()
	case CmdUndo:
		e.Undo()
	case CmdRedo:
		e.Redo()
	case CmdApplyCrop:
		return e.ApplyCrop()
	case CmdCancel:
		e.Cancel()
	case CmdRotate:
		return e.Rotate()
	case CmdFlipH:
		return e.FlipH()
	case CmdFlipV:
		return e.FlipV()
	case CmdApplyAdjustments:
		return e.ApplyAdjustments()
	case CmdApplyToSelection:
		return e.ApplyAdjustmentsToSelection()
	case CmdReset:
		return e.Reset()
	case CmdClearDrawings:
		return e.ClearDrawings()
	case CmdToggleOriginal:
		e.ToggleOriginal()
	case CmdRemoveBackground:
		return e.RemoveBackground(ctx)
	case CmdInvertColors:
		return e.InvertColors(ctx)
	case CmdSave:
		_, err := e.Save()
		return err
	default:
		return fmt.Errorf("unknown command %d", cmd)
	}
	return nil
}
