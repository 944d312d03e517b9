// Package theme holds the colour palette used by the window chrome and the
// canvas overlay.
package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes carries the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colour palette for the editor.
type Theme struct {
	Name string

	// Window
	Background color.RGBA
	Foreground color.RGBA

	// Toolbar and status line
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA
	StatusBackground      color.RGBA
	StatusText            color.RGBA
	ErrorText             color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Overlay
	AntsLight    color.RGBA
	AntsDark     color.RGBA
	LassoStroke  color.RGBA
	PenStroke    color.RGBA
	CropShade    color.RGBA
	CropBorder   color.RGBA
	HandleFill   color.RGBA
	HandleBorder color.RGBA
}

// Default returns the built in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		StatusBackground:      color.RGBA{235, 235, 235, 255},
		StatusText:            color.RGBA{20, 20, 20, 255},
		ErrorText:             color.RGBA{180, 20, 20, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		AntsLight:             color.RGBA{255, 255, 255, 255},
		AntsDark:              color.RGBA{0, 0, 0, 255},
		LassoStroke:           color.RGBA{255, 255, 255, 230},
		PenStroke:             color.RGBA{251, 191, 36, 230},
		CropShade:             color.RGBA{0, 0, 0, 128},
		CropBorder:            color.RGBA{255, 255, 255, 204},
		HandleFill:            color.RGBA{255, 255, 255, 255},
		HandleBorder:          color.RGBA{0, 0, 0, 255},
	}
}
