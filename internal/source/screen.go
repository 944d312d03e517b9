package source

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
)

// Monitor is one output of the X11 layout.
type Monitor struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// Screen grabs the X11 root window, optionally cropped to one monitor.
// Monitor is an index, an output name, "primary", or empty for everything.
type Screen struct {
	Monitor string
}

func (s Screen) Name() string {
	if s.Monitor == "" {
		return "screen"
	}
	return "screen " + s.Monitor
}

func (s Screen) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, monitors, err := grabRoot()
	if err != nil {
		return nil, err
	}
	if s.Monitor == "" {
		return img, nil
	}
	m, err := FindMonitor(monitors, s.Monitor)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, m.Rect)
}

// FindMonitor resolves a selector against monitors.
func FindMonitor(monitors []Monitor, selector string) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors available")
	}
	sel := strings.TrimSpace(selector)
	if strings.EqualFold(sel, "primary") {
		for _, m := range monitors {
			if m.Primary {
				return m, nil
			}
		}
		return monitors[0], nil
	}
	if idx, err := strconv.Atoi(sel); err == nil {
		for _, m := range monitors {
			if m.Index == idx {
				return m, nil
			}
		}
		return Monitor{}, fmt.Errorf("monitor %d not found", idx)
	}
	for _, m := range monitors {
		if strings.EqualFold(m.Name, sel) {
			return m, nil
		}
	}
	return Monitor{}, fmt.Errorf("monitor %q not found", selector)
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
