//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"errors"
	"image/color"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/jezek/xgb/xproto"
)

func TestXImageToRGBA(t *testing.T) {
	setup := &xproto.SetupInfo{PixmapFormats: []xproto.Format{{Depth: 24, BitsPerPixel: 32}}}
	// 2x1, BGRX with a padded stride of 12 bytes.
	data := []byte{
		1, 2, 3, 0, 10, 20, 30, 0, 0, 0, 0, 0,
	}
	img, err := xImageToRGBA(setup, &xproto.GetImageReply{Depth: 24, Data: data}, 2, 1)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{R: 30, G: 20, B: 10, A: 255}) {
		t.Fatalf("pixel = %v", got)
	}
	if _, err := xImageToRGBA(setup, &xproto.GetImageReply{Depth: 8, Data: data}, 2, 1); err == nil {
		t.Fatal("expected an error for an unknown depth")
	}
}

func TestPortalResult(t *testing.T) {
	ok := []any{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%201.png")}}
	path, err := portalResult(ok)
	if err != nil || path != "/tmp/Screenshot 1.png" {
		t.Fatalf("path %q, err %v", path, err)
	}
	cancelled := []any{uint32(1), map[string]dbus.Variant{}}
	if _, err := portalResult(cancelled); !errors.Is(err, ErrNoImage) {
		t.Fatalf("cancelled err = %v", err)
	}
	if _, err := portalResult([]any{uint32(0), map[string]dbus.Variant{}}); err == nil {
		t.Fatal("expected an error without a uri")
	}
}
