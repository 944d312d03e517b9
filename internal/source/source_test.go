package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, enc func(*bytes.Buffer, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	img.SetRGBA(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func pngEnc(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }
func bmpEnc(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) }

func TestFileLoadsFormats(t *testing.T) {
	dir := t.TempDir()
	for name, enc := range map[string]func(*bytes.Buffer, image.Image) error{
		"a.png": pngEnc,
		"b.bmp": bmpEnc,
	} {
		path := filepath.Join(dir, name)
		writeImage(t, path, enc)
		img, err := File{Path: path}.Load(context.Background())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
			t.Errorf("%s: bounds %v", name, img.Bounds())
		}
		if r, _, _, _ := img.At(1, 1).RGBA(); r>>8 != 200 {
			t.Errorf("%s: pixel lost", name)
		}
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := (File{Path: filepath.Join(dir, "missing.png")}).Load(context.Background()); err == nil {
		t.Error("expected an error for a missing file")
	}
	junk := filepath.Join(dir, "junk.png")
	os.WriteFile(junk, []byte("not an image"), 0o644)
	_, err := File{Path: junk}.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "junk.png") {
		t.Errorf("err = %v", err)
	}
}

func TestStatic(t *testing.T) {
	if _, err := Static(nil).Load(context.Background()); !errors.Is(err, ErrNoImage) {
		t.Fatalf("err = %v", err)
	}
}

func TestGalleryListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	g := Gallery{Dir: dir}
	old := filepath.Join(dir, "old.png")
	writeImage(t, old, pngEnc)
	newer := filepath.Join(dir, "new.png")
	writeImage(t, newer, pngEnc)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	past := time.Now().Add(-time.Hour)
	os.Chtimes(old, past, past)

	entries, err := g.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Path != newer || entries[1].Path != old {
		t.Fatalf("entries = %+v", entries)
	}
	img, err := g.Pick(1).Load(context.Background())
	if err != nil || img.Bounds().Dx() != 4 {
		t.Fatalf("Pick(1): %v", err)
	}
	if _, err := g.Pick(5).Load(context.Background()); !errors.Is(err, ErrNoImage) {
		t.Fatalf("Pick(5) err = %v", err)
	}
}

func TestGallerySave(t *testing.T) {
	g := Gallery{Dir: filepath.Join(t.TempDir(), "out")}
	path, err := g.Save([]byte("data"), "jpeg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(path) != ".jpg" || !strings.HasPrefix(filepath.Base(path), "retouch-") {
		t.Fatalf("path %q", path)
	}
	if a, b := g.NewPath("png"), g.NewPath("png"); a == b {
		t.Fatal("NewPath repeated a name")
	}
}

func TestFindMonitor(t *testing.T) {
	monitors := []Monitor{
		{Index: 0, Name: "HDMI-1", Rect: image.Rect(0, 0, 100, 100)},
		{Index: 1, Name: "eDP-1", Rect: image.Rect(100, 0, 200, 100), Primary: true},
	}
	for sel, want := range map[string]int{"primary": 1, "0": 0, "hdmi-1": 0, "eDP-1": 1} {
		m, err := FindMonitor(monitors, sel)
		if err != nil || m.Index != want {
			t.Errorf("FindMonitor(%q) = %d, %v", sel, m.Index, err)
		}
	}
	if _, err := FindMonitor(monitors, "7"); err == nil {
		t.Error("expected an error for a missing index")
	}
	if _, err := FindMonitor(nil, "0"); err == nil {
		t.Error("expected an error with no monitors")
	}
}

func TestCropToRect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	src.SetRGBA(6, 7, color.RGBA{G: 9, A: 255})
	out, err := cropToRect(src, image.Rect(5, 5, 20, 20))
	if err != nil {
		t.Fatalf("crop: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 5, 5) || out.RGBAAt(1, 2).G != 9 {
		t.Fatalf("crop result %v", out.Bounds())
	}
	if _, err := cropToRect(src, image.Rect(50, 50, 60, 60)); err == nil {
		t.Fatal("expected an error outside the image")
	}
}
