package magic

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os/exec"
	"strings"
	"testing"
)

func TestLocalInvert(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 10, G: 200, B: 0, A: 128})
	out, err := Local{}.InvertColors(context.Background(), src)
	if err != nil {
		t.Fatalf("InvertColors: %v", err)
	}
	got := out.(*image.NRGBA).NRGBAAt(0, 0)
	want := color.NRGBA{R: 245, G: 55, B: 255, A: 128}
	if got != want {
		t.Fatalf("inverted %v, want %v", got, want)
	}
	if src.NRGBAAt(5, 5).R != 10 {
		t.Fatal("input modified")
	}
}

func TestLocalRemoveBackgroundUnsupported(t *testing.T) {
	_, err := Run(context.Background(), Local{}, RemoveBackground, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestLocalHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Local{}).InvertColors(ctx, image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Fatal("expected a context error")
	}
}

func TestNewPicksService(t *testing.T) {
	if _, ok := New("  ").(Local); !ok {
		t.Fatal("blank command should give Local")
	}
	c, ok := New("rembg i -m u2net").(*Command)
	if !ok || c.Path != "rembg" || strings.Join(c.Args, " ") != "i -m u2net" {
		t.Fatalf("New = %#v", c)
	}
}

func TestCommandRoundTrip(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(2, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	out, err := (&Command{Path: cat}).RemoveBackground(context.Background(), src)
	if err != nil {
		t.Fatalf("RemoveBackground: %v", err)
	}
	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds %v", out.Bounds())
	}
	r, g, b, _ := out.At(2, 1).RGBA()
	if r>>8 != 1 || g>>8 != 2 || b>>8 != 3 {
		t.Fatal("pixel lost through the pipe")
	}
}

func TestCommandFailure(t *testing.T) {
	f, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	_, err = (&Command{Path: f}).RemoveBackground(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if err == nil || !strings.Contains(err.Error(), string(RemoveBackground)) {
		t.Fatalf("err = %v", err)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("exit status not reachable from %v", err)
	}
}

func TestJobID(t *testing.T) {
	if id := NewJobID(); !strings.HasPrefix(id, JobPrefix+"_") {
		t.Fatalf("job id %q", id)
	}
}
