package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/edits
format = JPEG

[notify]
save = true
copy = false

[brush]
size = 42
hardness: 50
color = "#ff0000"

[selection]
feather = 3.5
close_radius = 12

[history]
limit = 10

[service]
command = rembg p -

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/edits" {
		t.Errorf("Expected save_dir '/tmp/edits', got '%s'", cfg.SaveDir)
	}
	if cfg.Format != "jpeg" {
		t.Errorf("Expected format 'jpeg', got '%s'", cfg.Format)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy {
		t.Errorf("Unexpected notify settings: %+v", cfg.Notify)
	}
	if !cfg.Notify.Error {
		t.Error("Expected notify.error to keep its default")
	}
	if cfg.Brush.Size != 42 || cfg.Brush.Hardness != 50 || cfg.Brush.Opacity != 100 {
		t.Errorf("Unexpected brush: %+v", cfg.Brush)
	}
	if cfg.Brush.Color != "#ff0000" {
		t.Errorf("Expected quoted colour to be unwrapped, got %q", cfg.Brush.Color)
	}
	if cfg.Selection.Feather != 3.5 || cfg.Selection.CloseRadius != 12 || cfg.Selection.MinDistance != 2 {
		t.Errorf("Unexpected selection: %+v", cfg.Selection)
	}
	if cfg.History.Limit != 10 {
		t.Errorf("Expected history limit 10, got %d", cfg.History.Limit)
	}
	if cfg.Service.Command != "rembg p -" {
		t.Errorf("Unexpected service command %q", cfg.Service.Command)
	}

	th, ok := cfg.LookupTheme("my_custom_theme")
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"[notify]\nsave = maybe\n",
		"[brush]\nsize = big\n",
		"[history]\nlimit = 1.5\n",
		"[theme.x]\nBackground = #12\n",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected an error for %q", input)
		}
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/edits

[notify]
save = true
copy = true

[brush]
size = 8
opacity = 40

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
AntsDark = #00000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Re-parse failed: %v\nGenerated:\n%s", err, generated)
	}

	if cfg2.String() != generated {
		t.Errorf("Round trip changed the output.\nFirst:\n%s\nSecond:\n%s", generated, cfg2.String())
	}
	if cfg2.Brush != cfg.Brush || cfg2.Notify != cfg.Notify {
		t.Errorf("Round trip lost settings: %+v vs %+v", cfg2, cfg)
	}
	th := cfg2.Themes["custom"]
	if th == nil || th.AntsDark.A != 0x80 {
		t.Errorf("Theme alpha lost in round trip: %+v", th)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RETOUCH_THEME", "dark")
	t.Setenv("RETOUCH_BRUSH_SIZE", "64")
	t.Setenv("RETOUCH_NOTIFY_ERROR", "false")

	env, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	cfg := New()
	cfg.SaveDir = "/from/file"
	cfg.ApplyEnv(env)
	if cfg.Theme != "dark" || cfg.Brush.Size != 64 || cfg.Notify.Error {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.SaveDir != "/from/file" {
		t.Errorf("unset variable overrode save_dir: %q", cfg.SaveDir)
	}
}

func TestLoaderOverrideAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "retouch.rc")
	l := NewLoader("v1", path)
	cfg := New()
	cfg.Theme = "dark"
	cfg.History.Limit = 7
	got, err := l.Save(cfg)
	if err != nil || got != path {
		t.Fatalf("Save = %q, %v", got, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Theme != "dark" || loaded.History.Limit != 7 {
		t.Errorf("loaded %+v", loaded)
	}
}
