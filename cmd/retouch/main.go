package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"

	"github.com/example/retouch/internal/config"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/geom"
	"github.com/example/retouch/internal/magic"
	"github.com/example/retouch/internal/notify"
	"github.com/example/retouch/internal/source"
	"github.com/example/retouch/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	saveAlerts  bool
	copyAlerts  bool
	errorAlerts bool
	themeName   string
	service     string
	debug       bool
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return newRootWith(cfg, notify.New(notify.LoadPreferences()))
}

func newRootWith(cfg *config.Config, n *notify.Notifier) *root {
	r := &root{
		fs:       flag.NewFlagSet("retouch", flag.ContinueOnError),
		program:  "retouch",
		notifier: n,
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.errorAlerts, "notify-error", cfg.Notify.Error, "show a desktop notification when a background job fails")
	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark or a theme file)")
	r.fs.StringVar(&r.service, "service", "", "external command for the magic tools")
	r.fs.StringVar(&r.configPath, "config", "", "read configuration from this file")
	r.fs.BoolVar(&r.debug, "debug", false, "log renderer diagnostics")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.configPath != "" {
		cfg, err := config.NewLoader(version, r.configPath).Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		r.config = cfg
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.debug {
		gg.SetLogger(slog.Default())
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventError, r.errorAlerts)
	}
	if r.service != "" {
		r.config.Service.Command = r.service
	}
	r.activeTheme = r.loadTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "apply":
		cmd, err = parseApplyCmd(subArgs, r)
	case "gallery":
		cmd, err = parseGalleryCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// loadTheme resolves the flag, then the config, through inline config
// themes and the theme loader.
func (r *root) loadTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.LookupTheme(name); ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) gallery() source.Gallery {
	dir := r.config.SaveDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		dir = filepath.Join(home, "Pictures", "retouch")
	}
	return source.Gallery{Dir: dir}
}

// newEditor builds an editor from the configuration. Extra options are
// applied last.
func (r *root) newEditor(format string, opts ...editor.Option) *editor.Editor {
	cfg := r.config
	b := editor.DefaultBrush()
	if cfg.Brush.Size > 0 {
		b.Size = cfg.Brush.Size
	}
	b.Hardness = cfg.Brush.Hardness / 100
	b.Opacity = cfg.Brush.Opacity / 100
	if c, ok := geom.HexToRGBA(cfg.Brush.Color, 100); ok {
		b.Color = c
	} else if cfg.Brush.Color != "" {
		fmt.Fprintf(os.Stderr, "warning: ignoring brush color %q\n", cfg.Brush.Color)
	}
	if format == "" {
		format = cfg.Format
	}
	base := []editor.Option{
		editor.WithBrush(b),
		editor.WithFeather(cfg.Selection.Feather),
		editor.WithMinDistance(cfg.Selection.MinDistance),
		editor.WithCloseRadius(cfg.Selection.CloseRadius),
		editor.WithHistoryLimit(cfg.History.Limit),
		editor.WithFormat(format),
		editor.WithMagic(magic.New(cfg.Service.Command)),
		editor.WithOnError(r.notifyError),
	}
	if r.activeTheme != nil {
		base = append(base, editor.WithTheme(r.activeTheme))
	}
	return editor.New(append(base, opts...)...)
}

func checkFormat(format string) error {
	if format == "" {
		return nil
	}
	switch strings.ToLower(format) {
	case "jpg", "tif":
		return nil
	}
	for _, f := range editor.Formats {
		if strings.EqualFold(f, format) {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(editor.Formats, ", "))
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyError(err error) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Error(err)
}
