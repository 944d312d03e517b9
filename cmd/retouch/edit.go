package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/retouch/internal/appstate"
	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/source"
)

type editCmd struct {
	*root
	fs        *flag.FlagSet
	clipboard bool
	screen    bool
	monitor   string
	portal    bool
	gallery   int
	output    string
	format    string
	file      string
}

func (e *editCmd) Program() string        { return e.root.program + " edit" }
func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r, fs: fs}
	fs.BoolVar(&e.clipboard, "from-clipboard", false, "start from the clipboard image")
	fs.BoolVar(&e.screen, "screen", false, "start from an X11 screen grab")
	fs.StringVar(&e.monitor, "monitor", "", "monitor for -screen: index, output name or primary")
	fs.BoolVar(&e.portal, "portal", false, "start from a desktop portal screenshot")
	fs.IntVar(&e.gallery, "gallery", -1, "start from the n-th newest saved result")
	fs.StringVar(&e.output, "o", "", "write saves to this file instead of the gallery")
	fs.StringVar(&e.format, "format", "", "save format: png, jpeg, bmp or tiff")
	fs.Usage = usageFunc(e)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		e.file = fs.Arg(0)
	}
	if err := checkFormat(e.format); err != nil {
		return nil, err
	}
	n := 0
	for _, set := range []bool{e.file != "", e.clipboard, e.screen, e.portal, e.gallery >= 0} {
		if set {
			n++
		}
	}
	if n > 1 {
		return nil, errors.New("choose one image source")
	}
	return e, nil
}

// provider returns the image source chosen on the command line, or nil.
func (e *editCmd) provider() source.Provider {
	switch {
	case e.file != "":
		return source.File{Path: e.file}
	case e.clipboard:
		return source.Clipboard{}
	case e.screen:
		return source.Screen{Monitor: e.monitor}
	case e.portal:
		return source.Portal{Interactive: true}
	case e.gallery >= 0:
		return e.root.gallery().Pick(e.gallery)
	}
	return nil
}

// save writes encoded bytes to -o, or a fresh gallery file.
func (e *editCmd) save(data []byte, format string) (string, error) {
	if e.output != "" {
		if err := os.WriteFile(e.output, data, 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", e.output, err)
		}
		return e.output, nil
	}
	return e.root.gallery().Save(data, format)
}

func (e *editCmd) Run() error {
	var ed *editor.Editor
	ed = e.root.newEditor(e.format, editor.WithOnSave(func(data []byte) error {
		path, err := e.save(data, ed.Format())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", path)
		e.root.notifySave(path)
		return nil
	}))

	title := "untitled"
	if p := e.provider(); p != nil {
		title = p.Name()
		ed.LoadFrom(context.Background(), p)
	}
	g := e.root.gallery()
	st := appstate.New(
		appstate.WithEditor(ed),
		appstate.WithTheme(e.root.activeTheme),
		appstate.WithNotifier(e.root.notifier),
		appstate.WithGallery(&g),
		appstate.WithTitle(title),
		appstate.WithOnClose(ed.Close),
	)
	st.Run()
	return nil
}
