package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

type galleryCmd struct {
	*root
	fs     *flag.FlagSet
	dir    string
	stdout io.Writer
}

func (g *galleryCmd) Program() string        { return g.root.program + " gallery" }
func (g *galleryCmd) FlagSet() *flag.FlagSet { return g.fs }

func parseGalleryCmd(args []string, r *root) (*galleryCmd, error) {
	fs := flag.NewFlagSet("gallery", flag.ContinueOnError)
	g := &galleryCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.StringVar(&g.dir, "dir", "", "gallery directory (default: save_dir from the config)")
	fs.Usage = usageFunc(g)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *galleryCmd) Run() error {
	gal := g.root.gallery()
	if g.dir != "" {
		gal.Dir = g.dir
	}
	entries, err := gal.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "no saved results in %s\n", gal.Dir)
		return nil
	}
	tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i, e.ModTime.Format("2006-01-02 15:04:05"), e.Size, e.Path)
	}
	return tw.Flush()
}
