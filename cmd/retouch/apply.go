package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/retouch/internal/editor"
	"github.com/example/retouch/internal/source"
)

// adjustment is one -set name=value pair.
type adjustment struct {
	name  string
	value float64
}

type adjustmentList []adjustment

func (l *adjustmentList) String() string {
	parts := make([]string, len(*l))
	for i, a := range *l {
		parts[i] = fmt.Sprintf("%s=%g", a.name, a.value)
	}
	return strings.Join(parts, ",")
}

func (l *adjustmentList) Set(s string) error {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("adjustment %q: want name=value", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return fmt.Errorf("adjustment %q: %w", s, err)
	}
	*l = append(*l, adjustment{name: strings.TrimSpace(name), value: v})
	return nil
}

type applyCmd struct {
	*root
	fs       *flag.FlagSet
	output   string
	format   string
	aspect   string
	timeout  time.Duration
	adjust   adjustmentList
	input    string
	commands []editor.Command
	stdout   io.Writer
}

func (a *applyCmd) Program() string        { return a.root.program + " apply" }
func (a *applyCmd) FlagSet() *flag.FlagSet { return a.fs }

func parseApplyCmd(args []string, r *root) (*applyCmd, error) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	a := &applyCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.StringVar(&a.output, "o", "", "output file, - for stdout (default: a new gallery file)")
	fs.StringVar(&a.format, "format", "", "output format: png, jpeg, bmp or tiff")
	fs.StringVar(&a.aspect, "aspect", "", "crop aspect preset used by apply-crop, e.g. 16:9 or Original")
	fs.DurationVar(&a.timeout, "timeout", 2*time.Minute, "limit for loading and magic tools")
	fs.Var(&a.adjust, "set", "adjustment as name=value, repeatable (e.g. contrast=20)")
	fs.Usage = usageFunc(a)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: a}
	}
	if err := checkFormat(a.format); err != nil {
		return nil, err
	}
	a.input = fs.Arg(0)
	for _, word := range fs.Args()[1:] {
		cmd, ok := editor.ParseCommand(word)
		if !ok {
			return nil, fmt.Errorf("unknown command %q", word)
		}
		a.commands = append(a.commands, cmd)
	}
	return a, nil
}

func (a *applyCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	img, err := source.File{Path: a.input}.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", a.input, err)
	}

	var written string
	ed := a.root.newEditor(a.format, editor.WithOnSave(func(data []byte) error {
		path, err := a.write(data)
		written = path
		return err
	}))
	defer ed.Close()
	ed.Load(img)

	if a.aspect != "" && !ed.SetAspect(a.aspect) {
		return fmt.Errorf("unknown aspect %q", a.aspect)
	}
	for _, adj := range a.adjust {
		if err := ed.Adjust(adj.name, adj.value); err != nil {
			return fmt.Errorf("set %s: %w", adj.name, err)
		}
	}
	if len(a.adjust) > 0 {
		ed.Commit()
	}
	for _, cmd := range a.commands {
		if cmd == editor.CmdSave {
			continue
		}
		if err := ed.Execute(ctx, cmd); err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
		ed.Flush()
		if err := ed.Err(); err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
	}

	if _, err := ed.Save(); err != nil {
		return err
	}
	if written != "" && written != "-" {
		fmt.Fprintf(os.Stderr, "saved %s\n", written)
		a.root.notifySave(written)
	}
	return nil
}

func (a *applyCmd) write(data []byte) (string, error) {
	switch a.output {
	case "-":
		if _, err := a.stdout.Write(data); err != nil {
			return "", fmt.Errorf("write stdout: %w", err)
		}
		return "-", nil
	case "":
		return a.root.gallery().Save(data, a.effectiveFormat())
	}
	if err := os.WriteFile(a.output, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", a.output, err)
	}
	return a.output, nil
}

func (a *applyCmd) effectiveFormat() string {
	if a.format != "" {
		return a.format
	}
	return a.root.config.Format
}
