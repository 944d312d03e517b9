package magic

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single Command run.
const DefaultTimeout = 2 * time.Minute

// Command pipes the image as PNG through an external program: the image on
// stdin, the result on stdout. The operation and job id are passed in the
// RETOUCH_OPERATION and RETOUCH_JOB environment variables.
type Command struct {
	Path    string
	Args    []string
	Timeout time.Duration
	// Fallback handles InvertColors; nil means Local.
	Fallback Service
}

// RemoveBackground runs the command.
func (c *Command) RemoveBackground(ctx context.Context, img image.Image) (image.Image, error) {
	return c.run(ctx, RemoveBackground, img)
}

// InvertColors runs in-process; a command is only needed for removal.
func (c *Command) InvertColors(ctx context.Context, img image.Image) (image.Image, error) {
	if c.Fallback != nil {
		return c.Fallback.InvertColors(ctx, img)
	}
	return Local{}.InvertColors(ctx, img)
}

func (c *Command) run(ctx context.Context, op Operation, img image.Image) (image.Image, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var in bytes.Buffer
	if err := png.Encode(&in, img); err != nil {
		return nil, fmt.Errorf("encode input: %w", err)
	}

	job := NewJobID()
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = append(os.Environ(), "RETOUCH_OPERATION="+string(op), "RETOUCH_JOB="+job)
	cmd.Stdin = &in
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	log.Printf("magic: %s %s via %s", job, op, c.Path)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}
		return nil, fmt.Errorf("%s: %w: %s", op, err, strings.TrimSpace(stderr.String()))
	}
	res, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("%s: decode output: %w", op, err)
	}
	log.Printf("magic: %s done in %s", job, time.Since(start).Round(time.Millisecond))
	return res, nil
}
