package source

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gallery is the directory of earlier results. Files are named
// retouch-<time>-<uuid>.<ext>.
type Gallery struct {
	Dir string
}

// Entry is one earlier result.
type Entry struct {
	Path    string
	ModTime time.Time
	Size    int64
}

var imageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// List returns the images in the directory, newest first.
func (g Gallery) List() ([]Entry, error) {
	des, err := os.ReadDir(g.Dir)
	if err != nil {
		return nil, fmt.Errorf("read gallery: %w", err)
	}
	var out []Entry
	for _, de := range des {
		if de.IsDir() || !slices.Contains(imageExts, strings.ToLower(filepath.Ext(de.Name()))) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Path: filepath.Join(g.Dir, de.Name()), ModTime: info.ModTime(), Size: info.Size()})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := b.ModTime.Compare(a.ModTime); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return out, nil
}

// NewPath returns a fresh file name in the directory for the given format.
func (g Gallery) NewPath(format string) string {
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	name := fmt.Sprintf("retouch-%s-%s.%s", time.Now().Format("20060102-150405"), uuid.NewString()[:8], ext)
	return filepath.Join(g.Dir, name)
}

// Save writes encoded bytes to a new file and returns its path.
func (g Gallery) Save(data []byte, format string) (string, error) {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create gallery dir: %w", err)
	}
	path := g.NewPath(format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Pick returns a provider for the index-th newest result.
func (g Gallery) Pick(index int) Provider {
	return Func{Label: fmt.Sprintf("gallery #%d", index), Fn: func(ctx context.Context) (image.Image, error) {
		entries, err := g.List()
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(entries) {
			return nil, ErrNoImage
		}
		return File{Path: entries[index].Path}.Load(ctx)
	}}
}
