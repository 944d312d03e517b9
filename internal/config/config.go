package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/retouch/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save  bool
	Copy  bool
	Error bool
}

// Brush holds the starting brush settings. Hardness and Opacity are percent.
type Brush struct {
	Size     float64
	Hardness float64
	Opacity  float64
	Color    string
}

// Selection holds selection tool tuning.
type Selection struct {
	Feather     float64
	MinDistance float64
	CloseRadius float64
}

// History holds undo settings.
type History struct {
	Limit int
}

// Service configures the background removal command. Empty means the
// built-in local service.
type Service struct {
	Command string
}

// Config holds the application configuration.
type Config struct {
	Theme     string
	SaveDir   string
	Format    string
	Notify    Notify
	Brush     Brush
	Selection Selection
	History   History
	Service   Service
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // empty falls back to env, then the built-in default
		Format: "png",
		Notify: Notify{Error: true},
		Brush: Brush{
			Size:     20,
			Hardness: 100,
			Opacity:  100,
			Color:    "#ffffff",
		},
		Selection: Selection{
			MinDistance: 2,
			CloseRadius: 8,
		},
		History: History{Limit: 50},
		Themes:  make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "format = %s\n", c.Format)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "error = %v\n", c.Notify.Error)
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "size = %g\n", c.Brush.Size)
	fmt.Fprintf(&sb, "hardness = %g\n", c.Brush.Hardness)
	fmt.Fprintf(&sb, "opacity = %g\n", c.Brush.Opacity)
	fmt.Fprintf(&sb, "color = %s\n", c.Brush.Color)
	sb.WriteString("\n")

	sb.WriteString("[selection]\n")
	fmt.Fprintf(&sb, "feather = %g\n", c.Selection.Feather)
	fmt.Fprintf(&sb, "min_distance = %g\n", c.Selection.MinDistance)
	fmt.Fprintf(&sb, "close_radius = %g\n", c.Selection.CloseRadius)
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "limit = %d\n", c.History.Limit)
	sb.WriteString("\n")

	if c.Service.Command != "" {
		sb.WriteString("[service]\n")
		fmt.Fprintf(&sb, "command = %s\n", c.Service.Command)
		sb.WriteString("\n")
	}

	// Sort keys for deterministic output
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

// LookupTheme returns a theme defined inline in the config.
func (c *Config) LookupTheme(name string) (*theme.Theme, bool) {
	t, ok := c.Themes[name]
	return t, ok
}
