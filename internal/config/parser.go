package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/retouch/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				// Start with defaults so missing keys are fine
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		// Key = Value or Key: Value
		var key, value string
		var found bool
		if key, value, found = strings.Cut(line, "="); !found {
			if key, value, found = strings.Cut(line, ":"); !found {
				continue
			}
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case current != nil:
			err = theme.SetField(current, key, value)
		case section == "":
			setRootField(cfg, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case section == "selection":
			err = setSelectionField(&cfg.Selection, key, value)
		case section == "history":
			err = setHistoryField(&cfg.History, key, value)
		case section == "service":
			if key == "command" {
				cfg.Service.Command = value
			}
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "format":
		cfg.Format = strings.ToLower(value)
	}
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	case "error":
		n.Error = b
	}
	return nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}

func setBrushField(b *Brush, key, value string) error {
	if key == "color" {
		b.Color = value
		return nil
	}
	f, err := parseFloat(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "size":
		b.Size = f
	case "hardness":
		b.Hardness = f
	case "opacity":
		b.Opacity = f
	}
	return nil
}

func setSelectionField(s *Selection, key, value string) error {
	f, err := parseFloat(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "feather":
		s.Feather = f
	case "min_distance":
		s.MinDistance = f
	case "close_radius":
		s.CloseRadius = f
	}
	return nil
}

func setHistoryField(h *History, key, value string) error {
	if key != "limit" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	h.Limit = n
	return nil
}
