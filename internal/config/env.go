package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment override, e.g. RETOUCH_THEME.
const EnvPrefix = "RETOUCH"

// Env holds the environment overrides. Unset variables stay nil.
type Env struct {
	Theme        *string  `envconfig:"THEME"`
	SaveDir      *string  `envconfig:"SAVE_DIR"`
	Format       *string  `envconfig:"FORMAT"`
	BrushSize    *float64 `envconfig:"BRUSH_SIZE"`
	BrushColor   *string  `envconfig:"BRUSH_COLOR"`
	Feather      *float64 `envconfig:"FEATHER"`
	HistoryLimit *int     `envconfig:"HISTORY_LIMIT"`
	ServiceCmd   *string  `envconfig:"SERVICE_COMMAND"`
	NotifySave   *bool    `envconfig:"NOTIFY_SAVE"`
	NotifyCopy   *bool    `envconfig:"NOTIFY_COPY"`
	NotifyError  *bool    `envconfig:"NOTIFY_ERROR"`
	ConfigPath   string   `envconfig:"CONFIG"`
}

// LoadEnv reads the RETOUCH_ variables.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return &env, nil
}

// ApplyEnv overlays the set variables onto c.
func (c *Config) ApplyEnv(env *Env) {
	if env == nil {
		return
	}
	setIf(&c.Theme, env.Theme)
	setIf(&c.SaveDir, env.SaveDir)
	setIf(&c.Format, env.Format)
	setIf(&c.Brush.Size, env.BrushSize)
	setIf(&c.Brush.Color, env.BrushColor)
	setIf(&c.Selection.Feather, env.Feather)
	setIf(&c.History.Limit, env.HistoryLimit)
	setIf(&c.Service.Command, env.ServiceCmd)
	setIf(&c.Notify.Save, env.NotifySave)
	setIf(&c.Notify.Copy, env.NotifyCopy)
	setIf(&c.Notify.Error, env.NotifyError)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
