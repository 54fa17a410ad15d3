/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by Validate for every rejected field.
var ErrInvalid = errors.New("invalid config")

// AppConfig is the user-editable configuration persisted as YAML in the user
// scope. Environment variables are read-only overrides applied on Load.
//
// config_version: bump when the structure changes incompatibly.
type AppConfig struct {
	ConfigVersion int               `yaml:"config_version"`
	Interaction   InteractionConfig `yaml:"interaction"`
	Glue          GlueConfig        `yaml:"glue"`
	Undo          UndoConfig        `yaml:"undo"`
	Logging       LoggingConfig     `yaml:"logging"`
}

type InteractionConfig struct {
	DragDeadZonePx float64 `yaml:"drag_dead_zone_px"`
	HitTolerancePx float64 `yaml:"hit_tolerance_px"`
	RangePolicy    string  `yaml:"range_policy"` // "full" | "partial"
	KnobSizePx     float64 `yaml:"knob_size_px"`
	// Modifier bindings, e.g. "ctrl", "alt", "shift+meta".
	MultiSelectModifier  string  `yaml:"multi_select_modifier"`
	IgnoreGlueModifier   string  `yaml:"ignore_glue_modifier"`
	CopyModifier         string  `yaml:"copy_modifier"`
	AutoscrollIntervalMs int     `yaml:"autoscroll_interval_ms"`
	AutoscrollStepPx     float64 `yaml:"autoscroll_step_px"`
}

type GlueConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Grid          float64 `yaml:"grid"` // document units, 0 disables grid snapping
	ThresholdPx   float64 `yaml:"threshold_px"`
	SnapToEdges   bool    `yaml:"snap_to_edges"`
	SnapToCenters bool    `yaml:"snap_to_centers"`
	SnapToPins    bool    `yaml:"snap_to_pins"`
}

type UndoConfig struct {
	MaxPerSheet int `yaml:"max_per_sheet"`
	MaxEntries  int `yaml:"max_entries"`
	CoalesceMs  int `yaml:"coalesce_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Interaction: InteractionConfig{
			DragDeadZonePx:       3,
			HitTolerancePx:       4,
			RangePolicy:          "full",
			KnobSizePx:           8,
			MultiSelectModifier:  "ctrl",
			IgnoreGlueModifier:   "alt",
			CopyModifier:         "ctrl",
			AutoscrollIntervalMs: 50,
			AutoscrollStepPx:     16,
		},
		Glue: GlueConfig{
			Enabled:       true,
			Grid:          10,
			ThresholdPx:   6,
			SnapToEdges:   true,
			SnapToCenters: true,
			SnapToPins:    true,
		},
		Undo:    UndoConfig{MaxPerSheet: 200, MaxEntries: 1000, CoalesceMs: 250},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// overrides lists every DSF_* variable. Nil fields were not set.
type overrides struct {
	DeadZone       *float64 `envconfig:"DSF_DRAG_DEAD_ZONE_PX"`
	HitTolerance   *float64 `envconfig:"DSF_HIT_TOLERANCE_PX"`
	RangePolicy    *string  `envconfig:"DSF_RANGE_POLICY"`
	KnobSize       *float64 `envconfig:"DSF_KNOB_SIZE_PX"`
	MultiSelect    *string  `envconfig:"DSF_MULTI_SELECT_MODIFIER"`
	IgnoreGlue     *string  `envconfig:"DSF_IGNORE_GLUE_MODIFIER"`
	CopyModifier   *string  `envconfig:"DSF_COPY_MODIFIER"`
	AutoscrollMs   *int     `envconfig:"DSF_AUTOSCROLL_INTERVAL_MS"`
	AutoscrollStep *float64 `envconfig:"DSF_AUTOSCROLL_STEP_PX"`

	GlueEnabled   *bool    `envconfig:"DSF_GLUE_ENABLED"`
	GlueGrid      *float64 `envconfig:"DSF_GLUE_GRID"`
	GlueThreshold *float64 `envconfig:"DSF_GLUE_THRESHOLD_PX"`

	UndoMaxPerSheet *int `envconfig:"DSF_UNDO_MAX_PER_SHEET"`
	UndoCoalesceMs  *int `envconfig:"DSF_UNDO_COALESCE_MS"`

	LogLevel  *string `envconfig:"DSF_LOG_LEVEL"`
	LogFormat *string `envconfig:"DSF_LOG_FORMAT"`
	LogSource *bool   `envconfig:"DSF_LOG_SOURCE"`
	LogFile   *string `envconfig:"DSF_LOG_FILE"`
}

// envKeys maps config keys to the variable overriding them.
var envKeys = map[string]string{
	"interaction.drag_dead_zone_px":      "DSF_DRAG_DEAD_ZONE_PX",
	"interaction.hit_tolerance_px":       "DSF_HIT_TOLERANCE_PX",
	"interaction.range_policy":           "DSF_RANGE_POLICY",
	"interaction.knob_size_px":           "DSF_KNOB_SIZE_PX",
	"interaction.multi_select_modifier":  "DSF_MULTI_SELECT_MODIFIER",
	"interaction.ignore_glue_modifier":   "DSF_IGNORE_GLUE_MODIFIER",
	"interaction.copy_modifier":          "DSF_COPY_MODIFIER",
	"interaction.autoscroll_interval_ms": "DSF_AUTOSCROLL_INTERVAL_MS",
	"interaction.autoscroll_step_px":     "DSF_AUTOSCROLL_STEP_PX",
	"glue.enabled":                       "DSF_GLUE_ENABLED",
	"glue.grid":                          "DSF_GLUE_GRID",
	"glue.threshold_px":                  "DSF_GLUE_THRESHOLD_PX",
	"undo.max_per_sheet":                 "DSF_UNDO_MAX_PER_SHEET",
	"undo.coalesce_ms":                   "DSF_UNDO_COALESCE_MS",
	"logging.level":                      "DSF_LOG_LEVEL",
	"logging.format":                     "DSF_LOG_FORMAT",
	"logging.source":                     "DSF_LOG_SOURCE",
	"logging.file":                       "DSF_LOG_FILE",
}

// ConfigPath returns the per-user config file path. DSF_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv("DSF_CONFIG")); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "DrawSurface")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "DrawSurface")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "drawsurface")
		} else if h := os.Getenv("HOME"); h != "" {
			base = filepath.Join(h, ".config", "drawsurface")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config (if present) over the defaults and applies
// environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path. A missing file is not an error.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Decoding into the defaults keeps every key the file omits.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Defaults(), fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	normalize(&cfg)
	return cfg, cfg.Validate()
}

// Save writes cfg to the user config path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func applyEnvOverrides(cfg *AppConfig) error {
	var ov overrides
	if err := envconfig.Process("", &ov); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setS := func(dst *string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			*dst = *v
		}
	}
	setI := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setB := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	in := &cfg.Interaction
	set(&in.DragDeadZonePx, ov.DeadZone)
	set(&in.HitTolerancePx, ov.HitTolerance)
	setS(&in.RangePolicy, ov.RangePolicy)
	set(&in.KnobSizePx, ov.KnobSize)
	setS(&in.MultiSelectModifier, ov.MultiSelect)
	setS(&in.IgnoreGlueModifier, ov.IgnoreGlue)
	setS(&in.CopyModifier, ov.CopyModifier)
	setI(&in.AutoscrollIntervalMs, ov.AutoscrollMs)
	set(&in.AutoscrollStepPx, ov.AutoscrollStep)

	setB(&cfg.Glue.Enabled, ov.GlueEnabled)
	set(&cfg.Glue.Grid, ov.GlueGrid)
	set(&cfg.Glue.ThresholdPx, ov.GlueThreshold)

	setI(&cfg.Undo.MaxPerSheet, ov.UndoMaxPerSheet)
	setI(&cfg.Undo.CoalesceMs, ov.UndoCoalesceMs)

	setS(&cfg.Logging.Level, ov.LogLevel)
	setS(&cfg.Logging.Format, ov.LogFormat)
	setB(&cfg.Logging.Source, ov.LogSource)
	setS(&cfg.Logging.File, ov.LogFile)
	return nil
}

func normalize(cfg *AppConfig) {
	lower := func(s *string) { *s = strings.ToLower(strings.TrimSpace(*s)) }
	lower(&cfg.Interaction.RangePolicy)
	lower(&cfg.Interaction.MultiSelectModifier)
	lower(&cfg.Interaction.IgnoreGlueModifier)
	lower(&cfg.Interaction.CopyModifier)
	lower(&cfg.Logging.Level)
	lower(&cfg.Logging.Format)
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
}

// Validate reports the first out-of-range field.
func (c AppConfig) Validate() error {
	in := c.Interaction
	switch {
	case in.DragDeadZonePx < 0:
		return fmt.Errorf("%w: drag_dead_zone_px must be >= 0", ErrInvalid)
	case in.HitTolerancePx < 0:
		return fmt.Errorf("%w: hit_tolerance_px must be >= 0", ErrInvalid)
	case in.RangePolicy != "full" && in.RangePolicy != "partial":
		return fmt.Errorf("%w: range_policy %q", ErrInvalid, in.RangePolicy)
	case in.KnobSizePx <= 0:
		return fmt.Errorf("%w: knob_size_px must be > 0", ErrInvalid)
	case in.AutoscrollIntervalMs <= 0:
		return fmt.Errorf("%w: autoscroll_interval_ms must be > 0", ErrInvalid)
	case c.Glue.Grid < 0 || c.Glue.ThresholdPx < 0:
		return fmt.Errorf("%w: glue grid and threshold must be >= 0", ErrInvalid)
	case c.Undo.MaxPerSheet < 0 || c.Undo.MaxEntries < 0:
		return fmt.Errorf("%w: undo limits must be >= 0", ErrInvalid)
	}
	return nil
}

// EnvOverrideFor returns the variable overriding key ("glue.grid") when it
// is set in the environment.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}
