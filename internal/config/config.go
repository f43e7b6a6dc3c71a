// Package config handles configuration parsing for screentime.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/acolita/screentime/internal/adapters/realfs"
	"github.com/acolita/screentime/internal/ports"
	"github.com/acolita/screentime/internal/timer"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by the entry point.
const (
	EnvConfigPath = "SCREENTIME_CONFIG"
	EnvLogLevel   = "SCREENTIME_LOG_LEVEL"
)

// Preset bounds, in minutes. The upper bound is the largest whole-minute
// duration the clock face can show.
const (
	maxPresets       = 9
	maxPresetMinutes = 23*60 + 59
)

// DefaultConfigPath returns the default config file path:
// $XDG_CONFIG_HOME/screentime/config.yaml or ~/.config/screentime/config.yaml
func DefaultConfigPath(fsys ports.FileSystem) string {
	if fsys == nil {
		fsys = realfs.New()
	}
	dir := fsys.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := fsys.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "screentime", "config.yaml")
}

// Config represents the top-level configuration.
type Config struct {
	Alerts       AlertsConfig  `yaml:"alerts"`
	Presets      []int         `yaml:"presets"`       // preset durations in minutes, bound to keys 1-9
	TickInterval time.Duration `yaml:"tick_interval"` // cadence of Tick/BreakTick calls
	Logging      LoggingConfig `yaml:"logging"`
}

// AlertsConfig defines break reminder settings.
type AlertsConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Interval      time.Duration `yaml:"interval"`       // remaining-time spacing between breaks
	BreakDuration time.Duration `yaml:"break_duration"` // length of each break
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
	Path  string `yaml:"path"`  // log file; empty discards logs
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	presets := make([]int, 0, len(timer.DefaultPresets))
	for _, p := range timer.DefaultPresets {
		presets = append(presets, p.Minutes)
	}
	return &Config{
		Alerts: AlertsConfig{
			Enabled:       true,
			Interval:      timer.DefaultAlertInterval,
			BreakDuration: timer.DefaultBreakDuration,
		},
		Presets:      presets,
		TickInterval: time.Second,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Load(path string, fsys ...ports.FileSystem) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	var reader ports.FileSystem = realfs.New()
	if len(fsys) > 0 && fsys[0] != nil {
		reader = fsys[0]
	}

	data, err := reader.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No file yet: run on the compiled-in defaults.
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.AlertConfig().Validate(); err != nil {
		return fmt.Errorf("alerts: %w", err)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.TickInterval)
	}
	if len(c.Presets) == 0 || len(c.Presets) > maxPresets {
		return fmt.Errorf("presets: need 1 to %d entries, got %d", maxPresets, len(c.Presets))
	}
	for i, m := range c.Presets {
		if m < 1 || m > maxPresetMinutes {
			return fmt.Errorf("presets[%d]: %d minutes is outside 1..%d", i, m, maxPresetMinutes)
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// AlertConfig converts the alerts section for the timer.
func (c *Config) AlertConfig() timer.AlertConfig {
	return timer.AlertConfig{
		Enabled:       c.Alerts.Enabled,
		Interval:      c.Alerts.Interval,
		BreakDuration: c.Alerts.BreakDuration,
	}
}

// PresetList converts the configured minutes into labelled presets.
func (c *Config) PresetList() []timer.Preset {
	out := make([]timer.Preset, 0, len(c.Presets))
	for _, m := range c.Presets {
		out = append(out, timer.PresetFromMinutes(m))
	}
	return out
}

// Equal reports whether two configs hold the same settings.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.LiveEqual(other) &&
		c.TickInterval == other.TickInterval &&
		c.Logging == other.Logging
}

// LiveEqual reports whether two configs agree on the settings a running
// program can take over: alerts and presets. Tick interval and logging are
// read once at start-up.
func (c *Config) LiveEqual(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Alerts == other.Alerts && slices.Equal(c.Presets, other.Presets)
}
