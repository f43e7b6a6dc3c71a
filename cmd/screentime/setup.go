package main

import (
	"log/slog"

	"github.com/acolita/screentime/internal/config"
	"github.com/acolita/screentime/internal/ports"
)

// runSetup shows the session form prefilled from cfg and preset. A
// confirmed form overwrites the alert settings in cfg and returns the chosen
// preset; otherwise cfg and preset are returned unchanged.
func runSetup(d ports.DialogProvider, cfg *config.Config, preset int) (int, error) {
	prefill := ports.SessionFormData{
		PresetMinutes: preset,
		AlertsEnabled: cfg.Alerts.Enabled,
		Interval:      cfg.Alerts.Interval,
		BreakDuration: cfg.Alerts.BreakDuration,
	}
	if prefill.PresetMinutes == 0 && len(cfg.Presets) > 0 {
		prefill.PresetMinutes = cfg.Presets[0]
	}

	got, err := d.SessionForm(prefill)
	if err != nil {
		return preset, err
	}
	if !got.Confirmed {
		slog.Info("setup not confirmed, keeping defaults")
		return preset, nil
	}

	cfg.Alerts.Enabled = got.AlertsEnabled
	if got.Interval > 0 {
		cfg.Alerts.Interval = got.Interval
	}
	if got.BreakDuration > 0 {
		cfg.Alerts.BreakDuration = got.BreakDuration
	}

	slog.Info("setup confirmed",
		slog.Int("preset_minutes", got.PresetMinutes),
		slog.Bool("alerts", cfg.Alerts.Enabled),
		slog.Duration("interval", cfg.Alerts.Interval),
		slog.Duration("break", cfg.Alerts.BreakDuration),
	)
	return got.PresetMinutes, nil
}
