// Package realdialog provides a TUI-based DialogProvider using charmbracelet/huh.
//
// The form runs in the current terminal before the clock face takes it over,
// so no separate window or helper process is needed.
package realdialog

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/acolita/screentime/internal/ports"
	"github.com/acolita/screentime/internal/timer"
	"github.com/charmbracelet/huh"
)

// maxFormDuration bounds the interval and break inputs.
const maxFormDuration = 24 * time.Hour

// Provider implements ports.DialogProvider with a huh form.
type Provider struct {
	presets []timer.Preset
	input   io.Reader
	output  io.Writer
}

// Option configures a Provider.
type Option func(*Provider)

// WithIO redirects the form's terminal input and output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(p *Provider) {
		p.input = in
		p.output = out
	}
}

// New returns a dialog provider offering the given presets.
func New(presets []timer.Preset, opts ...Option) *Provider {
	p := &Provider{presets: presets}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SessionForm shows the session form and returns what the user chose.
func (p *Provider) SessionForm(prefill ports.SessionFormData) (ports.SessionFormData, error) {
	result := prefill
	interval := formatDuration(prefill.Interval)
	breakLen := formatDuration(prefill.BreakDuration)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Duration").
				Description("Countdown length; fine-tune with the mouse wheel later").
				Options(presetOptions(p.presets, prefill.PresetMinutes)...).
				Value(&result.PresetMinutes),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Break reminders").
				Description("Pause the countdown for a short break at regular intervals").
				Affirmative("On").
				Negative("Off").
				Value(&result.AlertsEnabled),

			huh.NewInput().
				Title("Break every (remaining time, e.g. 30m or 1m30s)").
				Validate(validateDuration).
				Value(&interval),

			huh.NewInput().
				Title("Break length (e.g. 2m or 45s)").
				Validate(validateDuration).
				Value(&breakLen),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Open the timer with these settings?").
				Value(&result.Confirmed),
		),
	)
	if p.input != nil {
		form = form.WithInput(p.input)
	}
	if p.output != nil {
		form = form.WithOutput(p.output)
	}

	if err := form.Run(); err != nil {
		return prefill, fmt.Errorf("session form: %w", err)
	}

	result.Interval = parseDuration(interval, prefill.Interval)
	result.BreakDuration = parseDuration(breakLen, prefill.BreakDuration)
	return result, nil
}

// presetOptions lists the presets, adding the prefilled duration when it is
// not one of them so the select starts on it.
func presetOptions(presets []timer.Preset, current int) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, len(presets)+1)
	found := false
	for _, p := range presets {
		opts = append(opts, huh.NewOption(p.Label, p.Minutes))
		if p.Minutes == current {
			found = true
		}
	}
	if !found && current > 0 {
		custom := timer.PresetFromMinutes(current)
		opts = append([]huh.Option[int]{huh.NewOption(custom.Label+" (current)", current)}, opts...)
	}
	return opts
}

// formatDuration renders d the way time.ParseDuration reads it back,
// without the zero units String leaves in ("30m" rather than "30m0s").
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a duration such as 30m or 1m30s")
	}
	if d%time.Second != 0 {
		return errors.New("use whole seconds")
	}
	if d < time.Second || d > maxFormDuration {
		return fmt.Errorf("must be between 1s and %s", formatDuration(maxFormDuration))
	}
	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if validateDuration(s) != nil {
		return fallback
	}
	d, _ := time.ParseDuration(strings.TrimSpace(s))
	return d
}

// Ensure Provider implements ports.DialogProvider.
var _ ports.DialogProvider = (*Provider)(nil)
