package ports

import "time"

// SessionFormData holds the result of the start-up session form.
type SessionFormData struct {
	PresetMinutes int
	AlertsEnabled bool
	Interval      time.Duration
	BreakDuration time.Duration
	Confirmed     bool
}

// DialogProvider abstracts interactive user dialogs.
// Implementations may use TUI forms or test fakes.
type DialogProvider interface {
	// SessionForm shows a form to pick a preset and the break settings.
	// Pre-filled values come from the input data; the user can modify them.
	// Returns the final form data with Confirmed=true if the user accepted.
	SessionForm(prefill SessionFormData) (SessionFormData, error)
}
