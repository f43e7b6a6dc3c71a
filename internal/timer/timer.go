// Package timer implements the countdown and break state machine behind the
// screen-time clock.
//
// A Machine owns the remaining duration, the run state and the break
// countdown. It never reads a clock or starts goroutines: the host calls
// Tick while Running and BreakTick while OnBreak at whatever cadence it
// chooses, and renders Snapshot after every call. A Machine is not safe for
// concurrent use; the host must serialize all calls.
package timer

import (
	"errors"
	"fmt"
	"time"
)

// RunState is the machine's current mode. Exactly one is active.
type RunState int

const (
	Stopped RunState = iota
	Running
	Paused
	OnBreak
)

func (s RunState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case OnBreak:
		return "on_break"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// Field is one of the three independently adjustable display fields.
type Field int

const (
	Hours Field = iota
	Minutes
	Seconds
)

func (f Field) String() string {
	switch f {
	case Hours:
		return "hours"
	case Minutes:
		return "minutes"
	case Seconds:
		return "seconds"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Direction is the unit step applied by AdjustField.
type Direction int

const (
	Down Direction = -1
	Up   Direction = 1
)

// Event names the operation that caused a transition.
type Event string

const (
	EventStart     Event = "start"
	EventPause     Event = "pause"
	EventStop      Event = "stop"
	EventTick      Event = "tick"
	EventBreakTick Event = "break_tick"
)

// Transition describes a RunState change.
type Transition struct {
	From  RunState
	To    RunState
	Cause Event
}

var (
	// ErrInvalidPreset is returned by ApplyPreset for negative minutes.
	ErrInvalidPreset = errors.New("invalid preset")
	// ErrInvalidAlertConfig is returned by SetAlertConfig and AlertConfig.Validate.
	ErrInvalidAlertConfig = errors.New("invalid alert config")
)

// AlertConfig controls periodic breaks.
type AlertConfig struct {
	Enabled       bool
	Interval      time.Duration
	BreakDuration time.Duration
}

// DefaultAlertConfig returns the compiled-in alert settings.
func DefaultAlertConfig() AlertConfig {
	return AlertConfig{
		Enabled:       true,
		Interval:      DefaultAlertInterval,
		BreakDuration: DefaultBreakDuration,
	}
}

// Validate checks that both durations are positive whole seconds.
func (c AlertConfig) Validate() error {
	if c.Interval < time.Second || c.Interval%time.Second != 0 {
		return fmt.Errorf("%w: interval %v must be a positive whole number of seconds", ErrInvalidAlertConfig, c.Interval)
	}
	if c.BreakDuration < time.Second || c.BreakDuration%time.Second != 0 {
		return fmt.Errorf("%w: break duration %v must be a positive whole number of seconds", ErrInvalidAlertConfig, c.BreakDuration)
	}
	return nil
}

// Snapshot is the externally observable state.
type Snapshot struct {
	Hours   int
	Minutes int
	Seconds int
	Total   int

	State RunState

	// BreakRemaining is the break countdown in seconds. Outside OnBreak it
	// holds the configured break length that the next break will start from.
	BreakRemaining int

	AlertsEnabled bool
	AlertInterval int

	// BreaksTaken counts breaks started since the last Stop.
	BreaksTaken int
}

// Clock renders the fields as HH:MM:SS.
func (s Snapshot) Clock() string {
	return fmt.Sprintf("%02d:%02d:%02d", s.Hours, s.Minutes, s.Seconds)
}

// Option configures a Machine.
type Option func(*Machine)

// WithAlertConfig replaces the default alert settings. An invalid config is
// ignored and the defaults stay in place.
func WithAlertConfig(cfg AlertConfig) Option {
	return func(m *Machine) {
		if cfg.Validate() == nil {
			m.applyAlertConfig(cfg)
		}
	}
}

// WithTransitionHook registers fn to be called after every RunState change.
func WithTransitionHook(fn func(Transition)) Option {
	return func(m *Machine) {
		m.onTransition = fn
	}
}

// Machine is the countdown and break state machine.
type Machine struct {
	total int
	state RunState

	alertsEnabled  bool
	alertInterval  int
	breakDuration  int
	breakRemaining int
	breaksTaken    int

	onTransition func(Transition)
}

// New returns a Stopped machine with a zero duration and default alerts.
func New(opts ...Option) *Machine {
	m := &Machine{state: Stopped}
	m.applyAlertConfig(DefaultAlertConfig())
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current observable state.
func (m *Machine) Snapshot() Snapshot {
	h, mins, s := split(m.total)
	return Snapshot{
		Hours:          h,
		Minutes:        mins,
		Seconds:        s,
		Total:          m.total,
		State:          m.state,
		BreakRemaining: m.breakRemaining,
		AlertsEnabled:  m.alertsEnabled,
		AlertInterval:  m.alertInterval,
		BreaksTaken:    m.breaksTaken,
	}
}

// State returns the current RunState.
func (m *Machine) State() RunState {
	return m.state
}

// AlertConfig returns the active alert settings.
func (m *Machine) AlertConfig() AlertConfig {
	return AlertConfig{
		Enabled:       m.alertsEnabled,
		Interval:      time.Duration(m.alertInterval) * time.Second,
		BreakDuration: time.Duration(m.breakDuration) * time.Second,
	}
}

// AdjustField moves one field by one unit, clamped to its range. Other
// fields are untouched. It is allowed in every state; while Running the new
// total is used by the next Tick. It reports whether the total changed.
func (m *Machine) AdjustField(f Field, dir Direction) bool {
	if dir != Up && dir != Down {
		return false
	}
	h, mins, s := split(m.total)
	switch f {
	case Hours:
		h = clamp(h+int(dir), maxHours)
	case Minutes:
		mins = clamp(mins+int(dir), maxMinutes)
	case Seconds:
		s = clamp(s+int(dir), maxSeconds)
	default:
		return false
	}
	total := join(h, mins, s)
	if total == m.total {
		return false
	}
	m.total = total
	return true
}

// ApplyPreset sets the duration to the given number of minutes with zero
// hours and seconds. Minutes past 59 carry into hours, and the result is
// capped at 23:59:59.
func (m *Machine) ApplyPreset(minutes int) error {
	if minutes < 0 {
		return fmt.Errorf("%w: %d minutes", ErrInvalidPreset, minutes)
	}
	total := maxTotal
	if minutes <= maxTotal/60 {
		total = minutes * 60
	}
	m.total = total
	return nil
}

// ToggleAlerts flips whether breaks are triggered. A break already in
// progress is not affected.
func (m *Machine) ToggleAlerts() bool {
	m.alertsEnabled = !m.alertsEnabled
	return m.alertsEnabled
}

// SetAlertConfig replaces the alert settings. A break in progress keeps its
// remaining time; the new break length applies from the next break on.
func (m *Machine) SetAlertConfig(cfg AlertConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.applyAlertConfig(cfg)
	return nil
}

func (m *Machine) applyAlertConfig(cfg AlertConfig) {
	m.alertsEnabled = cfg.Enabled
	m.alertInterval = int(cfg.Interval / time.Second)
	m.breakDuration = int(cfg.BreakDuration / time.Second)
	if m.state != OnBreak {
		m.breakRemaining = m.breakDuration
	}
}

// Start begins or resumes the countdown. It is a no-op unless the machine
// is Stopped or Paused with a positive total.
func (m *Machine) Start() bool {
	if m.state != Stopped && m.state != Paused {
		return false
	}
	if m.total <= 0 {
		return false
	}
	m.transition(Running, EventStart)
	return true
}

// Pause suspends a running countdown.
func (m *Machine) Pause() bool {
	if m.state != Running {
		return false
	}
	m.transition(Paused, EventPause)
	return true
}

// Stop clears the duration and returns to Stopped. It is a no-op when
// already Stopped.
func (m *Machine) Stop() bool {
	if m.state == Stopped {
		return false
	}
	m.reset()
	m.transition(Stopped, EventStop)
	return true
}

// Tick advances the main countdown by one second. It only acts while
// Running. The tick that reaches zero stops the machine; any other tick that
// lands on a multiple of the alert interval starts a break.
func (m *Machine) Tick() bool {
	if m.state != Running {
		return false
	}
	if m.total <= 1 {
		m.reset()
		m.transition(Stopped, EventTick)
		return true
	}
	m.total--
	if m.alertsEnabled && m.total%m.alertInterval == 0 {
		m.breakRemaining = m.breakDuration
		m.breaksTaken++
		m.transition(OnBreak, EventTick)
	}
	return true
}

// BreakTick advances the break countdown by one second. It only acts while
// OnBreak. When the break ends the countdown resumes, or the machine stops
// if the duration was cleared during the break.
func (m *Machine) BreakTick() bool {
	if m.state != OnBreak {
		return false
	}
	if m.breakRemaining > 1 {
		m.breakRemaining--
		return true
	}
	m.breakRemaining = m.breakDuration
	if m.total <= 0 {
		m.reset()
		m.transition(Stopped, EventBreakTick)
		return true
	}
	m.transition(Running, EventBreakTick)
	return true
}

func (m *Machine) reset() {
	m.total = 0
	m.breakRemaining = m.breakDuration
	m.breaksTaken = 0
}

func (m *Machine) transition(to RunState, cause Event) {
	from := m.state
	m.state = to
	if m.onTransition != nil && from != to {
		m.onTransition(Transition{From: from, To: to, Cause: cause})
	}
}

func split(total int) (h, m, s int) {
	return total / 3600, (total % 3600) / 60, total % 60
}

func join(h, m, s int) int {
	return h*3600 + m*60 + s
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
