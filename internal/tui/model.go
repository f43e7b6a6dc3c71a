// Package tui is the terminal clock face for the countdown machine.
//
// The bubbletea event loop is the single owner of the machine: ticks from
// the clock, key presses, mouse events and config reloads all arrive as
// messages and are applied in order on the loop goroutine.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/acolita/screentime/internal/ports"
	"github.com/acolita/screentime/internal/timer"
)

// tickMsg is delivered once per ticker interval.
type tickMsg time.Time

// ConfigMsg carries reloaded settings into the event loop.
type ConfigMsg struct {
	Alerts  timer.AlertConfig
	Presets []timer.Preset
}

// Options configures a Model.
type Options struct {
	// TickInterval is the cadence of Tick and BreakTick. Defaults to 1s.
	TickInterval time.Duration
	// Presets are bound to keys 1-9 in order. Defaults to timer.DefaultPresets.
	Presets []timer.Preset
}

// Model is the bubbletea model wrapping a timer.Machine.
type Model struct {
	machine  *timer.Machine
	clock    ports.Clock
	ticker   ports.Ticker
	presets  []timer.Preset
	selected timer.Field
	status   string

	keys keyMap
	help help.Model
}

// New creates a model driving machine from clock. The ticker is started
// immediately; call Close once the program has exited.
func New(machine *timer.Machine, clock ports.Clock, opts Options) *Model {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	presets := opts.Presets
	if len(presets) == 0 {
		presets = timer.DefaultPresets
	}
	return &Model{
		machine:  machine,
		clock:    clock,
		ticker:   clock.NewTicker(interval),
		presets:  presets,
		selected: timer.Minutes,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

// Close stops the ticker.
func (m *Model) Close() {
	m.ticker.Stop()
}

// Snapshot returns the machine state shown by the view.
func (m *Model) Snapshot() timer.Snapshot {
	return m.machine.Snapshot()
}

// Selected returns the field adjusted by the arrow keys.
func (m *Model) Selected() timer.Field {
	return m.selected
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForTick(m.ticker)
}

// waitForTick blocks on the ticker channel and reports the tick time.
func waitForTick(t ports.Ticker) tea.Cmd {
	return func() tea.Msg {
		at, ok := <-t.C()
		if !ok {
			return nil
		}
		return tickMsg(at)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.onTick()
		return m, waitForTick(m.ticker)

	case ConfigMsg:
		m.applyConfig(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.MouseMsg:
		m.onMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m *Model) onTick() {
	switch m.machine.State() {
	case timer.Running:
		m.machine.Tick()
	case timer.OnBreak:
		m.machine.BreakTick()
	}
}

func (m *Model) applyConfig(msg ConfigMsg) {
	if err := m.machine.SetAlertConfig(msg.Alerts); err != nil {
		slog.Warn("ignoring reloaded alert settings", slog.String("error", err.Error()))
		m.status = "Config rejected: " + err.Error()
		return
	}
	if len(msg.Presets) > 0 {
		m.presets = msg.Presets
	}
	m.status = "Config reloaded"
}

func (m *Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Prev):
		m.selected = (m.selected + 2) % 3

	case key.Matches(msg, m.keys.Next):
		m.selected = (m.selected + 1) % 3

	case key.Matches(msg, m.keys.Up):
		m.machine.AdjustField(m.selected, timer.Up)

	case key.Matches(msg, m.keys.Down):
		m.machine.AdjustField(m.selected, timer.Down)

	case key.Matches(msg, m.keys.Toggle):
		m.togglePlay()

	case key.Matches(msg, m.keys.Stop):
		if m.machine.Stop() {
			m.status = "Stopped"
		}

	case key.Matches(msg, m.keys.Alerts):
		if m.machine.ToggleAlerts() {
			m.status = "Alerts on"
		} else {
			m.status = "Alerts off"
		}
		slog.Info("alerts toggled", slog.Bool("enabled", m.machine.AlertConfig().Enabled))

	case key.Matches(msg, m.keys.Presets):
		m.applyPreset(msg.String())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) togglePlay() {
	switch m.machine.State() {
	case timer.Running:
		m.machine.Pause()
		m.status = "Paused"
	case timer.OnBreak:
		m.status = "On a break"
	default:
		if m.machine.Start() {
			m.status = "Running"
		} else {
			m.status = "Set a duration first"
		}
	}
}

func (m *Model) applyPreset(k string) {
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return
	}
	idx := int(k[0] - '1')
	if idx >= len(m.presets) {
		return
	}
	p := m.presets[idx]
	if err := m.machine.ApplyPreset(p.Minutes); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "Preset " + p.Label
	slog.Info("preset applied",
		slog.String("label", p.Label),
		slog.Int("minutes", p.Minutes),
	)
}

func (m *Model) onMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	var dir timer.Direction
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		dir = timer.Up
	case tea.MouseButtonWheelDown:
		dir = timer.Down
	case tea.MouseButtonLeft:
		if f, ok := fieldAt(msg.X, msg.Y); ok {
			m.selected = f
		}
		return
	default:
		return
	}
	f := m.selected
	if hit, ok := fieldAt(msg.X, msg.Y); ok {
		f = hit
	}
	m.machine.AdjustField(f, dir)
}

// fieldAt maps a terminal cell to the field box drawn there.
func fieldAt(x, y int) (timer.Field, bool) {
	if y < clockRowTop || y >= clockRowTop+clockRowHeight {
		return 0, false
	}
	x -= appPadLeft
	if x < 0 {
		return 0, false
	}
	stride := fieldBoxWidth + separatorWidth
	idx, off := x/stride, x%stride
	if idx > int(timer.Seconds) || off >= fieldBoxWidth {
		return 0, false
	}
	return timer.Field(idx), true
}

// LogTransition writes a machine transition to the default logger. It is
// meant to be passed to timer.WithTransitionHook.
func LogTransition(tr timer.Transition) {
	slog.Info("state changed",
		slog.String("from", tr.From.String()),
		slog.String("to", tr.To.String()),
		slog.String("cause", string(tr.Cause)),
	)
}
