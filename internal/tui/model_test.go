package tui

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/acolita/screentime/internal/logging"
	"github.com/acolita/screentime/internal/testing/fakes/fakeclock"
	"github.com/acolita/screentime/internal/timer"
)

func newTestModel(t *testing.T, opts ...timer.Option) (*Model, *fakeclock.Clock) {
	t.Helper()
	clock := fakeclock.New(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	m := New(timer.New(opts...), clock, Options{})
	return m, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func tick(m *Model, n int) {
	for i := 0; i < n; i++ {
		m.Update(tickMsg(time.Time{}))
	}
}

func TestNewDefaults(t *testing.T) {
	m, clock := newTestModel(t)

	tickers := clock.Tickers()
	if len(tickers) != 1 {
		t.Fatalf("len(Tickers()) = %d, want 1", len(tickers))
	}
	if got := tickers[0].Interval(); got != time.Second {
		t.Errorf("Interval() = %v, want 1s", got)
	}
	if diff := cmp.Diff(timer.DefaultPresets, m.presets); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
	if m.Selected() != timer.Minutes {
		t.Errorf("Selected() = %v, want minutes", m.Selected())
	}
}

func TestNewCustomInterval(t *testing.T) {
	clock := fakeclock.New(time.Time{})
	presets := []timer.Preset{timer.PresetFromMinutes(5)}
	m := New(timer.New(), clock, Options{TickInterval: 250 * time.Millisecond, Presets: presets})

	if got := clock.Tickers()[0].Interval(); got != 250*time.Millisecond {
		t.Errorf("Interval() = %v, want 250ms", got)
	}
	if diff := cmp.Diff(presets, m.presets); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
}

func TestInitWaitsForTicker(t *testing.T) {
	m, clock := newTestModel(t)

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() returned nil cmd")
	}
	clock.Tickers()[0].Tick()

	if _, ok := cmd().(tickMsg); !ok {
		t.Error("Init() cmd did not produce a tickMsg")
	}
}

func TestTickRearmsWait(t *testing.T) {
	m, clock := newTestModel(t)

	_, cmd := m.Update(tickMsg(time.Time{}))
	if cmd == nil {
		t.Fatal("Update(tickMsg) returned nil cmd")
	}
	clock.Advance(time.Second)
	if _, ok := cmd().(tickMsg); !ok {
		t.Error("re-armed cmd did not produce a tickMsg")
	}
}

func TestClose(t *testing.T) {
	m, clock := newTestModel(t)
	m.Close()
	if !clock.Tickers()[0].Stopped() {
		t.Error("Close() did not stop the ticker")
	}
}

func TestTickRouting(t *testing.T) {
	m, _ := newTestModel(t, timer.WithAlertConfig(timer.AlertConfig{
		Enabled:       true,
		Interval:      10 * time.Second,
		BreakDuration: 3 * time.Second,
	}))
	press(m, runes("l")) // seconds
	for i := 0; i < 12; i++ {
		press(m, tea.KeyMsg{Type: tea.KeyUp})
	}

	// Ticks are ignored while stopped.
	tick(m, 3)
	if got := m.Snapshot().Total; got != 12 {
		t.Fatalf("Total = %d after stopped ticks, want 12", got)
	}

	press(m, runes("p"))
	tick(m, 2)
	snap := m.Snapshot()
	if snap.State != timer.OnBreak || snap.Total != 10 || snap.BreakRemaining != 3 {
		t.Fatalf("after 2 ticks: state=%v total=%d break=%d, want on_break 10 3",
			snap.State, snap.Total, snap.BreakRemaining)
	}

	tick(m, 1)
	snap = m.Snapshot()
	if snap.Total != 10 || snap.BreakRemaining != 2 {
		t.Errorf("during break: total=%d break=%d, want 10 2", snap.Total, snap.BreakRemaining)
	}

	tick(m, 2)
	if got := m.Snapshot().State; got != timer.Running {
		t.Fatalf("State = %v after break, want running", got)
	}
	tick(m, 1)
	if got := m.Snapshot().Total; got != 9 {
		t.Errorf("Total = %d, want 9", got)
	}

	press(m, runes("p"))
	tick(m, 5)
	if got := m.Snapshot().Total; got != 9 {
		t.Errorf("Total = %d after paused ticks, want 9", got)
	}
}

func TestFieldSelection(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.Msg
		want timer.Field
	}{
		{"default", nil, timer.Minutes},
		{"right", []tea.Msg{tea.KeyMsg{Type: tea.KeyRight}}, timer.Seconds},
		{"right wraps", []tea.Msg{runes("l"), runes("l")}, timer.Hours},
		{"left", []tea.Msg{tea.KeyMsg{Type: tea.KeyLeft}}, timer.Hours},
		{"left wraps", []tea.Msg{runes("h"), runes("h")}, timer.Seconds},
		{"tab", []tea.Msg{tea.KeyMsg{Type: tea.KeyTab}}, timer.Seconds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			press(m, tt.keys...)
			if got := m.Selected(); got != tt.want {
				t.Errorf("Selected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustKeys(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, tea.KeyMsg{Type: tea.KeyUp}, runes("k"), runes("k"))
	if got := m.Snapshot().Minutes; got != 3 {
		t.Errorf("Minutes = %d, want 3", got)
	}
	press(m, runes("j"))
	if got := m.Snapshot().Minutes; got != 2 {
		t.Errorf("Minutes = %d, want 2", got)
	}

	press(m, runes("h"), tea.KeyMsg{Type: tea.KeyDown})
	if got := m.Snapshot().Hours; got != 0 {
		t.Errorf("Hours = %d, want 0 (clamped)", got)
	}
}

func TestPresetKeys(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, runes("3"))
	snap := m.Snapshot()
	if snap.Hours != 1 || snap.Minutes != 0 || snap.Seconds != 0 {
		t.Errorf("after preset 3: %s, want 01:00:00", snap.Clock())
	}
	if m.status != "Preset 1h" {
		t.Errorf("status = %q, want %q", m.status, "Preset 1h")
	}

	press(m, runes("9"))
	if got := m.Snapshot().Total; got != 3600 {
		t.Errorf("Total = %d after unbound preset key, want 3600", got)
	}
}

func TestPlayPauseStop(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, runes("p"))
	if got := m.Snapshot().State; got != timer.Stopped {
		t.Errorf("State = %v with zero duration, want stopped", got)
	}
	if m.status != "Set a duration first" {
		t.Errorf("status = %q", m.status)
	}

	press(m, runes("1"), runes("p"))
	if got := m.Snapshot().State; got != timer.Running {
		t.Errorf("State = %v, want running", got)
	}

	press(m, runes("p"))
	if got := m.Snapshot().State; got != timer.Paused {
		t.Errorf("State = %v, want paused", got)
	}

	press(m, runes("p"))
	if got := m.Snapshot().State; got != timer.Running {
		t.Errorf("State = %v after resume, want running", got)
	}

	press(m, runes("s"))
	snap := m.Snapshot()
	if snap.State != timer.Stopped || snap.Total != 0 {
		t.Errorf("after stop: state=%v total=%d, want stopped 0", snap.State, snap.Total)
	}
}

func TestToggleIgnoredDuringBreak(t *testing.T) {
	m, _ := newTestModel(t, timer.WithAlertConfig(timer.AlertConfig{
		Enabled:       true,
		Interval:      time.Second,
		BreakDuration: 5 * time.Second,
	}))
	press(m, runes("l"), runes("k"), runes("k"), runes("p"))
	tick(m, 1)
	if got := m.Snapshot().State; got != timer.OnBreak {
		t.Fatalf("State = %v, want on_break", got)
	}

	press(m, runes("p"))
	if got := m.Snapshot().State; got != timer.OnBreak {
		t.Errorf("State = %v after toggle, want on_break", got)
	}
	if m.status != "On a break" {
		t.Errorf("status = %q, want %q", m.status, "On a break")
	}
}

func TestAlertsAndHelpKeys(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, runes("a"))
	if m.Snapshot().AlertsEnabled {
		t.Error("AlertsEnabled = true after toggle, want false")
	}
	press(m, runes("a"))
	if !m.Snapshot().AlertsEnabled {
		t.Error("AlertsEnabled = false after second toggle, want true")
	}

	press(m, runes("?"))
	if !m.help.ShowAll {
		t.Error("help.ShowAll = false, want true")
	}
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.Msg{runes("q"), tea.KeyMsg{Type: tea.KeyCtrlC}} {
		m, _ := newTestModel(t)
		cmd := press(m, msg)
		if cmd == nil {
			t.Fatalf("%v: nil cmd, want tea.Quit", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: cmd did not quit", msg)
		}
	}
}

func TestConfigMsg(t *testing.T) {
	m, _ := newTestModel(t)
	alerts := timer.AlertConfig{Enabled: false, Interval: 20 * time.Minute, BreakDuration: time.Minute}
	presets := []timer.Preset{timer.PresetFromMinutes(45)}

	press(m, ConfigMsg{Alerts: alerts, Presets: presets})

	if diff := cmp.Diff(alerts, m.machine.AlertConfig()); diff != "" {
		t.Errorf("AlertConfig mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(presets, m.presets); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}

	press(m, ConfigMsg{Alerts: timer.AlertConfig{Interval: 0, BreakDuration: time.Minute}})
	if diff := cmp.Diff(alerts, m.machine.AlertConfig()); diff != "" {
		t.Errorf("invalid config applied (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(m.status, "Config rejected") {
		t.Errorf("status = %q, want rejection", m.status)
	}
}

func TestFieldAt(t *testing.T) {
	row := clockRowTop + 1
	stride := fieldBoxWidth + separatorWidth
	tests := []struct {
		name  string
		x, y  int
		want  timer.Field
		found bool
	}{
		{"hours left edge", appPadLeft, row, timer.Hours, true},
		{"hours right edge", appPadLeft + fieldBoxWidth - 1, row, timer.Hours, true},
		{"separator", appPadLeft + fieldBoxWidth, row, 0, false},
		{"minutes", appPadLeft + stride + 3, row, timer.Minutes, true},
		{"seconds top border", appPadLeft + 2*stride, clockRowTop, timer.Seconds, true},
		{"past seconds", appPadLeft + 3*stride, row, 0, false},
		{"left padding", 0, row, 0, false},
		{"above", appPadLeft, clockRowTop - 1, 0, false},
		{"below", appPadLeft, clockRowTop + clockRowHeight, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fieldAt(tt.x, tt.y)
			if ok != tt.found || got != tt.want {
				t.Errorf("fieldAt(%d, %d) = (%v, %v), want (%v, %v)", tt.x, tt.y, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestMouseWheel(t *testing.T) {
	m, _ := newTestModel(t)
	secondsX := appPadLeft + 2*(fieldBoxWidth+separatorWidth) + 1

	press(m, tea.MouseMsg{X: secondsX, Y: clockRowTop + 1, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := m.Snapshot().Seconds; got != 1 {
		t.Errorf("Seconds = %d after wheel over seconds, want 1", got)
	}

	// Away from the fields the wheel adjusts the selected field.
	press(m, tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if got := m.Snapshot().Minutes; got != 1 {
		t.Errorf("Minutes = %d after wheel elsewhere, want 1", got)
	}

	press(m, tea.MouseMsg{X: appPadLeft, Y: clockRowTop + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.Selected(); got != timer.Hours {
		t.Errorf("Selected() = %v after click, want hours", got)
	}

	press(m, tea.MouseMsg{X: secondsX, Y: clockRowTop + 1, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if got := m.Snapshot().Seconds; got != 0 {
		t.Errorf("Seconds = %d after wheel down, want 0", got)
	}
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, runes("2"))

	view := m.View()
	for _, want := range []string{"SCREEN TIME", "stopped", "30", "Play", "Pause", "Stop", "1 15m", "4 2h", "30m Alerts: ON", "Preset 30m"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	press(m, runes("a"))
	if view := m.View(); !strings.Contains(view, "30m Alerts: OFF") {
		t.Errorf("View() missing alerts off label:\n%s", view)
	}
}

func TestViewBreakBanner(t *testing.T) {
	m, clock := newTestModel(t, timer.WithAlertConfig(timer.AlertConfig{
		Enabled:       true,
		Interval:      time.Second,
		BreakDuration: 90 * time.Second,
	}))
	press(m, runes("l"), runes("k"), runes("k"), runes("p"))
	tick(m, 1)

	view := m.View()
	for _, want := range []string{"on break", "01:30 left", "back at 09:01:30", "1st break", "1s Alerts: ON"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	for i := 0; i < 30; i++ {
		clock.Advance(time.Second)
		tick(m, 1)
	}
	if view := m.View(); !strings.Contains(view, "back at 09:01:30") {
		t.Errorf("View() return time drifted after a break tick:\n%s", view)
	}
}

func TestIntervalLabel(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{1800, "30m"},
		{3600, "1h"},
		{5400, "1h30m"},
		{45, "45s"},
		{90, "1m30s"},
	}
	for _, tt := range tests {
		if got := intervalLabel(tt.secs); got != tt.want {
			t.Errorf("intervalLabel(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestLogTransition(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.NewLogger(&buf, "info"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	LogTransition(timer.Transition{From: timer.Running, To: timer.OnBreak, Cause: timer.EventTick})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	want := map[string]any{"from": "running", "to": "on_break", "cause": "tick"}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("entry[%q] = %v, want %v", k, entry[k], v)
		}
	}
}
