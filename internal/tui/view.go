package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/acolita/screentime/internal/timer"
)

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.machine.Snapshot()

	sections := []string{
		m.titleView(snap),
		"",
		m.clockView(snap),
		"",
		controlsView(snap.State),
		"",
		m.presetsView(),
		alertsView(snap),
		m.footerView(snap),
		"",
		m.help.View(m.keys),
	}
	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) titleView(snap timer.Snapshot) string {
	return titleStyle.Render("SCREEN TIME") + stateStyle.Render(strings.ReplaceAll(snap.State.String(), "_", " "))
}

func (m *Model) clockView(snap timer.Snapshot) string {
	values := [...]int{snap.Hours, snap.Minutes, snap.Seconds}
	sep := separatorStyle.Render(":")

	parts := make([]string, 0, 5)
	for i, v := range values {
		if i > 0 {
			parts = append(parts, sep)
		}
		style := fieldStyle
		switch {
		case snap.State == timer.OnBreak:
			style = breakFieldStyle
		case timer.Field(i) == m.selected:
			style = selectedFieldStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("%02d", v)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func controlsView(state timer.RunState) string {
	buttons := []struct {
		label  string
		active bool
	}{
		{"▶ Play", state == timer.Running},
		{"⏸ Pause", state == timer.Paused || state == timer.OnBreak},
		{"■ Stop", state == timer.Stopped},
	}
	out := make([]string, 0, len(buttons))
	for _, b := range buttons {
		if b.active {
			out = append(out, activeButtonStyle.Render(b.label))
		} else {
			out = append(out, buttonStyle.Render(b.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m *Model) presetsView() string {
	out := []string{groupTitleStyle.Render("Presets")}
	for i, p := range m.presets {
		out = append(out, presetStyle.Render(fmt.Sprintf("%d %s", i+1, p.Label)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func alertsView(snap timer.Snapshot) string {
	label := intervalLabel(snap.AlertInterval) + " Alerts: "
	if snap.AlertsEnabled {
		return alertOnStyle.Render(label + "ON")
	}
	return alertOffStyle.Render(label + "OFF")
}

func (m *Model) footerView(snap timer.Snapshot) string {
	if snap.State == timer.OnBreak {
		back := m.clock.Now().Add(time.Duration(snap.BreakRemaining) * time.Second)
		return bannerStyle.Render(fmt.Sprintf("Take a break! %s left · back at %s · %s break",
			minutesSeconds(snap.BreakRemaining), back.Format("15:04:05"), humanize.Ordinal(snap.BreaksTaken)))
	}
	return statusStyle.Render(m.status)
}

// intervalLabel renders an interval in seconds the way presets are labelled.
func intervalLabel(secs int) string {
	if secs > 0 && secs%60 == 0 {
		return timer.PresetFromMinutes(secs / 60).Label
	}
	return (time.Duration(secs) * time.Second).String()
}

func minutesSeconds(secs int) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
