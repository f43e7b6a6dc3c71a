package timer

import (
	"strconv"
	"time"
)

// Field ranges. Fields never carry into each other.
const (
	maxHours   = 23
	maxMinutes = 59
	maxSeconds = 59

	// maxTotal is 23:59:59, the largest duration the three fields can show.
	maxTotal = maxHours*3600 + maxMinutes*60 + maxSeconds
)

// Compiled-in alert defaults.
const (
	DefaultAlertInterval = 30 * time.Minute
	DefaultBreakDuration = 2 * time.Minute
)

// Preset is a one-click duration shortcut.
type Preset struct {
	Label   string
	Minutes int
}

// DefaultPresets are the shortcuts offered when the config names none.
var DefaultPresets = []Preset{
	{Label: "15m", Minutes: 15},
	{Label: "30m", Minutes: 30},
	{Label: "1h", Minutes: 60},
	{Label: "2h", Minutes: 120},
}

// PresetFromMinutes builds a preset with a compact label ("45m", "1h", "1h30m").
func PresetFromMinutes(minutes int) Preset {
	h, m := minutes/60, minutes%60
	var label string
	switch {
	case h == 0:
		label = strconv.Itoa(m) + "m"
	case m == 0:
		label = strconv.Itoa(h) + "h"
	default:
		label = strconv.Itoa(h) + "h" + strconv.Itoa(m) + "m"
	}
	return Preset{Label: label, Minutes: minutes}
}
