package tui

import "github.com/charmbracelet/lipgloss"

// Colors follow the original clock face: dark fields, green for the
// selected field and active control, red while on a break.
var (
	colorIdle   = lipgloss.Color("#3A3A3A")
	colorActive = lipgloss.Color("#4CAF50")
	colorBreak  = lipgloss.Color("#FF5555")
	colorText   = lipgloss.Color("#FFFFFF")
	colorMuted  = lipgloss.Color("#AAAAAA")
)

// Field boxes are fixed width so mouse positions map to fields without
// measuring the rendered view.
const (
	fieldInnerWidth = 6
	fieldBoxWidth   = fieldInnerWidth + 2 // rounded border
	separatorWidth  = 3
	appPadLeft      = 2
	appPadTop       = 1
	clockRowTop     = appPadTop + 2 // title, blank line
	clockRowHeight  = 3
)

var (
	appStyle = lipgloss.NewStyle().
			Padding(appPadTop, appPadLeft)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	stateStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(2)

	fieldStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorIdle).
			Width(fieldInnerWidth).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorIdle)

	selectedFieldStyle = fieldStyle.
				Background(colorActive).
				BorderForeground(colorActive)

	breakFieldStyle = fieldStyle.
			Background(colorBreak).
			BorderForeground(colorBreak)

	separatorStyle = lipgloss.NewStyle().
			Bold(true).
			Width(separatorWidth).
			Align(lipgloss.Center)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorIdle).
			Padding(0, 2).
			MarginRight(1)

	activeButtonStyle = buttonStyle.
				Background(colorActive)

	presetStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorIdle).
			Padding(0, 1).
			MarginRight(1)

	groupTitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginRight(1)

	alertOnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorActive).
			Padding(0, 1)

	alertOffStyle = alertOnStyle.
			Background(colorIdle)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBreak)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)
