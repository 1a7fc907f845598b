package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/agenda/internal/events"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorSecondary = lipgloss.Color("#2EC4B6")
	colorAccent    = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// eventColors maps the event palette onto terminal colors.
var eventColors = map[events.Color]lipgloss.Color{
	events.ColorBlue:   lipgloss.Color("#3498DB"),
	events.ColorGreen:  lipgloss.Color("#2ECC71"),
	events.ColorRed:    lipgloss.Color("#E74C3C"),
	events.ColorPurple: lipgloss.Color("#9B59B6"),
	events.ColorYellow: lipgloss.Color("#F1C40F"),
	events.ColorPink:   lipgloss.Color("#FF79C6"),
	events.ColorIndigo: lipgloss.Color("#6C63FF"),
	events.ColorTeal:   lipgloss.Color("#2EC4B6"),
}

func eventColor(c events.Color) lipgloss.Color {
	if lc, ok := eventColors[c]; ok {
		return lc
	}
	return colorFg
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	todayPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 2)

	// Month grid
	weekdayHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorMuted)

	cellStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	otherMonthCellStyle = lipgloss.NewStyle().
				Foreground(colorSubtle)

	weekendDayStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	todayDayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	selectedDayStyle = lipgloss.NewStyle().
				Bold(true).
				Reverse(true)

	overflowStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	doneStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)
