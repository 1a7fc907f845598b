package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/agenda/internal/calendar"
	"github.com/sadopc/agenda/internal/events"
)

// viewState represents the currently active view.
type viewState int

const (
	viewMonth viewState = iota
	viewList
	viewStats
	viewSettings
)

var viewNames = []string{"Month", "List", "Stats", "Settings"}

// --- Messages ---

// SeedRefreshMsg carries a re-fetched seed set into the update loop, which
// is the only place the event store is touched.
type SeedRefreshMsg struct {
	Events []events.Event
	Err    error
}

// eventsChangedMsg tells every view to re-read the store.
type eventsChangedMsg struct{}

type newEventRequestMsg struct {
	date calendar.Date
}

type deleteRequestMsg struct {
	ref events.Ref
}

type settingsSavedMsg struct {
	maxVisible  int
	defaultView string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatDuration renders minutes as "45m", "2h" or "1h30m"; a full day is
// "all day".
func formatDuration(mins int) string {
	switch {
	case mins >= 24*60 && mins%(24*60) == 0:
		if mins == 24*60 {
			return "all day"
		}
		return fmt.Sprintf("%dd", mins/(24*60))
	case mins < 60:
		return fmt.Sprintf("%dm", mins)
	case mins%60 == 0:
		return fmt.Sprintf("%dh", mins/60)
	default:
		return fmt.Sprintf("%dh%02dm", mins/60, mins%60)
	}
}

// truncate shortens s to w cells, marking the cut with an ellipsis.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func colorDot(c events.Color) string {
	return lipgloss.NewStyle().Foreground(eventColor(c)).Render("●")
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}
