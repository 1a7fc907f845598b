package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/agenda/internal/calendar"
	"github.com/sadopc/agenda/internal/events"
	"github.com/sadopc/agenda/internal/planner"
)

// agendaList is a selectable list of events shared by the day view and the
// list view.
type agendaList struct {
	coord    *planner.Coordinator
	events   []events.Event
	cursor   int
	showDate bool
}

func newAgendaList(c *planner.Coordinator, showDate bool) agendaList {
	return agendaList{coord: c, showDate: showDate}
}

func (l *agendaList) setEvents(evs []events.Event) {
	l.events = evs
	if l.cursor >= len(l.events) {
		l.cursor = max(0, len(l.events)-1)
	}
}

func (l agendaList) selected() (events.Event, bool) {
	if l.cursor < 0 || l.cursor >= len(l.events) {
		return events.Event{}, false
	}
	return l.events[l.cursor], true
}

// update handles list keys. newDate is where n creates an event.
func (l agendaList) update(msg tea.KeyMsg, newDate calendar.Date) (agendaList, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(msg, keys.Down):
		if l.cursor < len(l.events)-1 {
			l.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		e, ok := l.selected()
		if !ok {
			return l, nil
		}
		updated, err := l.coord.ToggleDone(e.Ref())
		if err != nil {
			return l, statusCmd(describeErr(err), true)
		}
		state := "open"
		if updated.Done {
			state = "done"
		}
		return l, tea.Batch(
			func() tea.Msg { return eventsChangedMsg{} },
			statusCmd(fmt.Sprintf("%q marked %s", updated.Title, state), false),
		)
	case key.Matches(msg, keys.Delete):
		e, ok := l.selected()
		if !ok {
			return l, nil
		}
		ref := e.Ref()
		return l, func() tea.Msg { return deleteRequestMsg{ref: ref} }
	case key.Matches(msg, keys.New):
		return l, func() tea.Msg { return newEventRequestMsg{date: newDate} }
	}
	return l, nil
}

// view renders at most height rows, scrolling to keep the cursor visible.
func (l agendaList) view(w, height int) string {
	if len(l.events) == 0 {
		return mutedStyle.Render("No events. Press n to add one.")
	}
	height = max(1, height)
	offset := max(0, l.cursor-height+1)

	end := min(len(l.events), offset+height)
	var rows []string
	for i := offset; i < end; i++ {
		rows = append(rows, l.renderRow(l.events[i], i == l.cursor, w))
	}
	if end < len(l.events) {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(l.events)-end)))
	}
	return strings.Join(rows, "\n")
}

func (l agendaList) renderRow(e events.Event, selected bool, w int) string {
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	check := "[ ]"
	if e.Done {
		check = successStyle.Render("[x]")
	}

	var prefix string
	if l.showDate {
		prefix = fmt.Sprintf("%-16s", e.Date.Format("Mon Jan 02 2006"))
	}
	meta := fmt.Sprintf("%-8s %-7s", e.Time, formatDuration(e.DurationMinutes))

	title := e.Title
	if e.Category != "" {
		title += " · " + e.Category
	}
	used := 2 + 4 + 2 + lipgloss.Width(prefix) + lipgloss.Width(meta) + 2
	title = truncate(title, w-used)
	if e.Done {
		title = doneStyle.Render(title)
	} else {
		title = style.Render(title)
	}

	marker := ""
	if e.Priority == events.PriorityHigh {
		marker = errorStyle.Render(" !")
	}
	if e.Origin == events.OriginSeed {
		marker += mutedStyle.Render(" (seed)")
	}

	return fmt.Sprintf("%s%s %s %s%s %s%s",
		style.Render(cursor), check, colorDot(e.Color), prefix, mutedStyle.Render(meta), title, marker)
}

// describeErr turns store errors into a status line.
func describeErr(err error) string {
	var verr *events.ValidationError
	if errors.As(err, &verr) {
		var fields []string
		for _, f := range verr.Fields {
			fields = append(fields, f.Field+" "+f.Problem)
		}
		return "Invalid event: " + strings.Join(fields, ", ")
	}
	var nf *events.NotFoundError
	if errors.As(err, &nf) {
		return "Event no longer exists"
	}
	return fmt.Sprintf("Error: %v", err)
}
