package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/agenda/internal/calendar"
	"github.com/sadopc/agenda/internal/planner"
)

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type monthModel struct {
	coord  *planner.Coordinator
	width  int
	height int

	cells []planner.Cell

	// Day view state
	dayOpen bool
	day     agendaList
}

func newMonthModel(c *planner.Coordinator) monthModel {
	return monthModel{
		coord: c,
		day:   newAgendaList(c, false),
	}
}

func (m *monthModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// refresh re-reads the grid and, when open, the selected day.
func (m *monthModel) refresh() {
	m.cells = m.coord.VisibleCells()
	if m.dayOpen {
		m.day.setEvents(m.coord.EventsOn(m.coord.Cursor()))
	}
}

func (m monthModel) update(msg tea.Msg) (monthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsChangedMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.dayOpen {
			return m.updateDay(msg)
		}

		switch {
		case key.Matches(msg, keys.Left):
			m.moveCursor(-1)
		case key.Matches(msg, keys.Right):
			m.moveCursor(1)
		case key.Matches(msg, keys.Up):
			m.moveCursor(-7)
		case key.Matches(msg, keys.Down):
			m.moveCursor(7)
		case key.Matches(msg, keys.PrevMonth):
			m.coord.ShiftMonth(-1)
			m.refresh()
		case key.Matches(msg, keys.NextMonth):
			m.coord.ShiftMonth(1)
			m.refresh()
		case key.Matches(msg, keys.Today):
			m.coord.GoToToday()
			m.refresh()
		case key.Matches(msg, keys.Enter):
			m.dayOpen = true
			m.day.cursor = 0
			m.refresh()
		case key.Matches(msg, keys.New):
			d := m.coord.Cursor()
			return m, func() tea.Msg { return newEventRequestMsg{date: d} }
		}
	}
	return m, nil
}

func (m monthModel) updateDay(msg tea.KeyMsg) (monthModel, tea.Cmd) {
	if key.Matches(msg, keys.Back) {
		m.dayOpen = false
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.day, cmd = m.day.update(msg, m.coord.Cursor())
	return m, cmd
}

// moveCursor moves the selection by n days. Leaving the month rebuilds the
// grid around the new month.
func (m *monthModel) moveCursor(n int) {
	m.coord.SetCursor(m.coord.Cursor().AddDays(n))
	m.refresh()
}

func (m monthModel) view() string {
	if m.width < 30 {
		return "Terminal too small"
	}
	w := m.width - 4

	if m.dayOpen {
		return m.renderDay(w)
	}

	title := titleStyle.Render(m.coord.MonthTitle())
	nav := mutedStyle.Render("  ←↑↓→: move  [/]: month  t: today  enter: open day  n: new")
	grid := m.renderGrid(w - 6)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", grid, "", nav),
	)
}

func (m monthModel) renderGrid(w int) string {
	cw := max(6, w/7)
	maxVisible := m.coord.MaxVisible()
	cellHeight := maxVisible + 2

	var header []string
	for _, name := range weekdayNames {
		header = append(header, weekdayHeaderStyle.Width(cw).Render(name))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	blank := lipgloss.NewStyle().Width(cw).Height(cellHeight).Render("")
	cursor := m.coord.Cursor()
	var week []string
	// Only the first and last supported months start or end mid-week.
	if len(m.cells) > 0 {
		for range calendar.WeekColumn(m.cells[0].Date) {
			week = append(week, blank)
		}
	}
	for _, cell := range m.cells {
		selected := calendar.IsSameCalendarDay(cell.Date, cursor)
		week = append(week, renderCell(cell, selected, cw, cellHeight))
		if len(week) == 7 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, blank)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
	}
	return strings.Join(rows, "\n")
}

func renderCell(cell planner.Cell, selected bool, w, h int) string {
	base := cellStyle
	if !cell.IsCurrentMonth {
		base = otherMonthCellStyle
	}

	dayStyle := base
	switch {
	case selected:
		dayStyle = selectedDayStyle
	case cell.IsToday:
		dayStyle = todayDayStyle
	case cell.IsWeekend && cell.IsCurrentMonth:
		dayStyle = weekendDayStyle
	}
	dayLabel := fmt.Sprintf("%2d", cell.Date.Day())
	if cell.IsToday {
		dayLabel += "*"
	}
	lines := []string{dayStyle.Render(dayLabel)}

	for _, e := range cell.Events {
		title := truncate(e.Title, w-3)
		if e.Done {
			title = doneStyle.Render(title)
		} else {
			title = base.Render(title)
		}
		lines = append(lines, colorDot(e.Color)+" "+title)
	}
	if cell.Overflow > 0 {
		lines = append(lines, overflowStyle.Render(fmt.Sprintf("+%d more", cell.Overflow)))
	}

	return lipgloss.NewStyle().Width(w).Height(h).MaxHeight(h).Render(strings.Join(lines, "\n"))
}

func (m monthModel) renderDay(w int) string {
	d := m.coord.Cursor()
	title := titleStyle.Render(d.Format("Monday, January 2, 2006"))
	count := mutedStyle.Render(fmt.Sprintf("  %d events", len(m.day.events)))

	listHeight := max(3, m.height-10)
	list := m.day.view(w-6, listHeight)
	nav := mutedStyle.Render("  space: done  d: delete  n: new  esc: back")

	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title+count, "", list, "", nav),
	)
}
