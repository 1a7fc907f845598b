package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/agenda/internal/planner"
)

type listModel struct {
	coord  *planner.Coordinator
	width  int
	height int

	list agendaList
}

func newListModel(c *planner.Coordinator) listModel {
	return listModel{
		coord: c,
		list:  newAgendaList(c, true),
	}
}

func (l *listModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l *listModel) refresh() {
	l.list.setEvents(l.coord.ListEvents())
}

func (l listModel) update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsChangedMsg:
		l.refresh()
		return l, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		l.list, cmd = l.list.update(msg, l.coord.Cursor())
		return l, cmd
	}
	return l, nil
}

func (l listModel) view() string {
	w := l.width - 4

	done := 0
	for _, e := range l.list.events {
		if e.Done {
			done++
		}
	}
	title := titleStyle.Render("All Events")
	count := mutedStyle.Render(fmt.Sprintf("  %d events, %d done", len(l.list.events), done))

	listHeight := max(3, l.height-10)
	body := l.list.view(w-6, listHeight)
	nav := mutedStyle.Render("  ↑/↓: move  space: done  d: delete  n: new  v: month view")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title+count, "", body, "", nav),
	)
}
