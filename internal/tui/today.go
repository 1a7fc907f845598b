package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/agenda/internal/planner"
)

// maxTodayRows keeps the panel from crowding out the view below it.
const maxTodayRows = 4

// renderTodayPanel summarizes today's events above the month and list views.
func renderTodayPanel(c *planner.Coordinator, w int) string {
	today := c.Today()
	evs := c.TodaysEvents()

	header := titleStyle.Render("Today") + "  " + highlightStyle.Render(today.Format("Mon, Jan 2"))
	if len(evs) == 0 {
		return todayPanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, header, mutedStyle.Render("Nothing scheduled")),
		)
	}

	open := 0
	for _, e := range evs {
		if !e.Done {
			open++
		}
	}
	header += mutedStyle.Render(fmt.Sprintf("  %d open / %d", open, len(evs)))

	rows := []string{header}
	for i, e := range evs {
		if i == maxTodayRows {
			rows = append(rows, overflowStyle.Render(fmt.Sprintf("  +%d more", len(evs)-maxTodayRows)))
			break
		}
		title := truncate(e.Title, w-20)
		if e.Done {
			title = doneStyle.Render(title)
		}
		rows = append(rows, fmt.Sprintf("  %s %-8s %s", colorDot(e.Color), e.Time, title))
	}
	return todayPanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
