package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/agenda/internal/calendar"
	"github.com/sadopc/agenda/internal/events"
	"github.com/sadopc/agenda/internal/planner"
)

// dayCount is the open/done tally of one date.
type dayCount struct {
	date calendar.Date
	open int
	done int
}

// monthStats aggregates the events of one month.
type monthStats struct {
	days       []dayCount
	total      int
	done       int
	categories map[string]int
	priorities map[events.Priority]int
	minutes    int
}

func collectMonthStats(c *planner.Coordinator, anchor calendar.Date) monthStats {
	st := monthStats{
		categories: make(map[string]int),
		priorities: make(map[events.Priority]int),
	}
	start, end := calendar.StartOfMonth(anchor), calendar.EndOfMonth(anchor)
	for d := start; !d.After(end); d = d.AddDays(1) {
		dc := dayCount{date: d}
		for _, e := range c.EventsOn(d) {
			st.total++
			st.minutes += e.DurationMinutes
			st.priorities[e.Priority]++
			cat := e.Category
			if cat == "" {
				cat = "uncategorized"
			}
			st.categories[cat]++
			if e.Done {
				dc.done++
				st.done++
			} else {
				dc.open++
			}
		}
		st.days = append(st.days, dc)
	}
	return st
}

type statsModel struct {
	coord  *planner.Coordinator
	width  int
	height int

	stats monthStats
	chart barchart.Model
}

func newStatsModel(c *planner.Coordinator) statsModel {
	return statsModel{
		coord: c,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *statsModel) refresh() {
	s.stats = collectMonthStats(s.coord, s.coord.Cursor())
	s.buildChart()
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsChangedMsg:
		s.refresh()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevMonth):
			s.coord.ShiftMonth(-1)
			s.refresh()
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextMonth):
			s.coord.ShiftMonth(1)
			s.refresh()
		case key.Matches(msg, keys.Today):
			s.coord.GoToToday()
			s.refresh()
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	// One column per day plus a gap.
	if minWidth := 2 * len(s.stats.days); chartWidth < minWidth {
		chartWidth = minWidth
	}
	chartHeight := 10
	if s.height > 36 {
		chartHeight = 14
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	openStyle := lipgloss.NewStyle().Foreground(colorHighlight)
	doneBarStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for _, dc := range s.stats.days {
		values := []barchart.BarValue{
			{Name: "done", Value: float64(dc.done), Style: doneBarStyle},
			{Name: "open", Value: float64(dc.open), Style: openStyle},
		}
		if dc.open == 0 && dc.done == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: emptyStyle}}
		}
		bars = append(bars, barchart.BarData{
			Label:  fmt.Sprintf("%d", dc.date.Day()%10),
			Values: values,
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", highlightStyle.Render(s.coord.MonthTitle()),
	)

	legend := "  " + successStyle.Render("●") + " done  " + highlightStyle.Render("●") + " open"
	nav := mutedStyle.Render("  ←/→: month  t: this month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), legend, "", s.renderSummary(), "", nav,
		),
	)
}

func (s statsModel) renderSummary() string {
	st := s.stats
	if st.total == 0 {
		return mutedStyle.Render("  No events this month")
	}

	pct := st.done * 100 / st.total
	var rows []string
	rows = append(rows, fmt.Sprintf("  %-16s %d", "Events", st.total))
	rows = append(rows, fmt.Sprintf("  %-16s %d (%d%%)", "Done", st.done, pct))
	rows = append(rows, fmt.Sprintf("  %-16s %s", "Scheduled", formatDuration(st.minutes)))

	var prio []string
	for _, p := range events.Priorities {
		prio = append(prio, fmt.Sprintf("%s %d", p, st.priorities[p]))
	}
	rows = append(rows, fmt.Sprintf("  %-16s %s", "Priority", strings.Join(prio, "  ")))

	cats := make([]string, 0, len(st.categories))
	for c := range st.categories {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if st.categories[cats[i]] != st.categories[cats[j]] {
			return st.categories[cats[i]] > st.categories[cats[j]]
		}
		return cats[i] < cats[j]
	})
	var catParts []string
	for _, c := range cats {
		catParts = append(catParts, fmt.Sprintf("%s %d", c, st.categories[c]))
	}
	rows = append(rows, fmt.Sprintf("  %-16s %s", "Categories", strings.Join(catParts, "  ")))

	return strings.Join(rows, "\n")
}
