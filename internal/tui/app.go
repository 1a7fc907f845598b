package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/agenda/internal/events"
	"github.com/sadopc/agenda/internal/export"
	"github.com/sadopc/agenda/internal/planner"
	"github.com/sadopc/agenda/internal/store"
)

type exportFormat struct {
	name  string
	ext   string
	write func([]events.Event, string) error
}

var exportFormats = []exportFormat{
	{"CSV", "csv", export.ToCSV},
	{"JSON", "json", export.ToJSON},
	{"ICS", "ics", export.ToICS},
}

// App is the root Bubble Tea model.
type App struct {
	coord  *planner.Coordinator
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	dialog        *dialogModel

	month    monthModel
	list     listModel
	stats    statsModel
	settings settingsModel

	help   help.Model
	status string
	// exportDir defaults to the home directory.
	exportDir string
}

// NewApp builds the UI around c. s holds the UI settings; it may be nil.
func NewApp(c *planner.Coordinator, s *store.Store) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		coord:      c,
		store:      s,
		activeView: viewMonth,
		month:      newMonthModel(c),
		list:       newListModel(c),
		stats:      newStatsModel(c),
		settings:   newSettingsModel(s, c),
		help:       h,
	}
	if c.Mode() == planner.ModeList {
		a.activeView = viewList
	}
	a.refreshAll()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.settings.refresh(),
		tickCmd(),
	)
}

// tickCmd re-renders once a minute so the today markers follow the clock.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) refreshAll() {
	a.month.refresh()
	a.list.refresh()
	a.stats.refresh()
}

func (a *App) setView(v viewState) {
	a.activeView = v
	switch v {
	case viewMonth:
		a.coord.SetMode(planner.ModeMonth)
	case viewList:
		a.coord.SetMode(planner.ModeList)
	}
	a.refreshAll()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.month.setSize(a.width, contentHeight)
		a.list.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.stats.refresh()
		return a, nil

	case tea.KeyMsg:
		if a.dialog != nil {
			done, cmd := a.dialog.update(msg)
			if done {
				a.dialog = nil
			}
			return a, cmd
		}

		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Mode):
			if a.coord.ToggleMode() == planner.ModeList {
				a.setView(viewList)
			} else {
				a.setView(viewMonth)
			}
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.setView(viewMonth)
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.setView(viewList)
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.setView(viewStats)
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.setView(viewSettings)
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.setView((a.activeView + 1) % viewState(len(viewNames)))
			if a.activeView == viewSettings {
				return a, a.settings.refresh()
			}
			return a, nil
		}

	case tickMsg:
		a.refreshAll()
		return a, tickCmd()

	case SeedRefreshMsg:
		if msg.Err != nil {
			a.status = "Seed refresh failed, showing last known events"
			return a, nil
		}
		res := a.coord.ReloadSeed(msg.Events)
		a.refreshAll()
		a.status = fmt.Sprintf("Seed refreshed: %d events", res.Seeded)
		return a, nil

	case eventsChangedMsg:
		a.refreshAll()
		return a, nil

	case newEventRequestMsg:
		a.dialog = newEventDialog(a.coord, msg.date)
		return a, a.dialog.init()

	case deleteRequestMsg:
		d, err := newDeleteDialog(a.coord, msg.ref)
		if err != nil {
			a.status = describeErr(err)
			return a, nil
		}
		a.dialog = d
		return a, a.dialog.init()

	case settingsSavedMsg:
		a.coord.SetMaxVisible(msg.maxVisible)
		a.refreshAll()
		a.status = "Settings saved"
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	// Non-key messages (form internals, blink ticks) go to the open dialog.
	if a.dialog != nil {
		done, cmd := a.dialog.update(msg)
		if done {
			a.dialog = nil
		}
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewMonth:
		a.month, cmd = a.month.update(msg)
	case viewList:
		a.list, cmd = a.list.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	if a.dialog != nil {
		return true
	}
	if a.activeView == viewSettings {
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewMonth:
		content = lipgloss.JoinVertical(lipgloss.Left,
			renderTodayPanel(a.coord, a.width-4), a.month.view())
	case viewList:
		content = lipgloss.JoinVertical(lipgloss.Left,
			renderTodayPanel(a.coord, a.width-4), a.list.view())
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Overlays
	switch {
	case a.dialog != nil:
		content = a.dialog.view(a.width - 4)
	case a.exportPicking:
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("agenda")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	mode := subtitleStyle.Render(" " + string(a.coord.Mode()))

	left := footerStyle.Render(helpView)
	right := mode + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.name))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport snapshots the events on the update loop; only the file write runs
// in the command goroutine.
func (a App) doExport(format int) tea.Cmd {
	f := exportFormats[format]
	evs := a.coord.ListEvents()

	dir := a.exportDir
	if dir == "" {
		dir, _ = os.UserHomeDir()
	}
	dateStr := a.coord.Today().Key()
	path := filepath.Join(dir, fmt.Sprintf("agenda-export-%s.%s", dateStr, f.ext))

	return func() tea.Msg {
		if err := f.write(evs, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", f.name, err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
