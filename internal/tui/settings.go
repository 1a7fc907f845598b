package tui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/agenda/internal/planner"
	"github.com/sadopc/agenda/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// fallbacks are the values in effect before anything is saved: the
	// config file as resolved at startup.
	fallbacks map[string]string

	// Form values as pointers (survive value copies)
	maxVisible  *string
	defaultView *string
}

func newSettingsModel(s *store.Store, c *planner.Coordinator) settingsModel {
	mv, dv := "", ""
	fallbacks := map[string]string{
		store.SettingMaxVisible:  strconv.Itoa(planner.DefaultMaxVisible),
		store.SettingDefaultView: string(planner.ModeMonth),
	}
	if c != nil {
		fallbacks[store.SettingMaxVisible] = strconv.Itoa(c.MaxVisible())
		fallbacks[store.SettingDefaultView] = string(c.Mode())
	}
	return settingsModel{
		store:       s,
		fallbacks:   fallbacks,
		maxVisible:  &mv,
		defaultView: &dv,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	if s.store == nil {
		return nil
	}
	return func() tea.Msg {
		return settingsDataMsg{settings: s.effective()}
	}
}

// effective lists the saved settings plus the fallback for every key that
// has not been saved yet.
func (s settingsModel) effective() []store.Setting {
	settings, _ := s.store.GetAllSettings()
	saved := make(map[string]bool, len(settings))
	for _, st := range settings {
		saved[st.Key] = true
	}
	for k, v := range s.fallbacks {
		if !saved[k] {
			settings = append(settings, store.Setting{Key: k, Value: v})
		}
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	if s.store == nil {
		return s, statusCmd("Settings need a database", true)
	}
	*s.maxVisible = s.store.SettingOr(store.SettingMaxVisible, s.fallbacks[store.SettingMaxVisible])
	*s.defaultView = s.store.SettingOr(store.SettingDefaultView, s.fallbacks[store.SettingDefaultView])

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Events shown per day cell").
				Value(s.maxVisible).
				Validate(validateMaxVisible),
			huh.NewSelect[string]().Title("Start in").
				Options(
					huh.NewOption("Month view", string(planner.ModeMonth)),
					huh.NewOption("List view", string(planner.ModeList)),
				).Value(s.defaultView),
		).Title("Display"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateMaxVisible(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return errors.New("enter a whole number of at least 1")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		saved, err := s.saveSettings()
		if err != nil {
			return s, statusCmd(fmt.Sprintf("Settings error: %v", err), true)
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return saved })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() (settingsSavedMsg, error) {
	n, err := strconv.Atoi(strings.TrimSpace(*s.maxVisible))
	if err != nil || n < 1 {
		n = planner.DefaultMaxVisible
	}
	view := string(planner.ParseViewMode(*s.defaultView))

	if err := s.store.SetSetting(store.SettingMaxVisible, strconv.Itoa(n)); err != nil {
		return settingsSavedMsg{}, err
	}
	if err := s.store.SetSetting(store.SettingDefaultView, view); err != nil {
		return settingsSavedMsg{}, err
	}
	return settingsSavedMsg{maxVisible: n, defaultView: view}, nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(settingLabel(setting.Key))
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingLabel(k string) string {
	switch k {
	case store.SettingMaxVisible:
		return "Events per day cell"
	case store.SettingDefaultView:
		return "Start in"
	}
	return k
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingMaxVisible:
		if n, err := strconv.Atoi(v); err == nil {
			if n == 1 {
				return "1 event"
			}
			return fmt.Sprintf("%d events", n)
		}
	case store.SettingDefaultView:
		return v + " view"
	}
	return v
}
