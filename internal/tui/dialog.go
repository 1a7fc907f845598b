package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/agenda/internal/calendar"
	"github.com/sadopc/agenda/internal/events"
	"github.com/sadopc/agenda/internal/planner"
)

type dialogKind int

const (
	dialogNewEvent dialogKind = iota
	dialogConfirmDelete
)

// eventFields backs the new-event form. Pointers survive value copies of
// the dialog.
type eventFields struct {
	title       *string
	time        *string
	duration    *string
	color       *string
	category    *string
	description *string
	priority    *string
}

func newEventFields() eventFields {
	title, tm, dur, color, cat, desc, prio := "", "09:00", "60", string(events.ColorBlue), "", "", string(events.PriorityMedium)
	return eventFields{
		title:       &title,
		time:        &tm,
		duration:    &dur,
		color:       &color,
		category:    &cat,
		description: &desc,
		priority:    &prio,
	}
}

// draft converts the form values; the store does the authoritative
// validation.
func (f eventFields) draft(d calendar.Date) events.Draft {
	dur, _ := strconv.Atoi(strings.TrimSpace(*f.duration))
	return events.Draft{
		Date:            d,
		Time:            strings.TrimSpace(*f.time),
		DurationMinutes: dur,
		Title:           *f.title,
		Color:           events.Color(*f.color),
		Category:        *f.category,
		Description:     strings.TrimSpace(*f.description),
		Priority:        events.Priority(*f.priority),
	}
}

// dialogModel is a modal huh form: either the new-event form or the delete
// confirmation.
type dialogModel struct {
	coord *planner.Coordinator
	kind  dialogKind
	form  *huh.Form
	title string

	date   calendar.Date
	fields eventFields

	deleteRef events.Ref
	confirmed *bool
}

func newEventDialog(c *planner.Coordinator, d calendar.Date) *dialogModel {
	fields := newEventFields()

	colorOptions := make([]huh.Option[string], len(events.Palette))
	for i, col := range events.Palette {
		colorOptions[i] = huh.NewOption(colorDot(col)+" "+string(col), string(col))
	}
	prioOptions := make([]huh.Option[string], len(events.Priorities))
	for i, p := range events.Priorities {
		prioOptions[i] = huh.NewOption(string(p), string(p))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(fields.title).Validate(validateTitle),
			huh.NewInput().Title("Time").
				Description(`HH:MM or "All day"`).
				Value(fields.time).
				Validate(validateTime),
			huh.NewInput().Title("Duration (min)").Value(fields.duration).Validate(validateDuration),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(fields.color),
			huh.NewInput().Title("Category").Value(fields.category),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(fields.priority),
			huh.NewText().Title("Description").Value(fields.description),
		),
	).WithShowHelp(true).WithShowErrors(true)

	return &dialogModel{
		coord:  c,
		kind:   dialogNewEvent,
		form:   form,
		title:  "New event on " + d.Format("Mon, Jan 2 2006"),
		date:   d,
		fields: fields,
	}
}

func newDeleteDialog(c *planner.Coordinator, ref events.Ref) (*dialogModel, error) {
	prompt, err := c.DeletePrompt(ref)
	if err != nil {
		return nil, err
	}
	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithShowHelp(true)

	return &dialogModel{
		coord:     c,
		kind:      dialogConfirmDelete,
		form:      form,
		title:     "Delete event",
		deleteRef: ref,
		confirmed: &confirmed,
	}, nil
}

func validateTitle(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateTime(v string) error {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all day") {
		return nil
	}
	if _, err := time.Parse("15:04", v); err != nil {
		return errors.New(`use HH:MM or "All day"`)
	}
	return nil
}

func validateDuration(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return errors.New("enter a positive number of minutes")
	}
	return nil
}

func (d *dialogModel) init() tea.Cmd {
	return d.form.Init()
}

// update advances the form. done reports that the dialog should close.
func (d *dialogModel) update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		return true, statusCmd("Cancelled", false)
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	switch d.form.State {
	case huh.StateCompleted:
		return true, d.complete()
	case huh.StateAborted:
		return true, statusCmd("Cancelled", false)
	}
	return false, cmd
}

func (d *dialogModel) complete() tea.Cmd {
	changed := func() tea.Msg { return eventsChangedMsg{} }

	switch d.kind {
	case dialogNewEvent:
		draft := d.fields.draft(d.date)
		if strings.EqualFold(draft.Time, "all day") {
			draft.Time = "All day"
		}
		e, err := d.coord.Create(draft)
		if err != nil {
			return statusCmd(describeErr(err), true)
		}
		return tea.Batch(changed, statusCmd(fmt.Sprintf("Added %q", e.Title), false))

	case dialogConfirmDelete:
		deleted, err := d.coord.RequestDelete(d.deleteRef, planner.Answer(*d.confirmed))
		if err != nil {
			return statusCmd(describeErr(err), true)
		}
		if !deleted {
			return statusCmd("Kept event", false)
		}
		return tea.Batch(changed, statusCmd("Event deleted", false))
	}
	return nil
}

func (d *dialogModel) view(w int) string {
	title := titleStyle.Render(d.title)
	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
	)
}
