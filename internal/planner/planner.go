package planner

import (
	"fmt"
	"time"

	"github.com/sadopc/agenda/internal/calendar"
	"github.com/sadopc/agenda/internal/events"
	appLog "github.com/sadopc/agenda/internal/log"
)

// ViewMode is the live presentation mode. Both modes are always reachable
// from each other.
type ViewMode string

const (
	ModeMonth ViewMode = "month"
	ModeList  ViewMode = "list"
)

// ParseViewMode maps "month" and "list"; anything else is month.
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ModeList {
		return ModeList
	}
	return ModeMonth
}

// DefaultMaxVisible is how many events a cell shows before "+N more".
const DefaultMaxVisible = 3

// Cell is one date of the visible grid.
type Cell struct {
	Date           calendar.Date
	IsCurrentMonth bool
	IsToday        bool
	IsWeekend      bool
	Events         []events.Event
	Overflow       int
}

// Confirmer answers a yes/no question synchronously.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Answer is a Confirmer with a decision made ahead of time, e.g. by a dialog
// that already closed.
func Answer(yes bool) Confirmer {
	return ConfirmFunc(func(string) bool { return yes })
}

type Option func(*Coordinator)

// WithClock overrides the source of "now".
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithMaxVisible(n int) Option {
	return func(c *Coordinator) { c.SetMaxVisible(n) }
}

func WithMode(m ViewMode) Option {
	return func(c *Coordinator) { c.mode = m }
}

// Coordinator owns the navigation state and funnels every mutation into the
// event store.
type Coordinator struct {
	store      *events.Store
	now        func() time.Time
	cursor     calendar.Date
	mode       ViewMode
	maxVisible int
}

func New(store *events.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:      store,
		now:        time.Now,
		mode:       ModeMonth,
		maxVisible: DefaultMaxVisible,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cursor = c.Today()
	return c
}

func (c *Coordinator) Store() *events.Store  { return c.store }
func (c *Coordinator) Cursor() calendar.Date { return c.cursor }
func (c *Coordinator) Mode() ViewMode        { return c.mode }
func (c *Coordinator) MaxVisible() int       { return c.maxVisible }

// Today is the current calendar day at call time.
func (c *Coordinator) Today() calendar.Date {
	return calendar.FromTime(c.now())
}

func (c *Coordinator) SetMode(m ViewMode) {
	c.mode = m
}

func (c *Coordinator) ToggleMode() ViewMode {
	if c.mode == ModeMonth {
		c.mode = ModeList
	} else {
		c.mode = ModeMonth
	}
	return c.mode
}

// SetMaxVisible sets the per-cell cap; values below 1 are raised to 1.
func (c *Coordinator) SetMaxVisible(n int) {
	if n < 1 {
		n = 1
	}
	c.maxVisible = n
}

func (c *Coordinator) SetCursor(d calendar.Date) {
	c.cursor = d
}

func (c *Coordinator) GoToToday() {
	c.cursor = c.Today()
}

// ShiftMonth moves the cursor by offset months, clamping the day.
func (c *Coordinator) ShiftMonth(offset int) {
	c.cursor = calendar.ShiftMonth(c.cursor, offset)
}

// MonthTitle renders the cursor month, e.g. "June 2024".
func (c *Coordinator) MonthTitle() string {
	return calendar.MonthTitle(c.cursor)
}

// VisibleCells builds the grid for the cursor month with each cell's events
// capped at the visible count.
func (c *Coordinator) VisibleCells() []Cell {
	today := c.Today()
	days := calendar.BuildVisibleRange(c.cursor)
	cells := make([]Cell, len(days))
	for i, d := range days {
		evs := c.store.EventsOn(calendar.FormatKey(d))
		cell := Cell{
			Date:           d,
			IsCurrentMonth: d.SameMonth(c.cursor),
			IsToday:        calendar.IsSameCalendarDay(d, today),
			IsWeekend:      d.IsWeekend(),
		}
		if len(evs) > c.maxVisible {
			cell.Overflow = len(evs) - c.maxVisible
			evs = evs[:c.maxVisible]
		}
		cell.Events = evs
		cells[i] = cell
	}
	return cells
}

// TodaysEvents drives the "today" panel shown in every mode.
func (c *Coordinator) TodaysEvents() []events.Event {
	return c.store.EventsOn(calendar.FormatKey(c.Today()))
}

// EventsOn returns every event of d, uncapped.
func (c *Coordinator) EventsOn(d calendar.Date) []events.Event {
	return c.store.EventsOn(calendar.FormatKey(d))
}

// ListEvents is the list-mode view: every event sorted by date.
func (c *Coordinator) ListEvents() []events.Event {
	return c.store.EventsSortedByDate()
}

func (c *Coordinator) Create(d events.Draft) (events.Event, error) {
	e, err := c.store.Create(d)
	if err != nil {
		return events.Event{}, err
	}
	appLog.Info("event created", "id", e.ID, "date", e.Date)
	return e, nil
}

// ToggleDone flips the event ref points at. A ref without an origin hits the
// first event with the id.
func (c *Coordinator) ToggleDone(ref events.Ref) (events.Event, error) {
	return c.store.ToggleDoneRef(ref)
}

// DeletePrompt is the question asked before removing ref.
func (c *Coordinator) DeletePrompt(ref events.Ref) (string, error) {
	e, err := c.store.GetRef(ref)
	if err != nil {
		return "", err
	}
	return deletePrompt(e), nil
}

func deletePrompt(e events.Event) string {
	return fmt.Sprintf("Delete %q on %s?", e.Title, e.Date.Format("Jan 2, 2006"))
}

// RequestDelete asks confirm before removing the event. A "no" leaves the
// store untouched and returns false.
func (c *Coordinator) RequestDelete(ref events.Ref, confirm Confirmer) (bool, error) {
	e, err := c.store.GetRef(ref)
	if err != nil {
		return false, err
	}
	if !confirm.Confirm(deletePrompt(e)) {
		return false, nil
	}
	if err := c.store.RemoveRef(e.Ref()); err != nil {
		return false, err
	}
	appLog.Info("event deleted", "id", e.ID, "origin", e.Origin)
	return true, nil
}

// ReloadSeed swaps in a freshly fetched seed set, keeping the user overlay.
func (c *Coordinator) ReloadSeed(seed []events.Event) events.LoadResult {
	res := c.store.ReloadSeed(seed)
	appLog.Info("seed reloaded", "seeded", res.Seeded, "persisted", res.Persisted, "skipped", res.Skipped)
	return res
}
