package events

import (
	"fmt"
	"strings"

	"github.com/sadopc/agenda/internal/calendar"
)

// Origin tells whether an event comes from the seed dataset or from the user.
type Origin string

const (
	OriginSeed Origin = "seed"
	OriginUser Origin = "user"
)

type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorIndigo Color = "indigo"
	ColorTeal   Color = "teal"
)

// Palette lists every color an event may carry, in display order.
var Palette = []Color{ColorBlue, ColorGreen, ColorRed, ColorPurple, ColorYellow, ColorPink, ColorIndigo, ColorTeal}

func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Event is a single scheduled item. The JSON shape is the persisted payload.
type Event struct {
	ID              int64         `json:"id"`
	Date            calendar.Date `json:"date"`
	Time            string        `json:"time"`
	DurationMinutes int           `json:"duration"`
	Title           string        `json:"title"`
	Color           Color         `json:"color"`
	Category        string        `json:"category,omitempty"`
	Description     string        `json:"description,omitempty"`
	Priority        Priority      `json:"priority,omitempty"`
	Done            bool          `json:"done"`
	Origin          Origin        `json:"origin,omitempty"`
}

// Ref identifies an event. Seed and user records may share an id, so the
// origin narrows the match; an empty origin matches either.
type Ref struct {
	ID     int64
	Origin Origin
}

func (e Event) Ref() Ref { return Ref{ID: e.ID, Origin: e.Origin} }

func (r Ref) matches(e *Event) bool {
	return e.ID == r.ID && (r.Origin == "" || r.Origin == e.Origin)
}

// Draft carries the user-supplied fields of a new event.
type Draft struct {
	Date            calendar.Date
	Time            string
	DurationMinutes int
	Title           string
	Color           Color
	Category        string
	Description     string
	Priority        Priority
}

// FieldError names one rejected field.
type FieldError struct {
	Field   string
	Problem string
}

// ValidationError lists every missing or malformed field of a rejected event.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Problem
	}
	return "invalid event: " + strings.Join(parts, "; ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// NotFoundError is returned for operations on an unknown event id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %d not found", e.ID)
}

// normalize fills defaults and trims text fields.
func (d Draft) normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Time = strings.TrimSpace(d.Time)
	d.Category = strings.TrimSpace(d.Category)
	if d.Color == "" {
		d.Color = ColorBlue
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	return d
}

func (d Draft) validate() error {
	var fields []FieldError
	if d.Date.IsZero() {
		fields = append(fields, FieldError{"date", "required"})
	}
	if d.Title == "" {
		fields = append(fields, FieldError{"title", "required"})
	}
	if d.Time == "" {
		fields = append(fields, FieldError{"time", "required"})
	}
	if d.DurationMinutes <= 0 {
		fields = append(fields, FieldError{"duration", "must be a positive number of minutes"})
	}
	if !d.Color.Valid() {
		fields = append(fields, FieldError{"color", fmt.Sprintf("unknown color %q", d.Color)})
	}
	if !d.Priority.Valid() {
		fields = append(fields, FieldError{"priority", fmt.Sprintf("unknown priority %q", d.Priority)})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (e Event) draft() Draft {
	return Draft{
		Date:            e.Date,
		Time:            e.Time,
		DurationMinutes: e.DurationMinutes,
		Title:           e.Title,
		Color:           e.Color,
		Category:        e.Category,
		Description:     e.Description,
		Priority:        e.Priority,
	}
}
