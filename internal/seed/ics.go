package seed

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sadopc/agenda/internal/calendar"
	"github.com/sadopc/agenda/internal/events"
	appLog "github.com/sadopc/agenda/internal/log"
)

const (
	allDayTime    = "All day"
	allDayMinutes = 24 * 60
	// defaultMinutes is used for timed events without DTEND.
	defaultMinutes = 60
)

// ParseICS maps every VEVENT of an iCalendar payload to a seed event.
// VEVENTs without a usable DTSTART or SUMMARY are skipped.
func ParseICS(body []byte) ([]events.Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out []events.Event
	for _, ve := range cal.Events() {
		e, err := fromVEvent(ve)
		if err != nil {
			appLog.Error("ics vevent skipped", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func fromVEvent(ve *ical.VEvent) (events.Event, error) {
	var e events.Event

	summary := ve.GetProperty(ical.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return e, errors.New("missing SUMMARY")
	}
	e.Title = summary.Value

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return e, errors.New("missing DTSTART")
	}
	start, allDay, err := parseICSTime(dtStart)
	if err != nil {
		return e, err
	}
	e.Date = calendar.FromTime(start)

	if allDay {
		e.Time = allDayTime
		e.DurationMinutes = allDayMinutes
	} else {
		e.Time = start.Format("15:04")
		e.DurationMinutes = defaultMinutes
	}

	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
		if end, _, err := parseICSTime(dtEnd); err == nil && end.After(start) {
			e.DurationMinutes = int(end.Sub(start).Minutes())
		}
	}
	if e.DurationMinutes < 1 {
		e.DurationMinutes = 1
	}

	if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil {
		e.Category = strings.TrimSpace(strings.Split(p.Value, ",")[0])
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		e.Description = p.Value
	}
	return e, nil
}

// parseICSTime reads a DTSTART/DTEND property. Date-only values (VALUE=DATE
// or no 'T') are all-day.
func parseICSTime(p *ical.IANAProperty) (time.Time, bool, error) {
	v := strings.TrimSpace(p.Value)
	if v == "" {
		return time.Time{}, false, errors.New("empty time value")
	}

	loc := time.Local
	allDay := !strings.Contains(v, "T")
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			allDay = true
		}
		if tzs, ok := params["TZID"]; ok && len(tzs) > 0 {
			if l, err := time.LoadLocation(tzs[0]); err == nil {
				loc = l
			}
		}
	}

	switch {
	case allDay:
		t, err := time.ParseInLocation("20060102", v[:min(len(v), 8)], loc)
		return t, true, err
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse("20060102T150405Z", v)
		return t, false, err
	default:
		t, err := time.ParseInLocation("20060102T150405", v, loc)
		return t, false, err
	}
}
