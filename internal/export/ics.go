package export

import (
	"fmt"
	"os"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sadopc/agenda/internal/events"
)

// icsPriority maps to the RFC 5545 PRIORITY scale (1 highest, 9 lowest).
var icsPriority = map[events.Priority]int{
	events.PriorityHigh:   1,
	events.PriorityMedium: 5,
	events.PriorityLow:    9,
}

// ToICS writes evs as a VCALENDAR. Events with an HH:MM time become timed
// VEVENTs spanning their duration; the rest become all-day VEVENTs.
func ToICS(evs []events.Event, path string) error {
	data := buildICS(evs, time.Now())
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write ics file: %w", err)
	}
	return nil
}

func buildICS(evs []events.Event, stamp time.Time) string {
	cal := ical.NewCalendarFor("agenda")
	cal.SetMethod(ical.MethodPublish)

	for _, e := range evs {
		ve := cal.AddEvent(eventUID(e))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(e.Title)

		start, allDay := startOf(e)
		if allDay {
			days := max(1, (e.DurationMinutes+24*60-1)/(24*60))
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(start.AddDate(0, 0, days))
		} else {
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(time.Duration(e.DurationMinutes) * time.Minute))
		}

		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Category != "" {
			ve.SetProperty(ical.ComponentPropertyCategories, e.Category)
		}
		if p, ok := icsPriority[e.Priority]; ok {
			ve.SetPriority(p)
		}
		if e.Color != "" {
			ve.SetColor(string(e.Color))
		}
	}
	return cal.Serialize()
}

// eventUID is stable per id, date and origin so re-exports update rather
// than duplicate in calendar clients.
func eventUID(e events.Event) string {
	return string(e.Origin) + "-" + strconv.FormatInt(e.ID, 10) + "-" + e.Date.Key() + "@agenda"
}
