package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/agenda/internal/events"
)

func ToCSV(evs []events.Event, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Date", "Time", "Duration (min)", "Duration", "Title", "Category", "Color", "Priority", "Done", "Origin", "Description"}); err != nil {
		return err
	}

	for _, e := range evs {
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date.Key(),
			e.Time,
			strconv.Itoa(e.DurationMinutes),
			formatDuration(e.DurationMinutes),
			e.Title,
			e.Category,
			string(e.Color),
			string(e.Priority),
			strconv.FormatBool(e.Done),
			string(e.Origin),
			e.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatDuration renders minutes as HH:MM.
func formatDuration(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// startOf resolves an event's start instant in the local zone. Events whose
// time is not HH:MM are all-day.
func startOf(e events.Event) (start time.Time, allDay bool) {
	day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.Local)
	t, err := time.Parse("15:04", e.Time)
	if err != nil {
		return day, true
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), false
}
