package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/agenda/internal/events"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Events     []jsonEvent `json:"events"`
}

type jsonEvent struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Start       string `json:"start,omitempty"`
	DurationMin int    `json:"duration_minutes"`
	Duration    string `json:"duration"`
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	Color       string `json:"color"`
	Priority    string `json:"priority,omitempty"`
	Description string `json:"description,omitempty"`
	Done        bool   `json:"done"`
	Origin      string `json:"origin,omitempty"`
}

func ToJSON(evs []events.Event, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(evs),
	}

	for _, e := range evs {
		startStr := ""
		if start, allDay := startOf(e); !allDay {
			startStr = start.Format(time.RFC3339)
		}

		export.Events = append(export.Events, jsonEvent{
			ID:          e.ID,
			Date:        e.Date.Key(),
			Time:        e.Time,
			Start:       startStr,
			DurationMin: e.DurationMinutes,
			Duration:    formatDuration(e.DurationMinutes),
			Title:       e.Title,
			Category:    e.Category,
			Color:       string(e.Color),
			Priority:    string(e.Priority),
			Description: e.Description,
			Done:        e.Done,
			Origin:      string(e.Origin),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
