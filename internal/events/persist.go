package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sadopc/agenda/internal/calendar"
	appLog "github.com/sadopc/agenda/internal/log"
)

// StorageKey is the fixed key the user overlay is stored under.
const StorageKey = "calendarEvents"

// KV is the key-value persistence collaborator.
type KV interface {
	Read(key string) (value string, ok bool, err error)
	Write(key, value string) error
}

// KVPersister serializes snapshots as a JSON array under a single key.
type KVPersister struct {
	kv  KV
	key string
}

func NewKVPersister(kv KV, key string) *KVPersister {
	if key == "" {
		key = StorageKey
	}
	return &KVPersister{kv: kv, key: key}
}

// Persist writes the snapshot. Failures are logged and dropped.
func (p *KVPersister) Persist(snapshot []Event) {
	payload, err := Encode(snapshot)
	if err != nil {
		appLog.Error("encode events", err, "count", len(snapshot))
		return
	}
	if err := p.kv.Write(p.key, payload); err != nil {
		appLog.Error("persist events", err, "key", p.key, "count", len(snapshot))
		return
	}
	appLog.Debug("events persisted", "key", p.key, "count", len(snapshot))
}

// Read loads the persisted events.
func (p *KVPersister) Read() ([]Event, error) {
	return ReadPersisted(p.kv, p.key)
}

// ReadPersisted parses the payload stored under key. An absent or blank
// payload yields no events.
func ReadPersisted(kv KV, key string) ([]Event, error) {
	value, ok, err := kv.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	events, err := Decode(value)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return events, nil
}

// Encode serializes events as a JSON array.
func Encode(events []Event) (string, error) {
	if events == nil {
		events = []Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// record is the wire form of Event. The date stays a string so that one bad
// date does not reject the whole payload.
type record struct {
	Event
	Date string `json:"date"`
}

// Decode parses a JSON array of events. Blank input yields no events. A
// record whose date does not parse is returned with a zero date, which Load
// skips and counts.
func Decode(payload string) ([]Event, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, nil
	}
	var records []record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(records))
	for _, r := range records {
		e := r.Event
		if d, err := calendar.Parse(r.Date); err == nil {
			e.Date = d
		} else {
			appLog.Info("invalid event date", "id", r.ID, "date", r.Date, "reason", err.Error())
		}
		events = append(events, e)
	}
	return events, nil
}
