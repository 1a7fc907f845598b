package events

import (
	"context"
	"fmt"
	"slices"

	"github.com/sadopc/agenda/internal/calendar"
	appLog "github.com/sadopc/agenda/internal/log"
)

// SeedSource supplies the built-in events re-read on every load.
type SeedSource interface {
	Fetch(ctx context.Context) ([]Event, error)
}

// Persister receives the user overlay after every successful mutation.
type Persister interface {
	Persist(snapshot []Event)
}

// LoadResult describes what a load merged.
type LoadResult struct {
	Seeded    int
	Persisted int
	Skipped   int
	// SeedErr is set when the seed source failed and the load fell back to
	// persisted events only.
	SeedErr error
}

// Degraded reports whether the seed source was unavailable.
func (r LoadResult) Degraded() bool { return r.SeedErr != nil }

// Store is the in-memory event collection. It is owned by a single actor
// and takes no locks; callers serialize access.
type Store struct {
	events    []*Event
	byDate    map[string][]*Event
	nextID    int64
	persister Persister
}

// NewStore creates an empty store. A nil persister disables write-back.
func NewStore(p Persister) *Store {
	return &Store{
		byDate:    make(map[string][]*Event),
		nextID:    1,
		persister: p,
	}
}

// Load replaces the collection with seed followed by persisted events.
// Persisted records keep an existing origin tag and default to user. Ids are
// not de-duplicated across the two sources: a colliding pair is kept as two
// records. Records without an id get a fresh one; records that fail
// validation are skipped.
func (s *Store) Load(seed, persisted []Event) LoadResult {
	var res LoadResult
	s.events = nil
	s.byDate = make(map[string][]*Event)
	s.nextID = 1

	for _, e := range seed {
		e.Origin = OriginSeed
		if s.admit(e) {
			res.Seeded++
		} else {
			res.Skipped++
		}
	}
	for _, e := range persisted {
		if e.Origin == "" {
			e.Origin = OriginUser
		}
		if s.admit(e) {
			res.Persisted++
		} else {
			res.Skipped++
		}
	}

	// Ids are assigned after the max is known so that fresh ids never
	// collide with a later record.
	for _, e := range s.events {
		if e.ID == 0 {
			e.ID = s.nextID
			s.nextID++
		}
	}

	appLog.Debug("events loaded", "seeded", res.Seeded, "persisted", res.Persisted, "skipped", res.Skipped)
	return res
}

func (s *Store) admit(e Event) bool {
	d := e.draft().normalize()
	if err := d.validate(); err != nil {
		appLog.Info("skipping invalid event", "id", e.ID, "origin", e.Origin, "reason", err.Error())
		return false
	}
	e.Title, e.Time, e.Category = d.Title, d.Time, d.Category
	e.Color, e.Priority = d.Color, d.Priority
	if e.ID >= s.nextID {
		s.nextID = e.ID + 1
	}
	s.insert(&e)
	return true
}

// LoadFrom fetches the seed source and merges it with persisted. A failing
// seed source is not an error: the store falls back to persisted events and
// reports the failure in LoadResult.SeedErr.
func (s *Store) LoadFrom(ctx context.Context, src SeedSource, persisted []Event) LoadResult {
	var seed []Event
	var seedErr error
	if src != nil {
		seed, seedErr = src.Fetch(ctx)
		if seedErr != nil {
			appLog.Error("seed source unavailable, using persisted events only", seedErr)
			seed = nil
		}
	}
	res := s.Load(seed, persisted)
	res.SeedErr = seedErr
	return res
}

// ReloadSeed re-merges a fresh seed set with the current user overlay. Seed
// events removed in memory come back; user events are untouched.
func (s *Store) ReloadSeed(seed []Event) LoadResult {
	return s.Load(seed, s.PersistableSnapshot())
}

// Create validates draft and appends a new user event.
func (s *Store) Create(draft Draft) (Event, error) {
	d := draft.normalize()
	if err := d.validate(); err != nil {
		return Event{}, err
	}
	e := &Event{
		ID:              s.nextID,
		Date:            d.Date,
		Time:            d.Time,
		DurationMinutes: d.DurationMinutes,
		Title:           d.Title,
		Color:           d.Color,
		Category:        d.Category,
		Description:     d.Description,
		Priority:        d.Priority,
		Origin:          OriginUser,
	}
	s.nextID++
	s.insert(e)
	s.persist()
	return *e, nil
}

// ToggleDone flips the done flag of the first event with id.
func (s *Store) ToggleDone(id int64) (Event, error) {
	return s.ToggleDoneRef(Ref{ID: id})
}

// ToggleDoneRef flips the done flag of the first event matching ref.
func (s *Store) ToggleDoneRef(ref Ref) (Event, error) {
	e := s.find(ref)
	if e == nil {
		return Event{}, &NotFoundError{ID: ref.ID}
	}
	e.Done = !e.Done
	s.persist()
	return *e, nil
}

// Remove deletes the first event with id. Removing a seed event only
// affects memory; the next load brings it back.
func (s *Store) Remove(id int64) error {
	return s.RemoveRef(Ref{ID: id})
}

// RemoveRef deletes the first event matching ref.
func (s *Store) RemoveRef(ref Ref) error {
	idx := slices.IndexFunc(s.events, ref.matches)
	if idx < 0 {
		return &NotFoundError{ID: ref.ID}
	}
	e := s.events[idx]
	s.events = slices.Delete(s.events, idx, idx+1)

	key := e.Date.Key()
	day := s.byDate[key]
	if i := slices.Index(day, e); i >= 0 {
		day = slices.Delete(day, i, i+1)
	}
	if len(day) == 0 {
		delete(s.byDate, key)
	} else {
		s.byDate[key] = day
	}

	s.persist()
	return nil
}

// Get returns the first event with id.
func (s *Store) Get(id int64) (Event, error) {
	return s.GetRef(Ref{ID: id})
}

func (s *Store) GetRef(ref Ref) (Event, error) {
	e := s.find(ref)
	if e == nil {
		return Event{}, &NotFoundError{ID: ref.ID}
	}
	return *e, nil
}

// EventsOn returns the events whose date key equals key, in insertion order.
func (s *Store) EventsOn(key string) []Event {
	return copyOut(s.byDate[key])
}

// EventsOnDate is EventsOn for a Date value.
func (s *Store) EventsOnDate(d calendar.Date) []Event {
	return s.EventsOn(calendar.FormatKey(d))
}

// EventsSortedByDate returns every event ascending by date; events on the
// same date keep their insertion order.
func (s *Store) EventsSortedByDate() []Event {
	out := copyOut(s.events)
	slices.SortStableFunc(out, func(a, b Event) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// All returns every event in insertion order.
func (s *Store) All() []Event {
	return copyOut(s.events)
}

func (s *Store) Len() int {
	return len(s.events)
}

// PersistableSnapshot returns the user-origin events, the only ones that are
// durably stored.
func (s *Store) PersistableSnapshot() []Event {
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		if e.Origin != OriginSeed {
			out = append(out, *e)
		}
	}
	return out
}

func (s *Store) insert(e *Event) {
	s.events = append(s.events, e)
	key := e.Date.Key()
	s.byDate[key] = append(s.byDate[key], e)
}

func (s *Store) find(ref Ref) *Event {
	if idx := slices.IndexFunc(s.events, ref.matches); idx >= 0 {
		return s.events[idx]
	}
	return nil
}

func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	s.persister.Persist(s.PersistableSnapshot())
}

func copyOut(src []*Event) []Event {
	if len(src) == 0 {
		return nil
	}
	out := make([]Event, len(src))
	for i, e := range src {
		out[i] = *e
	}
	return out
}

// String is used in log lines.
func (e Event) String() string {
	return fmt.Sprintf("#%d %s %q", e.ID, e.Date, e.Title)
}
