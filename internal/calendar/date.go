package calendar

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical YYYY-MM-DD layout used for every date lookup.
const KeyLayout = "2006-01-02"

// Date is a calendar day with no time-of-day and no location.
// The zero value is not a valid date; use New, Parse or FromTime.
type Date struct {
	year  int
	month time.Month
	day   int
}

// InvalidDateError reports a malformed calendar date.
type InvalidDateError struct {
	Input  string
	Year   int
	Month  int
	Day    int
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid date %04d-%02d-%02d: %s", e.Year, e.Month, e.Day, e.Reason)
}

// Years outside this range would not fit the four-digit key.
const (
	MinYear = 1
	MaxYear = 9999
)

// New builds a Date, failing for any component out of range. Day overflow is
// never normalized into the next month.
func New(year int, month time.Month, day int) (Date, error) {
	invalid := func(reason string) error {
		return &InvalidDateError{Year: year, Month: int(month), Day: day, Reason: reason}
	}
	if year < MinYear || year > MaxYear {
		return Date{}, invalid("year out of range")
	}
	if month < time.January || month > time.December {
		return Date{}, invalid("month out of range")
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, invalid("day out of range")
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustNew is like New but panics on an invalid date. Intended for constants
// and tests.
func MustNew(year int, month time.Month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse reads a YYYY-MM-DD key.
func Parse(key string) (Date, error) {
	if len(key) != len(KeyLayout) || key[4] != '-' || key[7] != '-' {
		return Date{}, &InvalidDateError{Input: key, Reason: "want YYYY-MM-DD"}
	}
	year, ok1 := atoi(key[0:4])
	month, ok2 := atoi(key[5:7])
	day, ok3 := atoi(key[8:10])
	if !ok1 || !ok2 || !ok3 {
		return Date{}, &InvalidDateError{Input: key, Reason: "want YYYY-MM-DD"}
	}
	d, err := New(year, time.Month(month), day)
	if err != nil {
		return Date{}, &InvalidDateError{Input: key, Reason: err.(*InvalidDateError).Reason}
	}
	return d, nil
}

func atoi(s string) (int, bool) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// FromTime takes the calendar day of t in t's own location. Days before
// 0001-01-01 or after 9999-12-31 are clamped to those bounds.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	switch {
	case y < MinYear:
		return Date{year: MinYear, month: time.January, day: 1}
	case y > MaxYear:
		return Date{year: MaxYear, month: time.December, day: 31}
	}
	return Date{year: y, month: m, day: d}
}

// Today returns the calendar day of now in the local zone.
func Today() Date {
	return FromTime(time.Now())
}

func (d Date) Year() int             { return d.year }
func (d Date) Month() time.Month     { return d.month }
func (d Date) Day() int              { return d.day }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Key is the canonical YYYY-MM-DD form of d.
func (d Date) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func (d Date) String() string { return d.Key() }

// Format formats midnight of d with a time layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

// AddDays moves d by n days across month and year boundaries, saturating at
// the ends of the supported range.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// IsWeekend reports Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Sunday || wd == time.Saturday
}

// SameMonth reports whether d and o fall in the same month of the same year.
func (d Date) SameMonth(o Date) bool {
	return d.year == o.year && d.month == o.month
}

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, &InvalidDateError{Reason: "zero date"}
	}
	return []byte(d.Key()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
