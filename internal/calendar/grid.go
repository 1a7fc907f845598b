package calendar

import "time"

// WeekStart is the first day of every week in the grid.
const WeekStart = time.Sunday

// DaysInMonth returns the number of days in month of year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartOfMonth(d Date) Date {
	return Date{year: d.year, month: d.month, day: 1}
}

func EndOfMonth(d Date) Date {
	return Date{year: d.year, month: d.month, day: DaysInMonth(d.year, d.month)}
}

// StartOfWeek returns the Sunday on or before d, or 0001-01-01 in the first
// week of the supported range.
func StartOfWeek(d Date) Date {
	return d.AddDays(-WeekColumn(d))
}

// EndOfWeek returns the Saturday on or after d, or 9999-12-31 in the last
// week of the supported range.
func EndOfWeek(d Date) Date {
	return StartOfWeek(d).AddDays(6)
}

// BuildVisibleRange returns every day from the start of the week holding the
// first of anchor's month through the end of the week holding its last day.
// The result is ascending, gapless and a whole number of weeks long, except
// in January 0001 and December 9999 where it stops at the range bounds.
func BuildVisibleRange(anchor Date) []Date {
	first := StartOfWeek(StartOfMonth(anchor))
	last := EndOfWeek(EndOfMonth(anchor))

	days := make([]Date, 0, 42)
	for d := first; ; d = d.AddDays(1) {
		days = append(days, d)
		if !d.Before(last) {
			break
		}
	}
	return days
}

// WeekColumn is d's zero-based column in a grid starting on WeekStart.
func WeekColumn(d Date) int {
	return (int(d.Weekday()) - int(WeekStart) + 7) % 7
}

// ShiftMonth moves anchor by offset months. A day that does not exist in the
// target month is clamped to its last day, so Jan 31 + 1 is Feb 28/29.
// The result stays within January of MinYear and December of MaxYear.
func ShiftMonth(anchor Date, offset int) Date {
	total := anchor.year*12 + int(anchor.month) - 1 + offset
	total = min(max(total, MinYear*12), MaxYear*12+11)
	year, month := total/12, time.Month(total%12+1)
	day := anchor.day
	if n := DaysInMonth(year, month); day > n {
		day = n
	}
	return Date{year: year, month: month, day: day}
}

// IsSameCalendarDay compares the year, month and day of a and b.
func IsSameCalendarDay(a, b Date) bool {
	return a == b
}

// SameDay compares the calendar days of two instants, each in its own
// location, ignoring the time of day.
func SameDay(a, b time.Time) bool {
	return FromTime(a) == FromTime(b)
}

// FormatKey returns the canonical lookup key of d.
func FormatKey(d Date) string {
	return d.Key()
}

// MonthTitle renders "October 2026".
func MonthTitle(d Date) string {
	return d.Format("January 2006")
}
