package calendar

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

// ============================================================
// Construction
// ============================================================

func TestNewValid(t *testing.T) {
	d, err := New(2024, time.February, 29)
	if err != nil {
		t.Fatal(err)
	}
	if d.Year() != 2024 || d.Month() != time.February || d.Day() != 29 {
		t.Fatalf("unexpected date: %v", d)
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
	}{
		{"day 32", 2024, time.January, 32},
		{"day 0", 2024, time.January, 0},
		{"feb 29 non-leap", 2023, time.February, 29},
		{"feb 30 leap", 2024, time.February, 30},
		{"april 31", 2024, time.April, 31},
		{"month 13", 2024, 13, 1},
		{"month 0", 2024, 0, 1},
		{"year 0", 0, time.January, 1},
		{"year 10000", 10000, time.January, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.year, tt.month, tt.day)
			var ide *InvalidDateError
			if !errors.As(err, &ide) {
				t.Fatalf("expected InvalidDateError, got %v", err)
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustNew(2024, time.January, 32)
}

func TestParse(t *testing.T) {
	d, err := Parse("2024-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if d != MustNew(2024, time.June, 1) {
		t.Fatalf("got %v", d)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "2024-6-1", "2024/06/01", "2024-06-32", "2024-13-01", "abcd-ef-gh", "2024-06-01T00:00", "0000-01-01"} {
		_, err := Parse(in)
		var ide *InvalidDateError
		if !errors.As(err, &ide) {
			t.Fatalf("Parse(%q): expected InvalidDateError, got %v", in, err)
		}
		if ide.Input != in {
			t.Fatalf("Parse(%q): error input = %q", in, ide.Input)
		}
	}
}

func TestFromTimeIgnoresTimeOfDay(t *testing.T) {
	a := FromTime(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	b := FromTime(time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC))
	if a != b {
		t.Fatalf("%v != %v", a, b)
	}
}

func TestZeroDate(t *testing.T) {
	var d Date
	if !d.IsZero() {
		t.Fatal("zero value should report IsZero")
	}
	if MustNew(2024, 1, 1).IsZero() {
		t.Fatal("valid date should not be zero")
	}
	if _, err := d.MarshalText(); err == nil {
		t.Fatal("marshalling a zero date should fail")
	}
}

// ============================================================
// Keys
// ============================================================

func TestFormatKey(t *testing.T) {
	d := MustNew(987, time.March, 7)
	if FormatKey(d) != "0987-03-07" {
		t.Fatalf("got %q", FormatKey(d))
	}
}

func TestFormatKeyStable(t *testing.T) {
	viaNew := MustNew(2024, time.July, 4)
	viaParse, _ := Parse("2024-07-04")
	viaTime := FromTime(time.Date(2024, 7, 4, 18, 30, 0, 0, time.Local))
	viaAdd := MustNew(2024, time.June, 30).AddDays(4)
	for _, d := range []Date{viaParse, viaTime, viaAdd} {
		if FormatKey(d) != FormatKey(viaNew) {
			t.Fatalf("key %q != %q", FormatKey(d), FormatKey(viaNew))
		}
	}
}

func TestFormatKeyInjective(t *testing.T) {
	seen := make(map[string]Date)
	start := MustNew(2020, time.January, 1)
	for i := 0; i < 3653; i++ {
		d := start.AddDays(i)
		k := FormatKey(d)
		if prev, ok := seen[k]; ok {
			t.Fatalf("key %q shared by %v and %v", k, prev, d)
		}
		seen[k] = d
		back, err := Parse(k)
		if err != nil || back != d {
			t.Fatalf("Parse(%q) = %v, %v", k, back, err)
		}
	}
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}
	data, err := json.Marshal(wrapper{Date: MustNew(2024, 6, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"date":"2024-06-01"}` {
		t.Fatalf("got %s", data)
	}
	var w wrapper
	if err := json.Unmarshal(data, &w); err != nil {
		t.Fatal(err)
	}
	if w.Date != MustNew(2024, 6, 1) {
		t.Fatalf("got %v", w.Date)
	}
	if err := json.Unmarshal([]byte(`{"date":"2024-02-30"}`), &w); err == nil {
		t.Fatal("expected error for invalid date")
	}
}

// ============================================================
// Comparison
// ============================================================

func TestIsSameCalendarDay(t *testing.T) {
	d := MustNew(2024, 2, 29)
	if !IsSameCalendarDay(d, d) {
		t.Fatal("a day must equal itself")
	}
	if IsSameCalendarDay(d, d.AddDays(1)) {
		t.Fatal("adjacent days are not the same")
	}
	if IsSameCalendarDay(MustNew(2024, 3, 1), MustNew(2023, 3, 1)) {
		t.Fatal("same month/day in different years are not the same")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 5, 5, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, 5, 5, 22, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Fatal("expected same day")
	}
	if SameDay(a, b.Add(3*time.Hour)) {
		t.Fatal("expected different day")
	}
}

func TestCompare(t *testing.T) {
	a := MustNew(2023, 12, 31)
	b := MustNew(2024, 1, 1)
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatal("compare across year boundary")
	}
	if !a.Before(b) || !b.After(a) {
		t.Fatal("before/after")
	}
}

func TestWeekend(t *testing.T) {
	// 2024-06-01 is a Saturday.
	sat := MustNew(2024, 6, 1)
	if sat.Weekday() != time.Saturday || !sat.IsWeekend() {
		t.Fatal("saturday")
	}
	if !sat.AddDays(1).IsWeekend() {
		t.Fatal("sunday")
	}
	if sat.AddDays(2).IsWeekend() {
		t.Fatal("monday")
	}
}

// ============================================================
// Month and week boundaries
// ============================================================

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Fatalf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestStartEndOfMonth(t *testing.T) {
	d := MustNew(2024, 2, 14)
	if StartOfMonth(d) != MustNew(2024, 2, 1) {
		t.Fatalf("start: %v", StartOfMonth(d))
	}
	if EndOfMonth(d) != MustNew(2024, 2, 29) {
		t.Fatalf("end: %v", EndOfMonth(d))
	}
}

func TestStartEndOfWeek(t *testing.T) {
	// 2024-02-01 is a Thursday.
	d := MustNew(2024, 2, 1)
	if StartOfWeek(d) != MustNew(2024, 1, 28) {
		t.Fatalf("start of week: %v", StartOfWeek(d))
	}
	if EndOfWeek(d) != MustNew(2024, 2, 3) {
		t.Fatalf("end of week: %v", EndOfWeek(d))
	}
	sun := MustNew(2024, 1, 28)
	if StartOfWeek(sun) != sun {
		t.Fatal("sunday starts its own week")
	}
	sat := MustNew(2024, 2, 3)
	if EndOfWeek(sat) != sat {
		t.Fatal("saturday ends its own week")
	}
}

// ============================================================
// Visible range
// ============================================================

func TestBuildVisibleRangeProperties(t *testing.T) {
	anchor := MustNew(2015, time.January, 1)
	for i := 0; i < 12*15; i++ {
		m := ShiftMonth(anchor, i)
		days := BuildVisibleRange(m)
		if len(days)%7 != 0 {
			t.Fatalf("%s: length %d not a multiple of 7", MonthTitle(m), len(days))
		}
		if days[0].Weekday() != time.Sunday || days[len(days)-1].Weekday() != time.Saturday {
			t.Fatalf("%s: grid must run Sunday..Saturday", MonthTitle(m))
		}
		for j := 1; j < len(days); j++ {
			if days[j] != days[j-1].AddDays(1) {
				t.Fatalf("%s: gap or repeat between %v and %v", MonthTitle(m), days[j-1], days[j])
			}
		}
		if days[0].After(StartOfMonth(m)) || days[len(days)-1].Before(EndOfMonth(m)) {
			t.Fatalf("%s: range does not cover the month", MonthTitle(m))
		}
	}
}

func TestBuildVisibleRangeLeapFebruary(t *testing.T) {
	days := BuildVisibleRange(MustNew(2024, time.February, 10))

	leap := 0
	var jan, mar int
	for _, d := range days {
		if d == MustNew(2024, 2, 29) {
			leap++
		}
		switch d.Month() {
		case time.January:
			jan++
		case time.March:
			mar++
		}
	}
	if leap != 1 {
		t.Fatalf("Feb 29 appears %d times", leap)
	}
	// Feb 1 2024 is a Thursday, Feb 29 a Thursday.
	if jan != 4 || mar != 2 {
		t.Fatalf("borrowed days: jan=%d mar=%d, want 4 and 2", jan, mar)
	}
	if len(days) != 35 {
		t.Fatalf("expected 35 days, got %d", len(days))
	}
}

func TestBuildVisibleRangeExactFit(t *testing.T) {
	// February 2015 starts on Sunday and ends on Saturday.
	days := BuildVisibleRange(MustNew(2015, time.February, 1))
	if len(days) != 28 {
		t.Fatalf("expected 28 days, got %d", len(days))
	}
	if days[0] != MustNew(2015, 2, 1) || days[27] != MustNew(2015, 2, 28) {
		t.Fatal("grid should not borrow days")
	}
}

func TestBuildVisibleRangeYearBoundary(t *testing.T) {
	days := BuildVisibleRange(MustNew(2024, time.December, 25))
	last := days[len(days)-1]
	if last != MustNew(2025, 1, 4) {
		t.Fatalf("last day = %v, want 2025-01-04", last)
	}
}

// ============================================================
// Month shifting
// ============================================================

func TestShiftMonthClamps(t *testing.T) {
	tests := []struct {
		from   Date
		offset int
		want   Date
	}{
		{MustNew(2024, 1, 31), 1, MustNew(2024, 2, 29)},
		{MustNew(2023, 1, 31), 1, MustNew(2023, 2, 28)},
		{MustNew(2024, 3, 31), -1, MustNew(2024, 2, 29)},
		{MustNew(2024, 5, 31), 1, MustNew(2024, 6, 30)},
		{MustNew(2024, 12, 15), 1, MustNew(2025, 1, 15)},
		{MustNew(2024, 1, 15), -1, MustNew(2023, 12, 15)},
		{MustNew(2024, 1, 31), 13, MustNew(2025, 2, 28)},
		{MustNew(2024, 6, 10), 0, MustNew(2024, 6, 10)},
		{MustNew(2024, 3, 1), -26, MustNew(2022, 1, 1)},
	}
	for _, tt := range tests {
		got := ShiftMonth(tt.from, tt.offset)
		if got != tt.want {
			t.Fatalf("ShiftMonth(%v, %d) = %v, want %v", tt.from, tt.offset, got, tt.want)
		}
	}
}

func TestShiftMonthRoundTrip(t *testing.T) {
	start := MustNew(2020, 1, 1)
	for i := 0; i < 3653; i++ {
		d := start.AddDays(i)
		back := ShiftMonth(ShiftMonth(d, 1), -1)
		if !back.SameMonth(d) {
			t.Fatalf("round trip of %v landed in %v", d, back)
		}
		if back.Day() > d.Day() {
			t.Fatalf("round trip of %v grew the day to %v", d, back)
		}
	}
}

func TestMonthTitle(t *testing.T) {
	if got := MonthTitle(MustNew(2026, 10, 18)); got != "October 2026" {
		t.Fatalf("got %q", got)
	}
}

// ============================================================
// Range bounds
// ============================================================

func TestShiftMonthStaysInRange(t *testing.T) {
	last := MustNew(MaxYear, time.December, 15)
	if got := ShiftMonth(last, 1); got != last {
		t.Fatalf("ShiftMonth past December 9999 = %v", got)
	}
	first := MustNew(MinYear, time.January, 31)
	if got := ShiftMonth(first, -1); got != first {
		t.Fatalf("ShiftMonth before January 0001 = %v", got)
	}
	if got := ShiftMonth(MustNew(9999, time.November, 30), 5); got != MustNew(9999, time.December, 30) {
		t.Fatalf("got %v", got)
	}
	for _, d := range []Date{ShiftMonth(last, 1), ShiftMonth(first, -1)} {
		if len(d.Key()) != len(KeyLayout) {
			t.Fatalf("key %q is not YYYY-MM-DD", d.Key())
		}
		if back, err := Parse(d.Key()); err != nil || back != d {
			t.Fatalf("Parse(%q) = %v, %v", d.Key(), back, err)
		}
	}
}

func TestFromTimeClampsYear(t *testing.T) {
	if got := FromTime(time.Date(10000, time.March, 3, 0, 0, 0, 0, time.UTC)); got != MustNew(9999, time.December, 31) {
		t.Fatalf("got %v", got)
	}
	if got := FromTime(time.Date(0, time.March, 3, 0, 0, 0, 0, time.UTC)); got != MustNew(1, time.January, 1) {
		t.Fatalf("got %v", got)
	}
	end := MustNew(9999, time.December, 31)
	if got := end.AddDays(1); got != end {
		t.Fatalf("AddDays past the end = %v", got)
	}
}

func TestBuildVisibleRangeAtBounds(t *testing.T) {
	days := BuildVisibleRange(MustNew(9999, time.December, 1))
	if days[0] != MustNew(9999, time.November, 28) || days[len(days)-1] != MustNew(9999, time.December, 31) {
		t.Fatalf("December 9999 grid runs %v..%v", days[0], days[len(days)-1])
	}
	days = BuildVisibleRange(MustNew(1, time.January, 1))
	if days[0] != MustNew(1, time.January, 1) || WeekColumn(days[0]) != 1 {
		t.Fatalf("January 0001 grid starts at %v", days[0])
	}
	if days[len(days)-1].Weekday() != time.Saturday {
		t.Fatal("January 0001 grid should still end on Saturday")
	}
	for j := 1; j < len(days); j++ {
		if !days[j].After(days[j-1]) {
			t.Fatalf("repeat between %v and %v", days[j-1], days[j])
		}
	}
}
