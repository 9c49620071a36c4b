package core

import (
	"fmt"
	"time"
)

// DayLayout is the canonical textual form of a calendar day.
const DayLayout = "2006-01-02"

// Day is a local calendar day with no time-of-day or zone component.
//
// Arithmetic is done on the proleptic Gregorian calendar. time.UTC is only
// used as an offset-free calendar when stepping days; no instant is ever
// converted between zones, so a Day never drifts by one.
type Day struct {
	year  int
	month time.Month
	day   int
}

var unixEpochDay = Day{year: 1970, month: time.January, day: 1}

// NewDay builds a Day and reports whether the components name a real date.
func NewDay(year int, month time.Month, day int) (Day, bool) {
	if year < 1 || year > 9999 || month < time.January || month > time.December || day < 1 {
		return Day{}, false
	}
	if day > DaysIn(year, month) {
		return Day{}, false
	}
	return Day{year: year, month: month, day: day}, true
}

// DayOf returns the calendar day of t as seen in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// Today returns the current calendar day in loc.
func Today(loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return DayOf(time.Now().In(loc))
}

// UnixDay returns the day n days after 1970-01-01.
func UnixDay(n int) Day {
	return unixEpochDay.AddDays(n)
}

// ParseDay parses a canonical YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return DayOf(t), nil
}

// IsCanonicalDay reports whether s is a well-formed YYYY-MM-DD day string.
func IsCanonicalDay(s string) bool {
	if len(s) != len(DayLayout) {
		return false
	}
	_, err := ParseDay(s)
	return err == nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Day) civil() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// AddDays steps the day forward (or backward for negative n).
func (d Day) AddDays(n int) Day {
	return DayOf(d.civil().AddDate(0, 0, n))
}

// Year returns the year component
func (d Day) Year() int { return d.year }

// Month returns the month component
func (d Day) Month() time.Month { return d.month }

// DayOfMonth returns the day-of-month component
func (d Day) DayOfMonth() int { return d.day }

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.civil().Weekday()
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.year == 0
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.civil().Before(other.civil())
}

// In returns midnight of d in loc.
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// String returns the canonical YYYY-MM-DD form. This is the only day-key
// function in the codebase; every bucket and stored date goes through it.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}
