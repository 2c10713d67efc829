// Package streak turns a start instant into the elapsed durations and
// milestone messages shown by the home views.
package streak

import (
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Elapsed is a calendar duration. The zero value means "not started".
type Elapsed struct {
	Started bool
	Years   int
	Months  int
	Days    int
}

// Decompose splits the time from start to now into whole years, whole
// calendar months and remaining whole days, using now's location for the
// calendar. A start after now yields a started, zero-length duration.
func Decompose(start, now time.Time) Elapsed {
	start = start.In(now.Location())
	if !now.After(start) {
		return Elapsed{Started: true}
	}

	months := (now.Year()-start.Year())*12 + int(now.Month()-start.Month())
	anchor := addMonthsClamped(start, months)
	for months > 0 && anchor.After(now) {
		months--
		anchor = addMonthsClamped(start, months)
	}

	return Elapsed{
		Started: true,
		Years:   months / 12,
		Months:  months % 12,
		Days:    wallDays(anchor, now),
	}
}

// Since is Decompose for an optional start. A nil or zero start is "not started".
func Since(start *time.Time, now time.Time) Elapsed {
	if start == nil || start.IsZero() {
		return Elapsed{}
	}
	return Decompose(*start, now)
}

// DaysSince counts whole 24-hour periods from start to now, never negative.
func DaysSince(start, now time.Time) int {
	if !now.After(start) {
		return 0
	}
	return int(now.Sub(start) / day)
}

// addMonthsClamped moves t by n calendar months, clamping the day of month
// to the last day of the target month (Jan 31 + 1 month = Feb 28 or 29).
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// wallDays counts whole days between two instants by their wall clocks, so
// a DST shift in between does not lose or gain a day.
func wallDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), to.Hour(), to.Minute(), to.Second(), to.Nanosecond(), time.UTC)
	if !b.After(a) {
		return 0
	}
	return int(b.Sub(a) / day)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// String renders e as e.g. "1 year, 2 months, 3 days".
func (e Elapsed) String() string {
	if !e.Started {
		return "Not started"
	}
	var parts []string
	if e.Years > 0 {
		parts = append(parts, plural(e.Years, "year"))
	}
	if e.Months > 0 {
		parts = append(parts, plural(e.Months, "month"))
	}
	if e.Days > 0 || len(parts) == 0 {
		parts = append(parts, plural(e.Days, "day"))
	}
	return strings.Join(parts, ", ")
}

// SobrietyMessage is the encouragement shown under the sobriety counter.
func SobrietyMessage(days int) string {
	switch {
	case days <= 0:
		return "Your journey begins today"
	case days == 1:
		return "One day at a time"
	case days < 7:
		return "Each day is a victory"
	case days < 30:
		return "Building a strong foundation"
	case days < 90:
		return "Momentum is growing"
	case days < 365:
		return "Remarkable progress"
	}
	return "Living in freedom"
}

// InnerStreakMessage is shown under the days-since-inner counter.
func InnerStreakMessage(days int) string {
	switch {
	case days <= 0:
		return "Just started"
	case days == 1:
		return "Keep it up!"
	case days < 7:
		return "Building momentum"
	case days < 30:
		return "Strong progress"
	}
	return "Incredible work!"
}
