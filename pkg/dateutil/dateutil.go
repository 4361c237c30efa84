package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical date format used across flags, files and output
const DateLayout = "2006-01-02"

// Date returns the first instant of the calendar day year-month-day in loc.
// Out of range values normalize like time.Date. In zones where a daylight
// saving shift skips midnight the day starts at the end of the gap.
func Date(year int, month time.Month, day int, loc *time.Location) time.Time {
	civil := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	t := time.Date(civil.Year(), civil.Month(), civil.Day(), 0, 0, 0, 0, loc)
	if !IsSameDay(t, civil) {
		// midnight fell into a gap and resolved to the previous evening
		if _, end := t.ZoneBounds(); !end.IsZero() {
			t = end
		}
	}
	return t
}

// StartOfDay returns the start of the day for the given date, which is
// 00:00:00 unless midnight does not exist in the date's location
func StartOfDay(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), date.Day(), date.Location())
}

// StartOfWeek returns the first day of the week containing date,
// for a week that begins on weekStart
func StartOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	back := (int(date.Weekday()) - int(weekStart) + 7) % 7
	return Date(date.Year(), date.Month(), date.Day()-back, date.Location())
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// ParseDate parses date string in various formats, in the given location
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	formats := []string{
		DateLayout,
		"02.01.2006",
		"2006/01/02",
	}

	dateStr = strings.TrimSpace(dateStr)
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return Date(t.Year(), t.Month(), t.Day(), loc), nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", dateStr, loc); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// ParseWeekday parses an English weekday name ("monday", "Mon", "sun")
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if s == name || s == name[:3] {
				return d, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
