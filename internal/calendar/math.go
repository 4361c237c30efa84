package calendar

import (
	"time"

	"github.com/username/gridcal/pkg/dateutil"
)

const (
	minYear = 1
	maxYear = 9999

	// maxDaySpan bounds AddDays so time.Date never sees an overflowing day count
	maxDaySpan = 366 * (maxYear - minYear + 1)
)

// Calendar implements proleptic Gregorian arithmetic for a fixed week start,
// location and clock. The zero value is not usable; construct with New.
type Calendar struct {
	weekStart time.Weekday
	loc       *time.Location
	now       func() time.Time
}

// Option configures a Calendar
type Option func(*Calendar)

// WithWeekStart sets the weekday that gets index 1 (default Sunday)
func WithWeekStart(d time.Weekday) Option {
	return func(c *Calendar) {
		if d >= time.Sunday && d <= time.Saturday {
			c.weekStart = d
		}
	}
}

// WithLocation sets the location dates are built in (default time.Local)
func WithLocation(loc *time.Location) Option {
	return func(c *Calendar) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock sets the wall clock used for "today" (default time.Now)
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Calendar
func New(opts ...Option) *Calendar {
	c := &Calendar{
		weekStart: time.Sunday,
		loc:       time.Local,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WeekStart returns the configured first day of the week
func (c *Calendar) WeekStart() time.Weekday {
	return c.weekStart
}

// Location returns the location dates are built in
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today returns the start of the clock's current calendar day
func (c *Calendar) Today() time.Time {
	return c.Day(c.now().In(c.loc))
}

// Day keeps the calendar day of date and rebuilds it at the start of that
// day in the calendar location
func (c *Calendar) Day(date time.Time) time.Time {
	return dateutil.Date(date.Year(), date.Month(), date.Day(), c.loc)
}

func inRange(year int) bool {
	return year >= minYear && year <= maxYear
}

// DaysInMonth returns the number of days in the month containing date
func (c *Calendar) DaysInMonth(date time.Time) (int, error) {
	if !inRange(date.Year()) {
		return 0, &ComputationError{Op: "days in month", Date: date, Reason: "year outside supported range"}
	}
	return time.Date(date.Year(), date.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day(), nil
}

// FirstOfMonth returns the start of day 1 of date's month
func (c *Calendar) FirstOfMonth(date time.Time) time.Time {
	return dateutil.Date(date.Year(), date.Month(), 1, c.loc)
}

// WeekdayIndex returns 1..7, where 1 is the configured week start
func (c *Calendar) WeekdayIndex(date time.Time) int {
	return (int(date.Weekday())-int(c.weekStart)+7)%7 + 1
}

// AddDays adds n calendar days, keeping the wall clock time of date when
// the target day has it. A result outside the supported range yields date
// unchanged.
func (c *Calendar) AddDays(date time.Time, n int) time.Time {
	if n > maxDaySpan || n < -maxDaySpan {
		return date
	}
	// count days on the civil date so daylight saving shifts cannot
	// land on the wrong day
	civil := time.Date(date.Year(), date.Month(), date.Day()+n, 0, 0, 0, 0, time.UTC)
	if !inRange(civil.Year()) {
		return date
	}
	out := time.Date(civil.Year(), civil.Month(), civil.Day(),
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
	if !dateutil.IsSameDay(out, civil) {
		return dateutil.Date(civil.Year(), civil.Month(), civil.Day(), date.Location())
	}
	return out
}

// AddMonths moves date by n months, clamping the day to the target
// month's length. The result is at the start of the day. Out of range
// yields date.
func (c *Calendar) AddMonths(date time.Time, n int) time.Time {
	first := time.Date(date.Year(), date.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if !inRange(first.Year()) {
		return date
	}
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := date.Day()
	if day > last {
		day = last
	}
	return dateutil.Date(first.Year(), first.Month(), day, c.loc)
}

// StartOfWeek returns the first day of the week containing date
func (c *Calendar) StartOfWeek(date time.Time) time.Time {
	return dateutil.StartOfWeek(c.Day(date), c.weekStart)
}

// Month returns the descriptor of the month containing date
func (c *Calendar) Month(date time.Time) (MonthInfo, error) {
	days, err := c.DaysInMonth(date)
	if err != nil {
		return MonthInfo{}, err
	}

	first := c.FirstOfMonth(date)
	return MonthInfo{
		Year:              first.Year(),
		Month:             first.Month(),
		DaysInMonth:       days,
		FirstDay:          first,
		FirstWeekdayIndex: c.WeekdayIndex(first),
	}, nil
}

// WeeksSpanningMonth returns the number of grid rows the month needs
func (c *Calendar) WeeksSpanningMonth(date time.Time) (int, error) {
	info, err := c.Month(date)
	if err != nil {
		return 0, err
	}
	return (info.FirstWeekdayIndex - 1 + info.DaysInMonth + 6) / 7, nil
}
