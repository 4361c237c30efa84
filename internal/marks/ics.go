package marks

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/username/gridcal/pkg/dateutil"
	"go.uber.org/zap"
)

const icsDateLayout = "20060102"

// ICSSource marks every day covered by a VEVENT in an iCalendar file
type ICSSource struct {
	filePath string
	loc      *time.Location
	logger   *zap.Logger
}

// NewICSSource creates a new ICSSource instance
func NewICSSource(filePath string, loc *time.Location, logger *zap.Logger) *ICSSource {
	return &ICSSource{
		filePath: filePath,
		loc:      loc,
		logger:   logger,
	}
}

// Load implements Source
func (s *ICSSource) Load() ([]time.Time, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ics file: %w", err)
	}
	defer file.Close()

	return ParseICS(file, s.loc, s.logger)
}

// ParseICS returns the days covered by the events in r. All-day events
// use an exclusive DTEND; timed events mark every day they touch.
// Events that cannot be read are logged and skipped.
func ParseICS(r io.Reader, loc *time.Location, logger *zap.Logger) ([]time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ics: %w", err)
	}

	var dates []time.Time
	for _, ev := range cal.Events() {
		days, err := eventDays(ev, loc)
		if err != nil {
			logger.Warn("Skipping event",
				zap.String("uid", ev.Id()),
				zap.Error(err))
			continue
		}
		dates = append(dates, days...)
	}

	logger.Debug("ICS parsed",
		zap.Int("events", len(cal.Events())),
		zap.Int("dates", len(dates)))

	return dates, nil
}

func eventDays(ev *ical.VEvent, loc *time.Location) ([]time.Time, error) {
	startProp := ev.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return nil, errors.New("missing DTSTART")
	}

	if isAllDay(startProp) {
		start, err := time.Parse(icsDateLayout, strings.TrimSpace(startProp.Value))
		if err != nil {
			return nil, fmt.Errorf("invalid DTSTART: %w", err)
		}

		end := start
		if endProp := ev.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
			exclusive, err := time.Parse(icsDateLayout, strings.TrimSpace(endProp.Value))
			if err != nil {
				return nil, fmt.Errorf("invalid DTEND: %w", err)
			}
			if exclusive.After(start) {
				end = exclusive.AddDate(0, 0, -1)
			}
		}
		return expand(inLocation(start, loc), inLocation(end, loc))
	}

	start, err := ev.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("invalid DTSTART: %w", err)
	}
	start = start.In(loc)

	end := start
	if ev.GetProperty(ical.ComponentPropertyDtEnd) != nil {
		e, err := ev.GetEndAt()
		if err != nil {
			return nil, fmt.Errorf("invalid DTEND: %w", err)
		}
		if e.After(start) {
			// an event ending exactly at midnight does not touch that day
			end = e.In(loc).Add(-time.Nanosecond)
		}
	}
	return expand(start, end)
}

// inLocation moves the calendar day of a floating date into loc
func inLocation(day time.Time, loc *time.Location) time.Time {
	return dateutil.Date(day.Year(), day.Month(), day.Day(), loc)
}

// isAllDay reports VALUE=DATE or a value without a time part
func isAllDay(prop *ical.IANAProperty) bool {
	if vs, ok := prop.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}
