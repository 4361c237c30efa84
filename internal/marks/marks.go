package marks

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/username/gridcal/pkg/dateutil"
	"go.uber.org/zap"
)

// maxRangeDays caps a single from..to range or multi-day event
const maxRangeDays = 366

// rangeSep separates the bounds of an inclusive date range
const rangeSep = ".."

// Source provides marked dates
type Source interface {
	Load() ([]time.Time, error)
}

// ParseList parses a comma or whitespace separated list of dates and
// inclusive "from..to" ranges
func ParseList(s string, loc *time.Location) ([]time.Time, error) {
	items := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	var dates []time.Time
	for _, item := range items {
		parsed, err := parseItem(item, loc)
		if err != nil {
			return nil, err
		}
		dates = append(dates, parsed...)
	}
	return dates, nil
}

func parseItem(item string, loc *time.Location) ([]time.Time, error) {
	from, to, isRange := strings.Cut(item, rangeSep)
	if !isRange {
		date, err := dateutil.ParseDate(item, loc)
		if err != nil {
			return nil, err
		}
		return []time.Time{date}, nil
	}

	start, err := dateutil.ParseDate(from, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid range start: %w", err)
	}
	end, err := dateutil.ParseDate(to, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid range end: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range %q ends before it starts", item)
	}
	return expand(start, end)
}

// expand returns every day from start to end inclusive
func expand(start, end time.Time) ([]time.Time, error) {
	start = dateutil.StartOfDay(start)
	end = dateutil.StartOfDay(end)

	var days []time.Time
	for i := 0; ; i++ {
		d := dateutil.Date(start.Year(), start.Month(), start.Day()+i, start.Location())
		if d.After(end) {
			break
		}
		if len(days) == maxRangeDays {
			return nil, fmt.Errorf("range %s..%s exceeds %d days",
				start.Format(dateutil.DateLayout), end.Format(dateutil.DateLayout), maxRangeDays)
		}
		days = append(days, d)
	}
	return days, nil
}

// Collect loads every source and concatenates their dates. A failing
// source aborts the whole load.
func Collect(logger *zap.Logger, sources ...Source) ([]time.Time, error) {
	var all []time.Time
	for _, src := range sources {
		dates, err := src.Load()
		if err != nil {
			return nil, err
		}
		logger.Debug("Marked dates loaded",
			zap.String("source", fmt.Sprintf("%T", src)),
			zap.Int("count", len(dates)))
		all = append(all, dates...)
	}
	return all, nil
}

// StaticSource serves a fixed list, e.g. dates given on the command line
type StaticSource []time.Time

// Load implements Source
func (s StaticSource) Load() ([]time.Time, error) {
	return s, nil
}
