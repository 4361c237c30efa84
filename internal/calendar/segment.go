package calendar

import (
	"sort"
	"time"
)

// SegmentOptions tunes Segment
type SegmentOptions struct {
	// TodayDay is today's day of month. A run whose next marked day equals
	// it is cut with RoleEnd one cell early. Zero disables the rule.
	// TODO: decide whether this should compare full dates instead of the
	// bare day number once the product intent of the rule is settled.
	TodayDay int
}

// MarkedDays returns the sorted, distinct day numbers of dates that fall
// in the given year and month
func MarkedDays(dates []time.Time, year int, month time.Month) []int {
	seen := make(map[int]struct{})
	for _, d := range dates {
		if d.Year() == year && d.Month() == month {
			seen[d.Day()] = struct{}{}
		}
	}

	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// Segment returns a copy of cells with the marked days of (year, month)
// selected and assigned their run role. markedDays must be ascending and
// free of duplicates; MarkedDays produces such a list.
//
// The pass walks markedDays once. The cell cursor only moves forward, so
// filler cells of adjacent months that share a day number are never hit.
// Marked days with no cell in the grid still advance the run state.
func Segment(cells []DayCell, year int, month time.Month, markedDays []int, opts SegmentOptions) []DayCell {
	out := make([]DayCell, len(cells))
	copy(out, cells)

	cursor := 0
	insideRun := false

	for k, day := range markedDays {
		idx := -1
		for i := cursor; i < len(out); i++ {
			d := out[i].Date
			if d.Year() == year && d.Month() == month && d.Day() == day {
				idx = i
				break
			}
		}

		contiguous := k+1 < len(markedDays) && markedDays[k+1] == day+1

		var role SegmentRole
		switch {
		case !contiguous && insideRun:
			role = RoleEnd
			insideRun = false
		case !contiguous:
			role = RoleIsolated
		case !insideRun:
			role = RoleStart
			insideRun = true
		default:
			role = RoleMiddle
			if opts.TodayDay != 0 && markedDays[k+1] == opts.TodayDay {
				role = RoleEnd
			}
		}

		if idx < 0 {
			continue
		}
		out[idx].Selected = true
		out[idx].Role = role
		cursor = idx + 1
	}

	return out
}
