package calendar

import "time"

// BuildMonthGrid returns the cells of the month containing referenceDate,
// preceded by filler days of the previous month and followed by filler
// days of the next month so that the length is a multiple of 7.
func (c *Calendar) BuildMonthGrid(referenceDate time.Time) ([]DayCell, error) {
	info, err := c.Month(referenceDate)
	if err != nil {
		return nil, err
	}

	total := info.DaysInMonth + info.FirstWeekdayIndex - 1
	cells := make([]DayCell, 0, (total+6)/7*7)

	for i := 1; i <= total; i++ {
		if i < info.FirstWeekdayIndex {
			cells = append(cells, c.GenerateDay(-(info.FirstWeekdayIndex-i), info.FirstDay, false))
			continue
		}
		cells = append(cells, c.GenerateDay(i-info.FirstWeekdayIndex, info.FirstDay, true))
	}

	return append(cells, c.startOfNextMonth(info)...), nil
}

// startOfNextMonth fills the last row after the month's final day
func (c *Calendar) startOfNextMonth(info MonthInfo) []DayCell {
	lastDay := c.AddDays(info.FirstDay, info.DaysInMonth-1)

	additional := 7 - c.WeekdayIndex(lastDay)
	if additional <= 0 {
		return nil
	}

	days := make([]DayCell, 0, additional)
	for i := 1; i <= additional; i++ {
		days = append(days, c.GenerateDay(i, lastDay, false))
	}
	return days
}

// BuildWeekGrid returns the 7 cells of the week containing firstDayOfWeek.
// Every cell is in the displayed period regardless of its month.
func (c *Calendar) BuildWeekGrid(firstDayOfWeek time.Time) []DayCell {
	anchor := c.Day(firstDayOfWeek)
	anchorIndex := c.WeekdayIndex(anchor)

	cells := make([]DayCell, 0, 7)
	for i := 1; i <= 7; i++ {
		cells = append(cells, c.GenerateDay(i-anchorIndex, anchor, true))
	}
	return cells
}
