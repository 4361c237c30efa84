package calendar

import (
	"strconv"
	"time"

	"github.com/username/gridcal/pkg/dateutil"
)

// GenerateDay builds the cell dayOffset days away from baseDate. The cell
// date is the start of that day in the calendar location.
func (c *Calendar) GenerateDay(dayOffset int, baseDate time.Time, inDisplayedPeriod bool) DayCell {
	date := c.Day(c.AddDays(baseDate, dayOffset))
	return DayCell{
		Date:              date,
		Label:             strconv.Itoa(date.Day()),
		IsToday:           dateutil.IsSameDay(date, c.now().In(date.Location())),
		InDisplayedPeriod: inDisplayedPeriod,
	}
}
