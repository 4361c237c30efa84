package calendar

import (
	"fmt"
	"time"
)

// SegmentRole is the position of a marked day within its run
type SegmentRole int

const (
	RoleNone SegmentRole = iota
	RoleStart
	RoleMiddle
	RoleEnd
	RoleIsolated
)

var roleNames = [...]string{"none", "start", "middle", "end", "isolated"}

func (r SegmentRole) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("SegmentRole(%d)", int(r))
	}
	return roleNames[r]
}

// MarshalText implements encoding.TextMarshaler
func (r SegmentRole) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(roleNames) {
		return nil, fmt.Errorf("invalid segment role %d", int(r))
	}
	return []byte(roleNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *SegmentRole) UnmarshalText(b []byte) error {
	for i, name := range roleNames {
		if name == string(b) {
			*r = SegmentRole(i)
			return nil
		}
	}
	return fmt.Errorf("unknown segment role %q", string(b))
}

// DayCell is one cell of a month or week grid
type DayCell struct {
	Date              time.Time
	Label             string // numeric day of month, never localized
	IsToday           bool
	InDisplayedPeriod bool // false only for leading/trailing filler days
	Selected          bool // set on marked days by Segment
	Role              SegmentRole
}

// MonthInfo describes the month containing a reference date
type MonthInfo struct {
	Year              int
	Month             time.Month
	DaysInMonth       int
	FirstDay          time.Time // day 1, midnight
	FirstWeekdayIndex int       // 1..7 relative to the week start
}
