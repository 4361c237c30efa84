package calendar

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
	"time"
)

func TestBuildMonthGrid_Invariants(t *testing.T) {
	for _, weekStart := range []time.Weekday{time.Sunday, time.Monday, time.Saturday} {
		cal := newTestCalendar(weekStart, date(2026, 10, 17))

		for ref := date(2023, 1, 15); ref.Before(date(2029, 1, 1)); ref = ref.AddDate(0, 1, 0) {
			cells, err := cal.BuildMonthGrid(ref)
			if err != nil {
				t.Fatalf("BuildMonthGrid(%v) error = %v", ref, err)
			}

			if len(cells)%7 != 0 {
				t.Errorf("BuildMonthGrid(%v, %v) len = %d, not a multiple of 7", ref.Format("2006-01"), weekStart, len(cells))
			}
			if cells[0].Date.Weekday() != weekStart {
				t.Errorf("BuildMonthGrid(%v, %v) first cell weekday = %v", ref.Format("2006-01"), weekStart, cells[0].Date.Weekday())
			}

			days, _ := cal.DaysInMonth(ref)
			var inPeriod []DayCell
			for i, cell := range cells {
				if i > 0 && !cell.Date.Equal(cells[i-1].Date.AddDate(0, 0, 1)) {
					t.Errorf("BuildMonthGrid(%v) cell %d = %v is not consecutive", ref.Format("2006-01"), i, cell.Date)
				}
				if cell.InDisplayedPeriod {
					inPeriod = append(inPeriod, cell)
					if cell.Date.Month() != ref.Month() {
						t.Errorf("in-period cell %v outside %v", cell.Date, ref.Month())
					}
				} else if cell.Date.Month() == ref.Month() {
					t.Errorf("filler cell %v inside %v", cell.Date, ref.Month())
				}
			}

			if len(inPeriod) != days {
				t.Errorf("BuildMonthGrid(%v) in-period cells = %d, want %d", ref.Format("2006-01"), len(inPeriod), days)
			}
			if inPeriod[0].Date.Day() != 1 || inPeriod[len(inPeriod)-1].Date.Day() != days {
				t.Errorf("BuildMonthGrid(%v) in-period range = %v..%v", ref.Format("2006-01"), inPeriod[0].Date, inPeriod[len(inPeriod)-1].Date)
			}
		}
	}
}

func TestBuildMonthGrid_Layout(t *testing.T) {
	tests := []struct {
		name      string
		weekStart time.Weekday
		ref       time.Time
		wantLen   int
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "October 2026 Sunday start ends on week boundary",
			weekStart: time.Sunday,
			ref:       date(2026, 10, 17),
			wantLen:   35,
			wantFirst: date(2026, 9, 27),
			wantLast:  date(2026, 10, 31),
		},
		{
			name:      "October 2026 Monday start has one trailing day",
			weekStart: time.Monday,
			ref:       date(2026, 10, 17),
			wantLen:   35,
			wantFirst: date(2026, 9, 28),
			wantLast:  date(2026, 11, 1),
		},
		{
			name:      "February 2026 fits four rows exactly",
			weekStart: time.Sunday,
			ref:       date(2026, 2, 14),
			wantLen:   28,
			wantFirst: date(2026, 2, 1),
			wantLast:  date(2026, 2, 28),
		},
		{
			name:      "August 2026 needs six rows",
			weekStart: time.Sunday,
			ref:       date(2026, 8, 1),
			wantLen:   42,
			wantFirst: date(2026, 7, 26),
			wantLast:  date(2026, 9, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := newTestCalendar(tt.weekStart, date(2026, 10, 17))
			cells, err := cal.BuildMonthGrid(tt.ref)
			if err != nil {
				t.Fatalf("BuildMonthGrid() error = %v", err)
			}

			if len(cells) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(cells), tt.wantLen)
			}
			if got := cells[0].Date; !got.Equal(tt.wantFirst) {
				t.Errorf("first cell = %v, want %v", got.Format("2006-01-02"), tt.wantFirst.Format("2006-01-02"))
			}
			if got := cells[len(cells)-1].Date; !got.Equal(tt.wantLast) {
				t.Errorf("last cell = %v, want %v", got.Format("2006-01-02"), tt.wantLast.Format("2006-01-02"))
			}
			rows, _ := cal.WeeksSpanningMonth(tt.ref)
			if rows*7 != len(cells) {
				t.Errorf("WeeksSpanningMonth = %d rows, grid has %d cells", rows, len(cells))
			}
		})
	}
}

func TestBuildMonthGrid_Labels(t *testing.T) {
	cal := newTestCalendar(time.Sunday, date(2026, 10, 17))
	cells, err := cal.BuildMonthGrid(date(2026, 10, 1))
	if err != nil {
		t.Fatalf("BuildMonthGrid() error = %v", err)
	}

	wantLabels := []string{"27", "28", "29", "30", "1", "2", "3"}
	for i, want := range wantLabels {
		if cells[i].Label != want {
			t.Errorf("cells[%d].Label = %q, want %q", i, cells[i].Label, want)
		}
		if cells[i].Role != RoleNone || cells[i].Selected {
			t.Errorf("cells[%d] role = %v selected = %v, want none/false", i, cells[i].Role, cells[i].Selected)
		}
	}
}

func TestBuildMonthGrid_Today(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		ref       time.Time
		wantCount int
		wantDate  time.Time
	}{
		{
			name:      "Today inside month",
			now:       time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
			ref:       date(2026, 10, 1),
			wantCount: 1,
			wantDate:  date(2026, 10, 17),
		},
		{
			name:      "Today in leading filler",
			now:       time.Date(2026, 9, 28, 8, 0, 0, 0, time.UTC),
			ref:       date(2026, 10, 1),
			wantCount: 1,
			wantDate:  date(2026, 9, 28),
		},
		{
			name:      "Today outside grid",
			now:       time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
			ref:       date(2026, 10, 1),
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := newTestCalendar(time.Sunday, tt.now)
			cells, err := cal.BuildMonthGrid(tt.ref)
			if err != nil {
				t.Fatalf("BuildMonthGrid() error = %v", err)
			}

			count := 0
			for _, cell := range cells {
				if cell.IsToday {
					count++
					if !cell.Date.Equal(tt.wantDate) {
						t.Errorf("today cell = %v, want %v", cell.Date, tt.wantDate)
					}
				}
			}
			if count != tt.wantCount {
				t.Errorf("today cells = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func loadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	return loc
}

// Havana moves clocks from 00:00 to 01:00 on Sunday 2026-03-08
func TestBuildMonthGrid_MidnightSkipped(t *testing.T) {
	loc := loadLocation(t, "America/Havana")
	cal := New(
		WithWeekStart(time.Sunday),
		WithLocation(loc),
		WithClock(fixedClock(time.Date(2026, 3, 8, 12, 0, 0, 0, loc))),
	)

	cells, err := cal.BuildMonthGrid(time.Date(2026, 3, 15, 0, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("BuildMonthGrid() error = %v", err)
	}

	var inPeriod []DayCell
	todays := 0
	for _, cell := range cells {
		if cell.IsToday {
			todays++
			if cell.Date.Day() != 8 {
				t.Errorf("today cell = %v, want 2026-03-08", cell.Date)
			}
		}
		if cell.InDisplayedPeriod {
			inPeriod = append(inPeriod, cell)
		}
	}
	if todays != 1 {
		t.Errorf("today cells = %d, want 1", todays)
	}
	if len(inPeriod) != 31 {
		t.Fatalf("in-period cells = %d, want 31", len(inPeriod))
	}
	for i, cell := range inPeriod {
		if cell.Date.Month() != time.March || cell.Date.Day() != i+1 {
			t.Errorf("inPeriod[%d].Date = %v, want March %d", i, cell.Date, i+1)
		}
		if want := strconv.Itoa(i + 1); cell.Label != want {
			t.Errorf("inPeriod[%d].Label = %q, want %q", i, cell.Label, want)
		}
		if i > 0 && !cell.Date.After(inPeriod[i-1].Date) {
			t.Errorf("inPeriod[%d].Date = %v, not after %v", i, cell.Date, inPeriod[i-1].Date)
		}
	}

	segmented := Segment(cells, 2026, time.March, []int{7, 8, 9}, SegmentOptions{})
	want := map[int]SegmentRole{7: RoleStart, 8: RoleMiddle, 9: RoleEnd}
	if got := rolesByDay(segmented, time.March); !reflect.DeepEqual(got, want) {
		t.Errorf("Segment() roles = %v, want %v", got, want)
	}
}

func TestBuildMonthGrid_ConsecutiveAcrossZones(t *testing.T) {
	zones := []string{"America/Havana", "America/Asuncion", "America/Santiago", "America/Sao_Paulo"}

	for _, name := range zones {
		t.Run(name, func(t *testing.T) {
			loc := loadLocation(t, name)
			cal := New(WithWeekStart(time.Monday), WithLocation(loc),
				WithClock(fixedClock(time.Date(2026, 10, 17, 12, 0, 0, 0, loc))))

			for _, year := range []int{1998, 1999, 2024, 2025, 2026, 2027} {
				for month := time.January; month <= time.December; month++ {
					ref := date(year, month, 1)
					cells, err := cal.BuildMonthGrid(ref)
					if err != nil {
						t.Fatalf("BuildMonthGrid(%v) error = %v", ref.Format("2006-01"), err)
					}
					for i := 1; i < len(cells); i++ {
						prev := cells[i-1].Date
						next := time.Date(prev.Year(), prev.Month(), prev.Day()+1, 0, 0, 0, 0, time.UTC)
						got := cells[i].Date
						if got.Year() != next.Year() || got.Month() != next.Month() || got.Day() != next.Day() {
							t.Errorf("BuildMonthGrid(%v) cell %d = %v, want %v",
								ref.Format("2006-01"), i, got.Format("2006-01-02"), next.Format("2006-01-02"))
						}
					}
				}
			}
		})
	}
}

func TestBuildMonthGrid_Error(t *testing.T) {
	cal := newTestCalendar(time.Sunday, date(2026, 10, 17))

	cells, err := cal.BuildMonthGrid(date(10000, 3, 1))
	if !errors.Is(err, ErrCalendarComputation) {
		t.Fatalf("BuildMonthGrid(10000-03) error = %v, want ErrCalendarComputation", err)
	}
	if cells != nil {
		t.Errorf("BuildMonthGrid(10000-03) cells = %d, want nil", len(cells))
	}
}

func TestBuildWeekGrid(t *testing.T) {
	tests := []struct {
		name      string
		weekStart time.Weekday
		anchor    time.Time
		wantFirst time.Time
	}{
		{"Monday anchor", time.Monday, date(2026, 10, 26), date(2026, 10, 26)},
		{"Mid-week anchor snaps to week start", time.Monday, date(2026, 10, 29), date(2026, 10, 26)},
		{"Sunday start", time.Sunday, date(2026, 10, 11), date(2026, 10, 11)},
		{"Crosses year", time.Sunday, date(2026, 12, 31), date(2026, 12, 27)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := newTestCalendar(tt.weekStart, date(2026, 10, 17))
			cells := cal.BuildWeekGrid(tt.anchor)

			if len(cells) != 7 {
				t.Fatalf("BuildWeekGrid() len = %d, want 7", len(cells))
			}
			if !cells[0].Date.Equal(tt.wantFirst) {
				t.Errorf("first cell = %v, want %v", cells[0].Date.Format("2006-01-02"), tt.wantFirst.Format("2006-01-02"))
			}
			for i, cell := range cells {
				if !cell.InDisplayedPeriod {
					t.Errorf("cells[%d] InDisplayedPeriod = false, want true", i)
				}
				if want := tt.wantFirst.AddDate(0, 0, i); !cell.Date.Equal(want) {
					t.Errorf("cells[%d] = %v, want %v", i, cell.Date.Format("2006-01-02"), want.Format("2006-01-02"))
				}
			}
		})
	}
}

func TestGenerateDay(t *testing.T) {
	cal := newTestCalendar(time.Sunday, time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC))

	cell := cal.GenerateDay(-17, date(2026, 10, 17), false)
	if !cell.Date.Equal(date(2026, 9, 30)) {
		t.Errorf("Date = %v, want 2026-09-30", cell.Date)
	}
	if cell.Label != "30" {
		t.Errorf("Label = %q, want %q", cell.Label, "30")
	}
	if cell.IsToday || cell.InDisplayedPeriod {
		t.Errorf("IsToday = %v InDisplayedPeriod = %v, want false/false", cell.IsToday, cell.InDisplayedPeriod)
	}

	today := cal.GenerateDay(0, date(2026, 10, 17), true)
	if !today.IsToday {
		t.Error("GenerateDay(0, today) IsToday = false, want true")
	}
}
