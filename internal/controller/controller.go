package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/gridcal/internal/calendar"
	"go.uber.org/zap"
)

var (
	// ErrNotMonthMode is returned by Navigate while the week view is shown
	ErrNotMonthMode = errors.New("navigation is only available in month mode")

	// ErrCellOutOfRange is returned by SelectCell for an index outside the grid
	ErrCellOutOfRange = errors.New("cell index out of range")

	// ErrNoGrid is returned by SelectCell before any grid was emitted
	ErrNoGrid = errors.New("no grid has been built yet")
)

// Mode is the displayed period
type Mode int

const (
	ModeMonth Mode = iota
	ModeWeek
)

func (m Mode) String() string {
	switch m {
	case ModeMonth:
		return "month"
	case ModeWeek:
		return "week"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "month" or "week"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "month":
		return ModeMonth, nil
	case "week":
		return ModeWeek, nil
	default:
		return ModeMonth, fmt.Errorf("mode must be 'month' or 'week', got '%s'", s)
	}
}

// State is the navigation state
type State struct {
	Reference time.Time
	Mode      Mode
}

// Grid is one emitted, fully annotated period
type Grid struct {
	Mode      Mode
	Reference time.Time
	Year      int
	Month     time.Month
	Cells     []calendar.DayCell
}

func (g Grid) clone() Grid {
	cells := make([]calendar.DayCell, len(g.Cells))
	copy(cells, g.Cells)
	g.Cells = cells
	return g
}

// Observer receives exactly one notification per rebuild
type Observer interface {
	OnGridReady(grid Grid)
	OnError(err error)
}

// Selector is told which date a tapped cell holds
type Selector interface {
	OnCellSelected(date time.Time)
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

// Controller owns the navigation state and the marked-date set and rebuilds
// the grid from scratch on every state change. It is not safe for
// concurrent use.
type Controller struct {
	cal             *calendar.Calendar
	observer        Observer
	selector        Selector
	logger          *zap.Logger
	truncateAtToday bool

	state  State
	marked map[dayKey]time.Time
	grid   *Grid
}

// Option configures a Controller
type Option func(*Controller)

// WithSelector forwards SelectCell dates to s
func WithSelector(s Selector) Option {
	return func(c *Controller) { c.selector = s }
}

// WithTruncateAtToday toggles cutting a run one day before today (default on)
func WithTruncateAtToday(enabled bool) Option {
	return func(c *Controller) { c.truncateAtToday = enabled }
}

// WithReference sets the initial reference date without emitting
func WithReference(date time.Time) Option {
	return func(c *Controller) { c.state.Reference = c.cal.Day(date) }
}

// WithMode sets the initial mode without emitting
func WithMode(mode Mode) Option {
	return func(c *Controller) { c.state.Mode = mode }
}

// WithMarkedDates sets the initial marked dates without emitting
func WithMarkedDates(dates []time.Time) Option {
	return func(c *Controller) { c.marked = toSet(dates) }
}

type nopObserver struct{}

func (nopObserver) OnGridReady(Grid) {}
func (nopObserver) OnError(error)    {}

// New creates a Controller showing the month of today
func New(cal *calendar.Calendar, observer Observer, logger *zap.Logger, opts ...Option) *Controller {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		cal:             cal,
		observer:        observer,
		logger:          logger,
		truncateAtToday: true,
		state:           State{Reference: cal.Today(), Mode: ModeMonth},
		marked:          map[dayKey]time.Time{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func toSet(dates []time.Time) map[dayKey]time.Time {
	set := make(map[dayKey]time.Time, len(dates))
	for _, d := range dates {
		set[dayKey{d.Year(), d.Month(), d.Day()}] = d
	}
	return set
}

// State returns the current navigation state
func (c *Controller) State() State {
	return c.state
}

// Grid returns a copy of the last emitted grid
func (c *Controller) Grid() (Grid, bool) {
	if c.grid == nil {
		return Grid{}, false
	}
	return c.grid.clone(), true
}

// MarkedDates returns the current marked-date set in no particular order
func (c *Controller) MarkedDates() []time.Time {
	dates := make([]time.Time, 0, len(c.marked))
	for _, d := range c.marked {
		dates = append(dates, d)
	}
	return dates
}

// SetMode switches between month and week view and rebuilds
func (c *Controller) SetMode(mode Mode) (Grid, error) {
	c.logger.Debug("Switching mode",
		zap.Stringer("from", c.state.Mode),
		zap.Stringer("to", mode))

	prev := c.state
	c.state.Mode = mode
	g, err := c.rebuild()
	if err != nil {
		c.state = prev
	}
	return g, err
}

// SetReference moves the reference date and rebuilds the current mode
func (c *Controller) SetReference(date time.Time) (Grid, error) {
	prev := c.state
	c.state.Reference = c.cal.Day(date)
	g, err := c.rebuild()
	if err != nil {
		c.state = prev
	}
	return g, err
}

// Navigate moves the reference date by delta months. Month mode only.
func (c *Controller) Navigate(delta int) (Grid, error) {
	if c.state.Mode != ModeMonth {
		c.logger.Warn("Navigation ignored outside month mode",
			zap.Stringer("mode", c.state.Mode),
			zap.Int("delta", delta))
		return Grid{}, ErrNotMonthMode
	}

	prev := c.state
	c.state.Reference = c.cal.AddMonths(c.state.Reference, delta)
	g, err := c.rebuild()
	if err != nil {
		c.state = prev
	}
	return g, err
}

// SetMarkedDates replaces the marked-date set and re-segments the
// current grid without touching reference or mode
func (c *Controller) SetMarkedDates(dates []time.Time) (Grid, error) {
	prev := c.marked
	c.marked = toSet(dates)
	c.logger.Debug("Marked dates replaced", zap.Int("count", len(c.marked)))
	g, err := c.rebuild()
	if err != nil {
		c.marked = prev
	}
	return g, err
}

// Refresh rebuilds the current view, picking up a new "today"
func (c *Controller) Refresh() (Grid, error) {
	return c.rebuild()
}

// SelectCell returns the date of the cell at index in the last grid and
// hands it to the Selector, if any
func (c *Controller) SelectCell(index int) (time.Time, error) {
	if c.grid == nil {
		return time.Time{}, ErrNoGrid
	}
	if index < 0 || index >= len(c.grid.Cells) {
		return time.Time{}, fmt.Errorf("%w: %d not in [0,%d)", ErrCellOutOfRange, index, len(c.grid.Cells))
	}

	date := c.grid.Cells[index].Date
	if c.selector != nil {
		c.selector.OnCellSelected(date)
	}
	return date, nil
}

// rebuild computes the grid for the current state and notifies the
// observer once. On failure the previous grid is kept.
func (c *Controller) rebuild() (Grid, error) {
	var (
		g   Grid
		err error
	)

	switch c.state.Mode {
	case ModeWeek:
		g = c.weekGrid()
	default:
		g, err = c.monthGrid()
	}

	if err != nil {
		c.logger.Error("Failed to build grid",
			zap.Stringer("mode", c.state.Mode),
			zap.Time("reference", c.state.Reference),
			zap.Error(err))
		c.observer.OnError(err)
		return Grid{}, err
	}

	c.grid = &g
	c.logger.Debug("Grid ready",
		zap.Stringer("mode", g.Mode),
		zap.Int("year", g.Year),
		zap.Int("month", int(g.Month)),
		zap.Int("cells", len(g.Cells)))
	c.observer.OnGridReady(g.clone())

	return g.clone(), nil
}

func (c *Controller) monthGrid() (Grid, error) {
	ref := c.state.Reference

	cells, err := c.cal.BuildMonthGrid(ref)
	if err != nil {
		return Grid{}, fmt.Errorf("failed to build month grid: %w", err)
	}

	days := calendar.MarkedDays(c.MarkedDates(), ref.Year(), ref.Month())
	cells = calendar.Segment(cells, ref.Year(), ref.Month(), days, c.segmentOptions())

	return Grid{
		Mode:      ModeMonth,
		Reference: ref,
		Year:      ref.Year(),
		Month:     ref.Month(),
		Cells:     cells,
	}, nil
}

// weekGrid segments each month present in the row separately, so a week
// spanning a month boundary highlights both halves
func (c *Controller) weekGrid() Grid {
	ref := c.state.Reference
	cells := c.cal.BuildWeekGrid(c.cal.StartOfWeek(ref))

	marked := c.MarkedDates()
	seen := make(map[dayKey]bool)
	for _, cell := range cells {
		key := dayKey{cell.Date.Year(), cell.Date.Month(), 0}
		if seen[key] {
			continue
		}
		seen[key] = true

		days := calendar.MarkedDays(marked, key.year, key.month)
		cells = calendar.Segment(cells, key.year, key.month, days, c.segmentOptions())
	}

	return Grid{
		Mode:      ModeWeek,
		Reference: ref,
		Year:      ref.Year(),
		Month:     ref.Month(),
		Cells:     cells,
	}
}

func (c *Controller) segmentOptions() calendar.SegmentOptions {
	if !c.truncateAtToday {
		return calendar.SegmentOptions{}
	}
	return calendar.SegmentOptions{TodayDay: c.cal.Today().Day()}
}
