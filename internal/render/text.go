package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/username/gridcal/internal/calendar"
	"github.com/username/gridcal/internal/controller"
	"github.com/username/gridcal/pkg/dateutil"
)

const cellWidth = 4

// Text draws grids as a 7-column terminal calendar. Runs of marked days
// are drawn as [ 5== 6== 7], isolated days as (10) and today as 17*.
type Text struct {
	w         io.Writer
	weekStart time.Weekday
	err       error

	title   lipgloss.Style
	header  lipgloss.Style
	day     lipgloss.Style
	filler  lipgloss.Style
	today   lipgloss.Style
	marked  lipgloss.Style
	problem lipgloss.Style
}

// TextOption configures a Text renderer
type TextOption func(*lipgloss.Renderer)

// WithColor enables or disables ANSI styling. Without it the profile is
// detected from w.
func WithColor(enabled bool) TextOption {
	return func(r *lipgloss.Renderer) {
		if !enabled {
			r.SetColorProfile(termenv.Ascii)
		}
	}
}

// WithProfile forces a color profile
func WithProfile(p termenv.Profile) TextOption {
	return func(r *lipgloss.Renderer) {
		r.SetColorProfile(p)
	}
}

// NewText creates a Text renderer whose header starts at weekStart
func NewText(w io.Writer, weekStart time.Weekday, opts ...TextOption) *Text {
	r := lipgloss.NewRenderer(w)
	for _, opt := range opts {
		opt(r)
	}

	return &Text{
		w:         w,
		weekStart: weekStart,
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			Width(7 * cellWidth).
			Align(lipgloss.Center),
		header: r.NewStyle().
			Foreground(lipgloss.Color("8")).
			Bold(true),
		day: r.NewStyle().
			Foreground(lipgloss.Color("7")),
		filler: r.NewStyle().
			Faint(true),
		today: r.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true),
		marked: r.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true),
		problem: r.NewStyle().
			Foreground(lipgloss.Color("1")),
	}
}

// Err returns the first write error, if any
func (t *Text) Err() error {
	return t.err
}

func (t *Text) print(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

// OnGridReady implements controller.Observer
func (t *Text) OnGridReady(g controller.Grid) {
	var b strings.Builder

	b.WriteString(t.title.Render(titleFor(g)))
	b.WriteString("\n")
	b.WriteString(t.headerRow())
	b.WriteString("\n")

	for i, cell := range g.Cells {
		b.WriteString(t.styleFor(cell).Render(token(cell)))
		if i%7 == 6 || i == len(g.Cells)-1 {
			b.WriteString("\n")
		}
	}

	t.print(b.String())
}

// OnError implements controller.Observer
func (t *Text) OnError(err error) {
	t.print(t.problem.Render("error: "+err.Error()) + "\n")
}

// OnCellSelected implements controller.Selector
func (t *Text) OnCellSelected(date time.Time) {
	t.print(fmt.Sprintf("selected %s\n", date.Format(dateutil.DateLayout)))
}

func titleFor(g controller.Grid) string {
	if g.Mode == controller.ModeWeek && len(g.Cells) > 0 {
		return "Week of " + g.Cells[0].Date.Format(dateutil.DateLayout)
	}
	return fmt.Sprintf("%s %d", g.Month, g.Year)
}

func (t *Text) headerRow() string {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(t.weekStart) + i) % 7)
		b.WriteString(t.header.Render(" " + wd.String()[:2] + " "))
	}
	return b.String()
}

func (t *Text) styleFor(c calendar.DayCell) lipgloss.Style {
	switch {
	case !c.InDisplayedPeriod:
		return t.filler
	case c.Role != calendar.RoleNone:
		return t.marked
	case c.IsToday:
		return t.today
	default:
		return t.day
	}
}

// token renders a cell as exactly cellWidth characters
func token(c calendar.DayCell) string {
	label := fmt.Sprintf("%2s", c.Label)
	switch c.Role {
	case calendar.RoleStart:
		return "[" + label + "="
	case calendar.RoleMiddle:
		return "=" + label + "="
	case calendar.RoleEnd:
		return "=" + label + "]"
	case calendar.RoleIsolated:
		return "(" + label + ")"
	}
	if c.IsToday {
		return " " + label + "*"
	}
	return " " + label + " "
}
