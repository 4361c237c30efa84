// Package render turns controller grids into terminal or machine output.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/username/gridcal/internal/calendar"
	"github.com/username/gridcal/internal/controller"
	"github.com/username/gridcal/pkg/dateutil"
)

// Renderer is an observer that also reports selected cells
type Renderer interface {
	controller.Observer
	controller.Selector
}

// Formats lists the accepted output formats
var Formats = []string{"text", "json", "yaml"}

// New returns the renderer for format writing to w. color only affects
// the text format.
func New(format string, w io.Writer, weekStart time.Weekday, color bool) (Renderer, error) {
	switch format {
	case "text", "":
		return NewText(w, weekStart, WithColor(color)), nil
	case "json":
		return NewJSON(w), nil
	case "yaml":
		return NewYAML(w), nil
	default:
		return nil, fmt.Errorf("unknown format '%s' (want one of %v)", format, Formats)
	}
}

// gridDoc is the serialized shape of a grid
type gridDoc struct {
	Mode      string    `json:"mode" yaml:"mode"`
	Reference string    `json:"reference" yaml:"reference"`
	Year      int       `json:"year" yaml:"year"`
	Month     int       `json:"month" yaml:"month"`
	Cells     []cellDoc `json:"cells" yaml:"cells"`
}

type cellDoc struct {
	Date     string `json:"date" yaml:"date"`
	Label    string `json:"label" yaml:"label"`
	Today    bool   `json:"today,omitempty" yaml:"today,omitempty"`
	InPeriod bool   `json:"in_period" yaml:"in_period"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
	Role     string `json:"role,omitempty" yaml:"role,omitempty"`
}

type errorDoc struct {
	Error string `json:"error" yaml:"error"`
}

type selectionDoc struct {
	Selected string `json:"selected" yaml:"selected"`
}

func toDoc(g controller.Grid) gridDoc {
	doc := gridDoc{
		Mode:      g.Mode.String(),
		Reference: g.Reference.Format(dateutil.DateLayout),
		Year:      g.Year,
		Month:     int(g.Month),
		Cells:     make([]cellDoc, 0, len(g.Cells)),
	}
	for _, c := range g.Cells {
		cd := cellDoc{
			Date:     c.Date.Format(dateutil.DateLayout),
			Label:    c.Label,
			Today:    c.IsToday,
			InPeriod: c.InDisplayedPeriod,
			Selected: c.Selected,
		}
		if c.Role != calendar.RoleNone {
			cd.Role = c.Role.String()
		}
		doc.Cells = append(doc.Cells, cd)
	}
	return doc
}
