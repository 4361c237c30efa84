package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/username/gridcal/internal/controller"
	"github.com/username/gridcal/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// encodeFunc writes one document
type encodeFunc func(w io.Writer, v any) error

// Structured writes each notification as one JSON or YAML document
type Structured struct {
	w      io.Writer
	encode encodeFunc
	err    error
}

// NewJSON creates a renderer emitting indented JSON
func NewJSON(w io.Writer) *Structured {
	return &Structured{w: w, encode: func(w io.Writer, v any) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}}
}

// NewYAML creates a renderer emitting YAML documents separated by "---"
func NewYAML(w io.Writer) *Structured {
	first := true
	return &Structured{w: w, encode: func(w io.Writer, v any) error {
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		if !first {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		first = false
		_, err = w.Write(out)
		return err
	}}
}

// Err returns the first write error, if any
func (s *Structured) Err() error {
	return s.err
}

func (s *Structured) write(v any) {
	if s.err != nil {
		return
	}
	s.err = s.encode(s.w, v)
}

// OnGridReady implements controller.Observer
func (s *Structured) OnGridReady(g controller.Grid) {
	s.write(toDoc(g))
}

// OnError implements controller.Observer
func (s *Structured) OnError(err error) {
	s.write(errorDoc{Error: err.Error()})
}

// OnCellSelected implements controller.Selector
func (s *Structured) OnCellSelected(date time.Time) {
	s.write(selectionDoc{Selected: date.Format(dateutil.DateLayout)})
}
