package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/gridcal/internal/calendar"
	"github.com/username/gridcal/internal/config"
	"github.com/username/gridcal/internal/controller"
	"github.com/username/gridcal/internal/marks"
	"github.com/username/gridcal/internal/render"
	"github.com/username/gridcal/pkg/dateutil"
	"go.uber.org/zap"
)

// viewOptions are the flags shared by month, week and watch
type viewOptions struct {
	date      string
	marked    string
	marksFile string
	icsFile   string
	selectIdx int
}

func (o *viewOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.date, "date", "d", "", "Reference date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&o.marked, "marked", "m", "", "Marked dates, e.g. 2026-10-05,2026-10-07..2026-10-09")
	cmd.Flags().StringVar(&o.marksFile, "marks-file", "", "File with one date or range per line (overrides marks.file)")
	cmd.Flags().StringVar(&o.icsFile, "ics", "", "iCalendar file whose events are marked (overrides marks.ics_file)")
}

func (o *viewOptions) registerSelect(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.selectIdx, "select", -1, "Print the date of the cell at this index")
}

// view is a controller wired to a renderer
type view struct {
	ctl      *controller.Controller
	renderer render.Renderer
	loc      *time.Location
}

func newView(c *config.Config, opts *viewOptions, mode controller.Mode, out io.Writer) (*view, error) {
	tz, err := c.Calendar.GetLocation()
	if err != nil {
		return nil, err
	}

	cal := calendar.New(
		calendar.WithWeekStart(c.Calendar.GetWeekStart()),
		calendar.WithLocation(tz),
	)
	loc := cal.Location()

	reference := cal.Today()
	if opts.date != "" {
		reference, err = dateutil.ParseDate(opts.date, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --date: %w", err)
		}
	}

	marked, err := loadMarks(c, opts, loc)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(c.Render.Format, out, cal.WeekStart(), c.Render.Color)
	if err != nil {
		return nil, err
	}

	logger.Debug("View configured",
		zap.Stringer("mode", mode),
		zap.Time("reference", reference),
		zap.Stringer("week_start", cal.WeekStart()),
		zap.String("location", loc.String()),
		zap.Int("marked", len(marked)))

	ctl := controller.New(cal, renderer, logger,
		controller.WithSelector(renderer),
		controller.WithMode(mode),
		controller.WithReference(reference),
		controller.WithMarkedDates(marked),
		controller.WithTruncateAtToday(c.Segment.TruncateAtToday),
	)

	return &view{ctl: ctl, renderer: renderer, loc: loc}, nil
}

func loadMarks(c *config.Config, opts *viewOptions, loc *time.Location) ([]time.Time, error) {
	var sources []marks.Source

	if opts.marked != "" {
		dates, err := marks.ParseList(opts.marked, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --marked: %w", err)
		}
		sources = append(sources, marks.StaticSource(dates))
	}

	file := c.Marks.File
	if opts.marksFile != "" {
		file = opts.marksFile
	}
	if file != "" {
		sources = append(sources, marks.NewFileSource(file, loc, logger))
	}

	ics := c.Marks.ICSFile
	if opts.icsFile != "" {
		ics = opts.icsFile
	}
	if ics != "" {
		sources = append(sources, marks.NewICSSource(ics, loc, logger))
	}

	return marks.Collect(logger, sources...)
}

// finish runs the optional cell selection and reports write failures
func (v *view) finish(selectIdx int) error {
	if selectIdx >= 0 {
		if _, err := v.ctl.SelectCell(selectIdx); err != nil {
			return err
		}
	}
	if w, ok := v.renderer.(interface{ Err() error }); ok && w.Err() != nil {
		return fmt.Errorf("failed to write output: %w", w.Err())
	}
	return nil
}

func monthCmd() *cobra.Command {
	var opts viewOptions
	var shift int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print the month grid containing the reference date",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newView(cfg, &opts, controller.ModeMonth, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if shift != 0 {
				_, err = v.ctl.Navigate(shift)
			} else {
				_, err = v.ctl.Refresh()
			}
			if err != nil {
				return err
			}
			return v.finish(opts.selectIdx)
		},
	}

	opts.register(cmd)
	opts.registerSelect(cmd)
	cmd.Flags().IntVar(&shift, "shift", 0, "Move the reference date by this many months")

	return cmd
}

func weekCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the week row containing the reference date",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newView(cfg, &opts, controller.ModeWeek, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if _, err := v.ctl.Refresh(); err != nil {
				return err
			}
			return v.finish(opts.selectIdx)
		},
	}

	opts.register(cmd)
	opts.registerSelect(cmd)

	return cmd
}
