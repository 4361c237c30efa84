package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/gridcal/internal/controller"
	"go.uber.org/zap"
)

// Refresher rebuilds the current view. *controller.Controller implements it.
type Refresher interface {
	Refresh() (controller.Grid, error)
}

// Daemon redraws the calendar on a cron schedule so that "today" follows
// the wall clock
type Daemon struct {
	target   Refresher
	schedule cron.Schedule
	spec     string
	cron     *cron.Cron
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex // serializes access to target
	lastRun time.Time
	runs    int
	fails   int
}

// Status describes the daemon state
type Status struct {
	Schedule string
	Runs     int
	Failures int
	LastRun  time.Time
	NextRun  time.Time
}

// New creates a daemon refreshing target on the standard 5-field cron spec,
// evaluated in loc
func New(target Refresher, spec string, loc *time.Location, logger *zap.Logger) (*Daemon, error) {
	if loc == nil {
		loc = time.Local
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{logger.Sugar()}

	d := &Daemon{
		target:   target,
		schedule: schedule,
		spec:     spec,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
	d.cron.Schedule(schedule, cron.FuncJob(func() {
		if err := d.RefreshNow(); err != nil {
			d.logger.Error("Scheduled refresh failed", zap.Error(err))
		}
	}))

	return d, nil
}

// Start draws once, then blocks running the schedule until Stop is called
// or SIGINT/SIGTERM arrives
func (d *Daemon) Start() error {
	d.logger.Info("Daemon started", zap.String("schedule", d.spec))

	if err := d.RefreshNow(); err != nil {
		d.logger.Error("Initial refresh failed", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	d.cron.Start()
	d.logger.Info("Next refresh scheduled", zap.Time("next_run", d.NextRun()))

	select {
	case <-d.ctx.Done():
	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		d.Stop()
	}

	// wait for a refresh in flight
	<-d.cron.Stop().Done()
	d.logger.Info("Daemon stopped")
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// RefreshNow redraws immediately
func (d *Daemon) RefreshNow() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	grid, err := d.target.Refresh()
	d.lastRun = time.Now()
	d.runs++
	if err != nil {
		d.fails++
		return fmt.Errorf("failed to refresh: %w", err)
	}

	d.logger.Debug("Refreshed",
		zap.Stringer("mode", grid.Mode),
		zap.Int("year", grid.Year),
		zap.Int("month", int(grid.Month)))
	return nil
}

// NextRun returns the next scheduled refresh after now
func (d *Daemon) NextRun() time.Time {
	return d.NextRunAfter(time.Now().In(d.cron.Location()))
}

// NextRunAfter returns the first scheduled refresh after t
func (d *Daemon) NextRunAfter(t time.Time) time.Time {
	return d.schedule.Next(t)
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Status{
		Schedule: d.spec,
		Runs:     d.runs,
		Failures: d.fails,
		LastRun:  d.lastRun,
		NextRun:  d.NextRun(),
	}
}

// cronLogger routes cron's scheduler logs into zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
