package main

import (
	"github.com/spf13/cobra"
	"github.com/username/gridcal/internal/controller"
	"github.com/username/gridcal/internal/daemon"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

func watchCmd() *cobra.Command {
	var opts viewOptions
	var modeFlag string
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the calendar on a schedule until interrupted",
		Long:  "Print the grid now and again on every tick of watch.schedule so the today marker follows the clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf)); err != nil {
				logger.Warn("Failed to set GOMAXPROCS", zap.Error(err))
			}

			mode, err := controller.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			if schedule != "" {
				cfg.Watch.Schedule = schedule
			}

			v, err := newView(cfg, &opts, mode, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			d, err := daemon.New(v.ctl, cfg.Watch.Schedule, v.loc, logger)
			if err != nil {
				return err
			}
			if err := d.Start(); err != nil {
				return err
			}

			status := d.GetStatus()
			logger.Info("Watch finished",
				zap.String("schedule", status.Schedule),
				zap.Int("runs", status.Runs),
				zap.Int("failures", status.Failures),
				zap.Time("last_run", status.LastRun))
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&modeFlag, "mode", "month", "View to redraw: month or week")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron spec overriding watch.schedule")

	return cmd
}
