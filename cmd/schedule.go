package main

import (
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/subtitle-batch-translator/internal/pipeline"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run translations on the configured cron expression until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Translate.CronExpr == "" {
				return pipeline.NewError(pipeline.ErrConfig, "translate.cron_expr is required for schedule")
			}

			driver, err := ctx.newDriver()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			out := cmd.OutOrStdout()
			c := cron.New()
			scheduler := pipeline.NewScheduler(driver, c, cfg.Translate.CronExpr)
			scheduler.OnReport(func(report *pipeline.Report, err error) {
				if report != nil {
					printReport(out, report)
				}
				if err != nil {
					pipeline.NewDefaultErrorHandler().Handle(err)
				}
			})
			if err := scheduler.Schedule(runCtx); err != nil {
				return pipeline.NewErrorWithCause(pipeline.ErrConfig, "failed to schedule runs", err)
			}

			c.Start()
			if runNow {
				go func() {
					report, _, err := scheduler.Trigger(runCtx)
					if report != nil {
						printReport(out, report)
					}
					if err != nil {
						pipeline.NewDefaultErrorHandler().Handle(err)
					}
				}()
			}

			<-runCtx.Done()
			log.Info("Stopping scheduler, waiting for the current run")
			<-c.Stop().Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&runNow, "now", false, "Also run once immediately")
	return cmd
}
