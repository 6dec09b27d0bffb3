package pipeline

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/MimeLyc/subtitle-batch-translator/pkg/icron"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

// Runner is one translation run; *Driver implements it
type Runner interface {
	Run(ctx context.Context) (*Report, error)
}

// Scheduler triggers a Runner on a cron expression. A trigger that fires
// while a run is still in progress joins that run instead of starting another.
type Scheduler struct {
	runner   Runner
	cronExpr string
	cron     *cron.Cron
	group    singleflight.Group
	onReport func(*Report, error)
}

func NewScheduler(runner Runner, c *cron.Cron, cronExpr string) *Scheduler {
	return &Scheduler{
		runner:   runner,
		cronExpr: cronExpr,
		cron:     c,
	}
}

// OnReport registers a callback invoked after every scheduled run
func (s *Scheduler) OnReport(fn func(*Report, error)) {
	s.onReport = fn
}

func (s *Scheduler) Schedule(ctx context.Context) error {
	log.Info("Scheduling translation runs with %q", s.cronExpr)

	_, err := s.cron.AddFunc(s.cronExpr, func() {
		report, joined, err := s.Trigger(ctx)
		if joined {
			log.Info("Run already in progress, trigger skipped")
			return
		}
		if s.onReport != nil {
			s.onReport(report, err)
		}
		s.logNext()
	})
	if err != nil {
		return err
	}
	s.logNext()
	return nil
}

// Trigger runs now, collapsing concurrent calls into one run. joined is true
// for callers that received the result of a run started by someone else.
func (s *Scheduler) Trigger(ctx context.Context) (report *Report, joined bool, err error) {
	leader := false
	v, err, _ := s.group.Do("run", func() (any, error) {
		leader = true
		return s.runner.Run(ctx)
	})
	report, _ = v.(*Report)
	return report, !leader, err
}

func (s *Scheduler) logNext() {
	info, err := icron.GetTriggerInfo(s.cronExpr, time.Now())
	if err != nil {
		log.Warn("Failed to compute next trigger: %v", err)
		return
	}
	log.Info("Next run at %s (in %s)", info.Next.Format(time.RFC3339), info.TimeUntilNext.Round(time.Second))
}
