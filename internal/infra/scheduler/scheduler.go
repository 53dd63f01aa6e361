package scheduler

import (
	"log/slog"
	"time"

	"rental-engine/internal/pkg/config"
	"rental-engine/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// Jobs is what the scheduler triggers.
type Jobs interface {
	RunDispatch()
	RunPurge()
}

type Scheduler struct {
	cron *cron.Cron
}

// New registers the outbox dispatch and purge jobs. A run that is still going
// when its next tick fires is skipped rather than overlapped.
func New(cfg config.SchedulerConfig, jobs Jobs) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if _, err := c.AddFunc(cfg.OutboxSpec, jobs.RunDispatch); err != nil {
		return nil, errs.Wrapf(err, "register outbox job %q", cfg.OutboxSpec)
	}
	if _, err := c.AddFunc(cfg.PurgeSpec, jobs.RunPurge); err != nil {
		return nil, errs.Wrapf(err, "register purge job %q", cfg.PurgeSpec)
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
