package components

import (
	"context"

	"rental-engine/internal/infra/scheduler"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/config"
	"rental-engine/internal/usecase/jobs"
	"rental-engine/internal/usecase/session"
	"rental-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		NewJobRunner,
		NewScheduler,
	),
	fx.Invoke(startScheduler),
)

func NewJobRunner(
	uow shared.UnitOfWork,
	mailer jobs.Mailer,
	events jobs.EventPublisher,
	sessions session.Service,
	clk clock.Clock,
	cfg config.Config,
) *jobs.Runner {
	return jobs.NewRunner(uow, mailer, events, sessions, clk, jobs.Config{
		BatchSize:   cfg.Scheduler.OutboxBatchSize,
		MaxAttempts: cfg.Scheduler.MaxAttempts,
	})
}

func NewScheduler(cfg config.Config, runner *jobs.Runner) (*scheduler.Scheduler, error) {
	return scheduler.New(cfg.Scheduler, runner)
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
