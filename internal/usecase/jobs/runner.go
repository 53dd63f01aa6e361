package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/shared"
)

const (
	retryBaseDelay = 30 * time.Second
	retryMaxDelay  = time.Hour
	runTimeout     = time.Minute
)

type Mailer interface {
	Send(ctx context.Context, msg shared.EmailMessage) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload []byte) error
}

// SessionPurger drops booking sessions that outlived their TTL.
type SessionPurger interface {
	PurgeExpired(now time.Time) int
}

type Config struct {
	BatchSize   int
	MaxAttempts int
}

// Runner holds the background jobs the scheduler triggers. Delivery failures
// are recorded on the job and retried later; they never reach the caller
// that wrote the job.
type Runner struct {
	uow      shared.UnitOfWork
	mailer   Mailer
	events   EventPublisher
	sessions SessionPurger
	clock    clock.Clock
	cfg      Config
}

func NewRunner(uow shared.UnitOfWork, mailer Mailer, events EventPublisher, sessions SessionPurger, clock clock.Clock, cfg Config) *Runner {
	return &Runner{
		uow:      uow,
		mailer:   mailer,
		events:   events,
		sessions: sessions,
		clock:    clock,
		cfg:      cfg,
	}
}

// DispatchOutbox delivers due notification jobs and returns how many were sent.
func (r *Runner) DispatchOutbox(ctx context.Context) (int, error) {
	sent := 0
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := r.clock.Now()
		jobs, err := tx.Notifications().ClaimDue(ctx, tx.DB(), now, r.cfg.BatchSize, r.cfg.MaxAttempts)
		if err != nil {
			return err
		}

		for _, job := range jobs {
			if err := r.deliver(ctx, job); err != nil {
				err = errs.Dependency(err)
				slog.Warn("notification delivery failed",
					"job_id", job.ID, "topic", job.Topic, "attempt", job.Attempts+1, "error", err.Error())
				retryAt := now.Add(retryDelay(job.Attempts))
				if err := tx.Notifications().MarkFailed(ctx, tx.DB(), job.ID, err.Error(), retryAt, r.cfg.MaxAttempts); err != nil {
					return err
				}
				continue
			}
			if err := tx.Notifications().MarkSent(ctx, tx.DB(), job.ID); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return sent, nil
}

func (r *Runner) deliver(ctx context.Context, job shared.NotificationJob) error {
	switch job.Kind {
	case shared.JobKindEmail:
		var msg shared.EmailMessage
		if err := json.Unmarshal(job.Payload, &msg); err != nil {
			return errs.Wrap(err, "decode email job")
		}
		return r.mailer.Send(ctx, msg)
	case shared.JobKindEvent:
		var event shared.Event
		if err := json.Unmarshal(job.Payload, &event); err != nil {
			return errs.Wrap(err, "decode event job")
		}
		return r.events.Publish(ctx, job.Topic, event.AggregateID.String(), job.Payload)
	default:
		return errs.Newf("unknown notification job kind %q", job.Kind)
	}
}

// PurgeExpired removes idempotency keys and booking sessions past their expiry.
func (r *Runner) PurgeExpired(ctx context.Context) error {
	now := r.clock.Now()

	var keys int64
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		keys, err = tx.Idempotency().DeleteExpired(ctx, tx.DB(), now)
		return err
	})
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	sessions := 0
	if r.sessions != nil {
		sessions = r.sessions.PurgeExpired(now)
	}
	slog.Info("expired records purged", "idempotency_keys", keys, "booking_sessions", sessions)
	return nil
}

// RunDispatch and RunPurge adapt the jobs to cron callbacks.
func (r *Runner) RunDispatch() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if n, err := r.DispatchOutbox(ctx); err != nil {
		slog.Error("outbox dispatch failed", "error", err.Error())
	} else if n > 0 {
		slog.Debug("outbox dispatched", "sent", n)
	}
}

func (r *Runner) RunPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if err := r.PurgeExpired(ctx); err != nil {
		slog.Error("purge failed", "error", err.Error())
	}
}

func retryDelay(attempts int) time.Duration {
	d := retryBaseDelay
	for i := 0; i < attempts; i++ {
		d *= 2
		if d >= retryMaxDelay {
			return retryMaxDelay
		}
	}
	return d
}
