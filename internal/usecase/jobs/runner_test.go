//go:build unit

package jobs_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"rental-engine/internal/infra/db"
	"rental-engine/internal/pkg/clock"
	"rental-engine/internal/usecase/jobs"
	"rental-engine/internal/usecase/shared"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)

type failure struct {
	ID      uuid.UUID
	RetryAt time.Time
}

type fakeNotifications struct {
	shared.NotificationRepository
	due    []shared.NotificationJob
	sent   []uuid.UUID
	failed []failure
}

func (f *fakeNotifications) ClaimDue(_ context.Context, _ db.DBTX, _ time.Time, limit, _ int) ([]shared.NotificationJob, error) {
	if len(f.due) > limit {
		return f.due[:limit], nil
	}
	return f.due, nil
}

func (f *fakeNotifications) MarkSent(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeNotifications) MarkFailed(_ context.Context, _ db.DBTX, id uuid.UUID, _ string, retryAt time.Time, _ int) error {
	f.failed = append(f.failed, failure{ID: id, RetryAt: retryAt})
	return nil
}

type fakeIdempotency struct {
	shared.IdempotencyRepository
	deleted int64
}

func (f *fakeIdempotency) DeleteExpired(context.Context, db.DBTX, time.Time) (int64, error) {
	return f.deleted, nil
}

type fakeTx struct {
	shared.Tx
	notifications *fakeNotifications
	idempotency   *fakeIdempotency
}

func (t *fakeTx) Notifications() shared.NotificationRepository { return t.notifications }
func (t *fakeTx) Idempotency() shared.IdempotencyRepository    { return t.idempotency }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

type fakeUoW struct {
	shared.UnitOfWork
	tx *fakeTx
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

type fakeMailer struct {
	sent []shared.EmailMessage
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg shared.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type published struct {
	Type string
	Key  string
}

type fakePublisher struct{ got []published }

func (p *fakePublisher) Publish(_ context.Context, eventType, key string, _ []byte) error {
	p.got = append(p.got, published{Type: eventType, Key: key})
	return nil
}

type fakeSessions struct{ purged int }

func (s *fakeSessions) PurgeExpired(time.Time) int { return s.purged }

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func newRunner(tx *fakeTx, mailer *fakeMailer, events *fakePublisher, sessions jobs.SessionPurger) *jobs.Runner {
	return jobs.NewRunner(&fakeUoW{tx: tx}, mailer, events, sessions, clock.NewMockClock(now), jobs.Config{BatchSize: 10, MaxAttempts: 3})
}

func TestRunner_DispatchOutbox(t *testing.T) {
	ctx := context.Background()
	bookingID := uuid.New()
	emailJob := shared.NotificationJob{
		ID:      uuid.New(),
		Kind:    shared.JobKindEmail,
		Topic:   shared.TopicBookingCreated,
		Payload: mustJSON(t, shared.EmailMessage{To: "renter@example.com", Subject: "Booking received"}),
	}
	eventJob := shared.NotificationJob{
		ID:      uuid.New(),
		Kind:    shared.JobKindEvent,
		Topic:   shared.TopicBookingCreated,
		Payload: mustJSON(t, shared.Event{Type: shared.TopicBookingCreated, AggregateID: bookingID, OccurredAt: now}),
	}

	t.Run("delivers email and event jobs", func(t *testing.T) {
		notifications := &fakeNotifications{due: []shared.NotificationJob{emailJob, eventJob}}
		mailer, events := &fakeMailer{}, &fakePublisher{}
		r := newRunner(&fakeTx{notifications: notifications}, mailer, events, nil)

		n, err := r.DispatchOutbox(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []uuid.UUID{emailJob.ID, eventJob.ID}, notifications.sent)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "renter@example.com", mailer.sent[0].To)
		if diff := cmp.Diff([]published{{Type: shared.TopicBookingCreated, Key: bookingID.String()}}, events.got); diff != "" {
			t.Errorf("published events mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("failed delivery is rescheduled with backoff", func(t *testing.T) {
		retried := emailJob
		retried.Attempts = 2
		notifications := &fakeNotifications{due: []shared.NotificationJob{retried, eventJob}}
		mailer := &fakeMailer{err: errors.New("sendgrid unavailable")}
		r := newRunner(&fakeTx{notifications: notifications}, mailer, &fakePublisher{}, nil)

		n, err := r.DispatchOutbox(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, []failure{{ID: emailJob.ID, RetryAt: now.Add(2 * time.Minute)}}, notifications.failed)
		assert.Equal(t, []uuid.UUID{eventJob.ID}, notifications.sent)
	})

	t.Run("undecodable payload is marked failed", func(t *testing.T) {
		broken := shared.NotificationJob{ID: uuid.New(), Kind: shared.JobKindEvent, Topic: "x", Payload: []byte("{")}
		notifications := &fakeNotifications{due: []shared.NotificationJob{broken}}
		r := newRunner(&fakeTx{notifications: notifications}, &fakeMailer{}, &fakePublisher{}, nil)

		n, err := r.DispatchOutbox(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		require.Len(t, notifications.failed, 1)
		assert.Equal(t, now.Add(30*time.Second), notifications.failed[0].RetryAt)
	})
}

func TestRunner_PurgeExpired(t *testing.T) {
	idempotency := &fakeIdempotency{deleted: 4}
	sessions := &fakeSessions{purged: 2}
	r := newRunner(&fakeTx{idempotency: idempotency}, &fakeMailer{}, &fakePublisher{}, sessions)

	assert.NoError(t, r.PurgeExpired(context.Background()))
}
