package repository

import (
	"context"
	"time"

	"rental-engine/internal/infra"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createNotificationJobSQL = `INSERT INTO notification_jobs (kind, topic, payload, status, run_at)
VALUES ($1, $2, $3, 'queued', $4)`

	// SKIP LOCKED lets several dispatchers drain the outbox without picking the same job.
	claimDueNotificationJobsSQL = `SELECT id, kind, topic, payload, attempts
FROM notification_jobs
WHERE status = 'queued' AND run_at <= $1 AND attempts < $3
ORDER BY run_at
LIMIT $2
FOR UPDATE SKIP LOCKED`

	markNotificationSentSQL = `UPDATE notification_jobs
SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = now()
WHERE id = $1`

	markNotificationFailedSQL = `UPDATE notification_jobs
SET attempts = attempts + 1,
	last_error = $2,
	run_at = $3,
	status = CASE WHEN attempts + 1 >= $4 THEN 'failed' ELSE 'queued' END,
	updated_at = now()
WHERE id = $1`
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	if _, err := tx.ExecContext(ctx, createNotificationJobSQL, kind, topic, payload, runAt); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

// ClaimDue locks up to limit queued jobs for the rest of the transaction.
func (r *NotificationRepository) ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit, maxAttempts int) ([]shared.NotificationJob, error) {
	rows, err := tx.QueryContext(ctx, claimDueNotificationJobsSQL, now, limit, maxAttempts)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var j shared.NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notification jobs", err)
	}

	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx db.DBTX, jobID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, markNotificationSentSQL, jobID); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, tx db.DBTX, jobID uuid.UUID, lastError string, retryAt time.Time, maxAttempts int) error {
	if _, err := tx.ExecContext(ctx, markNotificationFailedSQL, jobID, lastError, retryAt, maxAttempts); err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
