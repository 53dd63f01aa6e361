package repository

import (
	"context"
	"time"

	"rental-engine/internal/infra"
	"rental-engine/internal/infra/db"

	"github.com/google/uuid"
)

const (
	// An expired key is reclaimed in place, so it counts as a fresh insert.
	tryInsertIdempotencyKeySQL = `INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO UPDATE SET
	endpoint = EXCLUDED.endpoint,
	request_hash = EXCLUDED.request_hash,
	status = 'processing',
	response_body_hash = NULL,
	result_booking_id = NULL,
	created_at = now(),
	expires_at = EXCLUDED.expires_at
WHERE idempotency_keys.expires_at < now()`

	completeIdempotencyKeySQL = `UPDATE idempotency_keys
SET status = 'completed', response_body_hash = $3, result_booking_id = $4
WHERE key = $1 AND user_id = $2`

	releaseIdempotencyKeySQL = `DELETE FROM idempotency_keys
WHERE key = $1 AND user_id = $2 AND status = 'processing'`

	deleteExpiredIdempotencyKeysSQL = `DELETE FROM idempotency_keys WHERE expires_at < $1`
)

type IdempotencyRepository struct{}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, tx db.DBTX, key uuid.UUID, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx, tryInsertIdempotencyKeySQL, key, userID, endpoint, requestHash, expiresAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, infra.WrapRepoErr("failed to read idempotency insert result", err)
	}
	return n == 1, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, userID uuid.UUID, responseBodyHash string, resultBookingID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, completeIdempotencyKeySQL, key, userID, responseBodyHash, resultBookingID)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}

	return nil
}

// Release drops a key whose request failed so the client may retry with it.
func (r *IdempotencyRepository) Release(ctx context.Context, tx db.DBTX, key uuid.UUID, userID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, releaseIdempotencyKeySQL, key, userID); err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, tx db.DBTX, now time.Time) (int64, error) {
	res, err := tx.ExecContext(ctx, deleteExpiredIdempotencyKeysSQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, infra.WrapRepoErr("failed to read deleted idempotency key count", err)
	}
	return count, nil
}
