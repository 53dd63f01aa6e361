//go:build unit

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"rental-engine/internal/infra"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepository_TryInsert(t *testing.T) {
	key, userID := uuid.New(), uuid.New()
	expiresAt := time.Date(2024, 1, 21, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		affected     int64
		execErr      error
		wantInserted bool
		wantErr      bool
	}{
		{name: "new key", affected: 1, wantInserted: true},
		{name: "existing key", affected: 0, wantInserted: false},
		{name: "database error", execErr: assert.AnError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)

			exp := mock.ExpectExec(regexp.QuoteMeta("WHERE idempotency_keys.expires_at < now()")).
				WithArgs(key, userID, "POST /api/bookings", "hash", expiresAt)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			inserted, err := NewIdempotencyRepository().TryInsert(context.Background(), db, key, userID, "POST /api/bookings", "hash", expiresAt)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInserted, inserted)
		})
	}
}

func TestIdempotencyRepository_ReleaseOnlyProcessing(t *testing.T) {
	db, mock := newMockDB(t)
	key, userID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM idempotency_keys\nWHERE key = $1 AND user_id = $2 AND status = 'processing'")).
		WithArgs(key, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewIdempotencyRepository().Release(context.Background(), db, key, userID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_DeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM idempotency_keys WHERE expires_at < $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewIdempotencyRepository().DeleteExpired(context.Background(), db, now)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
