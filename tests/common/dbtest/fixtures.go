//go:build unit || e2e

package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (id, email, role) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING",
		userID, email, role)
	require.NoError(t, err)

	if n, _ := res.RowsAffected(); n == 0 {
		err = db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

type VehicleFixture struct {
	OwnerID      uuid.UUID
	Name         string
	DailyMinor   int64
	WeeklyMinor  *int64
	MonthlyMinor *int64
	Payments     []string
}

// CreateTestVehicle inserts an available vehicle with no deposit, prepaid
// rent or fuel policy.
func CreateTestVehicle(t *testing.T, db DBLike, v VehicleFixture) uuid.UUID {
	t.Helper()

	if v.Name == "" {
		v.Name = "Toyota Aygo"
	}
	if len(v.Payments) == 0 {
		v.Payments = []string{"card"}
	}

	vehicleID := uuid.New()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO vehicles (id, owner_id, name, daily_rate_minor, weekly_rate_minor, monthly_rate_minor, accepted_payment_methods)
		VALUES ($1, $2, $3, $4, $5, $6, string_to_array($7, ','))`,
		vehicleID, v.OwnerID, v.Name, v.DailyMinor, v.WeeklyMinor, v.MonthlyMinor,
		strings.Join(v.Payments, ","))
	require.NoError(t, err)

	return vehicleID
}

func CountRows(t *testing.T, db DBLike, table string) int {
	t.Helper()

	var n int
	err := db.QueryRowContext(context.Background(), "SELECT count(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := db.QueryContext(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := db.ExecContext(ctx, sqlAny.(string))
	return err
}
