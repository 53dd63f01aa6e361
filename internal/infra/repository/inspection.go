package repository

import (
	"context"
	"database/sql"

	"rental-engine/internal/infra"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/pkg/pgconv"
	"rental-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// Resubmitting the same inspection replaces the previous record.
const upsertInspectionSQL = `INSERT INTO inspections
(booking_id, kind, fuel_level, mileage, notes, missing_liters, fuel_fee_minor, inspector_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (booking_id, kind) DO UPDATE SET
	fuel_level = EXCLUDED.fuel_level,
	mileage = EXCLUDED.mileage,
	notes = EXCLUDED.notes,
	missing_liters = EXCLUDED.missing_liters,
	fuel_fee_minor = EXCLUDED.fuel_fee_minor,
	inspector_id = EXCLUDED.inspector_id,
	updated_at = now()
RETURNING id`

type InspectionRepository struct{}

func NewInspectionRepository() *InspectionRepository {
	return &InspectionRepository{}
}

func (r *InspectionRepository) Upsert(ctx context.Context, tx db.DBTX, rec shared.InspectionRecord) (uuid.UUID, error) {
	var level sql.NullString
	if rec.FuelLevel != nil {
		level = sql.NullString{String: string(*rec.FuelLevel), Valid: true}
	}
	var fee sql.NullInt64
	if rec.FuelFee != nil {
		fee = sql.NullInt64{Int64: rec.FuelFee.Minor(), Valid: true}
	}

	var id uuid.UUID
	err := tx.QueryRowContext(ctx, upsertInspectionSQL,
		rec.BookingID, string(rec.Kind), level, pgconv.IntPtrToNull(rec.Mileage), rec.Notes,
		pgconv.IntPtrToNull(rec.MissingLiters), fee, rec.InspectorID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to upsert inspection", err)
	}
	return id, nil
}
