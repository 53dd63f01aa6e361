package readstore

import (
	"context"

	"rental-engine/internal/domain/vehicle"
	"rental-engine/internal/infra"
	"rental-engine/internal/infra/converter"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const findVehicleByIDSQL = `SELECT ` + converter.VehicleColumns + ` FROM vehicles WHERE id = $1`

type VehicleReadStore struct {
	db db.DBTX
}

func NewVehicleReadStore(db db.DBTX) *VehicleReadStore {
	return &VehicleReadStore{db: db}
}

func (r *VehicleReadStore) FindByID(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	var row converter.VehicleRow
	if err := r.db.QueryRowContext(ctx, findVehicleByIDSQL, id).Scan(row.ScanTargets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by ID", err)
	}

	v, err := converter.VehicleFromInfra(row)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid vehicle record", err, infra.KindDBFailure)
	}
	return v, nil
}
