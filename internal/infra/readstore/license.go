package readstore

import (
	"context"
	"database/sql"
	"time"

	"rental-engine/internal/domain/license"
	"rental-engine/internal/infra"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	licenseColumns = `id, renter_id, license_number, country, front_key, back_key, status, submitted_at, verified_at`

	listLicensesByRenterSQL = `SELECT ` + licenseColumns + ` FROM licenses
WHERE renter_id = $1
ORDER BY submitted_at DESC`

	findLicenseByIDSQL = `SELECT ` + licenseColumns + ` FROM licenses WHERE id = $1`
)

type LicenseReadStore struct {
	db db.DBTX
}

func NewLicenseReadStore(db db.DBTX) *LicenseReadStore {
	return &LicenseReadStore{db: db}
}

// HistoryByRenter returns every submission of the renter, newest first.
func (r *LicenseReadStore) HistoryByRenter(ctx context.Context, renterID uuid.UUID) ([]license.License, error) {
	rows, err := r.db.QueryContext(ctx, listLicensesByRenterSQL, renterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list licenses", err)
	}
	defer rows.Close()

	var out []license.License
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate licenses", err)
	}
	return out, nil
}

func (r *LicenseReadStore) FindByID(ctx context.Context, id uuid.UUID) (*license.License, error) {
	l, err := scanLicense(r.db.QueryRowContext(ctx, findLicenseByIDSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("license not found", err, infra.KindNotFound)
		}
		return nil, err
	}
	return &l, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLicense(s scanner) (license.License, error) {
	var (
		l          license.License
		status     string
		submitted  time.Time
		verifiedAt sql.NullTime
	)
	if err := s.Scan(&l.ID, &l.RenterID, &l.Number, &l.Country, &l.FrontKey, &l.BackKey, &status, &submitted, &verifiedAt); err != nil {
		if pgconv.IsNoRows(err) {
			return l, err
		}
		return l, infra.WrapRepoErr("failed to scan license", err)
	}

	st, err := license.ParseStatus(status)
	if err != nil {
		return l, infra.WrapRepoErr("invalid license status", err, infra.KindDBFailure)
	}
	l.Status = st
	l.SubmittedAt = submitted
	l.VerifiedAt = pgconv.TimePtrFromNull(verifiedAt)
	return l, nil
}
