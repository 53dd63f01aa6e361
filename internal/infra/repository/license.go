package repository

import (
	"context"
	"strings"
	"time"

	"rental-engine/internal/domain/license"
	"rental-engine/internal/infra"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/pkg/pgconv"
	"rental-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createLicenseSQL = `INSERT INTO licenses
(renter_id, license_number, country, front_key, back_key, status, submitted_at)
VALUES ($1, $2, $3, $4, $5, 'pending', $6)
RETURNING id`

	updateLicenseStatusSQL = `UPDATE licenses
SET status = $2, confidence = $3, concerns = $4, verified_at = $5
WHERE id = $1`
)

type LicenseRepository struct{}

func NewLicenseRepository() *LicenseRepository {
	return &LicenseRepository{}
}

// Create records a new submission in the pending state.
func (r *LicenseRepository) Create(ctx context.Context, tx db.DBTX, sub license.Submission, submittedAt time.Time) (license.License, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, createLicenseSQL,
		sub.RenterID, sub.Number, sub.Country, sub.FrontKey, sub.BackKey, submittedAt,
	).Scan(&id)
	if err != nil {
		return license.License{}, infra.WrapRepoErr("failed to create license", err)
	}

	return license.License{
		ID:          id,
		RenterID:    sub.RenterID,
		Number:      sub.Number,
		Country:     sub.Country,
		FrontKey:    sub.FrontKey,
		BackKey:     sub.BackKey,
		Status:      license.StatusPending,
		SubmittedAt: submittedAt,
	}, nil
}

func (r *LicenseRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, res shared.LicenseResolution) error {
	var verifiedAt *time.Time
	if res.Status == license.StatusVerified {
		verifiedAt = &res.ResolvedAt
	}

	result, err := tx.ExecContext(ctx, updateLicenseStatusSQL,
		id, string(res.Status), pgconv.IntPtrToNull(res.Confidence),
		strings.Join(res.Concerns, "\n"), pgconv.TimePtrToNull(verifiedAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update license status", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return infra.WrapRepoErr("license not found", nil, infra.KindNotFound)
	}
	return nil
}
