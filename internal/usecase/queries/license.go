package queries

import (
	"context"

	"rental-engine/internal/domain/license"
	"rental-engine/internal/infra"
	"rental-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type LicenseQueries interface {
	History(ctx context.Context, renterID uuid.UUID) ([]license.License, error)
	GetByID(ctx context.Context, id uuid.UUID) (*license.License, error)
}

type licenseQueriesImpl struct {
	store LicenseReadStore
}

func NewLicenseQueries(store LicenseReadStore) LicenseQueries {
	return &licenseQueriesImpl{store: store}
}

func (q *licenseQueriesImpl) History(ctx context.Context, renterID uuid.UUID) ([]license.License, error) {
	return q.store.HistoryByRenter(ctx, renterID)
}

func (q *licenseQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*license.License, error) {
	l, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrLicenseNotFound)
		}
		return nil, err
	}
	return l, nil
}
