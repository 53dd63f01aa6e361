package readstore

import (
	"context"

	"rental-engine/internal/domain/pricing"
	"rental-engine/internal/domain/user"
	"rental-engine/internal/infra"
	"rental-engine/internal/infra/db"
	"rental-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const findUserProfileSQL = `SELECT id, email, role, is_banned, referral_credit_minor FROM users WHERE id = $1`

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindProfile(ctx context.Context, id uuid.UUID) (*user.Profile, error) {
	var (
		userID  uuid.UUID
		email   string
		roleStr string
		banned  bool
		credit  int64
	)
	err := r.db.QueryRowContext(ctx, findUserProfileSQL, id).Scan(&userID, &email, &roleStr, &banned, &credit)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	role, err := user.NewRole(roleStr)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid user role", err, infra.KindDBFailure)
	}

	return user.NewProfile(userID, email, role, banned, pricing.Minor(credit)), nil
}
