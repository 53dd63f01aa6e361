package user

import (
	"rental-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

// Profile is the account state of a renter that the booking flow depends on.
// Account management itself lives outside this service.
type Profile struct {
	id             uuid.UUID
	email          string
	role           Role
	banned         bool
	referralCredit pricing.Money
}

func NewProfile(id uuid.UUID, email string, role Role, banned bool, referralCredit pricing.Money) *Profile {
	return &Profile{
		id:             id,
		email:          email,
		role:           role,
		banned:         banned,
		referralCredit: referralCredit,
	}
}

func (p *Profile) ID() uuid.UUID                 { return p.id }
func (p *Profile) Email() string                 { return p.email }
func (p *Profile) Role() Role                    { return p.role }
func (p *Profile) IsBanned() bool                { return p.banned }
func (p *Profile) ReferralCredit() pricing.Money { return p.referralCredit }
