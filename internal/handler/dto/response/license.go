package response

import (
	"time"

	"rental-engine/internal/domain/license"

	"github.com/google/uuid"
)

type LicenseResponse struct {
	ID          uuid.UUID  `json:"id"`
	RenterID    uuid.UUID  `json:"renterId"`
	Number      string     `json:"number"`
	Country     string     `json:"country"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submittedAt"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
}

func FromLicense(l license.License) *LicenseResponse {
	return &LicenseResponse{
		ID:          l.ID,
		RenterID:    l.RenterID,
		Number:      l.Number,
		Country:     l.Country,
		Status:      string(l.Status),
		SubmittedAt: l.SubmittedAt,
		VerifiedAt:  l.VerifiedAt,
	}
}
