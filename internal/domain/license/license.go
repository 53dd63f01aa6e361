package license

import (
	"errors"
	"sort"
	"strings"
	"time"

	"rental-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus  = errors.New("invalid verification status")
	ErrInvalidLicense = errors.New("invalid license submission")
)

type Status string

const (
	StatusVerified            Status = "verified"
	StatusPending             Status = "pending"
	StatusPendingManualReview Status = "pending_manual_review"
	StatusRejected            Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusVerified, StatusPending, StatusPendingManualReview, StatusRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) IsPending() bool {
	return s == StatusPending || s == StatusPendingManualReview
}

// License is one submission of a driver's license for verification.
type License struct {
	ID          uuid.UUID
	RenterID    uuid.UUID
	Number      string
	Country     string
	FrontKey    string
	BackKey     string
	Status      Status
	SubmittedAt time.Time
	VerifiedAt  *time.Time
}

type Submission struct {
	RenterID uuid.UUID
	Number   string
	Country  string
	FrontKey string
	BackKey  string
}

func NewSubmission(renterID uuid.UUID, number, country, frontKey, backKey string) (Submission, error) {
	var fields errs.FieldErrors
	number = strings.TrimSpace(number)
	country = strings.ToUpper(strings.TrimSpace(country))
	if number == "" {
		fields.Add("license_number", "is required")
	} else if len(number) > 50 {
		fields.Add("license_number", "must be at most 50 characters")
	}
	if country == "" {
		fields.Add("license_country", "is required")
	}
	if frontKey == "" {
		fields.Add("front_image", "is required")
	}
	if backKey == "" {
		fields.Add("back_image", "is required")
	}
	if err := fields.Err(ErrInvalidLicense); err != nil {
		return Submission{}, err
	}
	return Submission{RenterID: renterID, Number: number, Country: country, FrontKey: frontKey, BackKey: backKey}, nil
}

// Latest returns the most recent submission, nil when there is none.
func Latest(history []License) *License {
	if len(history) == 0 {
		return nil
	}
	sorted := make([]License, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
	})
	return &sorted[0]
}
