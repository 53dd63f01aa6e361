package workflow

import (
	"rental-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

type StepName string

const (
	StepPeriodAndIdentity StepName = "period_and_identity"
	StepDocuments         StepName = "documents"
	StepConfirmation      StepName = "confirmation"
	StepPayment           StepName = "payment"
)

// State is one step of the booking wizard. The set of implementations is
// closed: only this package can declare a state.
type State interface {
	Step() StepName
	sealed()
}

type PeriodAndIdentity struct{}

type Documents struct{}

type Confirmation struct{}

// Payment is only reachable with a persisted booking.
type Payment struct {
	bookingID  uuid.UUID
	totalPrice pricing.Money
}

func (PeriodAndIdentity) Step() StepName { return StepPeriodAndIdentity }
func (Documents) Step() StepName         { return StepDocuments }
func (Confirmation) Step() StepName      { return StepConfirmation }
func (Payment) Step() StepName           { return StepPayment }

func (PeriodAndIdentity) sealed() {}
func (Documents) sealed()         {}
func (Confirmation) sealed()      {}
func (Payment) sealed()           {}

func (p Payment) BookingID() uuid.UUID      { return p.bookingID }
func (p Payment) TotalPrice() pricing.Money { return p.totalPrice }

// previous is the target of backward navigation. The first step has none.
func previous(s State) State {
	switch s.(type) {
	case Documents:
		return PeriodAndIdentity{}
	case Confirmation:
		return Documents{}
	case Payment:
		return Confirmation{}
	default:
		return s
	}
}
