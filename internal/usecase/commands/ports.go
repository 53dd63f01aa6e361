package commands

import (
	"context"

	"rental-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

// DocumentStore keeps uploaded license images.
type DocumentStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

type CheckoutRequest struct {
	BookingID     uuid.UUID
	Description   string
	Amount        pricing.Money
	CustomerEmail string
}

// CheckoutGateway opens a hosted card payment page and returns its URL.
type CheckoutGateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
}
