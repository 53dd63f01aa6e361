package commands

import (
	"context"
	"fmt"

	"rental-engine/internal/domain/interval"
	"rental-engine/internal/domain/payment"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type CheckoutResult struct {
	BookingID uuid.UUID
	Method    *payment.Method
	// RedirectURL is empty for methods settled outside the platform.
	RedirectURL string
}

type PaymentCommands interface {
	StartCheckout(ctx context.Context, actor queries.Actor, bookingID uuid.UUID) (*CheckoutResult, error)
}

type paymentCommandsImpl struct {
	gateway        CheckoutGateway
	bookingQueries queries.BookingQueries
}

func NewPaymentCommands(gateway CheckoutGateway, bookingQueries queries.BookingQueries) PaymentCommands {
	return &paymentCommandsImpl{gateway: gateway, bookingQueries: bookingQueries}
}

// StartCheckout is only open to the renter of the booking.
func (c *paymentCommandsImpl) StartCheckout(ctx context.Context, actor queries.Actor, bookingID uuid.UUID) (*CheckoutResult, error) {
	view, err := c.bookingQueries.GetByID(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	b := view.Booking
	if actor.ID != b.RenterID() {
		return nil, errs.ErrBookingNotFound
	}
	if b.IsCancelled() {
		return nil, errs.Validation(errs.ErrBookingInvalid, errs.FieldError{Field: "booking_id", Message: "booking is cancelled"})
	}

	method := b.PaymentMethod()
	result := &CheckoutResult{BookingID: b.ID(), Method: method}
	if method == nil || !method.RequiresRedirect() {
		return result, nil
	}

	period := b.Period()
	url, err := c.gateway.CreateCheckout(ctx, CheckoutRequest{
		BookingID: b.ID(),
		Description: fmt.Sprintf("%s, %s to %s",
			view.VehicleName, interval.FormatDate(period.Start()), interval.FormatDate(period.End())),
		Amount:        b.Charges().GrandTotal,
		CustomerEmail: b.Details().Email,
	})
	if err != nil {
		return nil, errs.Dependency(errs.Mark(err, errs.ErrPaymentProviderFailed))
	}
	result.RedirectURL = url
	return result, nil
}
