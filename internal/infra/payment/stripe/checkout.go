package stripe

import (
	"context"
	"strings"

	"rental-engine/internal/pkg/config"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/commands"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

type sessionCreator interface {
	New(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
}

// Gateway opens Stripe Checkout sessions for card payments.
type Gateway struct {
	sessions   sessionCreator
	currency   string
	successURL string
	cancelURL  string
}

func NewGateway(cfg config.StripeConfig, server config.ServerConfig) *Gateway {
	client := session.Client{B: stripego.GetBackend(stripego.APIBackend), Key: cfg.SecretKey}
	return newGateway(client, cfg.Currency, server.PublicURL)
}

func newGateway(sessions sessionCreator, currency, publicURL string) *Gateway {
	base := strings.TrimRight(publicURL, "/")
	return &Gateway{
		sessions:   sessions,
		currency:   strings.ToLower(currency),
		successURL: base + "/bookings/{BOOKING_ID}/paid?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  base + "/bookings/{BOOKING_ID}/payment-cancelled",
	}
}

func (g *Gateway) CreateCheckout(ctx context.Context, req commands.CheckoutRequest) (string, error) {
	params := g.params(req)
	params.Context = ctx

	sess, err := g.sessions.New(params)
	if err != nil {
		return "", errs.Wrap(err, "create checkout session")
	}
	if sess.URL == "" {
		return "", errs.Newf("checkout session %s has no URL", sess.ID)
	}
	return sess.URL, nil
}

// params builds one line item for the booking total. The idempotency key makes
// a repeated checkout for the same booking return the same session.
func (g *Gateway) params(req commands.CheckoutRequest) *stripego.CheckoutSessionParams {
	bookingID := req.BookingID.String()
	params := &stripego.CheckoutSessionParams{
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
					Currency: stripego.String(g.currency),
					ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripego.String(req.Description),
					},
					UnitAmount: stripego.Int64(req.Amount.Minor()),
				},
				Quantity: stripego.Int64(1),
			},
		},
		Mode:              stripego.String(string(stripego.CheckoutSessionModePayment)),
		SuccessURL:        stripego.String(strings.ReplaceAll(g.successURL, "{BOOKING_ID}", bookingID)),
		CancelURL:         stripego.String(strings.ReplaceAll(g.cancelURL, "{BOOKING_ID}", bookingID)),
		ClientReferenceID: stripego.String(bookingID),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripego.String(req.CustomerEmail)
	}
	params.AddMetadata("booking_id", bookingID)
	params.SetIdempotencyKey("checkout-" + bookingID)
	return params
}
