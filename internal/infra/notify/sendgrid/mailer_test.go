//go:build unit

package sendgrid

import (
	"context"
	"testing"

	"rental-engine/internal/usecase/shared"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent *mail.SGMailV3
	resp *rest.Response
}

func (f *fakeSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = email
	return f.resp, nil
}

func TestMailer_Send(t *testing.T) {
	msg := shared.EmailMessage{
		To:      "renter@example.com",
		ToName:  "Mette Jensen",
		Subject: "Your booking is received",
		Body:    "Hi Mette,\n\nTotal: 1000.00 DKK.\nBooking reference: <abc>",
	}

	t.Run("sends plain text and escaped html", func(t *testing.T) {
		sender := &fakeSender{resp: &rest.Response{StatusCode: 202}}
		m := newMailer(sender, "Rental Bookings", "bookings@example.com")

		require.NoError(t, m.Send(context.Background(), msg))
		require.NotNil(t, sender.sent)
		assert.Equal(t, "bookings@example.com", sender.sent.From.Address)
		assert.Equal(t, "Your booking is received", sender.sent.Subject)
		require.Len(t, sender.sent.Content, 2)
		assert.Equal(t, msg.Body, sender.sent.Content[0].Value)
		assert.Equal(t, "<p>Hi Mette,</p><p>Total: 1000.00 DKK.<br>Booking reference: &lt;abc&gt;</p>", sender.sent.Content[1].Value)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		sender := &fakeSender{resp: &rest.Response{StatusCode: 401, Body: "unauthorized"}}
		m := newMailer(sender, "Rental Bookings", "bookings@example.com")

		err := m.Send(context.Background(), msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}
