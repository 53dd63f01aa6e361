package sendgrid

import (
	"context"
	"html"
	"strings"

	"rental-engine/internal/pkg/config"
	"rental-engine/internal/pkg/errs"
	"rental-engine/internal/usecase/shared"

	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type Mailer struct {
	client sender
	from   *mail.Email
}

func NewMailer(cfg config.SendGridConfig) *Mailer {
	return newMailer(sg.NewSendClient(cfg.APIKey), cfg.FromName, cfg.FromEmail)
}

func newMailer(client sender, fromName, fromEmail string) *Mailer {
	return &Mailer{client: client, from: mail.NewEmail(fromName, fromEmail)}
}

func (m *Mailer) Send(ctx context.Context, msg shared.EmailMessage) error {
	if msg.To == "" {
		return errs.New("email recipient is required")
	}
	message := mail.NewSingleEmail(m.from, msg.Subject, mail.NewEmail(msg.ToName, msg.To), msg.Body, htmlBody(msg.Body))

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return errs.Wrap(err, "send email")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.Newf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func htmlBody(text string) string {
	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(p), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
