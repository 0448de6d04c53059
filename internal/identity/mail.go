package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	resetMailSender  = "Adventure Admin"
	resetMailSubject = "Reset your Adventure Admin password"
)

// ResetMailer delivers password reset links.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// SendGridMailer sends reset links through SendGrid.
type SendGridMailer struct {
	client *sendgrid.Client
	from   string
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (m *SendGridMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	resp, err := m.client.SendWithContext(ctx, resetMessage(m.from, email, link))
	if err != nil {
		return fmt.Errorf("while sending reset mail through SendGrid: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid rejected reset mail: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func resetMessage(from, to, link string) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.From = mail.NewEmail(resetMailSender, from)
	message.Subject = resetMailSubject

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	message.AddPersonalizations(personalization)

	text := fmt.Sprintf("Follow this link to reset your password:\n\n%s\n\nIf you did not ask for a reset, ignore this email.\n", link)
	message.AddContent(mail.NewContent("text/plain", text))
	return message
}
