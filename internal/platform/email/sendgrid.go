package email

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers maturity notification emails. Implementations must be safe
// for concurrent use; delivery is best effort and never blocks ledger writes.
type Sender interface {
	SendLockinMatured(toEmail, toName, lockinName, principal string) error
}

// SendGridSender sends notification emails through the SendGrid API.
type SendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewSendGridSender creates a SendGrid-backed Sender.
func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

var _ Sender = (*SendGridSender)(nil)

// SendLockinMatured notifies a user that their lock-in has reached maturity.
func (s *SendGridSender) SendLockinMatured(toEmail, toName, lockinName, principal string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, toEmail)

	subject := fmt.Sprintf("Your %s has matured", lockinName)
	plainText := fmt.Sprintf("Your %s with a principal of %s USDT has matured. Add it to your wallet or relock it from your dashboard.", lockinName, principal)
	htmlContent := fmt.Sprintf("<p>Your <strong>%s</strong> with a principal of <strong>%s USDT</strong> has matured.</p><p>Add it to your wallet or relock it from your dashboard.</p>", lockinName, principal)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send maturity email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// NoopSender is used when no SendGrid API key is configured.
type NoopSender struct{}

var _ Sender = (*NoopSender)(nil)

// SendLockinMatured does nothing.
func (NoopSender) SendLockinMatured(toEmail, toName, lockinName, principal string) error {
	return nil
}
