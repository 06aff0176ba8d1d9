// Package mailer provides the outbound email transport. Sends are always
// best-effort from the caller's point of view: workflow mutations dispatch
// them in detached goroutines and only log failures.
package mailer

import (
	"context"
	"fmt"
	"log"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Mailjet sends email through the MailJet API.
type Mailjet struct {
	client *mailjet.Client
	sender string
}

// NewMailjet creates a Mailjet mailer with the given API keys and sender
// address.
func NewMailjet(publicKey, privateKey, sender string) *Mailjet {
	return &Mailjet{
		client: mailjet.NewMailjetClient(publicKey, privateKey),
		sender: sender,
	}
}

// Send delivers one message via MailJet.
func (m *Mailjet) Send(_ context.Context, to, subject, htmlBody string) error {
	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{{
		From:     &mailjet.RecipientV31{Email: m.sender},
		To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: to}},
		Subject:  subject,
		HTMLPart: htmlBody,
	}}}
	if _, err := m.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("could not send mail to %s: %w", to, err)
	}
	return nil
}

// Noop logs instead of sending. Used when no MailJet keys are configured.
type Noop struct{}

// Send logs the message and discards it.
func (Noop) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("mailer disabled, dropping message to %s: %s", to, subject)
	return nil
}
