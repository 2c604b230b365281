package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/foliokit/folio/internal/model"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	notifyTo  string
	isDev     bool
	appName   string
}

func NewEmailService(apiKey, fromEmail, notifyTo, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		notifyTo:  notifyTo,
		isDev:     isDev,
		appName:   appName,
	}
}

// SendContactNotification tells the site owner about a new contact message.
// Replies go straight to the sender.
func (s *EmailService) SendContactNotification(ctx context.Context, contact *model.Contact) error {
	if s.notifyTo == "" {
		slog.Debug("contact notification skipped, no recipient configured", "contact_id", contact.ID)
		return nil
	}

	subject, body := contactNotificationTemplate(contact, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "contact_notification", "to", s.notifyTo, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.notifyTo},
		ReplyTo: contact.Email,
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "contact_notification", "to", s.notifyTo)
	}
	return err
}
