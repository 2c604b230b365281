package service

import (
	"fmt"

	"github.com/foliokit/folio/internal/model"
)

func contactNotificationTemplate(contact *model.Contact, appName string) (string, string) {
	subject := fmt.Sprintf("[%s] New message: %s", appName, contact.Subject)
	body := fmt.Sprintf(`You received a new message through the contact form.

From: %s <%s>
Subject: %s

%s

Reply to this email to answer %s directly.`, contact.Name, contact.Email, contact.Subject, contact.Message, contact.Name)

	return subject, body
}
