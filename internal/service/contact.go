package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/repository"
	"github.com/foliokit/folio/internal/validation"
)

// ContactNotifier is told about new contact messages.
type ContactNotifier interface {
	SendContactNotification(ctx context.Context, contact *model.Contact) error
}

// ContactInput is the JSON body of the public contact form.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactService struct {
	repo     repository.ContactRepository
	notifier ContactNotifier
}

func NewContactService(repo repository.ContactRepository, notifier ContactNotifier) *ContactService {
	return &ContactService{
		repo:     repo,
		notifier: notifier,
	}
}

// Submit stores a message from the public form and notifies the owner.
// Notification failures never fail the submission.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*model.Contact, error) {
	contact := &model.Contact{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(strings.ToLower(in.Email)),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: time.Now(),
	}

	if contact.Name == "" || contact.Email == "" || contact.Subject == "" || contact.Message == "" {
		return nil, apperr.Validation("Please provide all fields")
	}

	err := validation.ValidateEmail(contact.Email)
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, err.Error(), err)
	}

	err = s.repo.Create(contact)
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error sending message", fmt.Errorf("failed to create contact: %w", err))
	}

	if s.notifier != nil {
		err = s.notifier.SendContactNotification(ctx, contact)
		if err != nil {
			slog.Warn("failed to send contact notification", "error", err, "contact_id", contact.ID)
		}
	}

	return contact, nil
}

func (s *ContactService) Contacts(read *bool) ([]*model.Contact, error) {
	contacts, err := s.repo.Contacts(read)
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching contact messages", err)
	}
	return contacts, nil
}

func (s *ContactService) ByID(id string) (*model.Contact, error) {
	contact, err := s.repo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, apperr.NotFound("Contact message not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching contact message", err)
	}
	return contact, nil
}

// MarkRead sets the read flag. A nil value leaves it unchanged.
func (s *ContactService) MarkRead(id string, read *bool) (*model.Contact, error) {
	contact, err := s.ByID(id)
	if err != nil {
		return nil, err
	}
	if read == nil {
		return contact, nil
	}

	err = s.repo.SetRead(id, *read)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, apperr.NotFound("Contact message not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error updating contact message", err)
	}

	contact.Read = *read
	return contact, nil
}

func (s *ContactService) Delete(id string) error {
	err := s.repo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return apperr.NotFound("Contact message not found")
		}
		return apperr.E(apperr.KindPersistenceFailure, "Error deleting contact message", err)
	}
	return nil
}
